package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"googlemaps.github.io/maps"
)

var ErrNoResults = errors.New("geo: no results")

type Config struct {
	APIKey    string
	RateLimit int
	BaseURL   string
}

// Client adapts the Google Maps web services to the geocoding, timezone and
// travel-time lookups used by availability.
type Client struct {
	maps *maps.Client
	log  *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("geo: api key is required")
	}
	if log == nil {
		log = slog.Default()
	}
	opts := []maps.ClientOption{maps.WithAPIKey(cfg.APIKey)}
	if cfg.RateLimit > 0 {
		opts = append(opts, maps.WithRateLimit(cfg.RateLimit))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}
	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("geo: new maps client: %w", err)
	}
	return &Client{
		maps: c,
		log:  log.With(slog.String("component", "geo")),
	}, nil
}

func (c *Client) Geocode(ctx context.Context, address string) (float64, float64, error) {
	results, err := c.maps.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("geocode %q: %w", address, ErrNoResults)
	}
	loc := results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

func (c *Client) TimezoneForCoordinates(ctx context.Context, lat, lng float64, at time.Time) (string, error) {
	res, err := c.maps.Timezone(ctx, &maps.TimezoneRequest{
		Location:  &maps.LatLng{Lat: lat, Lng: lng},
		Timestamp: at,
	})
	if err != nil {
		return "", fmt.Errorf("timezone (%f,%f): %w", lat, lng, err)
	}
	if res == nil || res.TimeZoneID == "" {
		return "", fmt.Errorf("timezone (%f,%f): %w", lat, lng, ErrNoResults)
	}
	return res.TimeZoneID, nil
}

// DistanceAndDuration returns the driving distance in kilometres and the
// travel time in hours between two addresses.
func (c *Client) DistanceAndDuration(ctx context.Context, origin, destination string) (float64, float64, error) {
	res, err := c.maps.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Mode:         maps.TravelModeDriving,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("distance matrix: %w", err)
	}
	if len(res.Rows) == 0 || len(res.Rows[0].Elements) == 0 {
		return 0, 0, fmt.Errorf("distance matrix: %w", ErrNoResults)
	}
	el := res.Rows[0].Elements[0]
	if el.Status != "OK" {
		c.log.WarnContext(ctx, "route not found", slog.String("status", el.Status))
		return 0, 0, fmt.Errorf("distance matrix: element status %s", el.Status)
	}
	return float64(el.Distance.Meters) / 1000, el.Duration.Hours(), nil
}
