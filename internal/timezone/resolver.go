package timezone

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"vietchef/backend/internal/metrics"
)

const (
	DefaultFallbackZone  = "Local"
	DefaultLookupTimeout = 10 * time.Second
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

type ZoneLookup interface {
	TimezoneForCoordinates(ctx context.Context, lat, lng float64, at time.Time) (string, error)
}

// Resolver maps addresses to IANA zone ids. Lookups that fail resolve to the
// fallback zone and are not cached.
type Resolver struct {
	geocoder Geocoder
	zones    ZoneLookup
	cache    Cache
	fallback string
	timeout  time.Duration
	group    singleflight.Group
	log      *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(*Resolver)

func WithFallbackZone(zone string) Option {
	return func(r *Resolver) {
		if strings.TrimSpace(zone) != "" {
			r.fallback = zone
		}
	}
}

// WithLookupTimeout bounds the shared geocode and zone lookup for one address.
func WithLookupTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

func NewResolver(geocoder Geocoder, zones ZoneLookup, cache Cache, opts ...Option) *Resolver {
	r := &Resolver{
		geocoder: geocoder,
		zones:    zones,
		cache:    cache,
		fallback: DefaultFallbackZone,
		timeout:  DefaultLookupTimeout,
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewMemoryCache(1024, 72*time.Hour)
	}
	r.log = r.log.With(slog.String("component", "timezone"))
	return r
}

// Resolve never fails; the fallback zone is returned when the address cannot be resolved.
func (r *Resolver) Resolve(ctx context.Context, address string) string {
	if strings.TrimSpace(address) == "" {
		return r.fallback
	}
	if zone, ok := r.cache.Get(ctx, address); ok {
		return zone
	}

	// The shared lookup is detached from the caller's cancellation.
	ch := r.group.DoChan(address, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		zone, err := r.lookup(lookupCtx, address)
		if err != nil {
			r.log.WarnContext(ctx, "timezone lookup failed, using fallback zone",
				slog.String("fallback", r.fallback),
				slog.Any("err", err),
			)
			return r.fallback, nil
		}
		r.cache.Set(lookupCtx, address, zone)
		return zone, nil
	})

	select {
	case res := <-ch:
		return res.Val.(string)
	case <-ctx.Done():
		return r.fallback
	}
}

func (r *Resolver) lookup(ctx context.Context, address string) (string, error) {
	lat, lng, err := r.geocoder.Geocode(ctx, address)
	if err != nil {
		r.metrics.ExternalFailure("geocode")
		return "", fmt.Errorf("geocode: %w", err)
	}
	zone, err := r.zones.TimezoneForCoordinates(ctx, lat, lng, r.now())
	if err != nil {
		r.metrics.ExternalFailure("timezone")
		return "", fmt.Errorf("timezone for coordinates: %w", err)
	}
	if _, err := loadLocation(zone); err != nil {
		return "", fmt.Errorf("unknown zone %q: %w", zone, err)
	}
	return zone, nil
}
