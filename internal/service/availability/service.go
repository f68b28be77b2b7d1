package availability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"vietchef/backend/internal/metrics"
	"vietchef/backend/internal/store"
)

var tracer = otel.Tracer("vietchef/backend/internal/service/availability")

// errNoChef reports a nil chef id the same way as an unknown chef.
var errNoChef = fmt.Errorf("chef_id is required: %w", store.ErrNotFound)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// ExternalServiceError reports a failed distance or cook-time lookup.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s lookup failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// ZoneResolver maps an address to an IANA zone id. It never fails.
type ZoneResolver interface {
	Resolve(ctx context.Context, address string) string
}

type DistanceCalculator interface {
	DistanceAndDuration(ctx context.Context, origin, destination string) (distanceKm, durationHours float64, err error)
}

// CookTimeCalculator returns cooking durations in hours.
type CookTimeCalculator interface {
	TotalCookTime(ctx context.Context, dishIDs []uuid.UUID, guests int) (float64, error)
	TotalCookTimeFromMenu(ctx context.Context, menuID uuid.UUID, extraDishIDs []uuid.UUID, guests int) (float64, error)
	MaxCookTime(ctx context.Context, chefID uuid.UUID, maxDishes, guests int) (float64, error)
}

type Config struct {
	MaxRangeDays        int
	ConflictHorizonDays int
	Concurrency         int
}

func DefaultConfig() Config {
	return Config{
		MaxRangeDays:        60,
		ConflictHorizonDays: 60,
		Concurrency:         4,
	}
}

type Deps struct {
	Zones    ZoneResolver
	Distance DistanceCalculator
	CookTime CookTimeCalculator
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Now      func() time.Time
}

type Service struct {
	repo     store.AvailabilityReader
	zones    ZoneResolver
	distance DistanceCalculator
	cook     CookTimeCalculator
	metrics  *metrics.Metrics
	log      *slog.Logger
	now      func() time.Time
	cfg      Config
}

func NewService(repo store.AvailabilityReader, deps Deps, cfg Config) *Service {
	def := DefaultConfig()
	if cfg.MaxRangeDays <= 0 {
		cfg.MaxRangeDays = def.MaxRangeDays
	}
	if cfg.ConflictHorizonDays <= 0 {
		cfg.ConflictHorizonDays = def.ConflictHorizonDays
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{
		repo:     repo,
		zones:    deps.Zones,
		distance: deps.Distance,
		cook:     deps.CookTime,
		metrics:  deps.Metrics,
		log:      deps.Logger.With(slog.String("component", "availability")),
		now:      deps.Now,
		cfg:      cfg,
	}
}
