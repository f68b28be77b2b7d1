package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vietchef/backend/internal/domain"
)

// AvailabilityReader is the read side the availability engine resolves schedules from.
type AvailabilityReader interface {
	ChefByID(ctx context.Context, chefID uuid.UUID) (domain.Chef, error)
	ActiveScheduleBlocks(ctx context.Context, chefID uuid.UUID, weekday int) ([]domain.ScheduleBlock, error)
	BlockedIntervals(ctx context.Context, chefID uuid.UUID, date time.Time) ([]domain.BlockedInterval, error)
	ActiveBookingSessions(ctx context.Context, chefID uuid.UUID, date time.Time) ([]domain.BookingSession, error)
}
