package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vietchef/backend/internal/domain"
)

type ScheduleRepository interface {
	InChefTransaction(ctx context.Context, chefID uuid.UUID, fn func(ctx context.Context, tx ScheduleTx) error) error
}

type ScheduleTx interface {
	ListScheduleBlocks(ctx context.Context, chefID uuid.UUID, weekday int) ([]domain.ScheduleBlock, error)
	GetScheduleBlock(ctx context.Context, chefID, blockID uuid.UUID) (domain.ScheduleBlock, error)
	InsertScheduleBlock(ctx context.Context, block domain.ScheduleBlock) (domain.ScheduleBlock, error)
	UpdateScheduleBlock(ctx context.Context, block domain.ScheduleBlock) (domain.ScheduleBlock, error)
	DeactivateScheduleBlock(ctx context.Context, chefID, blockID uuid.UUID) error

	GetBlockedInterval(ctx context.Context, chefID, blockedID uuid.UUID) (domain.BlockedInterval, error)
	ListBlockedIntervals(ctx context.Context, chefID uuid.UUID, date time.Time) ([]domain.BlockedInterval, error)
	InsertBlockedInterval(ctx context.Context, blocked domain.BlockedInterval) (domain.BlockedInterval, error)
	DeactivateBlockedInterval(ctx context.Context, chefID, blockedID uuid.UUID) error
}
