package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"vietchef/backend/internal/domain"
)

type scheduleTx struct {
	tx bun.Tx
}

func (r scheduleTx) ListScheduleBlocks(ctx context.Context, chefID uuid.UUID, weekday int) ([]domain.ScheduleBlock, error) {
	return listScheduleBlocks(ctx, r.tx, chefID, weekday)
}

func (r scheduleTx) GetScheduleBlock(ctx context.Context, chefID, blockID uuid.UUID) (domain.ScheduleBlock, error) {
	var b domain.ScheduleBlock
	err := r.tx.NewSelect().
		Model(&b).
		Where("cs.id = ?", blockID).
		Where("cs.chef_id = ?", chefID).
		Where("cs.is_active = true").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.ScheduleBlock{}, notFoundOr(err)
	}
	return b, nil
}

func (r scheduleTx) InsertScheduleBlock(ctx context.Context, block domain.ScheduleBlock) (domain.ScheduleBlock, error) {
	m := domain.ScheduleBlock{
		ID:        block.ID,
		ChefID:    block.ChefID,
		Weekday:   block.Weekday,
		StartTime: block.StartTime,
		EndTime:   block.EndTime,
		Active:    true,
	}
	if _, err := r.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.ScheduleBlock{}, mapWriteError(err)
	}
	return m, nil
}

func (r scheduleTx) UpdateScheduleBlock(ctx context.Context, block domain.ScheduleBlock) (domain.ScheduleBlock, error) {
	m := block
	res, err := r.tx.NewUpdate().
		Model(&m).
		Column("start_time", "end_time", "updated_at").
		Where("id = ?", block.ID).
		Where("chef_id = ?", block.ChefID).
		Where("is_active = true").
		Exec(ctx)
	if err != nil {
		return domain.ScheduleBlock{}, mapWriteError(err)
	}
	if err := affectedOrNotFound(res); err != nil {
		return domain.ScheduleBlock{}, err
	}
	return m, nil
}

func (r scheduleTx) DeactivateScheduleBlock(ctx context.Context, chefID, blockID uuid.UUID) error {
	res, err := r.tx.NewUpdate().
		Model((*domain.ScheduleBlock)(nil)).
		Set("is_active = false").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", blockID).
		Where("chef_id = ?", chefID).
		Where("is_active = true").
		Exec(ctx)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r scheduleTx) GetBlockedInterval(ctx context.Context, chefID, blockedID uuid.UUID) (domain.BlockedInterval, error) {
	var b domain.BlockedInterval
	err := r.tx.NewSelect().
		Model(&b).
		Where("cbd.id = ?", blockedID).
		Where("cbd.chef_id = ?", chefID).
		Where("cbd.is_active = true").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.BlockedInterval{}, notFoundOr(err)
	}
	return b, nil
}

func (r scheduleTx) ListBlockedIntervals(ctx context.Context, chefID uuid.UUID, date time.Time) ([]domain.BlockedInterval, error) {
	return listBlockedIntervals(ctx, r.tx, chefID, date)
}

func (r scheduleTx) InsertBlockedInterval(ctx context.Context, blocked domain.BlockedInterval) (domain.BlockedInterval, error) {
	m := domain.BlockedInterval{
		ID:        blocked.ID,
		ChefID:    blocked.ChefID,
		Date:      domain.DateOf(blocked.Date),
		StartTime: blocked.StartTime,
		EndTime:   blocked.EndTime,
		Reason:    blocked.Reason,
		Active:    true,
	}
	if _, err := r.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.BlockedInterval{}, mapWriteError(err)
	}
	return m, nil
}

func (r scheduleTx) DeactivateBlockedInterval(ctx context.Context, chefID, blockedID uuid.UUID) error {
	res, err := r.tx.NewUpdate().
		Model((*domain.BlockedInterval)(nil)).
		Set("is_active = false").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", blockedID).
		Where("chef_id = ?", chefID).
		Where("is_active = true").
		Exec(ctx)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
