package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"vietchef/backend/internal/domain"
	"vietchef/backend/internal/store"
)

type AvailabilityRepo struct {
	db *bun.DB
}

func NewAvailabilityRepo(db *bun.DB) *AvailabilityRepo {
	return &AvailabilityRepo{db: db}
}

func (r *AvailabilityRepo) ChefByID(ctx context.Context, chefID uuid.UUID) (domain.Chef, error) {
	var chef domain.Chef
	err := r.db.NewSelect().
		Model(&chef).
		Where("c.id = ?", chefID).
		Where("c.is_deleted = false").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Chef{}, notFoundOr(err)
	}
	return chef, nil
}

func (r *AvailabilityRepo) ActiveScheduleBlocks(ctx context.Context, chefID uuid.UUID, weekday int) ([]domain.ScheduleBlock, error) {
	return listScheduleBlocks(ctx, r.db, chefID, weekday)
}

func (r *AvailabilityRepo) BlockedIntervals(ctx context.Context, chefID uuid.UUID, date time.Time) ([]domain.BlockedInterval, error) {
	return listBlockedIntervals(ctx, r.db, chefID, date)
}

func (r *AvailabilityRepo) ActiveBookingSessions(ctx context.Context, chefID uuid.UUID, date time.Time) ([]domain.BookingSession, error) {
	var rows []domain.BookingSession
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Booking").
		Where("booking.chef_id = ?", chefID).
		Where("bd.session_date = ?::date", date.Format(domain.DateLayout)).
		Where("bd.is_deleted = false").
		Where("booking.is_deleted = false").
		Where("bd.status NOT IN (?)", bun.In(domain.InactiveStatuses)).
		Where("booking.status NOT IN (?)", bun.In(domain.InactiveStatuses)).
		OrderExpr("bd.time_begin_travel ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// InChefTransaction serializes schedule mutations per chef with a transaction-scoped advisory lock.
func (r *AvailabilityRepo) InChefTransaction(ctx context.Context, chefID uuid.UUID, fn func(ctx context.Context, tx store.ScheduleTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockChefSchedule(ctx, tx, chefID); err != nil {
			return err
		}
		return fn(ctx, scheduleTx{tx: tx})
	})
}

func lockChefSchedule(ctx context.Context, tx bun.Tx, chefID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", "chef_schedule:"+chefID.String()).Exec(ctx)
	return err
}

func listScheduleBlocks(ctx context.Context, db bun.IDB, chefID uuid.UUID, weekday int) ([]domain.ScheduleBlock, error) {
	var rows []domain.ScheduleBlock
	err := db.NewSelect().
		Model(&rows).
		Where("cs.chef_id = ?", chefID).
		Where("cs.day_of_week = ?", weekday).
		Where("cs.is_active = true").
		OrderExpr("cs.start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func listBlockedIntervals(ctx context.Context, db bun.IDB, chefID uuid.UUID, date time.Time) ([]domain.BlockedInterval, error) {
	var rows []domain.BlockedInterval
	err := db.NewSelect().
		Model(&rows).
		Where("cbd.chef_id = ?", chefID).
		Where("cbd.blocked_date = ?::date", date.Format(domain.DateLayout)).
		Where("cbd.is_active = true").
		OrderExpr("cbd.start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
