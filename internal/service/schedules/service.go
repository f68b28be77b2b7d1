package schedules

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"vietchef/backend/internal/domain"
	"vietchef/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// ConflictChecker answers whether a window collides with existing bookings.
type ConflictChecker interface {
	HasConflict(ctx context.Context, chefID uuid.UUID, date time.Time, start, end domain.TimeOfDay) (bool, error)
	HasConflictOnWeekday(ctx context.Context, chefID uuid.UUID, weekday int, start, end domain.TimeOfDay, horizonDays int) (bool, error)
	HasActiveBookingsOnWeekday(ctx context.Context, chefID uuid.UUID, weekday int, horizonDays int) (bool, error)
}

type Service struct {
	repo      store.ScheduleRepository
	conflicts ConflictChecker
	log       *slog.Logger
	now       func() time.Time
}

func NewService(repo store.ScheduleRepository, conflicts ConflictChecker, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:      repo,
		conflicts: conflicts,
		log:       log.With(slog.String("component", "schedules")),
		now:       time.Now,
	}
}

func (s *Service) CreateScheduleBlock(ctx context.Context, chefID uuid.UUID, weekday int, start, end domain.TimeOfDay) (domain.ScheduleBlock, error) {
	if chefID == uuid.Nil {
		return domain.ScheduleBlock{}, validationError("chef_id is required")
	}
	if !domain.ValidWeekday(weekday) {
		return domain.ScheduleBlock{}, validationError("weekday must be between 0 (Monday) and 6 (Sunday)")
	}
	if err := validateTimes(start, end); err != nil {
		return domain.ScheduleBlock{}, err
	}

	var out domain.ScheduleBlock
	err := s.repo.InChefTransaction(ctx, chefID, func(ctx context.Context, tx store.ScheduleTx) error {
		existing, err := tx.ListScheduleBlocks(ctx, chefID, weekday)
		if err != nil {
			return err
		}
		if overlapsAny(existing, uuid.Nil, start, end) {
			return store.ErrConflict
		}
		b, err := tx.InsertScheduleBlock(ctx, domain.ScheduleBlock{
			ChefID:    chefID,
			Weekday:   weekday,
			StartTime: start,
			EndTime:   end,
			Active:    true,
		})
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return domain.ScheduleBlock{}, err
	}
	return out, nil
}

// UpdateScheduleBlock changes a block's hours. Hours the block gives up must not
// hold any upcoming booking on that weekday.
func (s *Service) UpdateScheduleBlock(ctx context.Context, chefID, blockID uuid.UUID, start, end domain.TimeOfDay) (domain.ScheduleBlock, error) {
	if chefID == uuid.Nil {
		return domain.ScheduleBlock{}, validationError("chef_id is required")
	}
	if blockID == uuid.Nil {
		return domain.ScheduleBlock{}, validationError("block_id is required")
	}
	if err := validateTimes(start, end); err != nil {
		return domain.ScheduleBlock{}, err
	}

	var out domain.ScheduleBlock
	err := s.repo.InChefTransaction(ctx, chefID, func(ctx context.Context, tx store.ScheduleTx) error {
		current, err := tx.GetScheduleBlock(ctx, chefID, blockID)
		if err != nil {
			return err
		}

		siblings, err := tx.ListScheduleBlocks(ctx, chefID, current.Weekday)
		if err != nil {
			return err
		}
		if overlapsAny(siblings, current.ID, start, end) {
			return store.ErrConflict
		}

		for _, released := range releasedRanges(current.StartTime, current.EndTime, start, end) {
			conflict, err := s.conflicts.HasConflictOnWeekday(ctx, chefID, current.Weekday, released[0], released[1], 0)
			if err != nil {
				return err
			}
			if conflict {
				s.log.InfoContext(ctx, "schedule update would orphan bookings",
					slog.String("chef_id", chefID.String()),
					slog.String("block_id", blockID.String()),
					slog.String("released_start", released[0].String()),
					slog.String("released_end", released[1].String()),
				)
				return store.ErrConflict
			}
		}

		current.StartTime = start
		current.EndTime = end
		b, err := tx.UpdateScheduleBlock(ctx, current)
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return domain.ScheduleBlock{}, err
	}
	return out, nil
}

// DeleteScheduleBlock soft-deletes a block unless bookings are still expected on its weekday.
func (s *Service) DeleteScheduleBlock(ctx context.Context, chefID, blockID uuid.UUID) error {
	if chefID == uuid.Nil {
		return validationError("chef_id is required")
	}
	if blockID == uuid.Nil {
		return validationError("block_id is required")
	}

	return s.repo.InChefTransaction(ctx, chefID, func(ctx context.Context, tx store.ScheduleTx) error {
		current, err := tx.GetScheduleBlock(ctx, chefID, blockID)
		if err != nil {
			return err
		}
		busy, err := s.conflicts.HasActiveBookingsOnWeekday(ctx, chefID, current.Weekday, 0)
		if err != nil {
			return err
		}
		if busy {
			return store.ErrConflict
		}
		return tx.DeactivateScheduleBlock(ctx, chefID, blockID)
	})
}

func (s *Service) BlockDate(ctx context.Context, chefID uuid.UUID, date time.Time, start, end domain.TimeOfDay, reason string) (domain.BlockedInterval, error) {
	if chefID == uuid.Nil {
		return domain.BlockedInterval{}, validationError("chef_id is required")
	}
	if date.IsZero() {
		return domain.BlockedInterval{}, validationError("date is required")
	}
	date = domain.DateOf(date)
	if date.Before(domain.DateOf(s.now())) {
		return domain.BlockedInterval{}, validationError("date must not be in the past")
	}
	if err := validateTimes(start, end); err != nil {
		return domain.BlockedInterval{}, err
	}
	if start.Before(domain.BlockedWindowOpens) || end.After(domain.BlockedWindowCloses) {
		return domain.BlockedInterval{}, validationError(fmt.Sprintf("blocked time must be within %s and %s",
			domain.BlockedWindowOpens, domain.BlockedWindowCloses))
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > 500 {
		return domain.BlockedInterval{}, validationError("reason too long")
	}

	var out domain.BlockedInterval
	err := s.repo.InChefTransaction(ctx, chefID, func(ctx context.Context, tx store.ScheduleTx) error {
		conflict, err := s.conflicts.HasConflict(ctx, chefID, date, start, end)
		if err != nil {
			return err
		}
		if conflict {
			return store.ErrConflict
		}
		b, err := tx.InsertBlockedInterval(ctx, domain.BlockedInterval{
			ChefID:    chefID,
			Date:      date,
			StartTime: start,
			EndTime:   end,
			Reason:    reason,
			Active:    true,
		})
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return domain.BlockedInterval{}, err
	}
	return out, nil
}

func (s *Service) UnblockDate(ctx context.Context, chefID, blockedID uuid.UUID) error {
	if chefID == uuid.Nil {
		return validationError("chef_id is required")
	}
	if blockedID == uuid.Nil {
		return validationError("blocked_id is required")
	}
	return s.repo.InChefTransaction(ctx, chefID, func(ctx context.Context, tx store.ScheduleTx) error {
		if _, err := tx.GetBlockedInterval(ctx, chefID, blockedID); err != nil {
			return err
		}
		return tx.DeactivateBlockedInterval(ctx, chefID, blockedID)
	})
}

func validateTimes(start, end domain.TimeOfDay) error {
	if !start.Valid() || !end.Valid() {
		return validationError("times must be within a single day")
	}
	if !start.Before(end) {
		return validationError("end_time must be after start_time")
	}
	return nil
}

func overlapsAny(blocks []domain.ScheduleBlock, skip uuid.UUID, start, end domain.TimeOfDay) bool {
	for _, b := range blocks {
		if b.ID == skip || !b.Active {
			continue
		}
		if start < b.EndTime && end > b.StartTime {
			return true
		}
	}
	return false
}

// releasedRanges returns the parts of [oldStart, oldEnd) not covered by [newStart, newEnd).
func releasedRanges(oldStart, oldEnd, newStart, newEnd domain.TimeOfDay) [][2]domain.TimeOfDay {
	if newEnd <= oldStart || newStart >= oldEnd {
		return [][2]domain.TimeOfDay{{oldStart, oldEnd}}
	}
	var out [][2]domain.TimeOfDay
	if newStart > oldStart {
		out = append(out, [2]domain.TimeOfDay{oldStart, newStart})
	}
	if newEnd < oldEnd {
		out = append(out, [2]domain.TimeOfDay{newEnd, oldEnd})
	}
	return out
}
