package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vietchef/backend/internal/domain"
)

func (s *Service) scheduleBlocks(ctx context.Context, chefID uuid.UUID, date time.Time) ([]domain.ScheduleBlock, error) {
	blocks, err := s.repo.ActiveScheduleBlocks(ctx, chefID, domain.WeekdayOf(date))
	if err != nil {
		return nil, fmt.Errorf("load schedule blocks: %w", err)
	}
	out := blocks[:0:0]
	for _, b := range blocks {
		if b.Active && b.StartTime.Before(b.EndTime) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Service) blockedIntervals(ctx context.Context, chefID uuid.UUID, date time.Time) ([]domain.BlockedInterval, error) {
	blocked, err := s.repo.BlockedIntervals(ctx, chefID, date)
	if err != nil {
		return nil, fmt.Errorf("load blocked intervals: %w", err)
	}
	out := blocked[:0:0]
	for _, b := range blocked {
		if b.Active {
			out = append(out, b)
		}
	}
	return out, nil
}

// activeSessions applies the status filter again even when the store already did.
func (s *Service) activeSessions(ctx context.Context, chefID uuid.UUID, date time.Time) ([]domain.BookingSession, error) {
	sessions, err := s.repo.ActiveBookingSessions(ctx, chefID, date)
	if err != nil {
		return nil, fmt.Errorf("load booking sessions: %w", err)
	}
	out := sessions[:0:0]
	for _, sess := range sessions {
		if sess.IsActive() {
			out = append(out, sess)
		}
	}
	return out, nil
}

// dayGaps is the resolved state of one date: its schedule blocks and the free gaps inside them.
type dayGaps struct {
	date   time.Time
	blocks []domain.ScheduleBlock
	gaps   []Gap
}

func (s *Service) gapsForDate(ctx context.Context, chefID uuid.UUID, date time.Time) (dayGaps, error) {
	day := dayGaps{date: date}

	blocks, err := s.scheduleBlocks(ctx, chefID, date)
	if err != nil {
		return day, err
	}
	day.blocks = blocks
	if len(blocks) == 0 {
		return day, nil
	}

	blocked, err := s.blockedIntervals(ctx, chefID, date)
	if err != nil {
		return day, err
	}
	sessions, err := s.activeSessions(ctx, chefID, date)
	if err != nil {
		return day, err
	}

	for _, b := range blocks {
		day.gaps = append(day.gaps, ComputeGaps(date, b, blocked, sessions)...)
	}
	return day, nil
}
