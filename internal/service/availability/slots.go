package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"vietchef/backend/internal/domain"
)

// FindSlots returns the chef's free windows for every date in [startDate, endDate].
func (s *Service) FindSlots(ctx context.Context, chefID uuid.UUID, startDate, endDate time.Time) ([]domain.AvailableSlot, error) {
	ctx, span := tracer.Start(ctx, "availability.FindSlots", trace.WithAttributes(
		attribute.String("chef_id", chefID.String()),
		attribute.String("start_date", startDate.Format(domain.DateLayout)),
		attribute.String("end_date", endDate.Format(domain.DateLayout)),
	))
	defer span.End()

	slots, err := s.findSlots(ctx, chefID, startDate, endDate)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveSlots("find_slots", len(slots))
	return slots, nil
}

func (s *Service) FindSlotsForDate(ctx context.Context, chefID uuid.UUID, date time.Time) ([]domain.AvailableSlot, error) {
	ctx, span := tracer.Start(ctx, "availability.FindSlotsForDate", trace.WithAttributes(
		attribute.String("chef_id", chefID.String()),
		attribute.String("date", date.Format(domain.DateLayout)),
	))
	defer span.End()

	slots, err := s.findSlots(ctx, chefID, date, date)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveSlots("find_slots_for_date", len(slots))
	return slots, nil
}

func (s *Service) findSlots(ctx context.Context, chefID uuid.UUID, startDate, endDate time.Time) ([]domain.AvailableSlot, error) {
	if chefID == uuid.Nil {
		return nil, errNoChef
	}
	dates, err := s.dateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	chef, err := s.repo.ChefByID(ctx, chefID)
	if err != nil {
		return nil, fmt.Errorf("load chef: %w", err)
	}

	days, err := s.resolveDates(ctx, chefID, dates)
	if err != nil {
		return nil, err
	}

	var slots []domain.AvailableSlot
	for _, day := range days {
		sortGaps(day.gaps)
		for _, g := range day.gaps {
			slot := g.slot(chef)
			if !slot.StartTime.Before(slot.EndTime) || slot.DurationMinutes <= 0 {
				continue
			}
			slots = append(slots, slot)
		}
	}
	sortSlots(slots)
	return slots, nil
}

// IsSlotAvailable reports whether [start, end) on date lies inside a schedule block,
// touches no blocked interval and does not conflict with an active booking.
func (s *Service) IsSlotAvailable(ctx context.Context, chefID uuid.UUID, date time.Time, start, end domain.TimeOfDay) (bool, error) {
	ctx, span := tracer.Start(ctx, "availability.IsSlotAvailable", trace.WithAttributes(
		attribute.String("chef_id", chefID.String()),
		attribute.String("date", date.Format(domain.DateLayout)),
	))
	defer span.End()

	if err := validateWindow(chefID, start, end); err != nil {
		return false, err
	}
	date = domain.DateOf(date)
	if date.Before(s.today()) {
		return false, validationError("date must not be in the past")
	}
	if _, err := s.repo.ChefByID(ctx, chefID); err != nil {
		return false, fmt.Errorf("load chef: %w", err)
	}

	candidate := domain.NewInterval(date, start, end)

	blocks, err := s.scheduleBlocks(ctx, chefID, date)
	if err != nil {
		return false, err
	}
	inside := false
	for _, b := range blocks {
		if domain.Contains(b.IntervalOn(date), candidate) {
			inside = true
			break
		}
	}
	if !inside {
		return false, nil
	}

	blocked, err := s.blockedIntervals(ctx, chefID, date)
	if err != nil {
		return false, err
	}
	for _, b := range blocked {
		if domain.NewInterval(date, b.StartTime, b.EndTime).Overlaps(candidate) {
			return false, nil
		}
	}

	conflict, err := s.hasConflict(ctx, chefID, date, start, end)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

func (s *Service) dateRange(startDate, endDate time.Time) ([]time.Time, error) {
	if startDate.IsZero() || endDate.IsZero() {
		return nil, validationError("start_date and end_date are required")
	}
	start := domain.DateOf(startDate)
	end := domain.DateOf(endDate)
	if start.Before(s.today()) {
		return nil, validationError("start_date must not be in the past")
	}
	if end.Before(start) {
		return nil, validationError("end_date must not be before start_date")
	}
	if end.Sub(start) > time.Duration(s.cfg.MaxRangeDays)*24*time.Hour {
		return nil, validationError(fmt.Sprintf("date range must not exceed %d days", s.cfg.MaxRangeDays))
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates, nil
}

// resolveDates computes gaps for each date concurrently; results keep the input order.
func (s *Service) resolveDates(ctx context.Context, chefID uuid.UUID, dates []time.Time) ([]dayGaps, error) {
	days := make([]dayGaps, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, date := range dates {
		g.Go(func() error {
			day, err := s.gapsForDate(gctx, chefID, date)
			if err != nil {
				return err
			}
			days[i] = day
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return days, nil
}

func sortSlots(slots []domain.AvailableSlot) {
	sort.SliceStable(slots, func(i, j int) bool { return domain.SlotLess(slots[i], slots[j]) })
}
