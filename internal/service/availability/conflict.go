package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vietchef/backend/internal/domain"
)

// HasConflict reports whether [start, end) on date overlaps the travel-to-serve
// window of any active booking session. The post-serve buffer is not applied here.
func (s *Service) HasConflict(ctx context.Context, chefID uuid.UUID, date time.Time, start, end domain.TimeOfDay) (bool, error) {
	ctx, span := tracer.Start(ctx, "availability.HasConflict", trace.WithAttributes(
		attribute.String("chef_id", chefID.String()),
		attribute.String("date", date.Format(domain.DateLayout)),
	))
	defer span.End()

	if err := validateWindow(chefID, start, end); err != nil {
		return false, err
	}
	return s.hasConflict(ctx, chefID, domain.DateOf(date), start, end)
}

func (s *Service) hasConflict(ctx context.Context, chefID uuid.UUID, date time.Time, start, end domain.TimeOfDay) (bool, error) {
	sessions, err := s.activeSessions(ctx, chefID, date)
	if err != nil {
		return false, err
	}
	candidate := domain.NewInterval(date, start, end)
	for _, sess := range sessions {
		if candidate.Overlaps(sess.TravelToServeOn(date)) {
			return true, nil
		}
	}
	return false, nil
}

// HasConflictOnWeekday checks every date in [today, today+horizonDays] falling on weekday.
// A non-positive horizon uses the configured default.
func (s *Service) HasConflictOnWeekday(ctx context.Context, chefID uuid.UUID, weekday int, start, end domain.TimeOfDay, horizonDays int) (bool, error) {
	ctx, span := tracer.Start(ctx, "availability.HasConflictOnWeekday", trace.WithAttributes(
		attribute.String("chef_id", chefID.String()),
		attribute.Int("weekday", weekday),
	))
	defer span.End()

	if err := validateWindow(chefID, start, end); err != nil {
		return false, err
	}
	if !domain.ValidWeekday(weekday) {
		return false, validationError("weekday must be between 0 (Monday) and 6 (Sunday)")
	}

	for _, date := range s.weekdayDates(weekday, horizonDays) {
		conflict, err := s.hasConflict(ctx, chefID, date, start, end)
		if err != nil {
			return false, err
		}
		if conflict {
			return true, nil
		}
	}
	return false, nil
}

// HasActiveBookingsOnWeekday reports whether any active session falls on weekday within the horizon.
func (s *Service) HasActiveBookingsOnWeekday(ctx context.Context, chefID uuid.UUID, weekday int, horizonDays int) (bool, error) {
	ctx, span := tracer.Start(ctx, "availability.HasActiveBookingsOnWeekday", trace.WithAttributes(
		attribute.String("chef_id", chefID.String()),
		attribute.Int("weekday", weekday),
	))
	defer span.End()

	if chefID == uuid.Nil {
		return false, errNoChef
	}
	if !domain.ValidWeekday(weekday) {
		return false, validationError("weekday must be between 0 (Monday) and 6 (Sunday)")
	}

	for _, date := range s.weekdayDates(weekday, horizonDays) {
		sessions, err := s.activeSessions(ctx, chefID, date)
		if err != nil {
			return false, err
		}
		if len(sessions) > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) weekdayDates(weekday, horizonDays int) []time.Time {
	if horizonDays <= 0 {
		horizonDays = s.cfg.ConflictHorizonDays
	}
	today := s.today()
	var dates []time.Time
	for i := 0; i <= horizonDays; i++ {
		d := today.AddDate(0, 0, i)
		if domain.WeekdayOf(d) == weekday {
			dates = append(dates, d)
		}
	}
	return dates
}

func (s *Service) today() time.Time {
	return domain.DateOf(s.now())
}

func validateWindow(chefID uuid.UUID, start, end domain.TimeOfDay) error {
	if chefID == uuid.Nil {
		return errNoChef
	}
	if !start.Valid() || !end.Valid() {
		return validationError("times must be within a single day")
	}
	if !start.Before(end) {
		return validationError("end_time must be after start_time")
	}
	return nil
}
