package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"vietchef/backend/internal/domain"
	"vietchef/backend/internal/store"
	"vietchef/backend/internal/timezone"
)

// CustomerSlotRequest selects a date and what will be cooked on it.
// MenuID wins over DishIDs; with neither, the chef's longest dishes are assumed.
type CustomerSlotRequest struct {
	Date    time.Time
	MenuID  *uuid.UUID
	DishIDs []uuid.UUID
}

type CustomerSlotsInput struct {
	ChefID           uuid.UUID
	Requests         []CustomerSlotRequest
	CustomerLocation string
	GuestCount       int
	MaxDishesPerMeal int
}

// FindCustomerSlots returns lead-time adjusted slots expressed in the customer's timezone.
func (s *Service) FindCustomerSlots(ctx context.Context, in CustomerSlotsInput) ([]domain.AvailableSlot, error) {
	ctx, span := tracer.Start(ctx, "availability.FindCustomerSlots", trace.WithAttributes(
		attribute.String("chef_id", in.ChefID.String()),
		attribute.Int("requests", len(in.Requests)),
	))
	defer span.End()

	slots, err := s.findCustomerSlots(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveSlots("find_customer_slots", len(slots))
	return slots, nil
}

func (s *Service) FindCustomerSlotsForDate(ctx context.Context, chefID uuid.UUID, req CustomerSlotRequest, customerLocation string, guestCount, maxDishesPerMeal int) ([]domain.AvailableSlot, error) {
	return s.FindCustomerSlots(ctx, CustomerSlotsInput{
		ChefID:           chefID,
		Requests:         []CustomerSlotRequest{req},
		CustomerLocation: customerLocation,
		GuestCount:       guestCount,
		MaxDishesPerMeal: maxDishesPerMeal,
	})
}

func (s *Service) findCustomerSlots(ctx context.Context, in CustomerSlotsInput) ([]domain.AvailableSlot, error) {
	if err := s.validateCustomerInput(in); err != nil {
		return nil, err
	}

	chef, err := s.repo.ChefByID(ctx, in.ChefID)
	if err != nil {
		return nil, fmt.Errorf("load chef: %w", err)
	}

	chefZone := s.zones.Resolve(ctx, chef.Address)
	customerZone := s.zones.Resolve(ctx, in.CustomerLocation)

	travelHours, err := s.travelHours(ctx, chef.Address, in.CustomerLocation)
	if err != nil {
		return nil, err
	}

	results := make([][]domain.AvailableSlot, len(in.Requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, req := range in.Requests {
		g.Go(func() error {
			cookHours, err := s.cookHours(gctx, chef.ID, req, in.GuestCount, in.MaxDishesPerMeal)
			if err != nil {
				return err
			}
			day, err := s.gapsForDate(gctx, chef.ID, domain.DateOf(req.Date))
			if err != nil {
				return err
			}
			lead := LeadTime{CookHours: cookHours, TravelHours: travelHours}
			results[i] = customerSlots(chef, day, lead, chefZone, customerZone)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var slots []domain.AvailableSlot
	for _, r := range results {
		slots = append(slots, r...)
	}
	sortSlots(slots)

	s.log.DebugContext(ctx, "customer slots computed",
		slog.String("chef_id", chef.ID.String()),
		slog.String("chef_zone", chefZone),
		slog.String("customer_zone", customerZone),
		slog.Int("slots", len(slots)),
	)
	return slots, nil
}

// customerSlots applies the lead time to the day's gaps, re-checks them against the
// weekday's blocks and converts the survivors into the customer's zone.
func customerSlots(chef domain.Chef, day dayGaps, lead LeadTime, chefZone, customerZone string) []domain.AvailableSlot {
	sortGaps(day.gaps)

	var out []domain.AvailableSlot
	for _, gap := range day.gaps {
		adjusted, ok := AdjustForLeadTime(gap, lead)
		if !ok {
			continue
		}
		if !withinAnyBlock(day, adjusted.Interval) {
			continue
		}

		start := timezone.Convert(adjusted.Interval.Start, chefZone, customerZone)
		end := timezone.Convert(adjusted.Interval.End, chefZone, customerZone)
		converted := domain.AvailableSlot{
			ChefID:          chef.ID,
			ChefName:        chef.DisplayName,
			Date:            domain.DateOf(start),
			StartTime:       domain.TimeOfDayOf(start),
			EndTime:         domain.TimeOfDayOf(end),
			DurationMinutes: adjusted.Interval.Minutes(),
			Note:            adjusted.Note,
		}
		for _, piece := range timezone.SplitAtMidnight(converted) {
			if !piece.StartTime.Before(piece.EndTime) {
				continue
			}
			out = append(out, piece)
		}
	}
	return out
}

func withinAnyBlock(day dayGaps, iv domain.Interval) bool {
	for _, b := range day.blocks {
		if domain.Contains(b.IntervalOn(day.date), iv) {
			return true
		}
	}
	return false
}

func (s *Service) validateCustomerInput(in CustomerSlotsInput) error {
	if in.ChefID == uuid.Nil {
		return errNoChef
	}
	if len(in.Requests) == 0 {
		return validationError("at least one date is required")
	}
	if strings.TrimSpace(in.CustomerLocation) == "" {
		return validationError("customer_location is required")
	}
	if in.GuestCount <= 0 {
		return validationError("guest_count must be positive")
	}

	today := s.today()
	first, last := domain.DateOf(in.Requests[0].Date), domain.DateOf(in.Requests[0].Date)
	for _, req := range in.Requests {
		if req.Date.IsZero() {
			return validationError("date is required")
		}
		d := domain.DateOf(req.Date)
		if d.Before(today) {
			return validationError("date must not be in the past")
		}
		if req.MenuID == nil && len(req.DishIDs) == 0 && in.MaxDishesPerMeal <= 0 {
			return validationError("max_dishes_per_meal is required when no menu or dishes are selected")
		}
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	if last.Sub(first) > time.Duration(s.cfg.MaxRangeDays)*24*time.Hour {
		return validationError(fmt.Sprintf("date range must not exceed %d days", s.cfg.MaxRangeDays))
	}
	return nil
}

func (s *Service) travelHours(ctx context.Context, origin, destination string) (float64, error) {
	_, hours, err := s.distance.DistanceAndDuration(ctx, origin, destination)
	if err != nil {
		s.metrics.ExternalFailure("distance")
		return 0, &ExternalServiceError{Service: "distance", Err: err}
	}
	if hours <= 0 {
		return 0, validationError("could not calculate travel time")
	}
	return hours, nil
}

func (s *Service) cookHours(ctx context.Context, chefID uuid.UUID, req CustomerSlotRequest, guests, maxDishes int) (float64, error) {
	var (
		hours float64
		err   error
	)
	switch {
	case req.MenuID != nil:
		hours, err = s.cook.TotalCookTimeFromMenu(ctx, *req.MenuID, req.DishIDs, guests)
	case len(req.DishIDs) > 0:
		hours, err = s.cook.TotalCookTime(ctx, req.DishIDs, guests)
	default:
		hours, err = s.cook.MaxCookTime(ctx, chefID, maxDishes, guests)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, err
		}
		s.metrics.ExternalFailure("cook_time")
		return 0, &ExternalServiceError{Service: "cook_time", Err: err}
	}
	return hours, nil
}
