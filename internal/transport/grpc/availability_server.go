package grpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"vietchef/backend/internal/domain"
	"vietchef/backend/internal/service/availability"
)

const AvailabilityServiceName = "vietchef.availability.v1.AvailabilityService"

type availabilityService interface {
	FindSlots(ctx context.Context, chefID uuid.UUID, startDate, endDate time.Time) ([]domain.AvailableSlot, error)
	FindSlotsForDate(ctx context.Context, chefID uuid.UUID, date time.Time) ([]domain.AvailableSlot, error)
	IsSlotAvailable(ctx context.Context, chefID uuid.UUID, date time.Time, start, end domain.TimeOfDay) (bool, error)
	FindCustomerSlots(ctx context.Context, in availability.CustomerSlotsInput) ([]domain.AvailableSlot, error)
	HasConflict(ctx context.Context, chefID uuid.UUID, date time.Time, start, end domain.TimeOfDay) (bool, error)
	HasConflictOnWeekday(ctx context.Context, chefID uuid.UUID, weekday int, start, end domain.TimeOfDay, horizonDays int) (bool, error)
	HasActiveBookingsOnWeekday(ctx context.Context, chefID uuid.UUID, weekday int, horizonDays int) (bool, error)
}

type AvailabilityServer struct {
	svc availabilityService
	log *slog.Logger
}

func NewAvailabilityServer(svc availabilityService, log *slog.Logger) *AvailabilityServer {
	if log == nil {
		log = slog.Default()
	}
	return &AvailabilityServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.availability")),
	}
}

var availabilityServiceDesc = grpc.ServiceDesc{
	ServiceName: AvailabilityServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		unary(AvailabilityServiceName, "FindSlots", (*AvailabilityServer).FindSlots),
		unary(AvailabilityServiceName, "FindSlotsForDate", (*AvailabilityServer).FindSlotsForDate),
		unary(AvailabilityServiceName, "CheckSlot", (*AvailabilityServer).CheckSlot),
		unary(AvailabilityServiceName, "FindCustomerSlots", (*AvailabilityServer).FindCustomerSlots),
		unary(AvailabilityServiceName, "CheckConflict", (*AvailabilityServer).CheckConflict),
		unary(AvailabilityServiceName, "CheckConflictOnWeekday", (*AvailabilityServer).CheckConflictOnWeekday),
		unary(AvailabilityServiceName, "HasActiveBookingsOnWeekday", (*AvailabilityServer).HasActiveBookingsOnWeekday),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterAvailabilityServer(r grpc.ServiceRegistrar, srv *AvailabilityServer) {
	r.RegisterService(&availabilityServiceDesc, srv)
}

func (s *AvailabilityServer) FindSlots(ctx context.Context, req *FindSlotsRequest) (*SlotsResponse, error) {
	log := rpcLogger(ctx, s.log, "FindSlots")

	chefID, err := parseUUID("chef_id", req.ChefID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_chef_id"))
		return nil, err
	}
	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_start_date"), slog.String("chef_id", req.ChefID))
		return nil, err
	}
	endDate, err := parseDate("end_date", req.EndDate)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_end_date"), slog.String("chef_id", req.ChefID))
		return nil, err
	}

	slots, err := s.svc.FindSlots(ctx, chefID, startDate, endDate)
	if err != nil {
		return nil, statusFromError(ctx, log, "find slots", err, slog.String("chef_id", req.ChefID))
	}

	log.Debug("slots listed",
		slog.String("chef_id", req.ChefID),
		slog.String("start_date", req.StartDate),
		slog.String("end_date", req.EndDate),
		slog.Int("count", len(slots)),
	)
	return &SlotsResponse{Slots: toWireSlots(slots)}, nil
}

func (s *AvailabilityServer) FindSlotsForDate(ctx context.Context, req *FindSlotsForDateRequest) (*SlotsResponse, error) {
	log := rpcLogger(ctx, s.log, "FindSlotsForDate")

	chefID, err := parseUUID("chef_id", req.ChefID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_chef_id"))
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_date"), slog.String("chef_id", req.ChefID))
		return nil, err
	}

	slots, err := s.svc.FindSlotsForDate(ctx, chefID, date)
	if err != nil {
		return nil, statusFromError(ctx, log, "find slots for date", err, slog.String("chef_id", req.ChefID))
	}

	log.Debug("slots listed", slog.String("chef_id", req.ChefID), slog.String("date", req.Date), slog.Int("count", len(slots)))
	return &SlotsResponse{Slots: toWireSlots(slots)}, nil
}

func (s *AvailabilityServer) CheckSlot(ctx context.Context, req *CheckSlotRequest) (*CheckSlotResponse, error) {
	log := rpcLogger(ctx, s.log, "CheckSlot")

	chefID, date, start, end, err := parseWindow(req.ChefID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("chef_id", req.ChefID))
		return nil, err
	}

	ok, err := s.svc.IsSlotAvailable(ctx, chefID, date, start, end)
	if err != nil {
		return nil, statusFromError(ctx, log, "check slot", err, slog.String("chef_id", req.ChefID))
	}
	return &CheckSlotResponse{Available: ok}, nil
}

func (s *AvailabilityServer) FindCustomerSlots(ctx context.Context, req *FindCustomerSlotsRequest) (*SlotsResponse, error) {
	log := rpcLogger(ctx, s.log, "FindCustomerSlots")

	chefID, err := parseUUID("chef_id", req.ChefID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_chef_id"))
		return nil, err
	}

	requests := make([]availability.CustomerSlotRequest, 0, len(req.Requests))
	for _, r := range req.Requests {
		date, err := parseDate("date", r.Date)
		if err != nil {
			log.Warn("invalid request", slog.String("reason", "invalid_date"), slog.String("chef_id", req.ChefID))
			return nil, err
		}
		menuID, err := parseOptionalUUID("menu_id", r.MenuID)
		if err != nil {
			log.Warn("invalid request", slog.String("reason", "invalid_menu_id"), slog.String("chef_id", req.ChefID))
			return nil, err
		}
		dishIDs := make([]uuid.UUID, 0, len(r.DishIDs))
		for _, raw := range r.DishIDs {
			id, err := parseUUID("dish_ids", raw)
			if err != nil {
				log.Warn("invalid request", slog.String("reason", "invalid_dish_id"), slog.String("chef_id", req.ChefID))
				return nil, err
			}
			dishIDs = append(dishIDs, id)
		}
		requests = append(requests, availability.CustomerSlotRequest{Date: date, MenuID: menuID, DishIDs: dishIDs})
	}

	slots, err := s.svc.FindCustomerSlots(ctx, availability.CustomerSlotsInput{
		ChefID:           chefID,
		Requests:         requests,
		CustomerLocation: req.CustomerLocation,
		GuestCount:       req.GuestCount,
		MaxDishesPerMeal: req.MaxDishesPerMeal,
	})
	if err != nil {
		return nil, statusFromError(ctx, log, "find customer slots", err, slog.String("chef_id", req.ChefID))
	}

	log.Debug("customer slots listed",
		slog.String("chef_id", req.ChefID),
		slog.Int("dates", len(requests)),
		slog.Int("count", len(slots)),
	)
	return &SlotsResponse{Slots: toWireSlots(slots)}, nil
}

func (s *AvailabilityServer) CheckConflict(ctx context.Context, req *CheckConflictRequest) (*ConflictResponse, error) {
	log := rpcLogger(ctx, s.log, "CheckConflict")

	chefID, date, start, end, err := parseWindow(req.ChefID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("chef_id", req.ChefID))
		return nil, err
	}

	conflict, err := s.svc.HasConflict(ctx, chefID, date, start, end)
	if err != nil {
		return nil, statusFromError(ctx, log, "check conflict", err, slog.String("chef_id", req.ChefID))
	}
	return &ConflictResponse{Conflict: conflict}, nil
}

func (s *AvailabilityServer) CheckConflictOnWeekday(ctx context.Context, req *CheckConflictOnWeekdayRequest) (*ConflictResponse, error) {
	log := rpcLogger(ctx, s.log, "CheckConflictOnWeekday")

	chefID, err := parseUUID("chef_id", req.ChefID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_chef_id"))
		return nil, err
	}
	start, err := parseTimeOfDay("start_time", req.StartTime)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_start_time"), slog.String("chef_id", req.ChefID))
		return nil, err
	}
	end, err := parseTimeOfDay("end_time", req.EndTime)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_end_time"), slog.String("chef_id", req.ChefID))
		return nil, err
	}

	conflict, err := s.svc.HasConflictOnWeekday(ctx, chefID, req.Weekday, start, end, req.HorizonDays)
	if err != nil {
		return nil, statusFromError(ctx, log, "check weekday conflict", err,
			slog.String("chef_id", req.ChefID), slog.Int("weekday", req.Weekday))
	}
	return &ConflictResponse{Conflict: conflict}, nil
}

func (s *AvailabilityServer) HasActiveBookingsOnWeekday(ctx context.Context, req *HasActiveBookingsOnWeekdayRequest) (*HasActiveBookingsResponse, error) {
	log := rpcLogger(ctx, s.log, "HasActiveBookingsOnWeekday")

	chefID, err := parseUUID("chef_id", req.ChefID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_chef_id"))
		return nil, err
	}

	busy, err := s.svc.HasActiveBookingsOnWeekday(ctx, chefID, req.Weekday, req.HorizonDays)
	if err != nil {
		return nil, statusFromError(ctx, log, "check weekday bookings", err,
			slog.String("chef_id", req.ChefID), slog.Int("weekday", req.Weekday))
	}
	return &HasActiveBookingsResponse{HasBookings: busy}, nil
}

func parseWindow(rawChefID, rawDate, rawStart, rawEnd string) (uuid.UUID, time.Time, domain.TimeOfDay, domain.TimeOfDay, error) {
	chefID, err := parseUUID("chef_id", rawChefID)
	if err != nil {
		return uuid.Nil, time.Time{}, 0, 0, err
	}
	date, err := parseDate("date", rawDate)
	if err != nil {
		return uuid.Nil, time.Time{}, 0, 0, err
	}
	start, err := parseTimeOfDay("start_time", rawStart)
	if err != nil {
		return uuid.Nil, time.Time{}, 0, 0, err
	}
	end, err := parseTimeOfDay("end_time", rawEnd)
	if err != nil {
		return uuid.Nil, time.Time{}, 0, 0, err
	}
	if !start.Before(end) {
		return uuid.Nil, time.Time{}, 0, 0, status.Error(codes.InvalidArgument, "end_time must be after start_time")
	}
	return chefID, date, start, end, nil
}
