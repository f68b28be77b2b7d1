package grpc

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"vietchef/backend/internal/domain"
)

// Slot carries dates as "2006-01-02" and times of day as "15:04", with
// seconds and fractions only when non-zero.
type Slot struct {
	ChefID          string `json:"chef_id"`
	ChefName        string `json:"chef_name,omitempty"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Note            string `json:"note,omitempty"`
}

type SlotsResponse struct {
	Slots []Slot `json:"slots"`
}

type FindSlotsRequest struct {
	ChefID    string `json:"chef_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type FindSlotsForDateRequest struct {
	ChefID string `json:"chef_id"`
	Date   string `json:"date"`
}

type CheckSlotRequest struct {
	ChefID    string `json:"chef_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type CheckSlotResponse struct {
	Available bool `json:"available"`
}

type CustomerSlotRequest struct {
	Date    string   `json:"date"`
	MenuID  string   `json:"menu_id,omitempty"`
	DishIDs []string `json:"dish_ids,omitempty"`
}

type FindCustomerSlotsRequest struct {
	ChefID           string                `json:"chef_id"`
	Requests         []CustomerSlotRequest `json:"requests"`
	CustomerLocation string                `json:"customer_location"`
	GuestCount       int                   `json:"guest_count"`
	MaxDishesPerMeal int                   `json:"max_dishes_per_meal"`
}

type CheckConflictRequest struct {
	ChefID    string `json:"chef_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type CheckConflictOnWeekdayRequest struct {
	ChefID      string `json:"chef_id"`
	Weekday     int    `json:"weekday"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	HorizonDays int    `json:"horizon_days,omitempty"`
}

type ConflictResponse struct {
	Conflict bool `json:"conflict"`
}

type HasActiveBookingsOnWeekdayRequest struct {
	ChefID      string `json:"chef_id"`
	Weekday     int    `json:"weekday"`
	HorizonDays int    `json:"horizon_days,omitempty"`
}

type HasActiveBookingsResponse struct {
	HasBookings bool `json:"has_bookings"`
}

type ScheduleBlock struct {
	ID        string `json:"id"`
	ChefID    string `json:"chef_id"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type BlockResponse struct {
	Block ScheduleBlock `json:"block"`
}

type CreateBlockRequest struct {
	ChefID    string `json:"chef_id"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type UpdateBlockRequest struct {
	ChefID    string `json:"chef_id"`
	BlockID   string `json:"block_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type DeleteBlockRequest struct {
	ChefID  string `json:"chef_id"`
	BlockID string `json:"block_id"`
}

type BlockedDate struct {
	ID        string `json:"id"`
	ChefID    string `json:"chef_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason,omitempty"`
}

type BlockDateRequest struct {
	ChefID    string `json:"chef_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason,omitempty"`
}

type BlockedDateResponse struct {
	Blocked BlockedDate `json:"blocked"`
}

type UnblockDateRequest struct {
	ChefID    string `json:"chef_id"`
	BlockedID string `json:"blocked_id"`
}

type Empty struct{}

func parseUUID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s must be a UUID", field)
	}
	return id, nil
}

func parseOptionalUUID(field, value string) (*uuid.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := parseUUID(field, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s must be a date formatted as YYYY-MM-DD", field)
	}
	return d, nil
}

func parseTimeOfDay(field, value string) (domain.TimeOfDay, error) {
	t, err := domain.ParseTimeOfDay(value)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a time formatted as HH:MM or HH:MM:SS", field)
	}
	return t, nil
}

func formatDate(d time.Time) string {
	return d.Format(domain.DateLayout)
}

// formatTimeOfDay keeps sub-minute precision so the first half of a
// midnight split ends at 23:59:59.999999999.
func formatTimeOfDay(t domain.TimeOfDay) string {
	return t.String()
}

func toWireSlots(slots []domain.AvailableSlot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		out = append(out, Slot{
			ChefID:          s.ChefID.String(),
			ChefName:        s.ChefName,
			Date:            formatDate(s.Date),
			StartTime:       formatTimeOfDay(s.StartTime),
			EndTime:         formatTimeOfDay(s.EndTime),
			DurationMinutes: s.DurationMinutes,
			Note:            s.Note,
		})
	}
	return out
}

func toWireBlock(b domain.ScheduleBlock) ScheduleBlock {
	return ScheduleBlock{
		ID:        b.ID.String(),
		ChefID:    b.ChefID.String(),
		Weekday:   b.Weekday,
		StartTime: formatTimeOfDay(b.StartTime),
		EndTime:   formatTimeOfDay(b.EndTime),
	}
}

func toWireBlockedDate(b domain.BlockedInterval) BlockedDate {
	return BlockedDate{
		ID:        b.ID.String(),
		ChefID:    b.ChefID.String(),
		Date:      formatDate(b.Date),
		StartTime: formatTimeOfDay(b.StartTime),
		EndTime:   formatTimeOfDay(b.EndTime),
		Reason:    b.Reason,
	}
}
