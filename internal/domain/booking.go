package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusPaid      = "PAID"
	StatusCompleted = "COMPLETED"
	StatusCanceled  = "CANCELED"
	StatusRejected  = "REJECTED"
	StatusOverdue   = "OVERDUE"
)

// PostServeBuffer keeps the chef unavailable for new work after serving starts.
const PostServeBuffer = 30 * time.Minute

var InactiveStatuses = []string{StatusCanceled, StatusRejected, StatusOverdue}

func IsInactiveStatus(status string) bool {
	for _, s := range InactiveStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	ChefID     uuid.UUID `bun:"chef_id,notnull,type:uuid"`
	CustomerID uuid.UUID `bun:"customer_id,notnull,type:uuid"`
	Status     string    `bun:"status,notnull"`
	Deleted    bool      `bun:"is_deleted,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(query, &b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// BookingSession is one committed cooking session of a booking on a given date.
type BookingSession struct {
	bun.BaseModel `bun:"table:booking_details,alias:bd"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid"`
	BookingID   uuid.UUID  `bun:"booking_id,notnull,type:uuid"`
	SessionDate time.Time  `bun:"session_date,notnull,type:date"`
	TravelStart TimeOfDay  `bun:"time_begin_travel,notnull,type:time"`
	CookStart   TimeOfDay  `bun:"time_begin_cook,notnull,type:time"`
	ServeStart  TimeOfDay  `bun:"start_time,notnull,type:time"`
	ServeEnd    *TimeOfDay `bun:"end_time,type:time"`
	Status      string     `bun:"status,notnull"`
	Deleted     bool       `bun:"is_deleted,notnull"`
	CreatedAt   time.Time  `bun:"created_at,notnull"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull"`

	Booking *Booking `bun:"rel:belongs-to,join:booking_id=id"`
}

func (s *BookingSession) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(query, &s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// IsActive reports whether the session still holds the chef's time.
func (s BookingSession) IsActive() bool {
	if s.Deleted || IsInactiveStatus(s.Status) {
		return false
	}
	if s.Booking != nil && (s.Booking.Deleted || IsInactiveStatus(s.Booking.Status)) {
		return false
	}
	return true
}

// BusyWindowOn is [TravelStart, ServeStart+PostServeBuffer) anchored on date.
func (s BookingSession) BusyWindowOn(date time.Time) Interval {
	return Interval{
		Start: s.TravelStart.On(date),
		End:   s.ServeStart.On(date).Add(PostServeBuffer),
	}
}

// TravelToServeOn is [TravelStart, ServeStart) anchored on date, with no buffer.
func (s BookingSession) TravelToServeOn(date time.Time) Interval {
	return NewInterval(date, s.TravelStart, s.ServeStart)
}
