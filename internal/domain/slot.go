package domain

import (
	"time"

	"github.com/google/uuid"
)

// AvailableSlot is a computed free window; it is never persisted.
type AvailableSlot struct {
	ChefID          uuid.UUID
	ChefName        string
	Date            time.Time
	StartTime       TimeOfDay
	EndTime         TimeOfDay
	DurationMinutes int
	Note            string
}

// SlotLess orders slots by (date, start time).
func SlotLess(a, b AvailableSlot) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.StartTime < b.StartTime
}
