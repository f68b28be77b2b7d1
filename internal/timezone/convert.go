package timezone

import (
	"math"
	"sync"
	"time"

	"vietchef/backend/internal/domain"
)

var locations sync.Map

func loadLocation(name string) (*time.Location, error) {
	if v, ok := locations.Load(name); ok {
		return v.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	locations.Store(name, loc)
	return loc, nil
}

// Convert reads t's wall clock in fromZone and returns the same instant's wall
// clock in toZone, carried in UTC. Unknown zones return t unchanged.
func Convert(t time.Time, fromZone, toZone string) time.Time {
	if fromZone == toZone {
		return t
	}
	from, err := loadLocation(fromZone)
	if err != nil {
		return t
	}
	to, err := loadLocation(toZone)
	if err != nil {
		return t
	}
	in := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), from).In(to)
	return time.Date(in.Year(), in.Month(), in.Day(), in.Hour(), in.Minute(), in.Second(), in.Nanosecond(), time.UTC)
}

// SplitAtMidnight splits a slot whose end time-of-day precedes its start into
// (date, start..23:59:59.999999999) and (date+1, 00:00..end).
func SplitAtMidnight(slot domain.AvailableSlot) []domain.AvailableSlot {
	if !slot.EndTime.Before(slot.StartTime) {
		return []domain.AvailableSlot{slot}
	}

	first := slot
	first.EndTime = domain.EndOfDay
	first.DurationMinutes = minutesBetween(first.StartTime, first.EndTime)

	second := slot
	second.Date = domain.DateOf(slot.Date).AddDate(0, 0, 1)
	second.StartTime = domain.Midnight
	second.DurationMinutes = minutesBetween(second.StartTime, second.EndTime)

	return []domain.AvailableSlot{first, second}
}

func minutesBetween(start, end domain.TimeOfDay) int {
	return int(math.Round(end.Sub(start).Minutes()))
}
