package availability

import (
	"sort"
	"time"

	"vietchef/backend/internal/domain"
)

// MinSlotDuration is the shortest free window worth offering.
const MinSlotDuration = 30 * time.Minute

// Gap is a free sub-interval of a schedule block on a date.
type Gap struct {
	Date     time.Time
	Interval domain.Interval
	Block    domain.ScheduleBlock
	Note     string
}

func (g Gap) slot(chef domain.Chef) domain.AvailableSlot {
	return domain.AvailableSlot{
		ChefID:          chef.ID,
		ChefName:        chef.DisplayName,
		Date:            g.Date,
		StartTime:       domain.TimeOfDayOf(g.Interval.Start),
		EndTime:         domain.TimeOfDayOf(g.Interval.End),
		DurationMinutes: g.Interval.Minutes(),
		Note:            g.Note,
	}
}

// ComputeGaps returns the free windows of block on date. Any blocked interval
// touching the block removes the whole block for that date.
func ComputeGaps(date time.Time, block domain.ScheduleBlock, blocked []domain.BlockedInterval, sessions []domain.BookingSession) []Gap {
	date = domain.DateOf(date)
	window := block.IntervalOn(date)

	for _, b := range blocked {
		if b.IntervalOn(date).Overlaps(window) {
			return nil
		}
	}

	busy := make([]domain.Interval, 0, len(sessions))
	for _, s := range sessions {
		if w := s.BusyWindowOn(date); w.Overlaps(window) {
			busy = append(busy, w)
		}
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	var gaps []Gap
	cursor := window.Start
	for _, w := range busy {
		if w.Start.After(cursor) {
			gaps = appendGap(gaps, date, block, cursor, minTime(w.Start, window.End))
		}
		if w.End.After(cursor) {
			cursor = w.End
		}
	}
	if cursor.Before(window.End) {
		gaps = appendGap(gaps, date, block, cursor, window.End)
	}
	return gaps
}

func appendGap(gaps []Gap, date time.Time, block domain.ScheduleBlock, start, end time.Time) []Gap {
	if end.Sub(start) < MinSlotDuration {
		return gaps
	}
	return append(gaps, Gap{
		Date:     date,
		Interval: domain.Interval{Start: start, End: end},
		Block:    block,
	})
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func sortGaps(gaps []Gap) {
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Interval.Start.Before(gaps[j].Interval.Start)
	})
}
