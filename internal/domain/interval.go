package domain

import "time"

// Interval is a half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(date time.Time, start, end TimeOfDay) Interval {
	return Interval{Start: start.On(date), End: end.On(date)}
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) Minutes() int {
	return int(i.Duration() / time.Minute)
}

func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share any instant.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func Contains(outer, inner Interval) bool {
	return !inner.Start.Before(outer.Start) && !outer.End.Before(inner.End)
}
