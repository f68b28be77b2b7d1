package availability

import (
	"fmt"
	"math"
	"time"

	"vietchef/backend/internal/domain"
)

// LeadTime is the cooking and travel time that must pass before serving.
type LeadTime struct {
	CookHours   float64
	TravelHours float64
}

// hoursEpsilon absorbs float error from minute counts stored as hours.
const hoursEpsilon = 1e-9

func wholeMinutes(hours float64) int {
	return int(math.Floor(hours*60 + hoursEpsilon))
}

func (l LeadTime) Minutes() int {
	return wholeMinutes(l.CookHours + l.TravelHours)
}

func (l LeadTime) Note() string {
	return fmt.Sprintf("Includes %d min travel and %d min cooking before serving",
		wholeMinutes(l.TravelHours), wholeMinutes(l.CookHours))
}

// AdjustForLeadTime moves the gap start forward by the lead time. The result
// must still sit inside the gap's schedule block and last at least MinSlotDuration.
func AdjustForLeadTime(g Gap, lead LeadTime) (Gap, bool) {
	start := g.Interval.Start.Add(time.Duration(lead.Minutes()) * time.Minute)
	if !start.Before(g.Interval.End) {
		return Gap{}, false
	}

	adjusted := domain.Interval{Start: start, End: g.Interval.End}
	if !domain.Contains(g.Block.IntervalOn(g.Date), adjusted) {
		return Gap{}, false
	}
	if adjusted.Duration() < MinSlotDuration {
		return Gap{}, false
	}

	g.Interval = adjusted
	g.Note = lead.Note()
	return g, true
}
