package availability

import (
	"strings"
	"testing"
	"time"

	"vietchef/backend/internal/domain"
)

func TestLeadTimeMinutes_Truncates(t *testing.T) {
	tests := []struct {
		lead LeadTime
		want int
	}{
		{lead: LeadTime{CookHours: 1}, want: 60},
		{lead: LeadTime{CookHours: 0.5, TravelHours: 0.26}, want: 45},
		{lead: LeadTime{CookHours: 1.25, TravelHours: 0.75}, want: 120},
		{lead: LeadTime{}, want: 0},
	}
	for _, tt := range tests {
		if got := tt.lead.Minutes(); got != tt.want {
			t.Fatalf("Minutes(%+v) = %d, want %d", tt.lead, got, tt.want)
		}
	}
}

func TestLeadTimeMinutes_WholeMinuteCookTimes(t *testing.T) {
	for minutes := 1; minutes <= 300; minutes++ {
		lead := LeadTime{CookHours: float64(minutes) / 60}
		if got := lead.Minutes(); got != minutes {
			t.Fatalf("Minutes() for %d cook minutes = %d, want %d", minutes, got, minutes)
		}
	}

	lead := LeadTime{CookHours: 123.0 / 60, TravelHours: 245.0 / 60}
	if got := lead.Minutes(); got != 368 {
		t.Fatalf("Minutes() = %d, want 368", got)
	}
	if note := lead.Note(); !strings.Contains(note, "245 min travel") || !strings.Contains(note, "123 min cooking") {
		t.Fatalf("note = %q, want 245 min travel and 123 min cooking", note)
	}
}

func TestAdjustForLeadTime_FirstSlotAfterLead(t *testing.T) {
	gaps := ComputeGaps(testDate, block("08:00", "22:00"), nil, nil)
	if len(gaps) != 1 {
		t.Fatalf("gaps = %d, want 1", len(gaps))
	}

	got, ok := AdjustForLeadTime(gaps[0], LeadTime{CookHours: 0.75, TravelHours: 0.25})
	if !ok {
		t.Fatalf("expected adjusted gap")
	}
	if start := domain.TimeOfDayOf(got.Interval.Start); start != tod("09:00") {
		t.Fatalf("start = %s, want 09:00", start)
	}
	if !strings.Contains(got.Note, "15 min travel") || !strings.Contains(got.Note, "45 min cooking") {
		t.Fatalf("note = %q, want travel and cooking minutes", got.Note)
	}
}

func TestAdjustForLeadTime_Discards(t *testing.T) {
	gap := ComputeGaps(testDate, block("08:00", "10:00"), nil, nil)[0]

	tests := []struct {
		name string
		lead LeadTime
	}{
		{name: "lead reaches gap end", lead: LeadTime{CookHours: 2}},
		{name: "lead beyond gap end", lead: LeadTime{CookHours: 2, TravelHours: 1}},
		{name: "remaining window too short", lead: LeadTime{CookHours: 1.5, TravelHours: 0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := AdjustForLeadTime(gap, tt.lead); ok {
				t.Fatalf("expected gap to be discarded")
			}
		})
	}
}

func TestAdjustForLeadTime_RequiresContainmentInBlock(t *testing.T) {
	gap := Gap{
		Date:     testDate,
		Interval: domain.NewInterval(testDate, tod("08:00"), tod("13:00")),
		Block:    block("08:00", "12:00"),
	}
	if _, ok := AdjustForLeadTime(gap, LeadTime{CookHours: 1}); ok {
		t.Fatalf("gap ending after its block must be discarded")
	}
}

func TestAdjustForLeadTime_StaysInsideGapAndBlock(t *testing.T) {
	b := block("08:00", "22:00")
	sessions := []domain.BookingSession{
		session(testDate, "11:00", "12:00"),
		session(testDate, "16:00", "17:30"),
	}
	gaps := ComputeGaps(testDate, b, nil, sessions)

	for minutes := 0; minutes <= 600; minutes += 15 {
		lead := LeadTime{CookHours: float64(minutes) / 60}
		for _, g := range gaps {
			got, ok := AdjustForLeadTime(g, lead)
			if !ok {
				continue
			}
			if !got.Interval.Start.Before(g.Interval.End) {
				t.Fatalf("lead %d: start %v not before gap end %v", minutes, got.Interval.Start, g.Interval.End)
			}
			if !domain.Contains(b.IntervalOn(testDate), got.Interval) {
				t.Fatalf("lead %d: %v escapes block", minutes, got.Interval)
			}
			if got.Interval.Duration() < MinSlotDuration {
				t.Fatalf("lead %d: %v shorter than %v", minutes, got.Interval, MinSlotDuration)
			}
			if want := g.Interval.Start.Add(time.Duration(minutes) * time.Minute); !got.Interval.Start.Equal(want) {
				t.Fatalf("lead %d: start = %v, want %v", minutes, got.Interval.Start, want)
			}
		}
	}
}
