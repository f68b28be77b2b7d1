package domain

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	tests := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{name: "disjoint", aStart: at(8, 0), aEnd: at(9, 0), bStart: at(10, 0), bEnd: at(11, 0), want: false},
		{name: "touching endpoints", aStart: at(8, 0), aEnd: at(10, 0), bStart: at(10, 0), bEnd: at(11, 0), want: false},
		{name: "partial", aStart: at(8, 0), aEnd: at(10, 5), bStart: at(10, 0), bEnd: at(11, 0), want: true},
		{name: "nested", aStart: at(8, 0), aEnd: at(22, 0), bStart: at(10, 0), bEnd: at(10, 5), want: true},
		{name: "identical", aStart: at(8, 0), aEnd: at(9, 0), bStart: at(8, 0), bEnd: at(9, 0), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Fatalf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	outer := NewInterval(date, NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))

	if !Contains(outer, outer) {
		t.Fatalf("interval must contain itself")
	}
	if !Contains(outer, NewInterval(date, NewTimeOfDay(9, 0), NewTimeOfDay(12, 0))) {
		t.Fatalf("expected inner interval sharing the end to be contained")
	}
	if Contains(outer, NewInterval(date, NewTimeOfDay(7, 59), NewTimeOfDay(9, 0))) {
		t.Fatalf("interval starting before outer must not be contained")
	}
	if Contains(outer, NewInterval(date, NewTimeOfDay(11, 0), NewTimeOfDay(12, 1))) {
		t.Fatalf("interval ending after outer must not be contained")
	}
}

func TestWeekdayOf_MondayBased(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if got := WeekdayOf(monday.AddDate(0, 0, i)); got != i {
			t.Fatalf("WeekdayOf(%s) = %d, want %d", monday.AddDate(0, 0, i).Format(DateLayout), got, i)
		}
	}
}
