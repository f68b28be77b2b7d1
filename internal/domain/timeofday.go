package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock offset from midnight.
type TimeOfDay time.Duration

const (
	Midnight  TimeOfDay = 0
	EndOfDay  TimeOfDay = TimeOfDay(24*time.Hour - time.Nanosecond)
	dayLength           = 24 * time.Hour
)

var timeOfDayLayouts = []string{"15:04:05", "15:04"}

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayOf returns the wall-clock part of t in t's own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay(time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond()))
}

// On anchors the time of day onto date's calendar day, in UTC.
func (t TimeOfDay) On(date time.Time) time.Time {
	return DateOf(date).Add(time.Duration(t))
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && time.Duration(t) < dayLength
}

func (t TimeOfDay) Before(o TimeOfDay) bool { return t < o }
func (t TimeOfDay) After(o TimeOfDay) bool  { return t > o }

func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return TimeOfDay(time.Duration(t) + d)
}

func (t TimeOfDay) Sub(o TimeOfDay) time.Duration {
	return time.Duration(t - o)
}

func (t TimeOfDay) Hour() int {
	return int(time.Duration(t) / time.Hour)
}

func (t TimeOfDay) Minute() int {
	return int(time.Duration(t) % time.Hour / time.Minute)
}

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	sec := int(d % time.Minute / time.Second)
	nsec := int(d % time.Second)
	switch {
	case nsec != 0:
		return fmt.Sprintf("%02d:%02d:%02d.%09d", t.Hour(), t.Minute(), sec, nsec)
	case sec != 0:
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), sec)
	default:
		return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
	}
}

func (t TimeOfDay) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("time of day out of range: %d", int64(t))
	}
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d:%02d.%06d",
		t.Hour(), t.Minute(), int(d%time.Minute/time.Second), int(d%time.Second/time.Microsecond)), nil
}

func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = 0
		return nil
	case time.Time:
		*t = TimeOfDayOf(v)
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case int64:
		// pgtype.Time carries microseconds since midnight.
		*t = TimeOfDay(time.Duration(v) * time.Microsecond)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

func (t *TimeOfDay) scanString(s string) error {
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

var errInvalidDate = errors.New("invalid date")

const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar day, expressed at midnight UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return t, nil
}

// WeekdayOf returns the Monday-based weekday index (0=Monday..6=Sunday).
func WeekdayOf(date time.Time) int {
	wd := date.Weekday()
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

func ValidWeekday(weekday int) bool {
	return weekday >= 0 && weekday <= 6
}
