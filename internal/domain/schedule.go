package domain

import (
	"fmt"
	"strings"
)

// Weekday is the canonical day token used in run keys ("Mon".."Sun").
// Ingestion adapters normalize free-form day spellings to these values.
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

var weekOrder = map[Weekday]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
	Sunday:    6,
}

// Order reports the position of d within the week, Monday first.
// Unknown tokens sort after every valid day.
func (d Weekday) Order() int {
	if i, ok := weekOrder[d]; ok {
		return i
	}
	return len(weekOrder)
}

func (d Weekday) Valid() bool {
	_, ok := weekOrder[d]
	return ok
}

// Weekdays returns the full vocabulary in week order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// TimeWindow is a daily pickup interval measured in minutes from midnight,
// rendered as HH:MM-HH:MM in run identifiers.
type TimeWindow struct {
	Start int
	End   int
}

func NewTimeWindow(start, end int) (TimeWindow, error) {
	if start < 0 || end > 24*60 {
		return TimeWindow{}, fmt.Errorf("new time window: %s-%s outside a single day", FormatClock(start), FormatClock(end))
	}
	if start >= end {
		return TimeWindow{}, fmt.Errorf("new time window: start %s must precede end %s", FormatClock(start), FormatClock(end))
	}
	return TimeWindow{Start: start, End: end}, nil
}

// ParseTimeWindow builds a window from two HH:MM clock strings.
func ParseTimeWindow(start, end string) (TimeWindow, error) {
	s, err := ParseClock(start)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("parse time window: %w", err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("parse time window: %w", err)
	}
	return NewTimeWindow(s, e)
}

func (w TimeWindow) String() string {
	return FormatClock(w.Start) + "-" + FormatClock(w.End)
}

// ParseClock converts an HH:MM clock string to minutes from midnight.
// Single-digit hours are accepted ("7:30"); "24:00" marks end of day.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("parse clock %q: want HH:MM", s)
	}

	var h, m int
	if _, err := fmt.Sscanf(hh+" "+mm, "%d %d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || h*60+m > 24*60 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes from midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
