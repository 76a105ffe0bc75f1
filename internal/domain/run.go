package domain

import "strings"

// RunKey identifies one independent planning unit: every student heading
// to one university on one weekday within one pickup window.
type RunKey struct {
	Day          Weekday
	Window       TimeWindow
	UniversityID string
}

// ID renders the key as Day_Start-End_University, the prefix for cluster
// and route identifiers, e.g. "Mon_07:00-08:00_UNI_03".
func (k RunKey) ID() string {
	return string(k.Day) + "_" + k.Window.String() + "_" + k.UniversityID
}

// Compare orders keys by weekday, window start, window end, then
// university ID. Planning walks runs in this order so derived IDs are
// reproducible for identical input.
func (k RunKey) Compare(other RunKey) int {
	if d := k.Day.Order() - other.Day.Order(); d != 0 {
		return d
	}
	if d := k.Window.Start - other.Window.Start; d != 0 {
		return d
	}
	if d := k.Window.End - other.Window.End; d != 0 {
		return d
	}
	return strings.Compare(k.UniversityID, other.UniversityID)
}

// Run owns the students planned together as one unit, with the resolved
// destination university. Computed fresh each invocation, never persisted.
type Run struct {
	Key        RunKey
	University University
	Students   []Student
}

func (r Run) ID() string { return r.Key.ID() }

func (r Run) StudentCount() int { return len(r.Students) }
