package domain

// Student enrolled for transport. Days lists the weekdays the student
// travels on; Window is the pickup window shared by all of those days.
// Loaded once per planning invocation and treated as read-only.
type Student struct {
	ID           string
	Home         Coordinates
	UniversityID string
	Days         []Weekday
	Window       TimeWindow
}
