package domain

// Destination campus referenced by students through UniversityID.
type University struct {
	ID       string
	Name     string
	Location Coordinates
}
