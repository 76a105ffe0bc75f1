package domain

// Bus is a fixed-capacity vehicle parked at a depot. The fleet is shared
// by every run; seat bookkeeping happens per run inside the assigner, so
// the entity itself stays read-only.
type Bus struct {
	ID       string
	Capacity int
	Depot    Coordinates
}
