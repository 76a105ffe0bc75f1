package domain

import "math"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lng float64
}

// Euclidean distance between c and other, in coordinate degrees. Planning
// only ever compares distances against each other, so no projection to
// meters is needed.
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	dLat := c.Lat - other.Lat
	dLng := c.Lng - other.Lng
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// Centroid returns the mean position of the given points, or the zero
// value when points is empty.
func Centroid(points []Coordinates) Coordinates {
	if len(points) == 0 {
		return Coordinates{}
	}

	var lat, lng float64
	for _, p := range points {
		lat += p.Lat
		lng += p.Lng
	}

	n := float64(len(points))
	return Coordinates{Lat: lat / n, Lng: lng / n}
}
