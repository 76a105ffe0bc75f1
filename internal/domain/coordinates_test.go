package domain

import (
	"math"
	"testing"
)

func TestDistanceTo(t *testing.T) {
	a := Coordinates{Lat: 0, Lng: 0}
	b := Coordinates{Lat: 3, Lng: 4}

	if d := a.DistanceTo(b); d != 5 {
		t.Errorf("distance = %v, want 5", d)
	}

	if d := b.DistanceTo(a); d != 5 {
		t.Errorf("distance should be symmetric, got %v", d)
	}

	if d := a.DistanceTo(a); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}
}

func TestCentroid(t *testing.T) {
	points := []Coordinates{
		{Lat: 0, Lng: 0},
		{Lat: 2, Lng: 0},
		{Lat: 0, Lng: 2},
		{Lat: 2, Lng: 2},
	}

	c := Centroid(points)
	if math.Abs(c.Lat-1) > 1e-12 || math.Abs(c.Lng-1) > 1e-12 {
		t.Errorf("centroid = %+v, want (1, 1)", c)
	}

	if c := Centroid(nil); c != (Coordinates{}) {
		t.Errorf("centroid of no points = %+v, want zero value", c)
	}
}
