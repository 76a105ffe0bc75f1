package services

import (
	"math"
	"slices"
	"strings"

	"student-transport-service/internal/domain"
)

// NearestNeighborSequencer orders pickups with a greedy nearest-neighbor
// walk from the bus depot, appending the university as the final stop.
//
// The algorithm minimizes immediate travel distance at each step. It does
// not attempt global route optimization (e.g., VRP solvers). The design
// prioritizes determinism and simplicity over optimality; a drop-in
// replacement can implement StopSequencer over the same inputs.
type NearestNeighborSequencer struct{}

var _ StopSequencer = NearestNeighborSequencer{}

func NewNearestNeighborSequencer() NearestNeighborSequencer {
	return NearestNeighborSequencer{}
}

func (NearestNeighborSequencer) Sequence(run domain.Run, bus domain.Bus, students []domain.Student) (domain.Route, error) {
	route := domain.Route{
		RunID:          run.ID(),
		BusID:          bus.ID,
		Depot:          bus.Depot,
		Stops:          []domain.RouteStop{},
		UniversityID:   run.University.ID,
		UniversityStop: run.University.Location,
	}

	if len(students) == 0 {
		return route, nil
	}

	// Scan candidates in ID order with a strict comparison, so equal
	// distances resolve to the lowest student ID.
	remaining := slices.Clone(students)
	slices.SortFunc(remaining, func(a, b domain.Student) int {
		return strings.Compare(a.ID, b.ID)
	})

	current := bus.Depot
	total := 0.0

	for len(remaining) > 0 {
		best := -1
		bestDist := math.MaxFloat64

		// Select the next pickup by minimum distance (greedy step.)
		for i, s := range remaining {
			if d := current.DistanceTo(s.Home); d < bestDist {
				bestDist = d
				best = i
			}
		}

		next := remaining[best]
		total += bestDist
		route.Stops = append(route.Stops, domain.RouteStop{
			StudentID:          next.ID,
			Location:           next.Home,
			LegDistance:        bestDist,
			CumulativeDistance: total,
		})

		current = next.Home
		remaining = slices.Delete(remaining, best, best+1)
	}

	route.FinalLegDistance = current.DistanceTo(run.University.Location)
	route.TotalDistance = total + route.FinalLegDistance

	return route, nil
}
