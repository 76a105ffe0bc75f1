package services

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"

	"student-transport-service/internal/domain"
)

// AssignBuses maps one run's clusters onto a fleet snapshot without ever
// exceeding a bus's remaining capacity.
//
// Clusters are processed in descending size order (largest-first bin
// packing, reduces fragmentation). Each cluster goes whole to the feasible
// bus whose depot is nearest its centroid; when no single bus can take it,
// the cluster is split into the largest fragments the fleet still fits,
// members taken in student-ID order. Students no bus can absorb at all are
// surfaced as capacity-shortfall incidents rather than an error, so a
// partial plan stays usable. Distance ties resolve by bus ID.
func AssignBuses(run domain.Run, clusters []domain.Cluster, fleet []domain.Bus) ([]domain.Assignment, []domain.Incident) {
	if len(clusters) == 0 {
		return nil, nil
	}

	// The caller hands over a per-run snapshot; sort a copy by ID so every
	// selection scan visits buses in a stable order.
	buses := slices.Clone(fleet)
	slices.SortFunc(buses, func(a, b domain.Bus) int { return strings.Compare(a.ID, b.ID) })

	remaining := make(map[string]int, len(buses))
	for _, b := range buses {
		remaining[b.ID] = b.Capacity
	}

	order := slices.Clone(clusters)
	slices.SortFunc(order, func(a, b domain.Cluster) int {
		if d := b.Size() - a.Size(); d != 0 {
			return d
		}
		return strings.Compare(a.ID, b.ID)
	})

	cost := depotCosts(order, buses)

	var assignments []domain.Assignment
	var incidents []domain.Incident

	for ci, cluster := range order {
		// Whole placement first: nearest feasible depot.
		if bi := nearestFeasibleBus(cost, ci, buses, remaining, cluster.Size()); bi >= 0 {
			bus := buses[bi]
			remaining[bus.ID] -= cluster.Size()
			assignments = append(assignments, domain.Assignment{
				RunID:      run.ID(),
				ClusterID:  cluster.ID,
				BusID:      bus.ID,
				StudentIDs: cluster.StudentIDs(),
			})
			continue
		}

		// Split: peel off the largest fragment the fleet still fits,
		// preferring the bus with the most seats left.
		left := cluster.StudentIDs()
		for len(left) > 0 {
			bi := roomiestBus(cost, ci, buses, remaining)
			if bi < 0 {
				incidents = append(incidents, domain.Incident{
					Type:       domain.IncidentCapacityShortfall,
					RunID:      run.ID(),
					ClusterID:  cluster.ID,
					StudentIDs: left,
					Message:    fmt.Sprintf("no remaining fleet capacity for %d student(s)", len(left)),
				})
				break
			}

			bus := buses[bi]
			take := remaining[bus.ID]
			if take > len(left) {
				take = len(left)
			}
			remaining[bus.ID] -= take
			assignments = append(assignments, domain.Assignment{
				RunID:      run.ID(),
				ClusterID:  cluster.ID,
				BusID:      bus.ID,
				StudentIDs: slices.Clone(left[:take]),
			})
			left = left[take:]
		}
	}

	slices.SortFunc(assignments, func(a, b domain.Assignment) int {
		if d := strings.Compare(a.ClusterID, b.ClusterID); d != 0 {
			return d
		}
		return strings.Compare(a.BusID, b.BusID)
	})

	return assignments, incidents
}

// depotCosts precomputes the cluster-centroid to bus-depot distance matrix
// consulted by every placement decision.
func depotCosts(clusters []domain.Cluster, buses []domain.Bus) *mat.Dense {
	if len(clusters) == 0 || len(buses) == 0 {
		return nil
	}
	cost := mat.NewDense(len(clusters), len(buses), nil)
	for ci, c := range clusters {
		for bi, b := range buses {
			cost.Set(ci, bi, c.Centroid.DistanceTo(b.Depot))
		}
	}
	return cost
}

// nearestFeasibleBus picks the bus with remaining capacity for the whole
// group whose depot is nearest the cluster centroid. Buses arrive sorted
// by ID and the comparison is strict, so ties keep the lowest ID. Returns
// -1 when no bus fits the group.
func nearestFeasibleBus(cost *mat.Dense, ci int, buses []domain.Bus, remaining map[string]int, size int) int {
	best := -1
	bestDist := math.MaxFloat64
	for bi, b := range buses {
		if remaining[b.ID] < size {
			continue
		}
		if d := cost.At(ci, bi); d < bestDist {
			bestDist = d
			best = bi
		}
	}
	return best
}

// roomiestBus picks the bus with the most seats left, breaking ties by
// depot distance and then bus ID order. Returns -1 when the fleet is full.
func roomiestBus(cost *mat.Dense, ci int, buses []domain.Bus, remaining map[string]int) int {
	best := -1
	bestRoom := 0
	bestDist := math.MaxFloat64
	for bi, b := range buses {
		room := remaining[b.ID]
		if room <= 0 {
			continue
		}
		d := cost.At(ci, bi)
		if room > bestRoom || (room == bestRoom && d < bestDist) {
			bestRoom = room
			bestDist = d
			best = bi
		}
	}
	return best
}
