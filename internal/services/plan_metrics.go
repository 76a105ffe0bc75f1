package services

import (
	"gonum.org/v1/gonum/stat"

	"student-transport-service/internal/domain"
)

// ComputeMetrics aggregates distance, seat utilization and violation
// counts over an assembled plan. Pure aggregation: nothing upstream is
// mutated. Utilization is reported per (run, bus) pair because capacity
// binds per trip, while the idle count covers buses unused by every run.
func ComputeMetrics(result domain.PlanResult, runCount int, fleet []domain.Bus) domain.PlanMetrics {
	m := domain.PlanMetrics{
		RunCount:        runCount,
		ClusterCount:    len(result.Clusters),
		AssignmentCount: len(result.Assignments),
		RouteCount:      len(result.Routes),
		IncidentCount:   len(result.Incidents),
	}

	for _, r := range result.Routes {
		m.TotalDistance += r.TotalDistance
	}

	capacity := make(map[string]int, len(fleet))
	for _, b := range fleet {
		capacity[b.ID] = b.Capacity
	}

	type tripKey struct{ runID, busID string }
	assigned := make(map[tripKey]int)
	tripOrder := make([]tripKey, 0, len(result.Assignments))
	clusterBuses := make(map[string]map[string]struct{})
	usedBuses := make(map[string]struct{})

	for _, a := range result.Assignments {
		key := tripKey{a.RunID, a.BusID}
		if _, seen := assigned[key]; !seen {
			tripOrder = append(tripOrder, key)
		}
		assigned[key] += a.Size()
		m.StudentsAssigned += a.Size()

		usedBuses[a.BusID] = struct{}{}
		buses, ok := clusterBuses[a.ClusterID]
		if !ok {
			buses = make(map[string]struct{})
			clusterBuses[a.ClusterID] = buses
		}
		buses[a.BusID] = struct{}{}
	}

	for _, buses := range clusterBuses {
		if len(buses) > 1 {
			m.ClusterSplits++
		}
	}

	for _, inc := range result.Incidents {
		if inc.Type == domain.IncidentCapacityShortfall {
			m.StudentsUnassigned += len(inc.StudentIDs)
		}
	}

	m.IdleBuses = len(fleet) - len(usedBuses)

	ratios := make([]float64, 0, len(tripOrder))
	m.Utilization = make([]domain.BusUtilization, 0, len(tripOrder))
	for _, key := range tripOrder {
		seats := capacity[key.busID]
		n := assigned[key]
		ratio := 0.0
		if seats > 0 {
			ratio = float64(n) / float64(seats)
		}
		ratios = append(ratios, ratio)
		m.Utilization = append(m.Utilization, domain.BusUtilization{
			RunID:    key.runID,
			BusID:    key.busID,
			Assigned: n,
			Capacity: seats,
			Ratio:    ratio,
		})
	}
	if len(ratios) > 0 {
		m.MeanUtilization = stat.Mean(ratios, nil)
	}

	return m
}
