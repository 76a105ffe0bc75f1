package services

import (
	"fmt"
	"testing"

	"student-transport-service/internal/domain"
)

func TestComputeMetricsAggregates(t *testing.T) {
	// build a plan by hand: one run, one split cluster, one whole cluster,
	// a third bus never used
	runID := "Mon_07:00-08:00_UNI_01"
	fleet := []domain.Bus{
		{ID: "BUS_01", Capacity: 10},
		{ID: "BUS_02", Capacity: 20},
		{ID: "BUS_03", Capacity: 10},
	}
	result := domain.PlanResult{
		Clusters: []domain.Cluster{
			{ID: runID + "_C01", RunID: runID},
			{ID: runID + "_C02", RunID: runID},
		},
		Assignments: []domain.Assignment{
			{RunID: runID, ClusterID: runID + "_C01", BusID: "BUS_01", StudentIDs: seatIDs(5)},
			{RunID: runID, ClusterID: runID + "_C01", BusID: "BUS_02", StudentIDs: seatIDs(5)},
			{RunID: runID, ClusterID: runID + "_C02", BusID: "BUS_02", StudentIDs: seatIDs(10)},
		},
		Routes: []domain.Route{
			{RunID: runID, BusID: "BUS_01", TotalDistance: 3.5},
			{RunID: runID, BusID: "BUS_02", TotalDistance: 1.5},
		},
		Incidents: []domain.Incident{
			{Type: domain.IncidentCapacityShortfall, RunID: runID, StudentIDs: []string{"X1", "X2"}},
			{Type: domain.IncidentValidation, RunID: runID, StudentIDs: []string{"Y1", "Y2", "Y3"}},
		},
	}

	m := ComputeMetrics(result, 1, fleet)

	if m.RunCount != 1 || m.ClusterCount != 2 || m.AssignmentCount != 3 || m.RouteCount != 2 {
		t.Errorf("counts = %d/%d/%d/%d, want 1/2/3/2",
			m.RunCount, m.ClusterCount, m.AssignmentCount, m.RouteCount)
	}
	if m.TotalDistance != 5 {
		t.Errorf("total distance = %v, want 5", m.TotalDistance)
	}
	if m.StudentsAssigned != 20 {
		t.Errorf("students assigned = %d, want 20", m.StudentsAssigned)
	}
	// only capacity shortfalls count as unassigned
	if m.StudentsUnassigned != 2 {
		t.Errorf("students unassigned = %d, want 2", m.StudentsUnassigned)
	}
	if m.ClusterSplits != 1 {
		t.Errorf("cluster splits = %d, want 1", m.ClusterSplits)
	}
	if m.IncidentCount != 2 {
		t.Errorf("incident count = %d, want 2", m.IncidentCount)
	}
	if m.IdleBuses != 1 {
		t.Errorf("idle buses = %d, want 1", m.IdleBuses)
	}

	// per-trip seat usage: 5/10 on BUS_01 and 15/20 on BUS_02
	if len(m.Utilization) != 2 {
		t.Fatalf("expected 2 utilization entries, got %d", len(m.Utilization))
	}
	if u := m.Utilization[0]; u.BusID != "BUS_01" || u.Assigned != 5 || u.Capacity != 10 || u.Ratio != 0.5 {
		t.Errorf("first trip utilization = %+v", u)
	}
	if u := m.Utilization[1]; u.BusID != "BUS_02" || u.Assigned != 15 || u.Capacity != 20 || u.Ratio != 0.75 {
		t.Errorf("second trip utilization = %+v", u)
	}
	if m.MeanUtilization != 0.625 {
		t.Errorf("mean utilization = %v, want 0.625", m.MeanUtilization)
	}
}

func TestComputeMetricsEmptyPlan(t *testing.T) {
	m := ComputeMetrics(domain.PlanResult{}, 0, nil)

	if m.StudentsAssigned != 0 || m.StudentsUnassigned != 0 || m.TotalDistance != 0 {
		t.Errorf("empty plan produced totals: %+v", m)
	}
	if m.MeanUtilization != 0 {
		t.Errorf("mean utilization = %v, want 0", m.MeanUtilization)
	}
	if len(m.Utilization) != 0 {
		t.Errorf("expected no utilization entries, got %d", len(m.Utilization))
	}
	if m.IdleBuses != 0 {
		t.Errorf("idle buses = %d, want 0", m.IdleBuses)
	}
}

// seatIDs returns n placeholder member IDs; metrics only counts them.
func seatIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("M%02d", i+1)
	}
	return ids
}
