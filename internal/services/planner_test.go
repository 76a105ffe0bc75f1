package services

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"student-transport-service/internal/domain"
)

// cohortStudents builds n students with IDs starting at from, homes spread
// in a tight line from base, all bound for uni on the given days.
func cohortStudents(t *testing.T, n, from int, base domain.Coordinates, uni string, days []domain.Weekday) []domain.Student {
	t.Helper()
	w := testWindow(t, 7*60, 8*60)
	students := make([]domain.Student, n)
	for i := range students {
		students[i] = domain.Student{
			ID:           fmt.Sprintf("S%03d", from+i),
			Home:         domain.Coordinates{Lat: base.Lat + float64(i)*0.001, Lng: base.Lng},
			UniversityID: uni,
			Days:         days,
			Window:       w,
		}
	}
	return students
}

func testPlanner(t *testing.T, capacity, workers int, seed int64) *TransportPlanner {
	t.Helper()
	p, err := NewTransportPlanner(
		NewKMeansClusterer(DefaultIterationCap),
		NewNearestNeighborSequencer(),
		PlannerConfig{TargetClusterCapacity: capacity, Seed: seed, Workers: workers},
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestNewTransportPlannerValidation(t *testing.T) {
	if _, err := NewTransportPlanner(nil, NewNearestNeighborSequencer(), PlannerConfig{}, zerolog.Nop()); err == nil {
		t.Error("expected an error for a nil clusterer")
	}
	if _, err := NewTransportPlanner(NewKMeansClusterer(1), nil, PlannerConfig{}, zerolog.Nop()); err == nil {
		t.Error("expected an error for a nil sequencer")
	}
}

func TestPlannerSingleRunSingleBus(t *testing.T) {
	// 12 students at capacity 12 make exactly one cluster
	req := PlanRequest{
		Students: cohortStudents(t, 12, 1, domain.Coordinates{Lat: 33.89, Lng: 35.50}, "UNI_01", []domain.Weekday{domain.Monday}),
		Buses: []domain.Bus{
			{ID: "BUS_01", Capacity: 12, Depot: domain.Coordinates{Lat: 33.88, Lng: 35.50}},
			{ID: "BUS_02", Capacity: 20, Depot: domain.Coordinates{Lat: 40.00, Lng: 40.00}},
		},
		Universities: []domain.University{
			{ID: "UNI_01", Name: "Central University", Location: domain.Coordinates{Lat: 33.95, Lng: 35.55}},
		},
	}

	plan, err := testPlanner(t, 12, 2, 42).Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.PlanID == "" {
		t.Error("plan has no ID")
	}
	if len(plan.Incidents) != 0 {
		t.Fatalf("unexpected incidents: %+v", plan.Incidents)
	}
	if len(plan.Clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(plan.Clusters))
	}
	if len(plan.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(plan.Assignments))
	}
	if plan.Assignments[0].BusID != "BUS_01" {
		t.Errorf("assignment went to %s, want the near BUS_01", plan.Assignments[0].BusID)
	}
	if len(plan.Routes) != 1 || len(plan.Routes[0].Stops) != 12 {
		t.Fatalf("expected one 12-stop route, got %+v", plan.Routes)
	}
	if plan.Metrics.StudentsAssigned != 12 || plan.Metrics.StudentsUnassigned != 0 {
		t.Errorf("metrics = %d assigned / %d unassigned, want 12/0",
			plan.Metrics.StudentsAssigned, plan.Metrics.StudentsUnassigned)
	}
	if plan.Metrics.RunCount != 1 {
		t.Errorf("run count = %d, want 1", plan.Metrics.RunCount)
	}
}

func TestPlannerCoversEveryStudentWithoutOverload(t *testing.T) {
	// 25 students in three distinct neighborhoods force K=3 at capacity 12
	var students []domain.Student
	students = append(students, cohortStudents(t, 9, 1, domain.Coordinates{Lat: 33.80, Lng: 35.40}, "UNI_01", []domain.Weekday{domain.Monday})...)
	students = append(students, cohortStudents(t, 8, 10, domain.Coordinates{Lat: 33.95, Lng: 35.60}, "UNI_01", []domain.Weekday{domain.Monday})...)
	students = append(students, cohortStudents(t, 8, 18, domain.Coordinates{Lat: 34.10, Lng: 35.45}, "UNI_01", []domain.Weekday{domain.Monday})...)

	fleet := []domain.Bus{
		{ID: "BUS_01", Capacity: 10, Depot: domain.Coordinates{Lat: 33.80, Lng: 35.41}},
		{ID: "BUS_02", Capacity: 10, Depot: domain.Coordinates{Lat: 33.95, Lng: 35.61}},
		{ID: "BUS_03", Capacity: 12, Depot: domain.Coordinates{Lat: 34.10, Lng: 35.46}},
	}
	req := PlanRequest{
		Students: students,
		Buses:    fleet,
		Universities: []domain.University{
			{ID: "UNI_01", Location: domain.Coordinates{Lat: 33.95, Lng: 35.50}},
		},
	}

	plan, err := testPlanner(t, 12, 3, 42).Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Incidents) != 0 {
		t.Fatalf("fleet has room for everyone, got incidents: %+v", plan.Incidents)
	}
	if len(plan.Clusters) != 3 {
		t.Errorf("expected 3 clusters, got %d", len(plan.Clusters))
	}

	// every student rides exactly once
	assigned := make(map[string]int)
	for _, a := range plan.Assignments {
		for _, id := range a.StudentIDs {
			assigned[id]++
		}
	}
	if len(assigned) != 25 {
		t.Errorf("assigned %d distinct students, want 25", len(assigned))
	}
	for id, n := range assigned {
		if n != 1 {
			t.Errorf("student %s assigned %d times", id, n)
		}
	}
	checkCapacityRespected(t, plan.Assignments, fleet)

	stops := 0
	for _, r := range plan.Routes {
		stops += len(r.Stops)
	}
	if stops != 25 {
		t.Errorf("routes cover %d stops, want 25", stops)
	}
	if plan.Metrics.StudentsAssigned != 25 {
		t.Errorf("metrics report %d assigned, want 25", plan.Metrics.StudentsAssigned)
	}
}

func TestPlannerDeterministicAcrossWorkerCounts(t *testing.T) {
	// four runs: two universities on two days each
	var students []domain.Student
	days := []domain.Weekday{domain.Monday, domain.Wednesday}
	students = append(students, cohortStudents(t, 10, 1, domain.Coordinates{Lat: 33.85, Lng: 35.48}, "UNI_01", days)...)
	students = append(students, cohortStudents(t, 10, 11, domain.Coordinates{Lat: 33.92, Lng: 35.55}, "UNI_02", days)...)

	req := PlanRequest{
		Students: students,
		Buses: []domain.Bus{
			{ID: "BUS_01", Capacity: 14, Depot: domain.Coordinates{Lat: 33.86, Lng: 35.49}},
			{ID: "BUS_02", Capacity: 14, Depot: domain.Coordinates{Lat: 33.93, Lng: 35.56}},
		},
		Universities: []domain.University{
			{ID: "UNI_01", Location: domain.Coordinates{Lat: 33.95, Lng: 35.50}},
			{ID: "UNI_02", Location: domain.Coordinates{Lat: 33.88, Lng: 35.60}},
		},
	}

	serial, err := testPlanner(t, 12, 1, 7).Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parallel, err := testPlanner(t, 12, 4, 7).Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if serial.Metrics.RunCount != 4 {
		t.Fatalf("expected 4 runs, got %d", serial.Metrics.RunCount)
	}
	if !reflect.DeepEqual(serial.Clusters, parallel.Clusters) {
		t.Error("cluster output depends on worker count")
	}
	if !reflect.DeepEqual(serial.Assignments, parallel.Assignments) {
		t.Error("assignment output depends on worker count")
	}
	if !reflect.DeepEqual(serial.Routes, parallel.Routes) {
		t.Error("route output depends on worker count")
	}
	if !reflect.DeepEqual(serial.Metrics, parallel.Metrics) {
		t.Error("metrics depend on worker count")
	}
}

func TestPlannerRecordsCapacityShortfall(t *testing.T) {
	req := PlanRequest{
		Students: cohortStudents(t, 5, 1, domain.Coordinates{Lat: 33.89, Lng: 35.50}, "UNI_01", []domain.Weekday{domain.Monday}),
		Buses: []domain.Bus{
			{ID: "BUS_01", Capacity: 3, Depot: domain.Coordinates{Lat: 33.88, Lng: 35.50}},
		},
		Universities: []domain.University{
			{ID: "UNI_01", Location: domain.Coordinates{Lat: 33.95, Lng: 35.55}},
		},
	}

	plan, err := testPlanner(t, 12, 2, 42).Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Incidents) != 1 || plan.Incidents[0].Type != domain.IncidentCapacityShortfall {
		t.Fatalf("expected one capacity shortfall, got %+v", plan.Incidents)
	}
	if plan.Metrics.StudentsAssigned != 3 || plan.Metrics.StudentsUnassigned != 2 {
		t.Errorf("metrics = %d assigned / %d unassigned, want 3/2",
			plan.Metrics.StudentsAssigned, plan.Metrics.StudentsUnassigned)
	}
	if len(plan.Routes) != 1 || len(plan.Routes[0].Stops) != 3 {
		t.Fatalf("expected one 3-stop route, got %+v", plan.Routes)
	}
}

func TestPlannerPropagatesValidationIncidents(t *testing.T) {
	req := PlanRequest{
		Students: cohortStudents(t, 2, 1, domain.Coordinates{Lat: 33.89, Lng: 35.50}, "UNI_99", []domain.Weekday{domain.Monday}),
		Buses: []domain.Bus{
			{ID: "BUS_01", Capacity: 10, Depot: domain.Coordinates{Lat: 33.88, Lng: 35.50}},
		},
		Universities: []domain.University{
			{ID: "UNI_01", Location: domain.Coordinates{Lat: 33.95, Lng: 35.55}},
		},
	}

	plan, err := testPlanner(t, 12, 2, 42).Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Clusters) != 0 || len(plan.Assignments) != 0 {
		t.Errorf("students referencing an unknown university must not be planned: %+v", plan)
	}
	if len(plan.Incidents) == 0 || plan.Incidents[0].Type != domain.IncidentValidation {
		t.Errorf("expected a validation incident, got %+v", plan.Incidents)
	}
}

func TestPlannerEmptyRequest(t *testing.T) {
	plan, err := testPlanner(t, 12, 2, 42).Plan(context.Background(), PlanRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.PlanID == "" {
		t.Error("plan has no ID")
	}
	if len(plan.Clusters) != 0 || len(plan.Routes) != 0 || len(plan.Incidents) != 0 {
		t.Errorf("empty request should produce an empty plan, got %+v", plan)
	}
}

func TestPlannerHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testPlanner(t, 12, 2, 42).Plan(ctx, PlanRequest{})
	if err == nil {
		t.Fatal("expected an error for a canceled context")
	}
}
