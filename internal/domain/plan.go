package domain

import "time"

// IncidentType classifies recorded partial failures.
type IncidentType string

const (
	// Input failed referential validation; the affected run is skipped
	// while sibling runs continue.
	IncidentValidation IncidentType = "validation_error"
	// The fleet could not absorb every student in a run. Cluster splits
	// that were fully absorbed are not incidents; they show up as
	// multiple assignments for one cluster and in PlanMetrics.
	IncidentCapacityShortfall IncidentType = "capacity_shortfall"
)

// Incident records a partial failure that did not abort the plan. Callers
// inspect the incident list instead of relying on a fatal error.
type Incident struct {
	Type       IncidentType
	RunID      string
	ClusterID  string
	BusID      string
	StudentIDs []string
	Message    string
}

// Assignment binds one cluster, or one fragment of a split cluster, to a
// single bus. Assigned counts per bus never exceed its capacity.
type Assignment struct {
	RunID      string
	ClusterID  string
	BusID      string
	StudentIDs []string
}

func (a Assignment) Size() int { return len(a.StudentIDs) }

// RouteStop is a single student pickup. LegDistance is measured from the
// previous position (the depot for the first stop); CumulativeDistance is
// the running total up to and including this stop.
type RouteStop struct {
	StudentID          string
	Location           Coordinates
	LegDistance        float64
	CumulativeDistance float64
}

// Route is the planned pickup sequence for one bus within one run. The bus
// starts at its depot, visits Stops in order and ends at the university.
// It is immutable planning data and contains no side effects.
type Route struct {
	RunID            string
	BusID            string
	Depot            Coordinates
	Stops            []RouteStop
	UniversityID     string
	UniversityStop   Coordinates
	FinalLegDistance float64
	TotalDistance    float64
}

func (r Route) StudentCount() int { return len(r.Stops) }

// BusUtilization reports seat usage for one bus within one run. Capacity
// binds per trip, so the ratio is computed per (run, bus) pair.
type BusUtilization struct {
	RunID    string
	BusID    string
	Assigned int
	Capacity int
	Ratio    float64
}

// PlanMetrics aggregates the whole plan: distance, seat utilization and
// constraint violations.
type PlanMetrics struct {
	TotalDistance      float64
	RunCount           int
	ClusterCount       int
	AssignmentCount    int
	RouteCount         int
	StudentsAssigned   int
	StudentsUnassigned int
	ClusterSplits      int
	IncidentCount      int
	IdleBuses          int
	MeanUtilization    float64
	Utilization        []BusUtilization
}

// PlanResult is the complete output of one planning invocation: every
// derived artifact plus the incidents collected along the way. Produced
// once, never mutated, and always returned even when runs partially fail.
type PlanResult struct {
	PlanID      string
	Seed        int64
	GeneratedAt time.Time
	Clusters    []Cluster
	Assignments []Assignment
	Routes      []Route
	Incidents   []Incident
	Metrics     PlanMetrics
}
