package dto

import "time"

// PlanRequest carries optional planning overrides. Zero values fall back
// to the server's configured defaults.
type PlanRequest struct {
	TargetClusterCapacity int   `json:"target_cluster_capacity"`
	IterationCap          int   `json:"iteration_cap"`
	Seed                  int64 `json:"seed"`
}

type ClusterResponse struct {
	ClusterID   string   `json:"cluster_id"`
	RunID       string   `json:"run_id"`
	CentroidLat float64  `json:"centroid_lat"`
	CentroidLng float64  `json:"centroid_lng"`
	StudentIDs  []string `json:"student_ids"`
}

type AssignmentResponse struct {
	RunID      string   `json:"run_id"`
	ClusterID  string   `json:"cluster_id"`
	BusID      string   `json:"bus_id"`
	StudentIDs []string `json:"student_ids"`
}

type RouteStopResponse struct {
	StudentID          string  `json:"student_id"`
	Lat                float64 `json:"lat"`
	Lng                float64 `json:"lng"`
	LegDistance        float64 `json:"leg_distance"`
	CumulativeDistance float64 `json:"cumulative_distance"`
}

type RouteResponse struct {
	RunID         string              `json:"run_id"`
	BusID         string              `json:"bus_id"`
	UniversityID  string              `json:"university_id"`
	TotalDistance float64             `json:"total_distance"`
	Stops         []RouteStopResponse `json:"stops"`
}

type IncidentResponse struct {
	Type       string   `json:"type"`
	RunID      string   `json:"run_id,omitempty"`
	ClusterID  string   `json:"cluster_id,omitempty"`
	BusID      string   `json:"bus_id,omitempty"`
	StudentIDs []string `json:"student_ids,omitempty"`
	Message    string   `json:"message"`
}

type PlanMetricsResponse struct {
	TotalDistance      float64 `json:"total_distance"`
	RunCount           int     `json:"run_count"`
	ClusterCount       int     `json:"cluster_count"`
	AssignmentCount    int     `json:"assignment_count"`
	RouteCount         int     `json:"route_count"`
	StudentsAssigned   int     `json:"students_assigned"`
	StudentsUnassigned int     `json:"students_unassigned"`
	ClusterSplits      int     `json:"cluster_splits"`
	IncidentCount      int     `json:"incident_count"`
	IdleBuses          int     `json:"idle_buses"`
	MeanUtilization    float64 `json:"mean_utilization"`
}

type PlanResponse struct {
	PlanID      string               `json:"plan_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Seed        int64                `json:"seed"`
	Metrics     PlanMetricsResponse  `json:"metrics"`
	Clusters    []ClusterResponse    `json:"clusters"`
	Assignments []AssignmentResponse `json:"assignments"`
	Routes      []RouteResponse      `json:"routes"`
	Incidents   []IncidentResponse   `json:"incidents"`
}

type PlanSummaryResponse struct {
	PlanID             string    `json:"plan_id"`
	GeneratedAt        time.Time `json:"generated_at"`
	Seed               int64     `json:"seed"`
	RunCount           int       `json:"run_count"`
	StudentsAssigned   int       `json:"students_assigned"`
	StudentsUnassigned int       `json:"students_unassigned"`
	IncidentCount      int       `json:"incident_count"`
	TotalDistance      float64   `json:"total_distance"`
}

type ListPlansResponse struct {
	Plans []PlanSummaryResponse `json:"plans"`
}
