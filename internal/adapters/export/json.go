package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"student-transport-service/internal/domain"
)

// JSON document shapes. The adapter owns its wire format so the domain
// stays free of serialization tags.

type planDocument struct {
	PlanID      string               `json:"plan_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Seed        int64                `json:"seed"`
	Metrics     metricsDocument      `json:"metrics"`
	Clusters    []clusterDocument    `json:"clusters"`
	Assignments []assignmentDocument `json:"assignments"`
	Routes      []routeDocument      `json:"routes"`
	Incidents   []incidentDocument   `json:"incidents"`
}

type metricsDocument struct {
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

type clusterDocument struct {
	ClusterID   string   `json:"cluster_id"`
	RunID       string   `json:"run_id"`
	CentroidLat float64  `json:"centroid_lat"`
	CentroidLng float64  `json:"centroid_lng"`
	StudentIDs  []string `json:"student_ids"`
}

type assignmentDocument struct {
	RunID      string   `json:"run_id"`
	ClusterID  string   `json:"cluster_id"`
	BusID      string   `json:"bus_id"`
	StudentIDs []string `json:"student_ids"`
}

type routeDocument struct {
	RunID         string         `json:"run_id"`
	BusID         string         `json:"bus_id"`
	UniversityID  string         `json:"university_id"`
	TotalDistance float64        `json:"total_distance"`
	Stops         []stopDocument `json:"stops"`
}

type stopDocument struct {
	StudentID          string  `json:"student_id"`
	Lat                float64 `json:"lat"`
	Lng                float64 `json:"lng"`
	LegDistance        float64 `json:"leg_distance"`
	CumulativeDistance float64 `json:"cumulative_distance"`
}

type incidentDocument struct {
	Type       string   `json:"type"`
	RunID      string   `json:"run_id,omitempty"`
	ClusterID  string   `json:"cluster_id,omitempty"`
	BusID      string   `json:"bus_id,omitempty"`
	StudentIDs []string `json:"student_ids,omitempty"`
	Message    string   `json:"message"`
}

// WritePlanJSON renders the complete plan as an indented JSON document.
func WritePlanJSON(w io.Writer, plan *domain.PlanResult) error {
	doc := planDocument{
		PlanID:      plan.PlanID,
		GeneratedAt: plan.GeneratedAt,
		Seed:        plan.Seed,
		Metrics: metricsDocument{
			TotalDistance:      plan.Metrics.TotalDistance,
			RunCount:           plan.Metrics.RunCount,
			ClusterCount:       plan.Metrics.ClusterCount,
			AssignmentCount:    plan.Metrics.AssignmentCount,
			RouteCount:         plan.Metrics.RouteCount,
			StudentsAssigned:   plan.Metrics.StudentsAssigned,
			StudentsUnassigned: plan.Metrics.StudentsUnassigned,
			ClusterSplits:      plan.Metrics.ClusterSplits,
			IncidentCount:      plan.Metrics.IncidentCount,
			IdleBuses:          plan.Metrics.IdleBuses,
			MeanUtilization:    plan.Metrics.MeanUtilization,
		},
		Clusters:    make([]clusterDocument, 0, len(plan.Clusters)),
		Assignments: make([]assignmentDocument, 0, len(plan.Assignments)),
		Routes:      make([]routeDocument, 0, len(plan.Routes)),
		Incidents:   make([]incidentDocument, 0, len(plan.Incidents)),
	}

	for _, c := range plan.Clusters {
		doc.Clusters = append(doc.Clusters, clusterDocument{
			ClusterID:   c.ID,
			RunID:       c.RunID,
			CentroidLat: c.Centroid.Lat,
			CentroidLng: c.Centroid.Lng,
			StudentIDs:  c.StudentIDs(),
		})
	}
	for _, a := range plan.Assignments {
		doc.Assignments = append(doc.Assignments, assignmentDocument{
			RunID:      a.RunID,
			ClusterID:  a.ClusterID,
			BusID:      a.BusID,
			StudentIDs: a.StudentIDs,
		})
	}
	for _, r := range plan.Routes {
		stops := make([]stopDocument, 0, len(r.Stops))
		for _, s := range r.Stops {
			stops = append(stops, stopDocument{
				StudentID:          s.StudentID,
				Lat:                s.Location.Lat,
				Lng:                s.Location.Lng,
				LegDistance:        s.LegDistance,
				CumulativeDistance: s.CumulativeDistance,
			})
		}
		doc.Routes = append(doc.Routes, routeDocument{
			RunID:         r.RunID,
			BusID:         r.BusID,
			UniversityID:  r.UniversityID,
			TotalDistance: r.TotalDistance,
			Stops:         stops,
		})
	}
	for _, inc := range plan.Incidents {
		doc.Incidents = append(doc.Incidents, incidentDocument{
			Type:       string(inc.Type),
			RunID:      inc.RunID,
			ClusterID:  inc.ClusterID,
			BusID:      inc.BusID,
			StudentIDs: inc.StudentIDs,
			Message:    inc.Message,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write plan json: %w", err)
	}
	return nil
}
