package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"student-transport-service/internal/api/dto"
	"student-transport-service/internal/domain"
	"student-transport-service/internal/platform/metrics"
	"student-transport-service/internal/platform/obs"
	"student-transport-service/internal/ports"
	"student-transport-service/internal/services"
)

var plannerLog = obs.NewLogger("planner")

// PlanDefaults are the server-level planning tunables. Requests may
// override capacity, iteration cap and seed per call.
type PlanDefaults struct {
	TargetClusterCapacity int
	IterationCap          int
	Seed                  int64
	Workers               int
}

// PlanHandler computes transport plans over the stored roster and serves
// previously persisted plans.
type PlanHandler struct {
	Roster   ports.RosterRepository
	Plans    ports.PlanRepository
	Defaults PlanDefaults
}

// Handle dispatches the /plans collection: POST computes and persists a
// new plan, GET lists stored summaries.
func (h *PlanHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// create orchestrates one planning invocation: load the roster, run the
// pipeline, persist the result and return it.
func (h *PlanHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	// An empty body plans with the configured defaults.
	if err := dec.Decode(&req); err != nil {
		if err != io.EOF {
			writeError(w, r, http.StatusBadRequest, "invalid json body")
			return
		}
	} else if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	capacity := req.TargetClusterCapacity
	if capacity == 0 {
		capacity = h.Defaults.TargetClusterCapacity
	}
	if capacity < 1 || capacity > 100 {
		writeError(w, r, http.StatusBadRequest, "target_cluster_capacity must be between 1 and 100")
		return
	}

	iterationCap := req.IterationCap
	if iterationCap == 0 {
		iterationCap = h.Defaults.IterationCap
	}
	if iterationCap < 1 || iterationCap > 1000 {
		writeError(w, r, http.StatusBadRequest, "iteration_cap must be between 1 and 1000")
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = h.Defaults.Seed
	}

	students, err := h.Roster.ListStudents(r.Context())
	if err != nil {
		apiLog.Error().Err(err).Msg("load students failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	buses, err := h.Roster.ListBuses(r.Context())
	if err != nil {
		apiLog.Error().Err(err).Msg("load buses failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	universities, err := h.Roster.ListUniversities(r.Context())
	if err != nil {
		apiLog.Error().Err(err).Msg("load universities failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	planner, err := services.NewTransportPlanner(
		services.NewKMeansClusterer(iterationCap),
		services.NewNearestNeighborSequencer(),
		services.PlannerConfig{
			TargetClusterCapacity: capacity,
			Seed:                  seed,
			Workers:               h.Defaults.Workers,
		},
		plannerLog,
	)
	if err != nil {
		apiLog.Error().Err(err).Msg("build planner failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	plan, err := planner.Plan(r.Context(), services.PlanRequest{
		Students:     students,
		Buses:        buses,
		Universities: universities,
	})
	if err != nil {
		apiLog.Error().Err(err).Msg("plan transport failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.Plans.SavePlan(r.Context(), plan); err != nil {
		apiLog.Error().Err(err).Str("plan_id", plan.PlanID).Msg("persist plan failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	incidentsByType := make(map[string]int)
	for _, inc := range plan.Incidents {
		incidentsByType[string(inc.Type)]++
	}
	metrics.ObservePlan(
		plan.Metrics.StudentsAssigned,
		plan.Metrics.StudentsUnassigned,
		incidentsByType,
		plan.Metrics.TotalDistance,
	)

	writeJSON(w, r, http.StatusCreated, planResponse(plan))
}

func (h *PlanHandler) list(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Plans.ListPlans(r.Context())
	if err != nil {
		apiLog.Error().Err(err).Msg("list plans failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPlansResponse{
		Plans: make([]dto.PlanSummaryResponse, 0, len(summaries)),
	}
	for _, s := range summaries {
		res.Plans = append(res.Plans, dto.PlanSummaryResponse{
			PlanID:             s.PlanID,
			GeneratedAt:        s.GeneratedAt,
			Seed:               s.Seed,
			RunCount:           s.RunCount,
			StudentsAssigned:   s.StudentsAssigned,
			StudentsUnassigned: s.StudentsUnassigned,
			IncidentCount:      s.IncidentCount,
			TotalDistance:      s.TotalDistance,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Get serves one stored plan by ID from the /plans/{id} subtree.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/plans/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "plan not found")
		return
	}

	plan, err := h.Plans.GetPlan(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrPlanNotFound) {
			writeError(w, r, http.StatusNotFound, "plan not found")
			return
		}
		apiLog.Error().Err(err).Str("plan_id", id).Msg("get plan failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, planResponse(plan))
}

func planResponse(plan *domain.PlanResult) dto.PlanResponse {
	res := dto.PlanResponse{
		PlanID:      plan.PlanID,
		GeneratedAt: plan.GeneratedAt,
		Seed:        plan.Seed,
		Metrics: dto.PlanMetricsResponse{
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
		Clusters:    make([]dto.ClusterResponse, 0, len(plan.Clusters)),
		Assignments: make([]dto.AssignmentResponse, 0, len(plan.Assignments)),
		Routes:      make([]dto.RouteResponse, 0, len(plan.Routes)),
		Incidents:   make([]dto.IncidentResponse, 0, len(plan.Incidents)),
	}

	for _, c := range plan.Clusters {
		res.Clusters = append(res.Clusters, dto.ClusterResponse{
			ClusterID:   c.ID,
			RunID:       c.RunID,
			CentroidLat: c.Centroid.Lat,
			CentroidLng: c.Centroid.Lng,
			StudentIDs:  c.StudentIDs(),
		})
	}
	for _, a := range plan.Assignments {
		res.Assignments = append(res.Assignments, dto.AssignmentResponse{
			RunID:      a.RunID,
			ClusterID:  a.ClusterID,
			BusID:      a.BusID,
			StudentIDs: a.StudentIDs,
		})
	}
	for _, rt := range plan.Routes {
		stops := make([]dto.RouteStopResponse, 0, len(rt.Stops))
		for _, s := range rt.Stops {
			stops = append(stops, dto.RouteStopResponse{
				StudentID:          s.StudentID,
				Lat:                s.Location.Lat,
				Lng:                s.Location.Lng,
				LegDistance:        s.LegDistance,
				CumulativeDistance: s.CumulativeDistance,
			})
		}
		res.Routes = append(res.Routes, dto.RouteResponse{
			RunID:         rt.RunID,
			BusID:         rt.BusID,
			UniversityID:  rt.UniversityID,
			TotalDistance: rt.TotalDistance,
			Stops:         stops,
		})
	}
	for _, inc := range plan.Incidents {
		res.Incidents = append(res.Incidents, dto.IncidentResponse{
			Type:       string(inc.Type),
			RunID:      inc.RunID,
			ClusterID:  inc.ClusterID,
			BusID:      inc.BusID,
			StudentIDs: inc.StudentIDs,
			Message:    inc.Message,
		})
	}

	return res
}
