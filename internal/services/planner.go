package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"student-transport-service/internal/domain"
)

// PlannerConfig carries the planning tunables for one invocation. The
// clustering iteration cap belongs to the clusterer itself.
type PlannerConfig struct {
	// Target members per cluster; the grouper derives K from it per run.
	TargetClusterCapacity int
	// Base seed for centroid seeding; each run derives its own stream.
	Seed int64
	// Concurrent run planners. Runs are disjoint, so they only share the
	// read-only input; each gets its own fleet snapshot.
	Workers int
}

const DefaultWorkers = 4

// PlanRequest is the full in-memory input of one planning invocation,
// produced by an ingestion adapter and treated as read-only here.
type PlanRequest struct {
	Students     []domain.Student
	Buses        []domain.Bus
	Universities []domain.University
}

// TransportPlanner runs the planning pipeline: partition students into
// runs, cluster each run geographically, fit clusters onto the fleet and
// sequence each bus's pickups. Strategies are injected so the clustering
// and routing heuristics can be replaced independently.
type TransportPlanner struct {
	clusterer Clusterer
	sequencer StopSequencer
	cfg       PlannerConfig
	log       zerolog.Logger
}

func NewTransportPlanner(clusterer Clusterer, sequencer StopSequencer, cfg PlannerConfig, log zerolog.Logger) (*TransportPlanner, error) {
	if clusterer == nil {
		return nil, errors.New("new transport planner: clusterer must be non-nil")
	}
	if sequencer == nil {
		return nil, errors.New("new transport planner: stop sequencer must be non-nil")
	}
	if cfg.TargetClusterCapacity <= 0 {
		cfg.TargetClusterCapacity = DefaultClusterCapacity
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	return &TransportPlanner{
		clusterer: clusterer,
		sequencer: sequencer,
		cfg:       cfg,
		log:       log,
	}, nil
}

type runOutcome struct {
	index       int
	clusters    []domain.Cluster
	assignments []domain.Assignment
	routes      []domain.Route
	incidents   []domain.Incident
}

// Plan executes the pipeline over the request and always returns a
// PlanResult: per-run failures become incidents instead of aborting
// sibling runs, so callers must inspect result.Incidents for partial
// failure. Output ordering is independent of worker scheduling.
func (p *TransportPlanner) Plan(ctx context.Context, req PlanRequest) (*domain.PlanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("plan transport: %w", err)
	}

	started := time.Now()
	runs, incidents := PartitionRuns(req.Students, req.Universities)

	result := &domain.PlanResult{
		PlanID:      uuid.NewString(),
		Seed:        p.cfg.Seed,
		GeneratedAt: started.UTC(),
		Incidents:   incidents,
	}

	p.log.Info().
		Str("plan_id", result.PlanID).
		Int("students", len(req.Students)).
		Int("buses", len(req.Buses)).
		Int("runs", len(runs)).
		Msg("planning started")

	sem := make(chan struct{}, p.cfg.Workers)
	outcomes := make(chan runOutcome, len(runs))
	var wg sync.WaitGroup

	for i, run := range runs {
		wg.Add(1)
		go func(i int, run domain.Run) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			// Each worker books seats against its own fleet snapshot;
			// runs never compete for capacity.
			outcomes <- p.planRun(run, i, slices.Clone(req.Buses))
		}(i, run)
	}

	wg.Wait()
	close(outcomes)

	// Merge in run order so identical input yields an identical plan.
	ordered := make([]runOutcome, len(runs))
	for o := range outcomes {
		ordered[o.index] = o
	}
	for _, o := range ordered {
		result.Clusters = append(result.Clusters, o.clusters...)
		result.Assignments = append(result.Assignments, o.assignments...)
		result.Routes = append(result.Routes, o.routes...)
		result.Incidents = append(result.Incidents, o.incidents...)
	}

	result.Metrics = ComputeMetrics(*result, len(runs), req.Buses)

	p.log.Info().
		Str("plan_id", result.PlanID).
		Int("clusters", result.Metrics.ClusterCount).
		Int("assignments", result.Metrics.AssignmentCount).
		Int("unassigned", result.Metrics.StudentsUnassigned).
		Int("incidents", result.Metrics.IncidentCount).
		Float64("total_distance", result.Metrics.TotalDistance).
		Dur("elapsed", time.Since(started)).
		Msg("planning finished")

	return result, nil
}

// planRun walks one run through the cluster, assign and route stages.
// A stage failure skips the rest of the run and is reported as a
// validation incident; sibling runs are unaffected.
func (p *TransportPlanner) planRun(run domain.Run, index int, fleet []domain.Bus) runOutcome {
	out := runOutcome{index: index}
	log := p.log.With().Str("run_id", run.ID()).Logger()

	if run.StudentCount() == 0 {
		// Degenerate run: nothing to place, nothing to report.
		return out
	}

	k := ClusterCount(run.StudentCount(), p.cfg.TargetClusterCapacity)
	clusters, err := p.clusterer.Cluster(run, k, runSeed(p.cfg.Seed, run.ID()))
	if err != nil {
		log.Error().Err(err).Msg("clustering failed, run skipped")
		out.incidents = append(out.incidents, runFailure(run, fmt.Errorf("cluster: %w", err)))
		return out
	}
	out.clusters = clusters

	out.assignments, out.incidents = AssignBuses(run, clusters, fleet)

	routes, err := p.sequenceAssignments(run, fleet, out.assignments)
	if err != nil {
		log.Error().Err(err).Msg("routing failed, run skipped")
		// The whole run is skipped: report it once instead of leaving
		// assignments without routes behind.
		return runOutcome{
			index:     index,
			incidents: []domain.Incident{runFailure(run, fmt.Errorf("sequence: %w", err))},
		}
	}
	out.routes = routes

	log.Debug().
		Int("students", run.StudentCount()).
		Int("k", k).
		Int("clusters", len(clusters)).
		Int("assignments", len(out.assignments)).
		Int("routes", len(routes)).
		Msg("run planned")

	return out
}

// sequenceAssignments merges each bus's fragments into one student set and
// orders it into a pickup route, one route per (run, bus) pair.
func (p *TransportPlanner) sequenceAssignments(run domain.Run, fleet []domain.Bus, assignments []domain.Assignment) ([]domain.Route, error) {
	if len(assignments) == 0 {
		return nil, nil
	}

	studentByID := make(map[string]domain.Student, run.StudentCount())
	for _, s := range run.Students {
		studentByID[s.ID] = s
	}
	busByID := make(map[string]domain.Bus, len(fleet))
	for _, b := range fleet {
		busByID[b.ID] = b
	}

	grouped := make(map[string][]domain.Student)
	busOrder := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if _, seen := grouped[a.BusID]; !seen {
			busOrder = append(busOrder, a.BusID)
		}
		for _, id := range a.StudentIDs {
			s, ok := studentByID[id]
			if !ok {
				return nil, fmt.Errorf("assignment %s references unknown student %q", a.ClusterID, id)
			}
			grouped[a.BusID] = append(grouped[a.BusID], s)
		}
	}
	slices.Sort(busOrder)

	routes := make([]domain.Route, 0, len(busOrder))
	for _, busID := range busOrder {
		bus, ok := busByID[busID]
		if !ok {
			return nil, fmt.Errorf("assignment references unknown bus %q", busID)
		}
		route, err := p.sequencer.Sequence(run, bus, grouped[busID])
		if err != nil {
			return nil, fmt.Errorf("bus %s: %w", busID, err)
		}
		routes = append(routes, route)
	}

	return routes, nil
}

func runFailure(run domain.Run, err error) domain.Incident {
	ids := make([]string, len(run.Students))
	for i, s := range run.Students {
		ids[i] = s.ID
	}
	return domain.Incident{
		Type:       domain.IncidentValidation,
		RunID:      run.ID(),
		StudentIDs: ids,
		Message:    fmt.Sprintf("run skipped: %v", err),
	}
}

// runSeed derives a per-run seed from the base seed, so clustering draws
// the same random stream for a run no matter how workers are scheduled.
func runSeed(base int64, runID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(runID))
	return base ^ int64(h.Sum64())
}
