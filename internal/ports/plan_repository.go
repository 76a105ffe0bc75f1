package ports

import (
	"context"
	"errors"
	"time"

	"student-transport-service/internal/domain"
)

// ErrPlanNotFound signals a lookup for a plan ID that was never stored.
var ErrPlanNotFound = errors.New("plan not found")

// PlanSummary is the persisted header of one plan: enough to list past
// invocations without loading the full payload.
type PlanSummary struct {
	PlanID             string
	GeneratedAt        time.Time
	Seed               int64
	RunCount           int
	StudentsAssigned   int
	StudentsUnassigned int
	IncidentCount      int
	TotalDistance      float64
}

// Port: a boundary for persisting and retrieving computed plans.
type PlanRepository interface {
	// Store a finished plan, summary columns plus the full payload.
	SavePlan(ctx context.Context, plan *domain.PlanResult) error
	// Retrieve summaries of stored plans, newest first.
	ListPlans(ctx context.Context) ([]PlanSummary, error)
	// Retrieve one stored plan in full. Returns ErrPlanNotFound when the
	// ID is unknown.
	GetPlan(ctx context.Context, planID string) (*domain.PlanResult, error)
}
