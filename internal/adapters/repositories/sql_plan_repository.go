package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"student-transport-service/internal/domain"
	"student-transport-service/internal/platform/obs"
	"student-transport-service/internal/ports"
)

// SQL-backed implementation of the PlanRepository port. Summary columns
// support listing; the full result round-trips through a JSON payload.
type SQLPlanRepository struct{ DB *sql.DB }

func NewSQLPlanRepository(db *sql.DB) *SQLPlanRepository {
	return &SQLPlanRepository{DB: db}
}

// Store one finished plan.
func (s *SQLPlanRepository) SavePlan(ctx context.Context, plan *domain.PlanResult) (err error) {
	defer obs.Time(ctx, "plans.Save")(&err)

	if s.DB == nil {
		return errors.New("plan repository: DB is nil")
	}
	if plan == nil {
		return errors.New("save plan: plan is nil")
	}
	if plan.PlanID == "" {
		return errors.New("save plan: plan has no ID")
	}

	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("save plan: marshal payload: %w", err)
	}

	query := `
	INSERT INTO plans (
		plan_id,
		generated_at,
		seed,
		run_count,
		students_assigned,
		students_unassigned,
		incident_count,
		total_distance,
		payload
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	if _, err := s.DB.ExecContext(ctx, query,
		plan.PlanID,
		plan.GeneratedAt.UTC().Format(time.RFC3339Nano),
		plan.Seed,
		plan.Metrics.RunCount,
		plan.Metrics.StudentsAssigned,
		plan.Metrics.StudentsUnassigned,
		plan.Metrics.IncidentCount,
		plan.Metrics.TotalDistance,
		string(payload),
	); err != nil {
		return fmt.Errorf("save plan: insert plan_id=%s: %w", plan.PlanID, err)
	}

	return nil
}

// Return stored plan summaries, newest first.
func (s *SQLPlanRepository) ListPlans(ctx context.Context) (_ []ports.PlanSummary, err error) {
	defer obs.Time(ctx, "plans.List")(&err)

	if s.DB == nil {
		return nil, errors.New("plan repository: DB is nil")
	}

	query := `
	SELECT
		plan_id,
		generated_at,
		seed,
		run_count,
		students_assigned,
		students_unassigned,
		incident_count,
		total_distance
	FROM plans
	ORDER BY generated_at DESC, plan_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list plans: query plans table: %w", err)
	}
	defer rows.Close()

	summaries := make([]ports.PlanSummary, 0, 16)
	for rows.Next() {
		var (
			sum         ports.PlanSummary
			generatedAt string
		)
		if err := rows.Scan(
			&sum.PlanID,
			&generatedAt,
			&sum.Seed,
			&sum.RunCount,
			&sum.StudentsAssigned,
			&sum.StudentsUnassigned,
			&sum.IncidentCount,
			&sum.TotalDistance,
		); err != nil {
			return nil, fmt.Errorf("list plans: scan row: %w", err)
		}

		sum.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("list plans: plan_id=%s: parse generated_at: %w", sum.PlanID, err)
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: row iteration: %w", err)
	}

	return summaries, nil
}

// Return one stored plan in full.
func (s *SQLPlanRepository) GetPlan(ctx context.Context, planID string) (_ *domain.PlanResult, err error) {
	defer obs.Time(ctx, "plans.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("plan repository: DB is nil")
	}

	query := `
	SELECT payload
	FROM plans
	WHERE plan_id = $1;
	`
	var payload string
	if err := s.DB.QueryRowContext(ctx, query, planID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan: query plan_id=%s: %w", planID, err)
	}

	var plan domain.PlanResult
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return nil, fmt.Errorf("get plan: unmarshal payload of plan_id=%s: %w", planID, err)
	}

	return &plan, nil
}
