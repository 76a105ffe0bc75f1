package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"student-transport-service/internal/domain"
)

// Initialize the database schema. Statements are portable across the two
// supported drivers (modernc sqlite and pgx).
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createUniversitiesQuery := `
	CREATE TABLE IF NOT EXISTS universities (
		university_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`

	createStudentsQuery := `
	CREATE TABLE IF NOT EXISTS students (
		student_id TEXT PRIMARY KEY,
		home_lat DOUBLE PRECISION NOT NULL,
		home_lng DOUBLE PRECISION NOT NULL,
		university_id TEXT NOT NULL,
		days TEXT NOT NULL,
		window_start TEXT NOT NULL,
		window_end TEXT NOT NULL
	);
	`

	createBusesQuery := `
	CREATE TABLE IF NOT EXISTS buses (
		bus_id TEXT PRIMARY KEY,
		capacity INTEGER NOT NULL,
		depot_lat DOUBLE PRECISION NOT NULL,
		depot_lng DOUBLE PRECISION NOT NULL
	);
	`

	createPlansQuery := `
	CREATE TABLE IF NOT EXISTS plans (
		plan_id TEXT PRIMARY KEY,
		generated_at TEXT NOT NULL,
		seed BIGINT NOT NULL,
		run_count INTEGER NOT NULL,
		students_assigned INTEGER NOT NULL,
		students_unassigned INTEGER NOT NULL,
		incident_count INTEGER NOT NULL,
		total_distance DOUBLE PRECISION NOT NULL,
		payload TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_students_university
	ON students(university_id);
	`

	statements := []string{
		createUniversitiesQuery,
		createStudentsQuery,
		createBusesQuery,
		createPlansQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SeedRoster upserts a full roster into the database. Inputs come from
// the CSV reader or the generator, so referential problems are left to
// the planner's own validation; only per-row shape is guarded here.
func SeedRoster(ctx context.Context, db *sql.DB, students []domain.Student, buses []domain.Bus, universities []domain.University) error {
	if db == nil {
		return errors.New("seed roster: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed roster: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	uniStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO universities (university_id, name, lat, lng)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (university_id) DO UPDATE
	SET name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`)
	if err != nil {
		return fmt.Errorf("seed roster: prepare university insert: %w", err)
	}
	defer uniStmt.Close()

	for _, u := range universities {
		if strings.TrimSpace(u.ID) == "" {
			return errors.New("seed roster: university with empty id")
		}
		if _, err := uniStmt.ExecContext(ctx, u.ID, u.Name, u.Location.Lat, u.Location.Lng); err != nil {
			return fmt.Errorf("seed roster: insert university_id=%s: %w", u.ID, err)
		}
	}

	stuStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO students (student_id, home_lat, home_lng, university_id, days, window_start, window_end)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (student_id) DO UPDATE
	SET home_lat = EXCLUDED.home_lat,
		home_lng = EXCLUDED.home_lng,
		university_id = EXCLUDED.university_id,
		days = EXCLUDED.days,
		window_start = EXCLUDED.window_start,
		window_end = EXCLUDED.window_end;
	`)
	if err != nil {
		return fmt.Errorf("seed roster: prepare student insert: %w", err)
	}
	defer stuStmt.Close()

	for _, s := range students {
		if strings.TrimSpace(s.ID) == "" {
			return errors.New("seed roster: student with empty id")
		}
		if _, err := stuStmt.ExecContext(ctx,
			s.ID, s.Home.Lat, s.Home.Lng, s.UniversityID,
			joinDays(s.Days), domain.FormatClock(s.Window.Start), domain.FormatClock(s.Window.End),
		); err != nil {
			return fmt.Errorf("seed roster: insert student_id=%s: %w", s.ID, err)
		}
	}

	busStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO buses (bus_id, capacity, depot_lat, depot_lng)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (bus_id) DO UPDATE
	SET capacity = EXCLUDED.capacity,
		depot_lat = EXCLUDED.depot_lat,
		depot_lng = EXCLUDED.depot_lng;
	`)
	if err != nil {
		return fmt.Errorf("seed roster: prepare bus insert: %w", err)
	}
	defer busStmt.Close()

	for _, b := range buses {
		if strings.TrimSpace(b.ID) == "" {
			return errors.New("seed roster: bus with empty id")
		}
		if b.Capacity <= 0 {
			return fmt.Errorf("seed roster: bus_id=%s has capacity %d", b.ID, b.Capacity)
		}
		if _, err := busStmt.ExecContext(ctx, b.ID, b.Capacity, b.Depot.Lat, b.Depot.Lng); err != nil {
			return fmt.Errorf("seed roster: insert bus_id=%s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed roster: commit tx: %w", err)
	}

	return nil
}

// joinDays renders canonical day tokens to the stored comma-separated
// form. Free-form spellings never reach the database; the CSV reader
// normalizes them first.
func joinDays(days []domain.Weekday) string {
	tokens := make([]string, len(days))
	for i, d := range days {
		tokens[i] = string(d)
	}
	return strings.Join(tokens, ",")
}

// splitDays parses the stored comma-separated canonical day tokens.
func splitDays(s string) ([]domain.Weekday, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("empty days value")
	}
	tokens := strings.Split(s, ",")
	days := make([]domain.Weekday, 0, len(tokens))
	for _, t := range tokens {
		d := domain.Weekday(strings.TrimSpace(t))
		if !d.Valid() {
			return nil, fmt.Errorf("unknown day token %q", t)
		}
		days = append(days, d)
	}
	return days, nil
}
