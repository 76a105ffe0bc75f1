package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"student-transport-service/internal/domain"
	"student-transport-service/internal/platform/obs"
)

// SQL-backed implementation of the RosterRepository port. Queries are
// portable across the sqlite and pgx drivers.
type SQLRosterRepository struct{ DB *sql.DB }

func NewSQLRosterRepository(db *sql.DB) *SQLRosterRepository {
	return &SQLRosterRepository{DB: db}
}

// Return all students stored in the database, ordered by ID.
func (s *SQLRosterRepository) ListStudents(ctx context.Context) (_ []domain.Student, err error) {
	defer obs.Time(ctx, "roster.ListStudents")(&err)

	if s.DB == nil {
		return nil, errors.New("roster repository: DB is nil")
	}

	query := `
	SELECT
		student_id,
		home_lat,
		home_lng,
		university_id,
		days,
		window_start,
		window_end
	FROM students
	ORDER BY student_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list students: query students table: %w", err)
	}
	defer rows.Close()

	students := make([]domain.Student, 0, 64)
	for rows.Next() {
		var (
			id, uniID, daysRaw, start, end string
			lat, lng                       float64
		)
		if err := rows.Scan(&id, &lat, &lng, &uniID, &daysRaw, &start, &end); err != nil {
			return nil, fmt.Errorf("list students: scan row: %w", err)
		}

		days, err := splitDays(daysRaw)
		if err != nil {
			return nil, fmt.Errorf("list students: student_id=%s: %w", id, err)
		}
		window, err := domain.ParseTimeWindow(start, end)
		if err != nil {
			return nil, fmt.Errorf("list students: student_id=%s: %w", id, err)
		}

		students = append(students, domain.Student{
			ID:           id,
			Home:         domain.Coordinates{Lat: lat, Lng: lng},
			UniversityID: uniID,
			Days:         days,
			Window:       window,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list students: row iteration: %w", err)
	}

	return students, nil
}

// Return the full fleet, ordered by bus ID.
func (s *SQLRosterRepository) ListBuses(ctx context.Context) (_ []domain.Bus, err error) {
	defer obs.Time(ctx, "roster.ListBuses")(&err)

	if s.DB == nil {
		return nil, errors.New("roster repository: DB is nil")
	}

	query := `
	SELECT
		bus_id,
		capacity,
		depot_lat,
		depot_lng
	FROM buses
	ORDER BY bus_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list buses: query buses table: %w", err)
	}
	defer rows.Close()

	buses := make([]domain.Bus, 0, 16)
	for rows.Next() {
		var (
			id       string
			capacity int
			lat, lng float64
		)
		if err := rows.Scan(&id, &capacity, &lat, &lng); err != nil {
			return nil, fmt.Errorf("list buses: scan row: %w", err)
		}
		buses = append(buses, domain.Bus{
			ID:       id,
			Capacity: capacity,
			Depot:    domain.Coordinates{Lat: lat, Lng: lng},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list buses: row iteration: %w", err)
	}

	return buses, nil
}

// Return all universities, ordered by ID.
func (s *SQLRosterRepository) ListUniversities(ctx context.Context) (_ []domain.University, err error) {
	defer obs.Time(ctx, "roster.ListUniversities")(&err)

	if s.DB == nil {
		return nil, errors.New("roster repository: DB is nil")
	}

	query := `
	SELECT
		university_id,
		name,
		lat,
		lng
	FROM universities
	ORDER BY university_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list universities: query universities table: %w", err)
	}
	defer rows.Close()

	universities := make([]domain.University, 0, 8)
	for rows.Next() {
		var (
			id, name string
			lat, lng float64
		)
		if err := rows.Scan(&id, &name, &lat, &lng); err != nil {
			return nil, fmt.Errorf("list universities: scan row: %w", err)
		}
		universities = append(universities, domain.University{
			ID:       id,
			Name:     name,
			Location: domain.Coordinates{Lat: lat, Lng: lng},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list universities: row iteration: %w", err)
	}

	return universities, nil
}
