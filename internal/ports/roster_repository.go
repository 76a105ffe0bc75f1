package ports

import (
	"context"

	"student-transport-service/internal/domain"
)

// Port: a boundary for retrieving the planning roster from a data source.
type RosterRepository interface {
	// Retrieve all students enrolled for transport.
	ListStudents(ctx context.Context) ([]domain.Student, error)
	// Retrieve the full bus fleet.
	ListBuses(ctx context.Context) ([]domain.Bus, error)
	// Retrieve all destination universities.
	ListUniversities(ctx context.Context) ([]domain.University, error)
}
