package services

import "student-transport-service/internal/domain"

// Clusterer partitions one run's students into k geographic clusters.
// Implementations must be deterministic for a fixed seed so repeated
// invocations over identical input produce identical membership, and must
// never emit an empty cluster.
type Clusterer interface {
	Cluster(run domain.Run, k int, seed int64) ([]domain.Cluster, error)
}

// StopSequencer orders one bus's assigned students into a pickup route
// from the bus depot to the run's university. Implementations work purely
// on the given inputs so an alternative algorithm can replace the default
// without touching the assigner or reporter.
type StopSequencer interface {
	Sequence(run domain.Run, bus domain.Bus, students []domain.Student) (domain.Route, error)
}
