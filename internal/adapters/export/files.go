package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"student-transport-service/internal/domain"
)

// Artifact file names written by WriteArtifacts.
const (
	StudentClustersFile = "student_clusters.csv"
	ClusterSummaryFile  = "cluster_summary.csv"
	RouteStopsFile      = "route_stops.csv"
	PlanFile            = "plan.json"
)

// WriteArtifacts renders the full artifact set for one plan into dir,
// creating it if needed.
func WriteArtifacts(dir string, plan *domain.PlanResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write artifacts: create %q: %w", dir, err)
	}

	artifacts := []struct {
		name  string
		write func(io.Writer, *domain.PlanResult) error
	}{
		{StudentClustersFile, WriteStudentClusters},
		{ClusterSummaryFile, WriteClusterSummary},
		{RouteStopsFile, WriteRouteStops},
		{PlanFile, WritePlanJSON},
	}

	for _, a := range artifacts {
		if err := writeArtifact(filepath.Join(dir, a.name), plan, a.write); err != nil {
			return fmt.Errorf("write artifacts: %w", err)
		}
	}
	return nil
}

func writeArtifact(path string, plan *domain.PlanResult, write func(io.Writer, *domain.PlanResult) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := write(f, plan); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	return nil
}
