package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-transport-service/internal/domain"
)

// samplePlan is a small two-stop plan with one capacity incident.
func samplePlan() *domain.PlanResult {
	return &domain.PlanResult{
		PlanID:      "11111111-2222-3333-4444-555555555555",
		Seed:        42,
		GeneratedAt: time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC),
		Clusters: []domain.Cluster{
			{
				ID:       "Mon_07:00-08:00_UNI_01_C01",
				RunID:    "Mon_07:00-08:00_UNI_01",
				Centroid: domain.Coordinates{Lat: 0, Lng: 1.5},
				Students: []domain.Student{
					{ID: "S01", Home: domain.Coordinates{Lat: 0, Lng: 1}, UniversityID: "UNI_01"},
					{ID: "S02", Home: domain.Coordinates{Lat: 0, Lng: 2}, UniversityID: "UNI_01"},
				},
			},
		},
		Assignments: []domain.Assignment{
			{
				RunID:      "Mon_07:00-08:00_UNI_01",
				ClusterID:  "Mon_07:00-08:00_UNI_01_C01",
				BusID:      "BUS_01",
				StudentIDs: []string{"S01", "S02"},
			},
		},
		Routes: []domain.Route{
			{
				RunID: "Mon_07:00-08:00_UNI_01",
				BusID: "BUS_01",
				Depot: domain.Coordinates{},
				Stops: []domain.RouteStop{
					{StudentID: "S01", Location: domain.Coordinates{Lat: 0, Lng: 1}, LegDistance: 1, CumulativeDistance: 1},
					{StudentID: "S02", Location: domain.Coordinates{Lat: 0, Lng: 2}, LegDistance: 1, CumulativeDistance: 2},
				},
				UniversityID:     "UNI_01",
				UniversityStop:   domain.Coordinates{Lat: 0, Lng: 5},
				FinalLegDistance: 3,
				TotalDistance:    5,
			},
		},
		Incidents: []domain.Incident{
			{
				Type:       domain.IncidentCapacityShortfall,
				RunID:      "Mon_07:00-08:00_UNI_01",
				ClusterID:  "Mon_07:00-08:00_UNI_01_C01",
				StudentIDs: []string{"S03"},
				Message:    "no remaining fleet capacity for 1 student(s)",
			},
		},
		Metrics: domain.PlanMetrics{
			TotalDistance:      5,
			RunCount:           1,
			ClusterCount:       1,
			AssignmentCount:    1,
			RouteCount:         1,
			StudentsAssigned:   2,
			StudentsUnassigned: 1,
			IncidentCount:      1,
		},
	}
}

func parseCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteStudentClusters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStudentClusters(&buf, samplePlan()))

	records := parseCSV(t, buf.Bytes())
	require.Len(t, records, 3, "header plus one row per student")

	assert.Equal(t, []string{
		"run_id", "day", "time_window_start", "time_window_end",
		"student_id", "home_lat", "home_lng", "university_id", "cluster_id",
	}, records[0])
	assert.Equal(t, []string{
		"Mon_07:00-08:00_UNI_01", "Mon", "07:00", "08:00",
		"S01", "0.000000", "1.000000", "UNI_01", "Mon_07:00-08:00_UNI_01_C01",
	}, records[1])
	assert.Equal(t, "S02", records[2][4])
}

func TestWriteClusterSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteClusterSummary(&buf, samplePlan()))

	records := parseCSV(t, buf.Bytes())
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"Mon", "07:00", "08:00", "UNI_01",
		"Mon_07:00-08:00_UNI_01_C01", "2", "0.000000", "1.500000",
	}, records[1])
}

func TestWriteRouteStops(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRouteStops(&buf, samplePlan()))

	records := parseCSV(t, buf.Bytes())
	require.Len(t, records, 4, "header, two pickups, one university row")

	assert.Equal(t, "pickup", records[1][3])
	assert.Equal(t, "S01", records[1][4])
	assert.Equal(t, "1", records[1][2])

	last := records[3]
	assert.Equal(t, "university", last[3])
	assert.Equal(t, "UNI_01", last[4])
	assert.Equal(t, "3", last[2], "university closes the route")
	assert.Equal(t, "5", last[8], "cumulative column ends at the route total")
}

func TestWritePlanJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlanJSON(&buf, samplePlan()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", doc["plan_id"])
	metrics, ok := doc["metrics"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), metrics["students_assigned"])
	assert.Equal(t, float64(1), metrics["students_unassigned"])

	incidents, ok := doc["incidents"].([]any)
	require.True(t, ok)
	require.Len(t, incidents, 1)
	first, ok := incidents[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(domain.IncidentCapacityShortfall), first["type"])
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteArtifacts(dir, samplePlan()))

	for _, name := range []string{StudentClustersFile, ClusterSummaryFile, RouteStopsFile, PlanFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "artifact %s should exist", name)
		assert.Positive(t, info.Size())
	}
}
