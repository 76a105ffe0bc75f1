// Package export renders a computed plan into the CSV and JSON artifacts
// consumed by dispatchers and downstream reporting.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"student-transport-service/internal/domain"
)

// WriteStudentClusters writes one row per clustered student, the file
// dispatchers use to look up a student's group. Rows follow the plan's
// cluster order, members in cluster order, so repeated exports of the
// same plan are byte-identical.
func WriteStudentClusters(w io.Writer, plan *domain.PlanResult) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{
		"run_id", "day", "time_window_start", "time_window_end",
		"student_id", "home_lat", "home_lng", "university_id", "cluster_id",
	}}

	for _, c := range plan.Clusters {
		day, start, end, _ := splitRunID(c.RunID)
		for _, s := range c.Students {
			rows = append(rows, []string{
				c.RunID, day, start, end,
				s.ID, coord(s.Home.Lat), coord(s.Home.Lng), s.UniversityID, c.ID,
			})
		}
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write student clusters: %w", err)
	}
	return nil
}

// WriteClusterSummary writes one row per cluster with its size and
// centroid.
func WriteClusterSummary(w io.Writer, plan *domain.PlanResult) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{
		"day", "time_window_start", "time_window_end", "university_id",
		"cluster_id", "cluster_size", "centroid_lat", "centroid_lng",
	}}

	for _, c := range plan.Clusters {
		day, start, end, uni := splitRunID(c.RunID)
		rows = append(rows, []string{
			day, start, end, uni,
			c.ID, strconv.Itoa(c.Size()), coord(c.Centroid.Lat), coord(c.Centroid.Lng),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write cluster summary: %w", err)
	}
	return nil
}

// WriteRouteStops writes every route as ordered stop rows: the pickups in
// driving order, then the university arrival row closing the route.
func WriteRouteStops(w io.Writer, plan *domain.PlanResult) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{
		"run_id", "bus_id", "stop_order", "stop_kind", "ref_id",
		"lat", "lng", "leg_distance", "cumulative_distance",
	}}

	for _, r := range plan.Routes {
		for i, stop := range r.Stops {
			rows = append(rows, []string{
				r.RunID, r.BusID, strconv.Itoa(i + 1), "pickup", stop.StudentID,
				coord(stop.Location.Lat), coord(stop.Location.Lng),
				dist(stop.LegDistance), dist(stop.CumulativeDistance),
			})
		}
		rows = append(rows, []string{
			r.RunID, r.BusID, strconv.Itoa(len(r.Stops) + 1), "university", r.UniversityID,
			coord(r.UniversityStop.Lat), coord(r.UniversityStop.Lng),
			dist(r.FinalLegDistance), dist(r.TotalDistance),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write route stops: %w", err)
	}
	return nil
}

// splitRunID recovers the run key parts from a run identifier of the form
// Day_Start-End_UniversityID.
func splitRunID(runID string) (day, start, end, universityID string) {
	parts := strings.SplitN(runID, "_", 3)
	if len(parts) != 3 {
		return runID, "", "", ""
	}
	day = parts[0]
	universityID = parts[2]
	start, end, _ = strings.Cut(parts[1], "-")
	return day, start, end, universityID
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func dist(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
