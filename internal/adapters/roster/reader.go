package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"student-transport-service/internal/domain"
)

// Roster file headers. Column order in the files does not matter; the
// reader resolves columns by name.
var (
	studentColumns    = []string{"student_id", "home_lat", "home_lng", "university_id", "days", "time_window_start", "time_window_end"}
	busColumns        = []string{"bus_id", "capacity", "start_lat", "start_lng"}
	universityColumns = []string{"university_id", "name", "lat", "lng"}
)

var validate = validator.New()

type studentRow struct {
	StudentID    string  `validate:"required"`
	HomeLat      float64 `validate:"latitude"`
	HomeLng      float64 `validate:"longitude"`
	UniversityID string  `validate:"required"`
}

type busRow struct {
	BusID    string  `validate:"required"`
	Capacity int     `validate:"gt=0"`
	StartLat float64 `validate:"latitude"`
	StartLng float64 `validate:"longitude"`
}

type universityRow struct {
	UniversityID string  `validate:"required"`
	Name         string  `validate:"required"`
	Lat          float64 `validate:"latitude"`
	Lng          float64 `validate:"longitude"`
}

// ReadStudents loads and validates students.csv. Day expressions are
// normalized and expanded, window clocks parsed, and coordinate ranges
// checked; any malformed row fails the whole load.
func ReadStudents(path string) ([]domain.Student, error) {
	rows, idx, err := readTable(path, studentColumns)
	if err != nil {
		return nil, fmt.Errorf("read students: %w", err)
	}

	students := make([]domain.Student, 0, len(rows))
	for i, rec := range rows {
		row := studentRow{
			StudentID:    strings.TrimSpace(rec[idx["student_id"]]),
			UniversityID: strings.TrimSpace(rec[idx["university_id"]]),
		}
		if row.HomeLat, err = parseFloat(rec[idx["home_lat"]]); err != nil {
			return nil, rowErr(path, i, "home_lat", err)
		}
		if row.HomeLng, err = parseFloat(rec[idx["home_lng"]]); err != nil {
			return nil, rowErr(path, i, "home_lng", err)
		}
		if err := validate.Struct(row); err != nil {
			return nil, rowErr(path, i, "fields", err)
		}

		days, err := ParseDays(rec[idx["days"]])
		if err != nil {
			return nil, rowErr(path, i, "days", err)
		}
		window, err := domain.ParseTimeWindow(rec[idx["time_window_start"]], rec[idx["time_window_end"]])
		if err != nil {
			return nil, rowErr(path, i, "time window", err)
		}

		students = append(students, domain.Student{
			ID:           row.StudentID,
			Home:         domain.Coordinates{Lat: row.HomeLat, Lng: row.HomeLng},
			UniversityID: row.UniversityID,
			Days:         days,
			Window:       window,
		})
	}

	return students, nil
}

// ReadBuses loads and validates buses.csv.
func ReadBuses(path string) ([]domain.Bus, error) {
	rows, idx, err := readTable(path, busColumns)
	if err != nil {
		return nil, fmt.Errorf("read buses: %w", err)
	}

	buses := make([]domain.Bus, 0, len(rows))
	for i, rec := range rows {
		row := busRow{BusID: strings.TrimSpace(rec[idx["bus_id"]])}
		if row.Capacity, err = strconv.Atoi(strings.TrimSpace(rec[idx["capacity"]])); err != nil {
			return nil, rowErr(path, i, "capacity", err)
		}
		if row.StartLat, err = parseFloat(rec[idx["start_lat"]]); err != nil {
			return nil, rowErr(path, i, "start_lat", err)
		}
		if row.StartLng, err = parseFloat(rec[idx["start_lng"]]); err != nil {
			return nil, rowErr(path, i, "start_lng", err)
		}
		if err := validate.Struct(row); err != nil {
			return nil, rowErr(path, i, "fields", err)
		}

		buses = append(buses, domain.Bus{
			ID:       row.BusID,
			Capacity: row.Capacity,
			Depot:    domain.Coordinates{Lat: row.StartLat, Lng: row.StartLng},
		})
	}

	return buses, nil
}

// ReadUniversities loads and validates universities.csv.
func ReadUniversities(path string) ([]domain.University, error) {
	rows, idx, err := readTable(path, universityColumns)
	if err != nil {
		return nil, fmt.Errorf("read universities: %w", err)
	}

	universities := make([]domain.University, 0, len(rows))
	for i, rec := range rows {
		row := universityRow{
			UniversityID: strings.TrimSpace(rec[idx["university_id"]]),
			Name:         strings.TrimSpace(rec[idx["name"]]),
		}
		if row.Lat, err = parseFloat(rec[idx["lat"]]); err != nil {
			return nil, rowErr(path, i, "lat", err)
		}
		if row.Lng, err = parseFloat(rec[idx["lng"]]); err != nil {
			return nil, rowErr(path, i, "lng", err)
		}
		if err := validate.Struct(row); err != nil {
			return nil, rowErr(path, i, "fields", err)
		}

		universities = append(universities, domain.University{
			ID:       row.UniversityID,
			Name:     row.Name,
			Location: domain.Coordinates{Lat: row.Lat, Lng: row.Lng},
		})
	}

	return universities, nil
}

// readTable reads a CSV file and resolves the required columns by header
// name, returning the data rows and a column index.
func readTable(path string, columns []string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%q: file is empty", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %q: %w", path, err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			return nil, nil, fmt.Errorf("%q: missing column %q", path, c)
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read rows of %q: %w", path, err)
	}

	return rows, idx, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// rowErr reports a row failure with a 1-based data row number, header
// excluded, matching how people count lines in a spreadsheet.
func rowErr(path string, row int, field string, err error) error {
	return fmt.Errorf("%q row %d: %s: %w", path, row+1, field, err)
}
