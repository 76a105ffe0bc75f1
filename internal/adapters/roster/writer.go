package roster

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"student-transport-service/internal/domain"
)

// WriteStudents renders students to CSV in the canonical roster layout.
// Days are written in normalized comma-separated form and coordinates
// rounded to six decimals, the same shape ReadStudents accepts.
func WriteStudents(path string, students []domain.Student) error {
	rows := make([][]string, 0, len(students)+1)
	rows = append(rows, studentColumns)
	for _, s := range students {
		rows = append(rows, []string{
			s.ID,
			formatCoord(s.Home.Lat),
			formatCoord(s.Home.Lng),
			s.UniversityID,
			FormatDays(s.Days),
			domain.FormatClock(s.Window.Start),
			domain.FormatClock(s.Window.End),
		})
	}
	return writeTable(path, rows)
}

// WriteBuses renders the fleet to CSV.
func WriteBuses(path string, buses []domain.Bus) error {
	rows := make([][]string, 0, len(buses)+1)
	rows = append(rows, busColumns)
	for _, b := range buses {
		rows = append(rows, []string{
			b.ID,
			strconv.Itoa(b.Capacity),
			formatCoord(b.Depot.Lat),
			formatCoord(b.Depot.Lng),
		})
	}
	return writeTable(path, rows)
}

// WriteUniversities renders destinations to CSV.
func WriteUniversities(path string, universities []domain.University) error {
	rows := make([][]string, 0, len(universities)+1)
	rows = append(rows, universityColumns)
	for _, u := range universities {
		rows = append(rows, []string{
			u.ID,
			u.Name,
			formatCoord(u.Location.Lat),
			formatCoord(u.Location.Lng),
		})
	}
	return writeTable(path, rows)
}

func writeTable(path string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write %q: create directory: %w", path, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
