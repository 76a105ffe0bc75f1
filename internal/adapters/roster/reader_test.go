package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-transport-service/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadStudents(t *testing.T) {
	path := writeFile(t, "students.csv",
		"student_id,home_lat,home_lng,university_id,days,time_window_start,time_window_end\n"+
			"STU_0001,33.901000,35.495000,UNI_01,\"Mon,Wed,Fri\",07:00,08:00\n"+
			"STU_0002,33.880000,35.510000,UNI_02,Mon-Fri,8:00,09:00\n")

	students, err := ReadStudents(path)
	require.NoError(t, err)
	require.Len(t, students, 2)

	first := students[0]
	assert.Equal(t, "STU_0001", first.ID)
	assert.Equal(t, domain.Coordinates{Lat: 33.901, Lng: 35.495}, first.Home)
	assert.Equal(t, "UNI_01", first.UniversityID)
	assert.Equal(t, []domain.Weekday{domain.Monday, domain.Wednesday, domain.Friday}, first.Days)
	assert.Equal(t, "07:00-08:00", first.Window.String())

	// range expansion and single-digit hour normalization
	second := students[1]
	assert.Len(t, second.Days, 5)
	assert.Equal(t, "08:00-09:00", second.Window.String())
}

func TestReadStudentsRejectsBadRows(t *testing.T) {
	header := "student_id,home_lat,home_lng,university_id,days,time_window_start,time_window_end\n"

	cases := map[string]string{
		"inverted window":  header + "STU_0001,33.9,35.5,UNI_01,Mon,09:00,08:00\n",
		"unknown day":      header + "STU_0001,33.9,35.5,UNI_01,Caturday,07:00,08:00\n",
		"latitude range":   header + "STU_0001,133.9,35.5,UNI_01,Mon,07:00,08:00\n",
		"missing id":       header + ",33.9,35.5,UNI_01,Mon,07:00,08:00\n",
		"malformed number": header + "STU_0001,north,35.5,UNI_01,Mon,07:00,08:00\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadStudents(writeFile(t, "students.csv", content))
			assert.Error(t, err)
		})
	}
}

func TestReadStudentsMissingColumn(t *testing.T) {
	path := writeFile(t, "students.csv", "student_id,home_lat\nSTU_0001,33.9\n")
	_, err := ReadStudents(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestReadBusesAndUniversities(t *testing.T) {
	busPath := writeFile(t, "buses.csv",
		"bus_id,capacity,start_lat,start_lng\nBUS_01,12,33.890000,35.500000\n")
	buses, err := ReadBuses(busPath)
	require.NoError(t, err)
	require.Len(t, buses, 1)
	assert.Equal(t, domain.Bus{ID: "BUS_01", Capacity: 12, Depot: domain.Coordinates{Lat: 33.89, Lng: 35.5}}, buses[0])

	_, err = ReadBuses(writeFile(t, "buses.csv", "bus_id,capacity,start_lat,start_lng\nBUS_01,0,33.9,35.5\n"))
	assert.Error(t, err, "zero capacity must be rejected")

	uniPath := writeFile(t, "universities.csv",
		"university_id,name,lat,lng\nUNI_01,North Campus,33.894000,35.478000\n")
	universities, err := ReadUniversities(uniPath)
	require.NoError(t, err)
	require.Len(t, universities, 1)
	assert.Equal(t, "North Campus", universities[0].Name)
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	window, err := domain.NewTimeWindow(7*60, 8*60)
	require.NoError(t, err)

	students := []domain.Student{
		{
			ID:           "STU_0001",
			Home:         domain.Coordinates{Lat: 33.901234, Lng: 35.495678},
			UniversityID: "UNI_01",
			Days:         []domain.Weekday{domain.Tuesday, domain.Thursday},
			Window:       window,
		},
	}
	buses := []domain.Bus{{ID: "BUS_01", Capacity: 14, Depot: domain.Coordinates{Lat: 33.89, Lng: 35.51}}}
	universities := []domain.University{{ID: "UNI_01", Name: "North Campus", Location: domain.Coordinates{Lat: 33.894, Lng: 35.478}}}

	sPath := filepath.Join(dir, "students.csv")
	bPath := filepath.Join(dir, "buses.csv")
	uPath := filepath.Join(dir, "universities.csv")

	require.NoError(t, WriteStudents(sPath, students))
	require.NoError(t, WriteBuses(bPath, buses))
	require.NoError(t, WriteUniversities(uPath, universities))

	gotStudents, err := ReadStudents(sPath)
	require.NoError(t, err)
	assert.Equal(t, students, gotStudents)

	gotBuses, err := ReadBuses(bPath)
	require.NoError(t, err)
	assert.Equal(t, buses, gotBuses)

	gotUniversities, err := ReadUniversities(uPath)
	require.NoError(t, err)
	assert.Equal(t, universities, gotUniversities)
}
