package handlers

import (
	"net/http"

	"student-transport-service/internal/api/dto"
	"student-transport-service/internal/domain"
	"student-transport-service/internal/ports"
)

// RosterHandler exposes read-only roster retrieval endpoints.
type RosterHandler struct {
	Repo ports.RosterRepository
}

func (h *RosterHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	students, err := h.Repo.ListStudents(r.Context())
	if err != nil {
		apiLog.Error().Err(err).Msg("list students failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStudentsResponse{
		Students: make([]dto.StudentResponse, 0, len(students)),
	}
	for _, s := range students {
		res.Students = append(res.Students, studentResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *RosterHandler) ListBuses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	buses, err := h.Repo.ListBuses(r.Context())
	if err != nil {
		apiLog.Error().Err(err).Msg("list buses failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListBusesResponse{
		Buses: make([]dto.BusResponse, 0, len(buses)),
	}
	for _, b := range buses {
		res.Buses = append(res.Buses, dto.BusResponse{
			BusID:    b.ID,
			Capacity: b.Capacity,
			StartLat: b.Depot.Lat,
			StartLng: b.Depot.Lng,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *RosterHandler) ListUniversities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	unis, err := h.Repo.ListUniversities(r.Context())
	if err != nil {
		apiLog.Error().Err(err).Msg("list universities failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListUniversitiesResponse{
		Universities: make([]dto.UniversityResponse, 0, len(unis)),
	}
	for _, u := range unis {
		res.Universities = append(res.Universities, dto.UniversityResponse{
			UniversityID: u.ID,
			Name:         u.Name,
			Lat:          u.Location.Lat,
			Lng:          u.Location.Lng,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func studentResponse(s domain.Student) dto.StudentResponse {
	days := make([]string, len(s.Days))
	for i, d := range s.Days {
		days[i] = string(d)
	}
	return dto.StudentResponse{
		StudentID:       s.ID,
		HomeLat:         s.Home.Lat,
		HomeLng:         s.Home.Lng,
		UniversityID:    s.UniversityID,
		Days:            days,
		TimeWindowStart: domain.FormatClock(s.Window.Start),
		TimeWindowEnd:   domain.FormatClock(s.Window.End),
	}
}
