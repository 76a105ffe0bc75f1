package services

import (
	"fmt"
	"slices"
	"strings"

	"student-transport-service/internal/domain"
)

// PartitionRuns splits the student population into independent planning
// units keyed by (day, time window, university). A student scheduled on
// several days appears in one run per day. Students referencing an unknown
// university, or carrying an unknown day token, are reported as validation
// incidents and excluded; sibling runs proceed.
//
// Runs come back sorted by key and each run's students sorted by ID, so
// downstream cluster and route identifiers are reproducible across
// invocations with identical input.
func PartitionRuns(students []domain.Student, universities []domain.University) ([]domain.Run, []domain.Incident) {
	byID := make(map[string]domain.University, len(universities))
	for _, u := range universities {
		byID[u.ID] = u
	}

	runs := make(map[domain.RunKey]*domain.Run)
	missingUni := make(map[string][]string)
	var incidents []domain.Incident

	for _, s := range students {
		u, ok := byID[s.UniversityID]
		if !ok {
			missingUni[s.UniversityID] = append(missingUni[s.UniversityID], s.ID)
			continue
		}

		for _, day := range s.Days {
			if !day.Valid() {
				incidents = append(incidents, domain.Incident{
					Type:       domain.IncidentValidation,
					StudentIDs: []string{s.ID},
					Message:    fmt.Sprintf("student %s has unknown day token %q", s.ID, day),
				})
				continue
			}

			key := domain.RunKey{Day: day, Window: s.Window, UniversityID: s.UniversityID}
			r, ok := runs[key]
			if !ok {
				r = &domain.Run{Key: key, University: u}
				runs[key] = r
			}
			r.Students = append(r.Students, s)
		}
	}

	// One incident per missing university, listing every affected student.
	uniIDs := make([]string, 0, len(missingUni))
	for id := range missingUni {
		uniIDs = append(uniIDs, id)
	}
	slices.Sort(uniIDs)
	for _, id := range uniIDs {
		ids := missingUni[id]
		slices.Sort(ids)
		incidents = append(incidents, domain.Incident{
			Type:       domain.IncidentValidation,
			StudentIDs: ids,
			Message:    fmt.Sprintf("%d student(s) reference unknown university %q", len(ids), id),
		})
	}

	out := make([]domain.Run, 0, len(runs))
	for _, r := range runs {
		slices.SortFunc(r.Students, func(a, b domain.Student) int {
			return strings.Compare(a.ID, b.ID)
		})
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b domain.Run) int { return a.Key.Compare(b.Key) })

	return out, incidents
}
