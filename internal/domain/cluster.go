package domain

// Cluster is a geographically coherent subset of one run's students with
// the mean location of its members. Size is advisory: geographic cohesion
// and capacity feasibility are separate concerns, so the hard seat limit
// is enforced by the assigner, not here.
type Cluster struct {
	ID       string
	RunID    string
	Centroid Coordinates
	Students []Student
}

func (c Cluster) Size() int { return len(c.Students) }

// StudentIDs returns the member IDs in cluster order.
func (c Cluster) StudentIDs() []string {
	ids := make([]string, len(c.Students))
	for i, s := range c.Students {
		ids[i] = s.ID
	}
	return ids
}
