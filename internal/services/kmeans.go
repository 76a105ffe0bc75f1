package services

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"strings"

	"student-transport-service/internal/domain"
)

// Default clustering controls, overridable through configuration.
const (
	DefaultClusterCapacity = 12
	DefaultIterationCap    = 30
)

// ClusterCount derives the cluster count for n students at target
// per-cluster capacity c: ceil(n/c), clamped to [1, n], and 0 when the run
// is empty. Called once per run before clustering begins.
func ClusterCount(n, c int) int {
	if n <= 0 || c <= 0 {
		return 0
	}
	k := (n + c - 1) / c
	if k > n {
		k = n
	}
	return k
}

// KMeansClusterer groups students by iterative centroid refinement
// (Lloyd's method) over Euclidean distance. Centroids are seeded with
// K-Means++ from a per-run random source, so membership is reproducible
// for a fixed seed. Cluster size is advisory: a run whose geometry cannot
// be split evenly (duplicate coordinates, say) may exceed the target, and
// the assigner enforces the hard capacity limit later.
type KMeansClusterer struct {
	IterationCap int
}

var _ Clusterer = (*KMeansClusterer)(nil)

func NewKMeansClusterer(iterationCap int) *KMeansClusterer {
	if iterationCap <= 0 {
		iterationCap = DefaultIterationCap
	}
	return &KMeansClusterer{IterationCap: iterationCap}
}

// Cluster partitions the run's students into at most k non-empty clusters.
// Reaching the iteration cap is a quality tradeoff, not an error.
func (kc *KMeansClusterer) Cluster(run domain.Run, k int, seed int64) ([]domain.Cluster, error) {
	n := len(run.Students)
	if n == 0 {
		return nil, nil
	}
	if k <= 0 {
		return nil, fmt.Errorf("cluster run %s: cluster count must be positive, got %d", run.ID(), k)
	}
	if k > n {
		k = n
	}

	// Seeding and membership walk students in ID order so the outcome does
	// not depend on input ordering.
	students := slices.Clone(run.Students)
	slices.SortFunc(students, func(a, b domain.Student) int {
		return strings.Compare(a.ID, b.ID)
	})

	points := make([]domain.Coordinates, n)
	for i, s := range students {
		points[i] = s.Home
	}

	centroids := seedCentroids(points, k, seed)
	member := make([]int, n)
	for i := range member {
		member[i] = -1
	}

	for iter := 0; iter < kc.IterationCap; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if member[i] != best {
				member[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		recomputeCentroids(points, member, centroids)
		reseedEmptyCentroids(points, member, centroids)
	}

	// Build clusters from the final membership. Centroids are recomputed
	// as the exact mean of the final members; a centroid that ended up
	// with no members is dropped rather than handed to the assigner.
	groups := make([][]domain.Student, k)
	for i, s := range students {
		groups[member[i]] = append(groups[member[i]], s)
	}

	clusters := make([]domain.Cluster, 0, k)
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		pts := make([]domain.Coordinates, len(g))
		for i, s := range g {
			pts[i] = s.Home
		}
		clusters = append(clusters, domain.Cluster{
			RunID:    run.ID(),
			Centroid: domain.Centroid(pts),
			Students: g,
		})
	}

	// Number clusters in centroid order so IDs are stable for identical
	// input regardless of seeding order.
	slices.SortFunc(clusters, func(a, b domain.Cluster) int {
		if a.Centroid.Lat != b.Centroid.Lat {
			if a.Centroid.Lat < b.Centroid.Lat {
				return -1
			}
			return 1
		}
		if a.Centroid.Lng != b.Centroid.Lng {
			if a.Centroid.Lng < b.Centroid.Lng {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Students[0].ID, b.Students[0].ID)
	})
	for i := range clusters {
		clusters[i].ID = fmt.Sprintf("%s_C%02d", run.ID(), i+1)
	}

	return clusters, nil
}

// seedCentroids picks k initial centroids with the K-Means++ scheme: the
// first uniformly at random, each further one weighted by squared distance
// to the nearest centroid chosen so far.
func seedCentroids(points []domain.Coordinates, k int, seed int64) []domain.Coordinates {
	rng := rand.New(rand.NewSource(seed))

	centroids := make([]domain.Coordinates, 0, k)
	centroids = append(centroids, points[rng.Intn(len(points))])

	weights := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := math.MaxFloat64
			for _, c := range centroids {
				if dc := p.DistanceTo(c); dc < d {
					d = dc
				}
			}
			weights[i] = d * d
			total += weights[i]
		}

		if total == 0 {
			// Every point coincides with a centroid already; further
			// draws carry no information, so fill round-robin.
			centroids = append(centroids, points[len(centroids)%len(points)])
			continue
		}

		r := rng.Float64() * total
		pick := len(points) - 1
		acc := 0.0
		for i, w := range weights {
			acc += w
			if acc >= r {
				pick = i
				break
			}
		}
		centroids = append(centroids, points[pick])
	}

	return centroids
}

// nearestCentroid returns the index of the centroid closest to p, the
// lowest index winning ties.
func nearestCentroid(p domain.Coordinates, centroids []domain.Coordinates) int {
	best := 0
	bestDist := math.MaxFloat64
	for i, c := range centroids {
		if d := p.DistanceTo(c); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func recomputeCentroids(points []domain.Coordinates, member []int, centroids []domain.Coordinates) {
	counts := make([]int, len(centroids))
	sums := make([]domain.Coordinates, len(centroids))
	for i, p := range points {
		m := member[i]
		sums[m].Lat += p.Lat
		sums[m].Lng += p.Lng
		counts[m]++
	}
	for ci := range centroids {
		if counts[ci] == 0 {
			continue
		}
		n := float64(counts[ci])
		centroids[ci] = domain.Coordinates{Lat: sums[ci].Lat / n, Lng: sums[ci].Lng / n}
	}
}

// reseedEmptyCentroids moves each memberless centroid onto the student
// farthest from every surviving centroid, so no empty cluster survives to
// the next assignment pass.
func reseedEmptyCentroids(points []domain.Coordinates, member []int, centroids []domain.Coordinates) {
	counts := make([]int, len(centroids))
	for _, m := range member {
		counts[m]++
	}

	for ci := range centroids {
		if counts[ci] > 0 {
			continue
		}

		farthest := -1
		farthestDist := -1.0
		for i, p := range points {
			d := math.MaxFloat64
			for cj := range centroids {
				if cj == ci || counts[cj] == 0 {
					continue
				}
				if dc := p.DistanceTo(centroids[cj]); dc < d {
					d = dc
				}
			}
			if d > farthestDist {
				farthestDist = d
				farthest = i
			}
		}
		if farthest < 0 {
			continue
		}

		centroids[ci] = points[farthest]
		// Count the reseeded centroid as surviving so a second empty one
		// in the same pass lands on a different student.
		counts[member[farthest]]--
		member[farthest] = ci
		counts[ci]++
	}
}
