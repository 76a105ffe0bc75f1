// Package datagen produces synthetic rosters for local runs and load
// experiments: clustered home locations around a city center, weighted
// university choice and realistic schedule patterns, all reproducible
// from a seed.
package datagen

import (
	"fmt"
	"math"
	"math/rand"
	"slices"

	"student-transport-service/internal/domain"
)

// Defaults mirror the sample city the prototype data was modeled on
// (Beirut area).
const (
	DefaultCityCenterLat = 33.8938
	DefaultCityCenterLng = 35.5018

	DefaultStudentCount       = 500
	DefaultNeighborhoodCount  = 8
	DefaultNeighborhoodSpread = 0.05
	DefaultHomeRadius         = 0.01

	DefaultBusCount    = 20
	DefaultDepotRadius = 0.03
)

// Realistic small and medium bus sizes.
var capacityChoices = []int{8, 10, 12, 14, 20}

// Common university schedule patterns.
var dayPatterns = [][]domain.Weekday{
	{domain.Monday, domain.Wednesday, domain.Friday},
	{domain.Tuesday, domain.Thursday},
	{domain.Monday, domain.Tuesday, domain.Wednesday, domain.Thursday, domain.Friday},
}

// Morning arrival windows, hourly.
var pickupWindows = []domain.TimeWindow{
	{Start: 7 * 60, End: 8 * 60},
	{Start: 8 * 60, End: 9 * 60},
	{Start: 9 * 60, End: 10 * 60},
	{Start: 10 * 60, End: 11 * 60},
}

// StudentParams controls synthetic student generation. Spread and radius
// are in coordinate degrees (small values, 0.01 to 0.05).
type StudentParams struct {
	Count              int
	CityCenter         domain.Coordinates
	NeighborhoodCount  int
	NeighborhoodSpread float64
	HomeRadius         float64
	// One weight per university, aligned with the universities slice.
	// Empty means uniform.
	UniversityWeights []float64
	Seed              int64
}

// BusParams controls synthetic fleet generation.
type BusParams struct {
	Count       int
	CityCenter  domain.Coordinates
	DepotRadius float64
	Seed        int64
}

// SampleUniversities returns the built-in three-campus destination set
// used when no universities file exists yet.
func SampleUniversities() []domain.University {
	return []domain.University{
		{ID: "UNI_01", Name: "Central University", Location: domain.Coordinates{Lat: 33.8992, Lng: 35.4788}},
		{ID: "UNI_02", Name: "Harbor Institute", Location: domain.Coordinates{Lat: 33.8869, Lng: 35.5131}},
		{ID: "UNI_03", Name: "Hillside College", Location: domain.Coordinates{Lat: 33.8721, Lng: 35.5365}},
	}
}

// GenerateStudents samples Count students: homes drawn around
// neighborhood centers which are themselves drawn around the city center,
// universities picked by weight, and one schedule pattern plus arrival
// window each. Identical params produce identical output.
func GenerateStudents(p StudentParams, universities []domain.University) ([]domain.Student, error) {
	if p.Count < 0 {
		return nil, fmt.Errorf("generate students: count must not be negative, got %d", p.Count)
	}
	if len(universities) == 0 {
		return nil, fmt.Errorf("generate students: at least one university is required")
	}

	weights := p.UniversityWeights
	if len(weights) == 0 {
		weights = make([]float64, len(universities))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(universities) {
		return nil, fmt.Errorf("generate students: %d weight(s) for %d universities", len(weights), len(universities))
	}
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("generate students: negative university weight %v", w)
		}
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("generate students: university weights sum to zero")
	}

	neighborhoods := p.NeighborhoodCount
	if neighborhoods <= 0 {
		neighborhoods = DefaultNeighborhoodCount
	}

	rng := rand.New(rand.NewSource(p.Seed))

	// Neighborhood centers first, so the home distribution is clustered
	// rather than uniform city-wide noise.
	centers := make([]domain.Coordinates, neighborhoods)
	for i := range centers {
		centers[i] = samplePointNear(rng, p.CityCenter, p.NeighborhoodSpread)
	}

	students := make([]domain.Student, 0, p.Count)
	for i := 1; i <= p.Count; i++ {
		home := samplePointNear(rng, centers[rng.Intn(len(centers))], p.HomeRadius)
		uni := universities[weightedIndex(rng, weights, total)]

		students = append(students, domain.Student{
			ID:           fmt.Sprintf("STU_%04d", i),
			Home:         roundCoordinates(home),
			UniversityID: uni.ID,
			Days:         slices.Clone(dayPatterns[rng.Intn(len(dayPatterns))]),
			Window:       pickupWindows[rng.Intn(len(pickupWindows))],
		})
	}

	return students, nil
}

// GenerateBuses samples Count buses with depots around the city center
// and capacities drawn from the realistic size set.
func GenerateBuses(p BusParams) ([]domain.Bus, error) {
	if p.Count < 0 {
		return nil, fmt.Errorf("generate buses: count must not be negative, got %d", p.Count)
	}

	rng := rand.New(rand.NewSource(p.Seed))

	buses := make([]domain.Bus, 0, p.Count)
	for i := 1; i <= p.Count; i++ {
		buses = append(buses, domain.Bus{
			ID:       fmt.Sprintf("BUS_%02d", i),
			Capacity: capacityChoices[rng.Intn(len(capacityChoices))],
			Depot:    roundCoordinates(samplePointNear(rng, p.CityCenter, p.DepotRadius)),
		})
	}

	return buses, nil
}

func samplePointNear(rng *rand.Rand, base domain.Coordinates, radius float64) domain.Coordinates {
	return domain.Coordinates{
		Lat: base.Lat + rng.Float64()*2*radius - radius,
		Lng: base.Lng + rng.Float64()*2*radius - radius,
	}
}

func weightedIndex(rng *rand.Rand, weights []float64, total float64) int {
	r := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}

// roundCoordinates trims to six decimals, the precision roster files
// carry.
func roundCoordinates(c domain.Coordinates) domain.Coordinates {
	const scale = 1e6
	return domain.Coordinates{
		Lat: math.Round(c.Lat*scale) / scale,
		Lng: math.Round(c.Lng*scale) / scale,
	}
}
