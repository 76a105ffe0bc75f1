package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"student-transport-service/internal/adapters/datagen"
	"student-transport-service/internal/adapters/roster"
	"student-transport-service/internal/domain"
	"student-transport-service/internal/platform/obs"
)

var genLog = obs.NewLogger("datagen")

var (
	genOutDir       string
	genSeed         int64
	genCityLat      float64
	genCityLng      float64
	genStudentCount int
	genUniWeights   []float64
	genBusCount     int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write synthetic roster CSV files",
}

var generateStudentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Generate students.csv against the sample universities",
	RunE:  runGenerateStudents,
}

var generateBusesCmd = &cobra.Command{
	Use:   "buses",
	Short: "Generate buses.csv",
	RunE:  runGenerateBuses,
}

var generateUniversitiesCmd = &cobra.Command{
	Use:   "universities",
	Short: "Write the sample universities.csv",
	RunE:  runGenerateUniversities,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.AddCommand(generateStudentsCmd, generateBusesCmd, generateUniversitiesCmd)

	generateCmd.PersistentFlags().StringVar(&genOutDir, "out", "data", "output directory")
	generateCmd.PersistentFlags().Int64Var(&genSeed, "seed", 42, "generator seed")
	generateCmd.PersistentFlags().Float64Var(&genCityLat, "lat", datagen.DefaultCityCenterLat, "city center latitude")
	generateCmd.PersistentFlags().Float64Var(&genCityLng, "lng", datagen.DefaultCityCenterLng, "city center longitude")

	generateStudentsCmd.Flags().IntVar(&genStudentCount, "count", datagen.DefaultStudentCount, "students to generate")
	generateStudentsCmd.Flags().Float64SliceVar(&genUniWeights, "weights", []float64{0.5, 0.3, 0.2}, "university popularity weights")
	generateBusesCmd.Flags().IntVar(&genBusCount, "count", datagen.DefaultBusCount, "buses to generate")
}

func cityCenter() domain.Coordinates {
	return domain.Coordinates{Lat: genCityLat, Lng: genCityLng}
}

func runGenerateStudents(cmd *cobra.Command, args []string) error {
	students, err := datagen.GenerateStudents(datagen.StudentParams{
		Count:              genStudentCount,
		CityCenter:         cityCenter(),
		NeighborhoodCount:  datagen.DefaultNeighborhoodCount,
		NeighborhoodSpread: datagen.DefaultNeighborhoodSpread,
		HomeRadius:         datagen.DefaultHomeRadius,
		UniversityWeights:  genUniWeights,
		Seed:               genSeed,
	}, datagen.SampleUniversities())
	if err != nil {
		return err
	}

	path := filepath.Join(genOutDir, "students.csv")
	if err := roster.WriteStudents(path, students); err != nil {
		return fmt.Errorf("generate students: %w", err)
	}

	genLog.Info().Int("students", len(students)).Str("path", path).Msg("students written")
	return nil
}

func runGenerateBuses(cmd *cobra.Command, args []string) error {
	buses, err := datagen.GenerateBuses(datagen.BusParams{
		Count:       genBusCount,
		CityCenter:  cityCenter(),
		DepotRadius: datagen.DefaultDepotRadius,
		Seed:        genSeed,
	})
	if err != nil {
		return err
	}

	path := filepath.Join(genOutDir, "buses.csv")
	if err := roster.WriteBuses(path, buses); err != nil {
		return fmt.Errorf("generate buses: %w", err)
	}

	genLog.Info().Int("buses", len(buses)).Str("path", path).Msg("buses written")
	return nil
}

func runGenerateUniversities(cmd *cobra.Command, args []string) error {
	universities := datagen.SampleUniversities()

	path := filepath.Join(genOutDir, "universities.csv")
	if err := roster.WriteUniversities(path, universities); err != nil {
		return fmt.Errorf("generate universities: %w", err)
	}

	genLog.Info().Int("universities", len(universities)).Str("path", path).Msg("universities written")
	return nil
}
