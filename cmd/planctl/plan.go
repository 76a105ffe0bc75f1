package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"student-transport-service/internal/adapters/export"
	"student-transport-service/internal/adapters/roster"
	"student-transport-service/internal/config"
	"student-transport-service/internal/platform/obs"
	"student-transport-service/internal/services"
)

var planLog = obs.NewLogger("plan")

var (
	planStudentsPath     string
	planBusesPath        string
	planUniversitiesPath string
	planOutDir           string
	planCapacity         int
	planIterationCap     int
	planSeed             int64
	planWorkers          int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a transport plan from roster CSV files",
	Long: `plan reads the roster CSV files, partitions students into runs,
clusters each run, fits clusters onto the fleet and writes the plan
artifacts (cluster CSVs, route stops, plan JSON) to the output directory.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planStudentsPath, "students", "data/students.csv", "students roster CSV")
	planCmd.Flags().StringVar(&planBusesPath, "buses", "data/buses.csv", "bus fleet CSV")
	planCmd.Flags().StringVar(&planUniversitiesPath, "universities", "data/universities.csv", "universities CSV")
	planCmd.Flags().StringVar(&planOutDir, "out", "out", "artifact output directory")
	planCmd.Flags().IntVar(&planCapacity, "capacity", 0, "target students per cluster (0 uses the configured default)")
	planCmd.Flags().IntVar(&planIterationCap, "iterations", 0, "clustering iteration cap (0 uses the configured default)")
	planCmd.Flags().Int64Var(&planSeed, "seed", 0, "clustering seed (0 uses the configured default)")
	planCmd.Flags().IntVar(&planWorkers, "workers", 0, "concurrent run planners (0 uses the configured default)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if planCapacity == 0 {
		planCapacity = cfg.Planner.TargetClusterCapacity
	}
	if planIterationCap == 0 {
		planIterationCap = cfg.Planner.IterationCap
	}
	if planSeed == 0 {
		planSeed = cfg.Planner.Seed
	}
	if planWorkers == 0 {
		planWorkers = cfg.Planner.Workers
	}

	students, err := roster.ReadStudents(planStudentsPath)
	if err != nil {
		return err
	}
	buses, err := roster.ReadBuses(planBusesPath)
	if err != nil {
		return err
	}
	universities, err := roster.ReadUniversities(planUniversitiesPath)
	if err != nil {
		return err
	}

	planner, err := services.NewTransportPlanner(
		services.NewKMeansClusterer(planIterationCap),
		services.NewNearestNeighborSequencer(),
		services.PlannerConfig{
			TargetClusterCapacity: planCapacity,
			Seed:                  planSeed,
			Workers:               planWorkers,
		},
		planLog,
	)
	if err != nil {
		return err
	}

	plan, err := planner.Plan(ctx, services.PlanRequest{
		Students:     students,
		Buses:        buses,
		Universities: universities,
	})
	if err != nil {
		return err
	}

	if err := export.WriteArtifacts(planOutDir, plan); err != nil {
		return err
	}

	planLog.Info().
		Str("plan_id", plan.PlanID).
		Int("runs", plan.Metrics.RunCount).
		Int("clusters", plan.Metrics.ClusterCount).
		Int("assigned", plan.Metrics.StudentsAssigned).
		Int("unassigned", plan.Metrics.StudentsUnassigned).
		Int("incidents", plan.Metrics.IncidentCount).
		Float64("total_distance", plan.Metrics.TotalDistance).
		Float64("mean_utilization", plan.Metrics.MeanUtilization).
		Str("dir", planOutDir).
		Msg("plan artifacts written")

	// Incidents are part of the plan, not a failure of the command.
	for _, inc := range plan.Incidents {
		planLog.Warn().
			Str("type", string(inc.Type)).
			Str("run_id", inc.RunID).
			Str("cluster_id", inc.ClusterID).
			Int("students", len(inc.StudentIDs)).
			Msg(inc.Message)
	}

	return nil
}
