package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"student-transport-service/internal/adapters/repositories"
	"student-transport-service/internal/adapters/roster"
	"student-transport-service/internal/config"
	"student-transport-service/internal/platform/db"
	"student-transport-service/internal/platform/obs"
)

var dbLog = obs.NewLogger("db")

var (
	seedStudentsPath     string
	seedBusesPath        string
	seedUniversitiesPath string
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the roster database",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the schema (idempotent)",
	RunE:  runDBInit,
}

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load roster CSV files into the database",
	RunE:  runDBSeed,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbInitCmd, dbSeedCmd)

	dbSeedCmd.Flags().StringVar(&seedStudentsPath, "students", "data/students.csv", "students roster CSV")
	dbSeedCmd.Flags().StringVar(&seedBusesPath, "buses", "data/buses.csv", "bus fleet CSV")
	dbSeedCmd.Flags().StringVar(&seedUniversitiesPath, "universities", "data/universities.csv", "universities CSV")
}

// openStore picks Postgres when a connection URL is configured and falls
// back to the local sqlite file otherwise.
func openStore(cfg *config.Config) (*sql.DB, error) {
	if cfg.Database.URL != "" {
		return db.Open(cfg.Database.URL)
	}
	return db.OpenSQLite(cfg.Database.SQLitePath)
}

func runDBInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	conn, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(conn); err != nil {
		return err
	}

	dbLog.Info().Msg("schema ready")
	return nil
}

func runDBSeed(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	students, err := roster.ReadStudents(seedStudentsPath)
	if err != nil {
		return err
	}
	buses, err := roster.ReadBuses(seedBusesPath)
	if err != nil {
		return err
	}
	universities, err := roster.ReadUniversities(seedUniversitiesPath)
	if err != nil {
		return err
	}

	conn, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(conn); err != nil {
		return err
	}
	if err := repositories.SeedRoster(ctx, conn, students, buses, universities); err != nil {
		return err
	}

	dbLog.Info().
		Int("students", len(students)).
		Int("buses", len(buses)).
		Int("universities", len(universities)).
		Msg("roster seeded")
	return nil
}
