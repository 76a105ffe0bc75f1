package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"student-transport-service/internal/adapters/repositories"
	"student-transport-service/internal/api"
	"student-transport-service/internal/api/handlers"
	"student-transport-service/internal/config"
	"student-transport-service/internal/platform/db"
	"student-transport-service/internal/platform/obs"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or sqlite) behind ports and starts the HTTP server.
func main() {
	log := obs.NewLogger("server")

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}

	conn, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer conn.Close()

	// Schema setup is idempotent; local runs need no separate migration step.
	if err := repositories.InitSchema(conn); err != nil {
		log.Fatal().Err(err).Msg("init schema")
	}

	router := api.NewRouter(
		repositories.NewSQLRosterRepository(conn),
		repositories.NewSQLPlanRepository(conn),
		handlers.PlanDefaults{
			TargetClusterCapacity: cfg.Planner.TargetClusterCapacity,
			IterationCap:          cfg.Planner.IterationCap,
			Seed:                  cfg.Planner.Seed,
			Workers:               cfg.Planner.Workers,
		},
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server listening")

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// openStore picks Postgres when a connection URL is configured and falls
// back to the local sqlite file otherwise.
func openStore(cfg *config.Config) (*sql.DB, error) {
	if cfg.Database.URL != "" {
		return db.Open(cfg.Database.URL)
	}
	return db.OpenSQLite(cfg.Database.SQLitePath)
}
