package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"student-transport-service/internal/api/handlers"
	"student-transport-service/internal/platform/metrics"
	"student-transport-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(roster ports.RosterRepository, plans ports.PlanRepository, defaults handlers.PlanDefaults) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	rosterHandler := &handlers.RosterHandler{Repo: roster}
	planHandler := &handlers.PlanHandler{
		Roster:   roster,
		Plans:    plans,
		Defaults: defaults,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/students", rosterHandler.ListStudents)
	mux.HandleFunc("/buses", rosterHandler.ListBuses)
	mux.HandleFunc("/universities", rosterHandler.ListUniversities)
	mux.HandleFunc("/plans", planHandler.Handle)
	mux.HandleFunc("/plans/", planHandler.Get)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return instrument(mux)
}
