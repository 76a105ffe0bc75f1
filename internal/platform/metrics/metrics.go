package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// PlansComputed counts finished planning invocations.
	PlansComputed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "plans_computed_total", Help: "Planning invocations completed."},
	)
	// PlanStudents counts planned students by outcome (assigned or unassigned).
	PlanStudents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "plan_students_total", Help: "Students planned, by outcome."},
		[]string{"outcome"},
	)
	// PlanIncidents counts recorded incidents by type.
	PlanIncidents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "plan_incidents_total", Help: "Plan incidents, by type."},
		[]string{"type"},
	)
	// PlanDistance tracks the total route distance of each plan, in
	// coordinate degrees.
	PlanDistance = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "plan_total_distance_degrees", Help: "Total route distance per plan, in coordinate degrees.", Buckets: prometheus.ExponentialBuckets(0.01, 4, 10)},
	)
)

var regOnce sync.Once

// RegisterDefault registers all service collectors on the dedicated
// registry, once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(PlansComputed)
		Registry.MustRegister(PlanStudents)
		Registry.MustRegister(PlanIncidents)
		Registry.MustRegister(PlanDistance)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// ObservePlan records the outcome counters of one finished plan.
func ObservePlan(assigned, unassigned int, incidentsByType map[string]int, totalDistance float64) {
	PlansComputed.Inc()
	PlanStudents.WithLabelValues("assigned").Add(float64(assigned))
	PlanStudents.WithLabelValues("unassigned").Add(float64(unassigned))
	for typ, n := range incidentsByType {
		PlanIncidents.WithLabelValues(typ).Add(float64(n))
	}
	PlanDistance.Observe(totalDistance)
}
