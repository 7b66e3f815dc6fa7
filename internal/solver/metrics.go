package solver

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the solver.
	Registry = prometheus.NewRegistry()
	// Solves counts solve invocations by outcome status.
	Solves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "routeopt_solves_total", Help: "Solve invocations by status."},
		[]string{"status"},
	)
	// SolveDuration records wall-clock solve durations in seconds.
	SolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "routeopt_solve_duration_seconds", Help: "Solve duration in seconds.", Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600}},
	)
	// SearchIterations counts improvement-loop iterations across solves.
	SearchIterations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "routeopt_search_iterations_total", Help: "Local search iterations across solves."},
	)
	// UnassignedStops tracks how many stops each solve left unserved.
	UnassignedStops = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "routeopt_unassigned_stops", Help: "Unassigned stops per solve.", Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100}},
	)
)

// RegisterDefault registers the solver collectors on Registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(Solves)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(SearchIterations)
		Registry.MustRegister(UnassignedStops)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
