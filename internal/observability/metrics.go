// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	SimulationRunsTotal *prometheus.CounterVec
	ScenariosGenerated  prometheus.Counter
	RunDuration         prometheus.Histogram
	RunScenarioCount    prometheus.Histogram

	// Optimizer metrics
	OptimizerRunsTotal  *prometheus.CounterVec
	OptimizerDuration   prometheus.Histogram
	OptimizerCandidates prometheus.Histogram

	// Input metrics
	ValidationFailures *prometheus.CounterVec
	UnknownStageLabels prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "venture_fund_lab"
	}

	return &Metrics{
		// Simulation metrics
		SimulationRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of simulation runs by status",
		}, []string{"status"}),
		ScenariosGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "scenarios_generated_total",
			Help:      "Total number of scenarios generated",
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Simulation run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
		RunScenarioCount: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_scenario_count",
			Help:      "Scenario count per simulation run",
			Buckets:   []float64{100, 500, 1000, 5000, 10000, 25000, 50000},
		}),

		// Optimizer metrics
		OptimizerRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "runs_total",
			Help:      "Total number of reserve optimization runs by status",
		}, []string{"status"}),
		OptimizerDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "duration_seconds",
			Help:      "Reserve optimization duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		OptimizerCandidates: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "candidate_count",
			Help:      "Candidate ratio count per optimization run",
			Buckets:   []float64{1, 3, 5, 9, 15, 25},
		}),

		// Input metrics
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "validation_failures_total",
			Help:      "Total number of rejected configs by field",
		}, []string{"field"}),
		UnknownStageLabels: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "unknown_stage_labels_total",
			Help:      "Total number of stage labels rejected by the normalizer",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSimulationRun records a completed or failed simulation run.
func RecordSimulationRun(status string, scenarioCount int, durationSeconds float64) {
	DefaultMetrics.SimulationRunsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		DefaultMetrics.ScenariosGenerated.Add(float64(scenarioCount))
		DefaultMetrics.RunScenarioCount.Observe(float64(scenarioCount))
	}
	DefaultMetrics.RunDuration.Observe(durationSeconds)
}

// RecordOptimizerRun records a reserve optimization run.
func RecordOptimizerRun(status string, candidates int, durationSeconds float64) {
	DefaultMetrics.OptimizerRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.OptimizerCandidates.Observe(float64(candidates))
	DefaultMetrics.OptimizerDuration.Observe(durationSeconds)
}

// RecordValidationFailure increments the rejected-config counter for a field.
func RecordValidationFailure(field string) {
	DefaultMetrics.ValidationFailures.WithLabelValues(field).Inc()
}

// RecordUnknownStageLabel increments the unknown-stage counter.
func RecordUnknownStageLabel() {
	DefaultMetrics.UnknownStageLabels.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// StartDBQuery starts timing one database operation. Call the returned
// func with the operation's error when it finishes; duration and outcome
// land in the database metrics.
func StartDBQuery(database, operation string) func(error) {
	start := time.Now()
	return func(err error) {
		RecordDBQuery(database, operation, time.Since(start).Seconds(), err)
	}
}
