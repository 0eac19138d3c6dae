// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoutesCalculated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_routes_calculated_total",
			Help: "Total number of route calculations completed",
		},
		[]string{"tier"},
	)

	OptionsDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_options_discarded_total",
			Help: "Route options discarded before ranking",
		},
		[]string{"template", "reason"},
	)

	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "planner_calculation_duration_seconds",
			Help: "Duration of one route calculation in seconds",
		},
		[]string{"tier"},
	)

	PricingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_cache_lookups_total",
			Help: "Pricing cache lookups by service and outcome (hit, stale, miss)",
		},
		[]string{"service", "outcome"},
	)

	PricingProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_provider_calls_total",
			Help: "Live pricing provider calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	PricingHardCapHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_session_hard_cap_hits_total",
			Help: "Budget checks denied because the session hard cap was reached",
		},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Jobs currently being processed per task type",
		},
		[]string{"task_type"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Jobs completed successfully per task type",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Jobs failed per task type and error code",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Job processing duration per task type",
		},
		[]string{"task_type"},
	)
)
