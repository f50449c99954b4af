// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ProjectionsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wind_projections_computed_total",
			Help: "Projections computed by the engine, by formula and district",
		},
		[]string{"formula", "district"},
	)

	ProjectionCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wind_projection_cache_total",
			Help: "Projection cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	ProjectionCapacityFactor = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wind_projection_capacity_factor",
			Help:    "Distribution of computed capacity factors",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	WorkbooksExported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wind_workbooks_exported_total",
			Help: "Projection workbooks rendered",
		},
	)

	FeedbackDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wind_feedback_delivered_total",
			Help: "Feedback messages delivered by channel",
		},
		[]string{"channel"},
	)
)

// ObserveJob records the outcome of one job. errorCode is empty on success.
func ObserveJob(taskType, errorCode string, seconds float64) {
	if errorCode != "" {
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	} else {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	}
	WorkerJobDuration.WithLabelValues(taskType).Observe(seconds)
}
