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

	BodyModelsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "body_models_classified_total",
			Help: "Body models built or regenerated, by resulting body type",
		},
		[]string{"body_type"},
	)

	PoseDetectionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pose_detection_failures_total",
			Help: "Images in which the pose model found no person",
		},
	)

	GarmentFitScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "garment_fit_score",
			Help:    "Fit scores computed for garments in try-on sessions",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"body_type"},
	)

	GarmentCatalogFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "garment_catalog_fallbacks_total",
			Help: "Garment lookups that fell back to the default record",
		},
	)
)
