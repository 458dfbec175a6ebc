package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transcription_jobs_active",
		Help: "Transcription jobs currently uploading or polling",
	})

	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transcription_jobs_total",
		Help: "Transcription jobs by terminal status",
	}, []string{"status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Per-stage latency",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	}, []string{"stage"})

	PollAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "transcription_poll_attempts",
		Help:    "Result-fetch attempts per completed transcription job",
		Buckets: []float64{1, 2, 5, 10, 20, 40, 60, 80, 100},
	})

	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_errors_total",
		Help: "Error counts by stage",
	}, []string{"stage", "error_type"})

	PlansGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itinerary_plans_generated_total",
		Help: "Itineraries successfully generated",
	})

	PlanWarnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itinerary_plan_warnings_total",
		Help: "Soft validation warnings on generated plans",
	}, []string{"kind"})
)
