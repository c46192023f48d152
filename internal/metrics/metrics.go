package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Run metrics
	RunsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "briefwright_runs_started_total",
			Help: "Total number of research runs started",
		},
	)

	RunsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "briefwright_runs_completed_total",
			Help: "Total number of research runs completed",
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "briefwright_run_duration_seconds",
			Help:    "Research run duration in seconds",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1200},
		},
	)

	// Sub-agent metrics
	SubAgentTasksExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "briefwright_subagent_tasks_total",
			Help: "Total number of sub-agent tasks executed",
		},
		[]string{"kind", "status"},
	)

	SubAgentConfidence = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "briefwright_subagent_confidence_total",
			Help: "Sub-agent reflections by reported confidence level",
		},
		[]string{"confidence"},
	)

	// Refinement metrics
	RefinementRounds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "briefwright_refinement_rounds_total",
			Help: "Total number of refinement rounds executed",
		},
	)

	RefinementTasksSelected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "briefwright_refinement_tasks_selected",
			Help:    "Number of tasks selected per refinement round",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	// Evidence metrics
	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "briefwright_pages_fetched_total",
			Help: "Total number of evidence pages fetched",
		},
		[]string{"status"},
	)

	EvidenceCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "briefwright_evidence_cache_total",
			Help: "Evidence cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// Generation service metrics
	GenerationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "briefwright_generation_latency_seconds",
			Help:    "Latency of text-generation service calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	GenerationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "briefwright_generation_errors_total",
			Help: "Total number of failed text-generation calls",
		},
	)
)
