package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for growthplan.
// Record methods are safe on a nil receiver so components can run without metrics.
type Metrics struct {
	// Pipeline metrics
	PipelineRuns     *prometheus.CounterVec
	PipelineDuration prometheus.Histogram
	PhaseDuration    *prometheus.HistogramVec

	// Advisory metrics
	AdvisoryCalls     *prometheus.CounterVec
	AdvisoryLatency   *prometheus.HistogramVec
	AdvisoryFallbacks *prometheus.CounterVec
	AdvisoryTokens    *prometheus.CounterVec

	// Knowledge search metrics
	SearchQueries *prometheus.CounterVec
	SearchResults *prometheus.HistogramVec

	// Planning metrics
	TasksScheduled     prometheus.Counter
	DeadlockBreaks     prometheus.Counter
	SuccessProbability prometheus.Histogram

	// History metrics
	HistoryRecords *prometheus.CounterVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		PipelineRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growthplan_pipeline_runs_total",
				Help: "Total number of planning pipeline invocations",
			},
			[]string{"success"},
		),
		PipelineDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "growthplan_pipeline_duration_seconds",
				Help:    "Planning pipeline duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
			},
		),
		PhaseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "growthplan_phase_duration_seconds",
				Help:    "Pipeline phase duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"phase"},
		),

		AdvisoryCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growthplan_advisory_calls_total",
				Help: "Total advisory calls by operation tag and outcome",
			},
			[]string{"tag", "outcome"},
		),
		AdvisoryLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "growthplan_advisory_latency_seconds",
				Help:    "Advisory call latency in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"tag"},
		),
		AdvisoryFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growthplan_advisory_fallbacks_total",
				Help: "Total deterministic fallbacks used, by operation tag",
			},
			[]string{"tag"},
		),
		AdvisoryTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growthplan_advisory_tokens_total",
				Help: "Tokens consumed by advisory calls",
			},
			[]string{"provider", "token_type"},
		),

		SearchQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growthplan_search_queries_total",
				Help: "Total knowledge search queries",
			},
			[]string{"category", "success"},
		),
		SearchResults: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "growthplan_search_results",
				Help:    "Documents returned per search query",
				Buckets: []float64{0, 1, 2, 5, 10, 20},
			},
			[]string{"category"},
		),

		TasksScheduled: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "growthplan_tasks_scheduled_total",
				Help: "Total tasks placed on a timeline",
			},
		),
		DeadlockBreaks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "growthplan_scheduler_deadlock_breaks_total",
				Help: "Total forced picks made by the dependency scheduler",
			},
		),
		SuccessProbability: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "growthplan_success_probability",
				Help:    "Distribution of estimated success probabilities",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 9),
			},
		),

		HistoryRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growthplan_history_records_total",
				Help: "Total history entries appended",
			},
			[]string{"success"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growthplan_errors_total",
				Help: "Total errors by error code",
			},
			[]string{"error_code"},
		),
	}
}

// RecordPipelineRun records one pipeline invocation.
func (m *Metrics) RecordPipelineRun(success bool, d time.Duration) {
	if m == nil {
		return
	}
	m.PipelineRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
	m.PipelineDuration.Observe(d.Seconds())
}

// RecordPhase records the duration of one phase.
func (m *Metrics) RecordPhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// RecordAdvisoryCall records one advisory call outcome. Short-circuited calls pass d=0.
func (m *Metrics) RecordAdvisoryCall(tag, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.AdvisoryCalls.WithLabelValues(tag, outcome).Inc()
	if d > 0 {
		m.AdvisoryLatency.WithLabelValues(tag).Observe(d.Seconds())
	}
}

// RecordFallback records that tag was resolved with its deterministic default.
func (m *Metrics) RecordFallback(tag string) {
	if m == nil {
		return
	}
	m.AdvisoryFallbacks.WithLabelValues(tag).Inc()
}

// RecordTokens records provider token usage.
func (m *Metrics) RecordTokens(provider string, input, output int) {
	if m == nil {
		return
	}
	m.AdvisoryTokens.WithLabelValues(provider, "input").Add(float64(input))
	m.AdvisoryTokens.WithLabelValues(provider, "output").Add(float64(output))
}

// RecordSearch records one search query.
func (m *Metrics) RecordSearch(category string, success bool, results int) {
	if m == nil {
		return
	}
	m.SearchQueries.WithLabelValues(category, strconv.FormatBool(success)).Inc()
	m.SearchResults.WithLabelValues(category).Observe(float64(results))
}

// RecordSchedule records a finished schedule.
func (m *Metrics) RecordSchedule(tasks, deadlockBreaks int) {
	if m == nil {
		return
	}
	m.TasksScheduled.Add(float64(tasks))
	m.DeadlockBreaks.Add(float64(deadlockBreaks))
}

// RecordSuccessProbability records an estimated success probability.
func (m *Metrics) RecordSuccessProbability(p float64) {
	if m == nil {
		return
	}
	m.SuccessProbability.Observe(p)
}

// RecordHistory records a history append.
func (m *Metrics) RecordHistory(success bool) {
	if m == nil {
		return
	}
	m.HistoryRecords.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// RecordError records an error by its code.
func (m *Metrics) RecordError(code string) {
	if m == nil || code == "" {
		return
	}
	m.Errors.WithLabelValues(code).Inc()
}
