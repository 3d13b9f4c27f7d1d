package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// API requests per route, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reportvault_requests_total",
			Help: "Total API requests received",
		},
		[]string{"route", "method", "status"},
	)

	// request latency in seconds per route/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reportvault_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ReportsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reportvault_reports_submitted_total",
			Help: "Total encrypted reports stored",
		},
	)

	// report status changes, labelled by target status and owner/auto source
	Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reportvault_report_transitions_total",
			Help: "Total report status transitions",
		},
		[]string{"status", "source"},
	)

	// payout intents emitted, labelled by completeness
	PayoutIntents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reportvault_payout_intents_total",
			Help: "Total payout intents emitted",
		},
		[]string{"complete"},
	)

	PayoutPublishErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reportvault_payout_publish_errors_total",
			Help: "Total payout intent publish failures",
		},
	)

	// sweeper ticks by outcome (ok, error, skipped)
	SweepRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reportvault_sweep_runs_total",
			Help: "Total auto-resolution sweep ticks",
		},
		[]string{"outcome"},
	)

	AutoApproved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reportvault_auto_approved_total",
			Help: "Total reports approved by the sweeper",
		},
	)

	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reportvault_sweep_duration_seconds",
			Help:    "Histogram of sweep tick durations",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		ReportsSubmitted,
		Transitions,
		PayoutIntents,
		PayoutPublishErrors,
		SweepRuns,
		AutoApproved,
		SweepDuration,
	)
}
