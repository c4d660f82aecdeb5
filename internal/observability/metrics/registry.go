// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Session metrics track the document lifecycle: imports, exports, and the
// undo history.
var (
	// ImportsTotal counts import attempts by format and result
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imports_total",
			Help: "Total number of collection imports",
		},
		[]string{"format", "status"},
	)

	// ExportsTotal counts export attempts by format and result
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exports_total",
			Help: "Total number of collection exports",
		},
		[]string{"format", "status"},
	)

	// FeedsTotal tracks the number of feeds in the current snapshot
	FeedsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feeds_total",
			Help: "Number of feeds in the current collection snapshot",
		},
	)

	// HistoryDepth tracks the number of retained undo snapshots
	HistoryDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "history_depth",
			Help: "Number of retained history snapshots",
		},
	)
)

// Probe metrics track the liveness prober.
var (
	// ProbesTotal counts individual URL probes by outcome
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "probes_total",
			Help: "Total number of feed URL probes",
		},
		[]string{"outcome"},
	)

	// ProbeDuration measures individual probe duration in seconds
	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "probe_duration_seconds",
			Help:    "Feed URL probe duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ProbeBatchesTotal counts whole probe batches
	ProbeBatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "probe_batches_total",
			Help: "Total number of probe batches run",
		},
	)
)
