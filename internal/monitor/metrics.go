package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrorsTotal counts recorded errors by kind and severity.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_errors_total",
			Help: "Total number of errors recorded by the monitor",
		},
		[]string{"kind", "severity"},
	)

	// RetriesTotal counts retry attempts per operation.
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_retries_total",
			Help: "Total number of retry attempts",
		},
		[]string{"operation"},
	)

	// FallbacksTotal counts operations resolved with substitute data.
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_fallbacks_total",
			Help: "Total number of operations served fallback data",
		},
		[]string{"operation"},
	)

	// SessionsStarted counts monitored sessions.
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_sessions_started_total",
			Help: "Total number of monitored sessions",
		},
	)

	// APIRequestDuration tracks upstream API latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_api_request_duration_seconds",
			Help:    "Upstream API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"url"},
	)
)
