package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks the latency of HTTP requests by route and status
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "admarket_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
				5.0,   // 5s
				10.0,  // 10s
			},
		},
		[]string{"route", "status"},
	)

	// JobRuns counts background job executions by kind and outcome
	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admarket_job_runs_total",
			Help: "Background job executions by kind and outcome",
		},
		[]string{"kind", "outcome"}, // outcome is success or failure
	)

	// CacheLookups counts cache hits and misses by key
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admarket_cache_lookups_total",
			Help: "Cache lookups by key and result",
		},
		[]string{"key", "result"}, // result is hit or miss
	)
)

// RecordRequestDuration records the duration of one HTTP request
func RecordRequestDuration(route, status string, duration float64) {
	RequestDuration.WithLabelValues(route, status).Observe(duration)
}

// RecordJobRun records a background job execution
func RecordJobRun(kind, outcome string) {
	JobRuns.WithLabelValues(kind, outcome).Inc()
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(key, result string) {
	CacheLookups.WithLabelValues(key, result).Inc()
}
