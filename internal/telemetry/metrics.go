// Package telemetry provides Prometheus metrics for the content workflow
// engine. All metrics are registered against the default registry and served
// from the router's /metrics endpoint.
package telemetry

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics, labelled by method, route template, and status code.
// The path label holds the chi route pattern, not the raw URL, to keep
// label cardinality bounded.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// Workflow metrics, recorded by the workflow services on every committed
// state transition.
var (
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transitions_total",
			Help: "Total number of committed workflow state transitions, by resource type and action.",
		},
		[]string{"resource", "action"},
	)

	TransitionConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transition_conflicts_total",
			Help: "Total number of transitions lost to a concurrent status change, by resource type.",
		},
		[]string{"resource"},
	)
)

// Publish metrics, recorded by the publish coordinator.
var (
	PublishAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publish_attempts_total",
			Help: "Total number of external delivery attempts, by channel and outcome.",
		},
		[]string{"channel", "outcome"},
	)

	PublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "publish_duration_seconds",
			Help:    "Duration of a complete publish operation across all channels.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"channel"},
	)
)

// DBOpenConnections tracks the number of open connections held by the
// sql.DB pool, sampled every 30 seconds rather than per request.
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector launches a background goroutine that samples the
// connection pool every 30 seconds. The goroutine exits when the database
// becomes unreachable, which happens when the application shuts down and
// closes the pool.
func StartDBStatsCollector(db *sql.DB) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.Ping(); err != nil {
				return
			}
			DBOpenConnections.Set(float64(db.Stats().OpenConnections))
		}
	}()
}
