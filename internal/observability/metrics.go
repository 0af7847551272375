// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openeyes_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "openeyes_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AuthAttempts counts authentication attempts by outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openeyes_auth_attempts_total",
		Help: "Total number of authentication attempts by action and outcome",
	}, []string{"action", "outcome"})

	// ReactionsApplied counts forum reaction state transitions.
	ReactionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openeyes_reactions_applied_total",
		Help: "Total number of post reactions by type and transition",
	}, []string{"reaction", "transition"})

	// ImportRecords counts records produced by data import runs.
	ImportRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openeyes_import_records_total",
		Help: "Total number of records imported by source and result",
	}, []string{"source", "result"})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "openeyes_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openeyes_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to slow clients.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openeyes_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// RecordAuthAttempt increments the auth attempts counter.
func RecordAuthAttempt(action, outcome string) {
	AuthAttempts.WithLabelValues(action, outcome).Inc()
}

// RecordReaction increments the reaction transitions counter.
func RecordReaction(reaction, transition string) {
	ReactionsApplied.WithLabelValues(reaction, transition).Inc()
}

// RecordImport increments the import records counter.
func RecordImport(source, result string, n int) {
	ImportRecords.WithLabelValues(source, result).Add(float64(n))
}
