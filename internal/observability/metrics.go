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
		Name: "rightfit_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rightfit_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RequestTransitions counts coaching-request lifecycle transitions by
	// action (send, accept, deny, create_workout, pay) and outcome.
	RequestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rightfit_request_transitions_total",
		Help: "Total coaching-request lifecycle transitions by action and outcome",
	}, []string{"action", "outcome"})

	// EmailsSent counts outbound transactional emails by kind and outcome.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rightfit_emails_sent_total",
		Help: "Total transactional emails sent by kind and outcome",
	}, []string{"kind", "outcome"})
)

// ObserveTransition records one lifecycle transition attempt.
func ObserveTransition(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	RequestTransitions.WithLabelValues(action, outcome).Inc()
}

const queryStartKey = "observability:query_start"

// DatabaseMetrics records query latency into DatabaseQueryLatency through
// gorm callbacks registered on a connection.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// registerer matches gorm's callback registration chain.
type registerer interface {
	Register(name string, fn func(*gorm.DB)) error
}

// Register hooks the latency observers around every statement kind.
func (m *DatabaseMetrics) Register() error {
	cb := m.db.Callback()
	hooks := []struct {
		operation     string
		before, after registerer
	}{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create")},
		{"query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query")},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update")},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete")},
		{"row", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row")},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw")},
	}
	for _, h := range hooks {
		if err := h.before.Register("observability:start_"+h.operation, m.start); err != nil {
			return err
		}
		if err := h.after.Register("observability:finish_"+h.operation, m.finish(h.operation)); err != nil {
			return err
		}
	}
	return nil
}

func (m *DatabaseMetrics) start(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (m *DatabaseMetrics) finish(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		m.ObserveQuery(operation, db.Statement.Table, start)
	}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	if table == "" {
		table = "unknown"
	}
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}
