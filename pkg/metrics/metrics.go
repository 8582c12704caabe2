package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuredflags_cache_requests_total",
			Help: "Cache lookups by evaluation operation and outcome (hit, miss, error, decode_error)",
		},
		[]string{"operation", "result"},
	)

	CacheWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuredflags_cache_writes_total",
			Help: "Cache writes by evaluation operation and outcome (ok, error, skipped)",
		},
		[]string{"operation", "result"},
	)

	RuleQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuredflags_rule_queries_total",
			Help: "Rule store queries by status (count)",
		},
		[]string{"status"},
	)

	EvaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "featuredflags_evaluation_duration_ms",
			Help:    "Flag evaluation duration in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"operation"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "featuredflags_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(CacheRequestsTotal)
		prometheus.MustRegister(CacheWritesTotal)
		prometheus.MustRegister(RuleQueriesTotal)
		prometheus.MustRegister(EvaluationDuration)
		prometheus.MustRegister(CircuitBreakerState)
	})
}

func RecordCacheRequest(operation, result string) {
	CacheRequestsTotal.WithLabelValues(operation, result).Inc()
}

func RecordCacheWrite(operation, result string) {
	CacheWritesTotal.WithLabelValues(operation, result).Inc()
}

func RecordRuleQuery(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RuleQueriesTotal.WithLabelValues(status).Inc()
}

func RecordEvaluation(operation string, started time.Time) {
	EvaluationDuration.WithLabelValues(operation).Observe(float64(time.Since(started).Microseconds()) / 1000)
}
