package rates

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

const (
	outcomeCacheHit = "cache_hit"
	outcomeFetched  = "fetched"
	outcomeFallback = "fallback"
)

// Metrics records how rate lookups were served. A nil *Metrics records nothing.
type Metrics struct {
	lookups      *prometheus.CounterVec
	cacheErrors  *prometheus.CounterVec
	fetchLatency prometheus.Histogram
	breakerState prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_lookups_total",
				Help:      "Rate snapshot lookups by outcome (cache_hit, fetched, fallback)",
			},
			[]string{"outcome"},
		),
		cacheErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_cache_errors_total",
				Help:      "Rate cache failures by operation",
			},
			[]string{"operation"},
		),
		fetchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rate_fetch_duration_seconds",
				Help:      "Latency of bank rate feed fetches",
				Buckets:   prometheus.DefBuckets,
			},
		),
		breakerState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rate_source_circuit_state",
				Help:      "Bank rate feed circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
		),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(registry prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.lookups,
		m.cacheErrors,
		m.fetchLatency,
		m.breakerState,
	}

	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) recordLookup(outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordCacheError(operation string) {
	if m == nil {
		return
	}
	m.cacheErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) recordFetch(duration time.Duration) {
	if m == nil {
		return
	}
	m.fetchLatency.Observe(duration.Seconds())
}

func (m *Metrics) recordBreakerState(state gobreaker.State) {
	if m == nil {
		return
	}
	switch state {
	case gobreaker.StateClosed:
		m.breakerState.Set(0)
	case gobreaker.StateOpen:
		m.breakerState.Set(1)
	case gobreaker.StateHalfOpen:
		m.breakerState.Set(2)
	}
}
