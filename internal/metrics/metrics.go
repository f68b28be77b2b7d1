package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vietchef"

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is a no-op.
type Metrics struct {
	slotsReturned    *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	externalFailures *prometheus.CounterVec
	rpcRequests      *prometheus.CounterVec
	rpcDuration      *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		slotsReturned: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "availability",
				Name:      "slots_returned",
				Help:      "Number of slots returned per availability query.",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
			[]string{"operation"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "timezone",
				Name:      "cache_lookups_total",
				Help:      "Address to timezone cache lookups by tier and result.",
			},
			[]string{"tier", "result"},
		),
		externalFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "external_lookup_failures_total",
				Help:      "Failed calls to external lookup services.",
			},
			[]string{"service"},
		),
		rpcRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_requests_total",
				Help:      "Handled gRPC requests by method and status code.",
			},
			[]string{"method", "code"},
		),
		rpcDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_duration_seconds",
				Help:      "gRPC handling latency.",
				Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
			},
			[]string{"method"},
		),
	}
}

func (m *Metrics) ObserveSlots(operation string, count int) {
	if m == nil {
		return
	}
	m.slotsReturned.WithLabelValues(operation).Observe(float64(count))
}

func (m *Metrics) CacheLookup(tier string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(tier, result).Inc()
}

func (m *Metrics) ExternalFailure(service string) {
	if m == nil {
		return
	}
	m.externalFailures.WithLabelValues(service).Inc()
}

func (m *Metrics) RPC(method, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(method, code).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(seconds)
}
