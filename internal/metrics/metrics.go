// Package metrics holds the Prometheus collectors for the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	rpcRequests    *prometheus.CounterVec
	rpcDuration    *prometheus.HistogramVec
	recomputations *prometheus.CounterVec
	driftEvents    prometheus.Counter
	suggestions    prometheus.Histogram
	watchers       prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		rpcRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripsplit",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tripsplit",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		recomputations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripsplit",
			Name:      "recomputations_total",
			Help:      "Balance recomputations by trigger.",
		}, []string{"trigger"}),
		driftEvents: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tripsplit",
			Name:      "settlement_drift_total",
			Help:      "Settlement plans that left an unmatched remainder above tolerance.",
		}),
		suggestions: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tripsplit",
			Name:      "suggested_transactions",
			Help:      "Number of suggested transactions per recomputation.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		watchers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tripsplit",
			Name:      "active_watchers",
			Help:      "Live summary subscriptions currently open.",
		}),
	}
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(d.Seconds())
}

// Recomputed records one summary recomputation.
func (m *Metrics) Recomputed(trigger string, suggested int, drift bool) {
	if m == nil {
		return
	}
	m.recomputations.WithLabelValues(trigger).Inc()
	m.suggestions.Observe(float64(suggested))
	if drift {
		m.driftEvents.Inc()
	}
}

// WatchStarted and WatchStopped track open live subscriptions.
func (m *Metrics) WatchStarted() {
	if m == nil {
		return
	}
	m.watchers.Inc()
}

func (m *Metrics) WatchStopped() {
	if m == nil {
		return
	}
	m.watchers.Dec()
}
