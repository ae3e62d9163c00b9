// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Engine metrics
	ComputationsTotal  *prometheus.CounterVec
	ComputationErrors  *prometheus.CounterVec
	ComputationLatency *prometheus.HistogramVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Live session metrics
	LiveSessions prometheus.Gauge
	LiveEdits    *prometheus.CounterVec

	// Report metrics
	ReportsGenerated prometheus.Counter
}

// NewMetrics creates a Metrics instance registered with reg.
// A nil reg registers with the default Prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "quanta"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Engine metrics
		ComputationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "computations_total",
			Help:      "Total number of engine computations by kind",
		}, []string{"kind"}),
		ComputationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "computation_errors_total",
			Help:      "Total number of rejected engine inputs by kind",
		}, []string{"kind"}),
		ComputationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "computation_latency_seconds",
			Help:      "Engine computation latency in seconds",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"kind"}),

		// Cache metrics
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of simulation cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of simulation cache misses",
		}),

		// HTTP metrics
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		// Live session metrics
		LiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "sessions",
			Help:      "Number of open live WebSocket sessions",
		}),
		LiveEdits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "edits_total",
			Help:      "Total number of live parameter edits by outcome",
		}, []string{"outcome"}),

		// Report metrics
		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "generated_total",
			Help:      "Total number of reports generated",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor returns a /metrics handler serving g.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// RecordComputation records one engine computation.
func (m *Metrics) RecordComputation(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.ComputationsTotal.WithLabelValues(kind).Inc()
	m.ComputationLatency.WithLabelValues(kind).Observe(seconds)
}

// RecordComputationError records a rejected input.
func (m *Metrics) RecordComputationError(kind string) {
	if m == nil {
		return
	}
	m.ComputationErrors.WithLabelValues(kind).Inc()
}

// RecordCache records a cache lookup.
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

// RecordHTTP records an HTTP request.
func (m *Metrics) RecordHTTP(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, status).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(seconds)
}

// LiveSessionOpened increments the live sessions gauge.
func (m *Metrics) LiveSessionOpened() {
	if m == nil {
		return
	}
	m.LiveSessions.Inc()
}

// LiveSessionClosed decrements the live sessions gauge.
func (m *Metrics) LiveSessionClosed() {
	if m == nil {
		return
	}
	m.LiveSessions.Dec()
}

// RecordLiveEdit records a live edit with outcome "applied" or "rejected".
func (m *Metrics) RecordLiveEdit(outcome string) {
	if m == nil {
		return
	}
	m.LiveEdits.WithLabelValues(outcome).Inc()
}

// RecordReport increments the reports generated counter.
func (m *Metrics) RecordReport() {
	if m == nil {
		return
	}
	m.ReportsGenerated.Inc()
}
