// Package metrics exposes probe and store counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arun-gupta/api-status-dashboard/internal/domain"
)

type Metrics struct {
	registry *prometheus.Registry

	probesTotal    *prometheus.CounterVec
	probeLatency   *prometheus.HistogramVec
	contentInvalid *prometheus.CounterVec
	lastStatus     *prometheus.GaugeVec
	cycleDuration  prometheus.Histogram
	storeErrors    *prometheus.CounterVec
}

// New builds the collectors on a private registry so tests and multiple
// servers in one process do not collide.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		probesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apistatus_probes_total",
			Help: "Probes run, by endpoint and resulting status.",
		}, []string{"endpoint", "status"}),
		probeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "apistatus_probe_latency_seconds",
			Help:    "Time to response headers (or to failure) per endpoint.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		contentInvalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apistatus_content_invalid_total",
			Help: "Probes whose response failed content validation.",
		}, []string{"endpoint"}),
		lastStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "apistatus_endpoint_up",
			Help: "1 if the last probe was up, 0.5 if degraded, 0 if down.",
		}, []string{"endpoint"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "apistatus_cycle_duration_seconds",
			Help:    "Wall time of a full probe cycle including history writes.",
			Buckets: prometheus.DefBuckets,
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apistatus_store_errors_total",
			Help: "History store failures by operation.",
		}, []string{"op"}),
	}
	m.registry.MustRegister(
		m.probesTotal,
		m.probeLatency,
		m.contentInvalid,
		m.lastStatus,
		m.cycleDuration,
		m.storeErrors,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveProbe records one probe result.
func (m *Metrics) ObserveProbe(r domain.ProbeResult) {
	if m == nil {
		return
	}
	m.probesTotal.WithLabelValues(r.Name, string(r.Status)).Inc()
	m.probeLatency.WithLabelValues(r.Name).Observe(r.Latency.Seconds())
	if !r.ContentValidation.Valid {
		m.contentInvalid.WithLabelValues(r.Name).Inc()
	}
	var v float64
	switch r.Status {
	case domain.StatusUp:
		v = 1
	case domain.StatusDegraded:
		v = 0.5
	}
	m.lastStatus.WithLabelValues(r.Name).Set(v)
}

func (m *Metrics) ObserveCycle(d time.Duration) {
	if m == nil {
		return
	}
	m.cycleDuration.Observe(d.Seconds())
}

// StoreError counts a failed store operation ("read" or "write").
func (m *Metrics) StoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer is exposed for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
