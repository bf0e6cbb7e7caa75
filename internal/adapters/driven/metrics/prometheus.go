// Package metrics exports request, parse and snapshot counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/empire-ledger/internal/core/ports/driven"
)

// Ensure Prometheus implements the interface.
var _ driven.Metrics = (*Prometheus)(nil)

const namespace = "ledger"

// Prometheus records metrics on its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	parseBytes      prometheus.Histogram
	parseDuration   prometheus.Histogram
	parseFailures   prometheus.Counter
	snapshots       *prometheus.CounterVec
	cachedDocuments prometheus.Gauge
}

// NewPrometheus creates the collectors and registers them.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Boundary requests by command and outcome.",
		}, []string{"command", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Boundary request latency.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"command"}),
		parseBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_bytes",
			Help:      "Size of parsed gamestate text.",
			Buckets:   prometheus.ExponentialBuckets(1<<16, 4, 8),
		}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time to build a save document.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failed_sections_total",
			Help:      "Top-level sections that failed to build.",
		}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Snapshot appends by result.",
		}, []string{"result"}),
		cachedDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_documents",
			Help:      "Documents held by the document cache.",
		}),
	}
	p.registry.MustRegister(
		p.requests, p.requestDuration,
		p.parseBytes, p.parseDuration, p.parseFailures,
		p.snapshots, p.cachedDocuments,
	)
	return p
}

// ObserveRequest records a boundary request. An empty kind is a success.
func (p *Prometheus) ObserveRequest(command, kind string, elapsed time.Duration) {
	outcome := kind
	if outcome == "" {
		outcome = "ok"
	}
	p.requests.WithLabelValues(command, outcome).Inc()
	p.requestDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// ObserveParse records a document build.
func (p *Prometheus) ObserveParse(bytes, failedSections int, elapsed time.Duration) {
	p.parseBytes.Observe(float64(bytes))
	p.parseDuration.Observe(elapsed.Seconds())
	p.parseFailures.Add(float64(failedSections))
}

// ObserveSnapshot records a snapshot append.
func (p *Prometheus) ObserveSnapshot(created bool) {
	result := "duplicate"
	if created {
		result = "created"
	}
	p.snapshots.WithLabelValues(result).Inc()
}

// SetCachedDocuments reports the document cache size.
func (p *Prometheus) SetCachedDocuments(n int) {
	p.cachedDocuments.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
