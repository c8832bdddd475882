// Package metrics exposes prometheus collectors for the molview server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "molview"

// DefaultDurationBuckets suit in-process renders of small molecules.
var DefaultDurationBuckets = []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}

// Render outcomes.
const (
	OutcomeImage   = "image"
	OutcomeNoneMol = "none_mol"
	OutcomeError   = "error"
)

// Highlight sources.
const (
	SourceAtomIDs = "atom_indices"
	SourceMarkers = "markers"
	SourceNone    = "none"
)

// Metrics holds the server collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RendersTotal    *prometheus.CounterVec
	RenderDuration  *prometheus.HistogramVec
	HighlightsTotal *prometheus.CounterVec
}

// New registers every collector, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "path", "status_code"})
	m.RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   DefaultDurationBuckets,
	}, []string{"method", "path"})
	m.RendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "total",
		Help:      "Drawings by output format and outcome.",
	}, []string{"format", "outcome"})
	m.RenderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "duration_seconds",
		Help:      "Layout plus drawing time.",
		Buckets:   DefaultDurationBuckets,
	}, []string{"format"})
	m.HighlightsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "highlight",
		Name:      "requests_total",
		Help:      "Requests by highlight source.",
	}, []string{"source"})

	m.registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
		m.RequestsTotal,
		m.RequestDuration,
		m.RendersTotal,
		m.RenderDuration,
		m.HighlightsTotal,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveRender records one drawing.
func (m *Metrics) ObserveRender(format, outcome string, d time.Duration) {
	m.RendersTotal.WithLabelValues(format, outcome).Inc()
	if outcome == OutcomeImage {
		m.RenderDuration.WithLabelValues(format).Observe(d.Seconds())
	}
}

// ObserveHighlight counts where a request's highlights came from.
func (m *Metrics) ObserveHighlight(source string) {
	m.HighlightsTotal.WithLabelValues(source).Inc()
}
