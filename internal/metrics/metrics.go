// Package metrics exposes Prometheus counters for fetches and summaries.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "literature_scanner"

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeApplied = "applied"
	OutcomeStale   = "stale"
	OutcomeReject  = "rejected"
)

// Metrics groups the collectors recorded by the use cases.
type Metrics struct {
	registry  *prometheus.Registry
	fetches   *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	articles  prometheus.Gauge
	summaries *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// New registers every collector on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Article set fetches by outcome.",
		}, []string{"outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Completed refreshes by whether their result replaced the set.",
		}, []string{"outcome"}),
		articles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "articles",
			Help:      "Articles in the current set.",
		}),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Summary requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of upstream operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		m.fetches,
		m.refreshes,
		m.articles,
		m.summaries,
		m.duration,
		collectors.NewGoCollector(),
	)
	return m
}

// Fetch counts a fetch outcome. Nil receivers are no-ops.
func (m *Metrics) Fetch(outcome string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
}

// Refresh counts whether a completed refresh was applied or dropped as stale.
func (m *Metrics) Refresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

// ArticleCount records the size of the applied set.
func (m *Metrics) ArticleCount(n int) {
	if m == nil {
		return
	}
	m.articles.Set(float64(n))
}

// Summary counts a summary request outcome.
func (m *Metrics) Summary(outcome string) {
	if m == nil {
		return
	}
	m.summaries.WithLabelValues(outcome).Inc()
}

// Observe records how long an operation took, in seconds.
func (m *Metrics) Observe(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(seconds)
}

// Registry exposes the underlying registry for tests and custom handlers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
