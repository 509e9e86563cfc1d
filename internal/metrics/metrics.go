// Package metrics exposes Prometheus collectors for tokenizing and block
// processing. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "glint"

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	blocks           *prometheus.CounterVec
	segments         *prometheus.CounterVec
	tokenizeDuration prometheus.Histogram
	httpRequests     *prometheus.CounterVec
}

// New creates collectors on a fresh registry, including Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_total",
			Help:      "Code blocks processed, by outcome.",
		}, []string{"result"}),
		segments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_total",
			Help:      "Segments produced by the tokenizer, by category.",
		}, []string{"category"}),
		tokenizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tokenize_seconds",
			Help:      "Time spent tokenizing one block.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests, by route and status code.",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(
		m.blocks, m.segments, m.tokenizeDuration, m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveBlock counts one processed block with its outcome label.
func (m *Metrics) ObserveBlock(result string) {
	if m == nil {
		return
	}
	m.blocks.WithLabelValues(result).Inc()
}

// ObserveTokenize records one tokenize call and its per-category counts.
func (m *Metrics) ObserveTokenize(d time.Duration, counts map[string]int) {
	if m == nil {
		return
	}
	m.tokenizeDuration.Observe(d.Seconds())
	for cat, n := range counts {
		m.segments.WithLabelValues(cat).Add(float64(n))
	}
}

// ObserveRequest counts one HTTP request.
func (m *Metrics) ObserveRequest(route, code string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, code).Inc()
}

// Registry returns the underlying registry, or nil for a nil receiver.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the Prometheus exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
