// Package metrics exposes comet's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bnema/comet/internal/application/port"
)

const namespace = "comet"

// Metrics holds every comet collector, registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	SuggestRequests    *prometheus.CounterVec
	SuggestionsServed  *prometheus.HistogramVec
	SearchesDispatched *prometheus.CounterVec
	MessagesHandled    *prometheus.CounterVec
}

var (
	_ port.SuggestMetrics = (*Metrics)(nil)
	_ port.SearchMetrics  = (*Metrics)(nil)
)

// New creates a fresh registry with Go runtime and process collectors plus
// comet's own metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP API requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP API request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		SuggestRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suggest_requests_total",
				Help:      "Suggestion lookups by engine and outcome",
			},
			[]string{"engine", "outcome"},
		),
		SuggestionsServed: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "suggestions_returned",
				Help:      "Number of suggestions returned per successful lookup",
				Buckets:   []float64{0, 1, 3, 5, 8, 10, 20},
			},
			[]string{"engine"},
		),
		SearchesDispatched: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Dispatched searches by engine and disposition",
			},
			[]string{"engine", "disposition"},
		),
		MessagesHandled: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_total",
				Help:      "Protocol messages handled by action and result",
			},
			[]string{"action", "result"},
		),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records one HTTP API request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSuggest implements port.SuggestMetrics.
func (m *Metrics) RecordSuggest(engine string, outcome port.SuggestOutcome, count int) {
	m.SuggestRequests.WithLabelValues(engine, string(outcome)).Inc()
	if outcome == port.SuggestOutcomeOK || outcome == port.SuggestOutcomeEmpty {
		m.SuggestionsServed.WithLabelValues(engine).Observe(float64(count))
	}
}

// RecordSearch implements port.SearchMetrics.
func (m *Metrics) RecordSearch(engine, disposition string) {
	m.SearchesDispatched.WithLabelValues(engine, disposition).Inc()
}

// RecordMessage records a routed protocol message.
func (m *Metrics) RecordMessage(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.MessagesHandled.WithLabelValues(action, result).Inc()
}
