package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	httpInflight prometheus.Gauge

	llmRequests *prometheus.CounterVec
	llmAttempts *prometheus.HistogramVec
	llmLatency  *prometheus.HistogramVec

	courseGenerations *prometheus.CounterVec
	courseLatency     *prometheus.HistogramVec

	enrichmentLookups *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry, together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathwise_http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pathwise_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "pathwise_http_inflight_requests",
			Help: "Requests currently being served",
		}),

		llmRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathwise_llm_requests_total",
				Help: "LLM provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),
		llmAttempts: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pathwise_llm_attempts",
				Help:    "Attempts used per LLM call",
				Buckets: []float64{1, 2, 3},
			},
			[]string{"provider"},
		),
		llmLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pathwise_llm_request_duration_seconds",
				Help:    "LLM call latency including retries",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			},
			[]string{"provider"},
		),

		courseGenerations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathwise_coursegen_results_total",
				Help: "Generated courses by kind (ai or template)",
			},
			[]string{"kind"},
		),
		courseLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pathwise_coursegen_duration_seconds",
				Help:    "End-to-end course generation latency",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
			[]string{"kind"},
		),

		enrichmentLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathwise_enrichment_lookups_total",
				Help: "Video and article lookups by source and outcome",
			},
			[]string{"source", "outcome"},
		),
	}
}

func (m *Metrics) ObserveLLMRequest(provider, outcome string, attempts int, d time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(provider, outcome).Inc()
	if attempts > 0 {
		m.llmAttempts.WithLabelValues(provider).Observe(float64(attempts))
		m.llmLatency.WithLabelValues(provider).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveCourseGeneration(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.courseGenerations.WithLabelValues(kind).Inc()
	m.courseLatency.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) ObserveEnrichmentLookup(source, outcome string) {
	if m == nil {
		return
	}
	m.enrichmentLookups.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) IncInflight() {
	if m != nil {
		m.httpInflight.Inc()
	}
}

func (m *Metrics) DecInflight() {
	if m != nil {
		m.httpInflight.Dec()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
