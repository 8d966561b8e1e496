package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
)

// Metrics holds the collectors exported on /metrics. Each Server owns its
// registry so tests can build as many servers as they like.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	analyses *prometheus.CounterVec
	rows     *prometheus.CounterVec
	warnings *prometheus.CounterVec
}

func newMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adlens",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "adlens",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adlens",
			Name:      "analyses_total",
			Help:      "Analysis runs by result.",
		}, []string{"result"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adlens",
			Name:      "input_rows_total",
			Help:      "Input rows processed by table.",
		}, []string{"table"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adlens",
			Name:      "warnings_total",
			Help:      "Data warnings raised during analysis by kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.analyses, m.rows, m.warnings,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeRequest(route string, code int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) observeAnalysis(out *analysis.Output) {
	m.analyses.WithLabelValues("ok").Inc()
	m.rows.WithLabelValues("ads").Add(float64(out.Summary.Data.AdRows))
	m.rows.WithLabelValues("crm").Add(float64(out.Summary.Data.CRMRows))
	for _, w := range out.Warnings {
		m.warnings.WithLabelValues(string(w.Kind)).Inc()
	}
}

func (m *Metrics) observeFailure(result string) {
	m.analyses.WithLabelValues(result).Inc()
}
