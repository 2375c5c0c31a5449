package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the Prometheus collectors published by the service.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec
	EvaluationsTotal    *prometheus.CounterVec
	EvaluationDuration  prometheus.Histogram
	StageDuration       *prometheus.HistogramVec
	CacheHitsTotal      *prometheus.CounterVec
	BackendCallsTotal   *prometheus.CounterVec
}

// NewMetrics registers the service collectors on the given registerer.
// Passing nil uses the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		EvaluationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluations_total",
			Help: "Completed evaluations by suitability tier.",
		}, []string{"suitability"}),
		EvaluationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "evaluation_duration_seconds",
			Help:    "End-to-end evaluation latency.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evaluation_stage_duration_seconds",
			Help:    "Per-stage pipeline latency.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"stage"}),
		CacheHitsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_cache_requests_total",
			Help: "Result cache lookups by outcome.",
		}, []string{"outcome"}),
		BackendCallsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_backend_calls_total",
			Help: "AI backend calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
}

// ObserveStage records one pipeline stage duration.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
