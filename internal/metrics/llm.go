package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LLM Prometheus metrics.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of LLM chat requests",
		},
		[]string{"provider", "model", "stage", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "LLM chat request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		},
		[]string{"provider", "model", "stage"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"provider", "model", "type"}, // "prompt" / "completion"
	)

	LLMErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_errors_total",
			Help:      "Total LLM chat errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	FieldParseFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "field_parse_failures_total",
			Help:      "Malformed fields in model replies reported as absent",
		},
		[]string{"field"},
	)
)

var registerLLMOnce sync.Once

// RegisterLLMMetrics registers Prometheus LLM metrics. Safe to call more than once.
func RegisterLLMMetrics() {
	registerLLMOnce.Do(func() {
		prometheus.MustRegister(
			LLMRequestsTotal,
			LLMRequestDuration,
			LLMTokensTotal,
			LLMErrorsTotal,
			FieldParseFailuresTotal,
		)
	})
}

// FieldFailures counts malformed reply fields. Its zero value is ready to use.
type FieldFailures struct{}

// RecordFieldFailure increments the failure counter for field.
func (FieldFailures) RecordFieldFailure(field string) {
	FieldParseFailuresTotal.WithLabelValues(field).Inc()
}
