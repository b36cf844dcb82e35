package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travel_api_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// outcome: success, error, rejected, empty
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_llm_requests_total",
			Help: "Total number of LLM completion attempts by outcome",
		},
		[]string{"outcome"},
	)

	LLMRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "travel_llm_request_duration_seconds",
			Help:    "Duration of LLM completion calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 45},
		},
	)

	LLMParsedLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "travel_llm_parsed_lines",
			Help:    "Number of destination lines parsed from one LLM answer",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_recommendations_served_total",
			Help: "Total number of recommendation responses by source",
		},
		[]string{"source"},
	)

	SatisfactionScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travel_satisfaction_score",
			Help:    "Satisfaction scores of returned recommendations",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"strategy"},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "travel_catalog_destinations",
			Help: "Number of destinations in the fallback catalog",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "travel_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

func RecordAPIRequest(method, route, status string, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordLLMCall(outcome string, d time.Duration) {
	LLMRequestsTotal.WithLabelValues(outcome).Inc()
	if d > 0 {
		LLMRequestDuration.Observe(d.Seconds())
	}
}
