// Package metrics holds the Prometheus collectors shared by services and handlers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CompletionAttempts counts every candidate attempt by model and outcome
	CompletionAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match_explainer_completion_attempts_total",
		Help: "Completion attempts per candidate model, labeled by outcome",
	}, []string{"model", "outcome"})

	CompletionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "match_explainer_completion_duration_seconds",
		Help:    "Duration of single completion attempts",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
	}, []string{"model"})

	ExplanationsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "match_explainer_explanations_total",
		Help: "Explanations returned to clients",
	})

	ExplanationsExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "match_explainer_explanations_exhausted_total",
		Help: "Requests where every candidate model failed",
	})

	ChartsRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "match_explainer_charts_rendered_total",
		Help: "Comparison charts rendered",
	})

	PredictionsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "match_explainer_predictions_saved_total",
		Help: "Prediction records persisted",
	})

	// HTTPRequests is recorded by the request logger middleware
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match_explainer_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "match_explainer_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
