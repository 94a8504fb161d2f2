// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tales"

// Completion kinds.
const (
	KindText  = "text"
	KindImage = "image"
)

var (
	// CompletionRequestsTotal counts upstream completion calls by kind and outcome.
	CompletionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "completion",
			Name:      "requests_total",
			Help:      "Total number of completion requests sent upstream",
		},
		[]string{"kind", "outcome"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "completion",
			Name:      "duration_seconds",
			Help:      "Upstream completion latency in seconds",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"kind"},
	)

	StoryGenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "story",
			Name:      "generation_total",
			Help:      "Total number of story generations",
		},
		[]string{"outcome"},
	)

	StoryGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "story",
			Name:      "generation_duration_seconds",
			Help:      "End-to-end story generation duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	// IllustrationDegradedTotal counts stories returned without images
	// because one of their image requests failed.
	IllustrationDegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "illustration",
			Name:      "degraded_total",
			Help:      "Stories returned unillustrated after an image failure",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .05, .1, .5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"method", "route"},
	)
)

// ObserveCompletion records one upstream completion call.
func ObserveCompletion(kind, outcome string, elapsed time.Duration) {
	CompletionRequestsTotal.WithLabelValues(kind, outcome).Inc()
	CompletionDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveStoryGeneration records one pipeline run.
func ObserveStoryGeneration(ok bool, elapsed time.Duration) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	StoryGenerationTotal.WithLabelValues(outcome).Inc()
	StoryGenerationDuration.Observe(elapsed.Seconds())
}
