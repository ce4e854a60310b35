// Package metrics declares the Prometheus collectors of the dispatcher.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "translation_dispatcher"
)

var (
	// Status is the HTTP status code returned to the caller.
	MetricRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translation_requests_total",
			Help:      "Total number of translation requests, by response status and language pair.",
		},
		[]string{"status", "source_lang", "target_lang"},
	)

	// Operations: "load", "translate", "tokenize", "generate", "decode".
	MetricInferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Latency of calls into the model registry.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"model", "operation"},
	)

	// Results: "success", "failed".
	MetricInferenceCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_calls_total",
			Help:      "Calls into the model registry, by result.",
		},
		[]string{"model", "operation", "result"},
	)
)
