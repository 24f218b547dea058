// Package middleware provides cross-cutting concerns for the fusion engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/evidfuse/evidfuse/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It provides real-time monitoring of fold activity, conflict levels, and
// analysis performance for the fusion engine.
type PrometheusMetrics struct {
	foldSteps        *prometheus.CounterVec
	inconsistentMats *prometheus.CounterVec
	bestScore        *prometheus.GaugeVec
	conflict         *prometheus.HistogramVec
	analysisLatency  *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and registers
// all required metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		// Fusion-specific metrics.
		foldSteps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fusion_fold_steps_total",
				Help: "Total number of pairwise combination steps, by stage and applied rule.",
			},
			[]string{"stage", "rule", "study"},
		),
		inconsistentMats: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fusion_inconsistent_matrices_total",
				Help: "Total number of comparison matrices rejected for failing the consistency check.",
			},
			[]string{"study"},
		),
		bestScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fusion_best_score",
				Help: "Scalarized score of the top-ranked alternative from the last completed run.",
			},
			[]string{"study"},
		),
		conflict: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fusion_fold_conflict",
				Help:    "Conflict coefficient K measured at each fold step.",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
			[]string{"stage", "study"},
		),

		// General execution metrics for comprehensive observability.
		analysisLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fusion_analysis_duration_seconds",
				Help:    "Execution time of analysis phases.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "study"},
		),
		operationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fusion_operations_total",
				Help: "Total number of operations performed by the analyzer.",
			},
			[]string{"operation", "status", "study"},
		),
		systemGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fusion_system_state",
				Help: "Current system state values for the analyzer.",
			},
			[]string{"metric", "study"},
		),
	}
}

// studyLabel extracts the study identifier used to partition every metric,
// defaulting to "unknown" when the caller supplied none.
func studyLabel(labels map[string]string) string {
	study, ok := labels["study"]
	if !ok || study == "" {
		return "unknown"
	}
	return study
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.analysisLatency.WithLabelValues(operation, studyLabel(labels)).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	study := studyLabel(labels)

	switch metric {
	case "fusion_fold_steps_total":
		pm.foldSteps.WithLabelValues(
			labels["stage"],
			labels["rule"],
			study,
		).Add(value)
	case "fusion_inconsistent_matrices_total":
		pm.inconsistentMats.WithLabelValues(study).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, "success", study).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	study := studyLabel(labels)

	switch metric {
	case "fusion_best_score":
		pm.bestScore.WithLabelValues(study).Set(value)
	default:
		pm.systemGauges.WithLabelValues(metric, study).Set(value)
	}
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "fusion_fold_conflict":
		pm.conflict.WithLabelValues(labels["stage"], studyLabel(labels)).Observe(value)
	default:
		pm.analysisLatency.WithLabelValues(metric, studyLabel(labels)).Observe(value)
	}
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
