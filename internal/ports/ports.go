// Package ports defines the interfaces that decouple the fusion core
// from interchangeable strategies and from infrastructure concerns such
// as metrics, tracing, and result export.
package ports

import (
	"context"
	"io"
	"time"

	"github.com/evidfuse/evidfuse/internal/domain"
)

// PriorityMethod derives a priority vector from a pairwise-comparison
// matrix. Implementations must be pure: the same matrix always yields
// the same vector.
type PriorityMethod interface {
	// Name returns the method identifier used in configuration,
	// e.g. "geometric" or "eigenvector".
	Name() string

	// Priorities returns the normalized priority vector (entries sum to
	// one) for the matrix, in row order.
	Priorities(m domain.PairwiseMatrix) ([]float64, error)
}

// Outcome describes one pairwise combination: the conflict measured
// between the operands and the rule that was applied.
type Outcome struct {
	// Conflict is the conflict coefficient K in [0, 1].
	Conflict float64

	// Rule names the combination rule that produced the result.
	Rule string
}

// CombinationRule combines two basic probability assignments defined
// over the same frame into one. Implementations must not mutate their
// operands; combination always produces a new assignment.
type CombinationRule interface {
	// Name returns the rule identifier used in configuration and traces,
	// e.g. "dempster", "yager" or "adaptive".
	Name() string

	// Combine fuses the two assignments and reports the measured
	// conflict and the rule actually applied. The adaptive rule may
	// report a different rule name than its own, depending on conflict.
	Combine(m1, m2 domain.BPA) (domain.BPA, Outcome, error)
}

// Exporter renders an analysis result to a writer in one concrete
// format. Rendering must not modify the result.
type Exporter interface {
	// Format returns the short format name, e.g. "json", also used as
	// the file extension.
	Format() string

	// Export writes the rendered result to w.
	Export(w io.Writer, res *domain.Result) error
}

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations should integrate with observability platforms
// like Prometheus or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a distribution metric, e.g. the
	// conflict coefficient observed at each fold step.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// AnalysisObserver receives phase boundaries of an analysis run, letting
// infrastructure attach spans or timing without the core knowing about
// any particular tracing backend.
type AnalysisObserver interface {
	// PhaseStarted is called when the named analysis phase begins. The
	// returned context carries any observer state (e.g. an active span)
	// and is passed to the phase's work and to PhaseCompleted.
	PhaseStarted(ctx context.Context, phase string) context.Context

	// PhaseCompleted is called when the phase ends, with the error the
	// phase returned, if any.
	PhaseCompleted(ctx context.Context, phase string, err error)
}
