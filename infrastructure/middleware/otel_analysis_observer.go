// Package middleware provides cross-cutting concerns for the fusion engine.
package middleware

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

var _ ports.AnalysisObserver = (*OTelAnalysisObserver)(nil)

type phaseContextKey struct{}

// phaseState carries the active span and start time of a phase through the
// context between PhaseStarted and PhaseCompleted.
type phaseState struct {
	span  trace.Span
	start time.Time
}

// OTelAnalysisObserver implements observability for analysis phases using
// OpenTelemetry tracing. It opens a span per phase, records the elapsed time
// to the metrics collector, and marks span status from the phase's error.
type OTelAnalysisObserver struct {
	metrics   ports.MetricsCollector
	studyName string
	tracer    trace.Tracer
}

// NewOTelAnalysisObserver creates a new OpenTelemetry analysis observer.
// The metrics collector may be nil, in which case only spans are produced.
func NewOTelAnalysisObserver(metrics ports.MetricsCollector, studyName string) *OTelAnalysisObserver {
	return &OTelAnalysisObserver{
		metrics:   metrics,
		studyName: studyName,
		tracer:    otel.Tracer("fusion-analyzer"),
	}
}

// PhaseStarted implements the AnalysisObserver interface. It starts an
// OpenTelemetry span for the phase and stashes it in the returned context.
func (o *OTelAnalysisObserver) PhaseStarted(ctx context.Context, phase string) context.Context {
	ctx, span := o.tracer.Start(ctx, "Analyzer."+phase)
	span.SetAttributes(
		attribute.String("fusion.study", o.studyName),
		attribute.String("fusion.phase", phase),
	)
	return context.WithValue(ctx, phaseContextKey{}, phaseState{span: span, start: time.Now()})
}

// PhaseCompleted implements the AnalysisObserver interface. It finalizes the
// phase span, records latency, and handles any error the phase produced.
func (o *OTelAnalysisObserver) PhaseCompleted(ctx context.Context, phase string, err error) {
	state, ok := ctx.Value(phaseContextKey{}).(phaseState)
	if !ok {
		return
	}
	defer state.span.End()

	elapsed := time.Since(state.start)
	if o.metrics != nil {
		o.metrics.RecordLatency(phase, elapsed, map[string]string{"study": o.studyName})
	}

	if err != nil {
		var matrixErr *domain.MatrixError
		if errors.As(err, &matrixErr) {
			state.span.AddEvent("fusion.matrix_rejected", trace.WithAttributes(
				attribute.String("expert_id", matrixErr.ExpertID),
				attribute.String("criterion_id", matrixErr.CriterionID),
			))
			if o.metrics != nil {
				o.metrics.RecordCounter("fusion_inconsistent_matrices_total", 1,
					map[string]string{"study": o.studyName})
			}
		}
		state.span.SetStatus(codes.Error, err.Error())
		return
	}

	state.span.SetStatus(codes.Ok, "phase completed")
}
