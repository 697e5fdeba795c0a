package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/cypherstream/errors"
)

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run holds the observability state of one pipeline run.
type Run struct {
	ID        string
	Stages    []string
	Source    string
	Sink      string
	StartTime time.Time
	Metrics   *PipelineMetrics
}

// NewRun creates run observability state. A nil metrics falls back to
// no-op instruments.
func NewRun(id string, stages []string, source, sink string, metrics *PipelineMetrics) *Run {
	if metrics == nil {
		metrics = NopPipelineMetrics()
	}
	return &Run{
		ID:        id,
		Stages:    stages,
		Source:    source,
		Sink:      sink,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

type runKey struct{}

// WithRun stores a Run in the context.
func WithRun(ctx context.Context, r *Run) context.Context {
	return context.WithValue(ctx, runKey{}, r)
}

// RunFromContext retrieves the Run from context, or nil.
func RunFromContext(ctx context.Context) *Run {
	if r, ok := ctx.Value(runKey{}).(*Run); ok {
		return r
	}
	return nil
}

// Start opens the pipeline.run span.
func (r *Run) Start(ctx context.Context) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, SpanPipelineRun)
	SetSpanAttribute(ctx, AttrRunID, r.ID)
	SetSpanAttribute(ctx, AttrStageCount, len(r.Stages))
	SetSpanAttribute(ctx, AttrStages, r.Stages)
	SetSpanAttribute(ctx, AttrSource, r.Source)
	SetSpanAttribute(ctx, AttrSink, r.Sink)
	return WithRun(ctx, r), span
}

// End closes the span and records the run outcome. It returns the status
// it recorded.
func (r *Run) End(ctx context.Context, span trace.Span, err error) string {
	duration := r.Duration()
	status := StatusCompleted

	if err != nil {
		status = StatusFailed
		code := string(errors.Wrap(err).Code)
		span.SetAttributes(attribute.String(AttrErrorCode, code))
		SetSpanError(trace.ContextWithSpan(ctx, span), err)
		r.Metrics.RecordError(ctx, code)
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	r.Metrics.RecordRun(ctx, status, duration)
	return status
}

// Duration returns the elapsed time since the run started.
func (r *Run) Duration() time.Duration {
	return time.Since(r.StartTime)
}
