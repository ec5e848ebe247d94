package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/pipekit/logger"
)

// StageScope tracks one traced stage call from start to end.
type StageScope struct {
	Pipeline  string
	Stage     string
	CallID    string
	StartTime time.Time
	Metrics   *StageMetrics

	span trace.Span
}

// StartStage opens a span for a stage call. The pipeline name and call id
// are taken from ctx (see logger.ContextWithPipeline and
// logger.ContextWithCallID); the returned context carries the span and its
// ids for log correlation. If metrics is nil, metric recording is skipped.
func StartStage(ctx context.Context, stage string, metrics *StageMetrics) (context.Context, *StageScope) {
	sc := &StageScope{Stage: stage, Metrics: metrics, StartTime: time.Now()}
	sc.Pipeline, _ = logger.PipelineFromContext(ctx)
	sc.CallID, _ = logger.CallIDFromContext(ctx)

	attrs := []attribute.KeyValue{attribute.String(AttrStage, stage)}
	if sc.Pipeline != "" {
		attrs = append(attrs, attribute.String(AttrPipeline, sc.Pipeline))
	}
	if sc.CallID != "" {
		attrs = append(attrs, attribute.String(AttrCallID, sc.CallID))
	}

	ctx, sc.span = StartSpan(ctx, SpanStage, trace.WithAttributes(attrs...))
	if sctx := sc.span.SpanContext(); sctx.IsValid() {
		ctx = logger.ContextWithTrace(ctx, sctx.TraceID().String(), sctx.SpanID().String())
	}
	if metrics != nil {
		metrics.RecordStart(ctx, sc.Pipeline, stage)
	}
	return ctx, sc
}

// End closes the span and records metrics. err is the stage's own result
// and is only observed.
func (sc *StageScope) End(ctx context.Context, err error) {
	duration := time.Since(sc.StartTime)

	status := StatusOK
	if err != nil {
		status = StatusError
		SetSpanError(trace.ContextWithSpan(ctx, sc.span), err)
		sc.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	sc.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	sc.span.End()

	if sc.Metrics != nil {
		sc.Metrics.RecordEnd(ctx, sc.Pipeline, sc.Stage, duration, err)
	}
}

// Span returns the span opened by StartStage.
func (sc *StageScope) Span() trace.Span {
	return sc.span
}
