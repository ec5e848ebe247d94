package transform

import (
	"context"
	"time"

	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/observability"
)

// WithMetrics returns a Middleware that records stage.invocations,
// stage.duration, stage.errors and stage.active for each call. The
// pipeline attribute comes from logger.ContextWithPipeline. A nil metrics
// passes calls through unrecorded.
func WithMetrics[I, O any](metrics *observability.StageMetrics, name string) Middleware[I, O] {
	return func(inner Transform[I, O]) Transform[I, O] {
		stage := stageName(name, inner)
		return &decorated[I, O]{
			inner: inner,
			name:  stage,
			call: func(ctx context.Context, input I) (O, error) {
				pipeline, _ := logger.PipelineFromContext(ctx)
				metrics.RecordStart(ctx, pipeline, stage)
				start := time.Now()
				output, err := inner.Transform(ctx, input)
				metrics.RecordEnd(ctx, pipeline, stage, time.Since(start), err)
				return output, err
			},
		}
	}
}
