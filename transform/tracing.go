package transform

import (
	"context"

	"github.com/kbukum/pipekit/observability"
)

// WithTracing returns a Middleware that runs each call inside a
// "pipeline.stage" span. Stages wrapped this way inside a traced pipeline
// become child spans of the caller's span.
func WithTracing[I, O any](name string) Middleware[I, O] {
	return WithObservability[I, O](nil, name)
}

// WithObservability is WithTracing plus stage metrics recorded through the
// same scope. A nil metrics records spans only.
func WithObservability[I, O any](metrics *observability.StageMetrics, name string) Middleware[I, O] {
	return func(inner Transform[I, O]) Transform[I, O] {
		stage := stageName(name, inner)
		return &decorated[I, O]{
			inner: inner,
			name:  stage,
			call: func(ctx context.Context, input I) (O, error) {
				ctx, scope := observability.StartStage(ctx, stage, metrics)
				output, err := inner.Transform(ctx, input)
				scope.End(ctx, err)
				return output, err
			},
		}
	}
}
