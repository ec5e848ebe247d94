package transform

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/pipekit/logger"
)

// WithLogging returns a Middleware that logs each stage call: success at
// debug level, failure at error level, both with the call duration. If ctx
// carries no call id, a new one is generated so the stages of one
// invocation can be correlated. The stage's result is returned unchanged.
//
// An empty name uses the inner stage's name.
func WithLogging[I, O any](log *logger.Logger, name string) Middleware[I, O] {
	return func(inner Transform[I, O]) Transform[I, O] {
		stage := stageName(name, inner)
		return &decorated[I, O]{
			inner: inner,
			name:  stage,
			call: func(ctx context.Context, input I) (O, error) {
				if _, ok := logger.CallIDFromContext(ctx); !ok {
					ctx = logger.ContextWithCallID(ctx, uuid.NewString())
				}

				start := time.Now()
				output, err := inner.Transform(ctx, input)

				fields := logger.DurationFields("transform", time.Since(start))
				fields[logger.FieldStage] = stage
				l := log.WithContext(ctx)
				if err != nil {
					l.Error("stage failed", logger.MergeWithError(fields, err))
				} else {
					l.Debug("stage ok", fields)
				}
				return output, err
			},
		}
	}
}
