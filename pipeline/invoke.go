package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/pipekit/transform"
)

type invokeConfig struct {
	concurrency int
}

// InvokeOption configures InvokeAll.
type InvokeOption func(*invokeConfig)

// WithConcurrency bounds the number of invocations in flight. Zero or less
// means unbounded.
func WithConcurrency(n int) InvokeOption {
	return func(c *invokeConfig) { c.concurrency = n }
}

// InvokeAll calls p once per input, concurrently, and returns the results
// in input order. Each call is an independent invocation; the stages inside
// one call still run sequentially.
//
// The first failing call's error is returned unchanged, and the context
// handed to the remaining calls is cancelled; how a stage reacts to that is
// up to the stage. All calls are waited for.
func InvokeAll[I, O any](ctx context.Context, p Invoker[I, O], inputs []I, opts ...InvokeOption) ([]O, error) {
	var cfg invokeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.concurrency > 0 {
		g.SetLimit(cfg.concurrency)
	}

	results := make([]O, len(inputs))
	for i, input := range inputs {
		g.Go(func() error {
			out, err := p.Call(gctx, input)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunAll runs a source n times concurrently and returns the results in
// call order.
func RunAll[O any](ctx context.Context, s *Source[O], n int, opts ...InvokeOption) ([]O, error) {
	return InvokeAll[transform.Unit, O](ctx, s, make([]transform.Unit, n), opts...)
}
