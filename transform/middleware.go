package transform

import "context"

// Middleware decorates a stage. The returned stage typically delegates to
// the original while observing the call.
type Middleware[I, O any] func(Transform[I, O]) Transform[I, O]

// Chain composes middlewares into one. The first middleware is outermost.
//
// Chain(a, b, c)(stage) is equivalent to a(b(c(stage))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner Transform[I, O]) Transform[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// Use applies middlewares to t, first outermost.
func Use[I, O any](t Transform[I, O], middlewares ...Middleware[I, O]) Transform[I, O] {
	return Chain(middlewares...)(t)
}

// decorated is the common shape of the middleware stages: it forwards the
// name of the inner stage and exposes it through Unwrap.
type decorated[I, O any] struct {
	inner Transform[I, O]
	name  string
	call  func(ctx context.Context, input I) (O, error)
}

func (d *decorated[I, O]) Transform(ctx context.Context, input I) (O, error) {
	return d.call(ctx, input)
}

func (d *decorated[I, O]) Name() string { return d.name }
func (d *decorated[I, O]) Unwrap() any  { return d.inner }

func stageName(name string, inner any) string {
	if name != "" {
		return name
	}
	return NameOf(inner)
}
