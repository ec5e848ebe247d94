package transform

import "context"

// Transform is a single pipeline stage.
type Transform[I, O any] interface {
	Transform(ctx context.Context, input I) (O, error)
}

// Unit is the input type of producers and the output type of sinks.
type Unit struct{}

// Func adapts a one-argument function to a Transform.
type Func[I, O any] func(ctx context.Context, input I) (O, error)

// Transform calls f.
func (f Func[I, O]) Transform(ctx context.Context, input I) (O, error) {
	return f(ctx, input)
}

// SourceFunc adapts a zero-argument function to a producer.
type SourceFunc[O any] func(ctx context.Context) (O, error)

// Transform calls f, ignoring the Unit input.
func (f SourceFunc[O]) Transform(ctx context.Context, _ Unit) (O, error) {
	return f(ctx)
}

// Run calls f.
func (f SourceFunc[O]) Run(ctx context.Context) (O, error) {
	return f(ctx)
}

// Wrap returns fn as a mapper stage.
func Wrap[I, O any](fn func(ctx context.Context, input I) (O, error)) Func[I, O] {
	return Func[I, O](fn)
}

// Source returns fn as a producer stage.
func Source[O any](fn func(ctx context.Context) (O, error)) SourceFunc[O] {
	return SourceFunc[O](fn)
}

// Lift returns a mapper stage for a function that cannot fail.
func Lift[I, O any](fn func(I) O) Func[I, O] {
	return func(_ context.Context, input I) (O, error) {
		return fn(input), nil
	}
}

// LiftSource returns a producer stage for a function that cannot fail.
func LiftSource[O any](fn func() O) SourceFunc[O] {
	return func(context.Context) (O, error) {
		return fn(), nil
	}
}

// Sink returns a stage that consumes its input and produces Unit.
func Sink[I any](fn func(ctx context.Context, input I) error) Func[I, Unit] {
	return func(ctx context.Context, input I) (Unit, error) {
		return Unit{}, fn(ctx, input)
	}
}

// Const returns a producer that always yields v.
func Const[O any](v O) SourceFunc[O] {
	return func(context.Context) (O, error) {
		return v, nil
	}
}

// Apply binds input to t, yielding a producer that calls t with it.
func Apply[I, O any](t Transform[I, O], input I) SourceFunc[O] {
	return func(ctx context.Context) (O, error) {
		return t.Transform(ctx, input)
	}
}
