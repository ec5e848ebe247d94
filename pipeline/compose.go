package pipeline

import (
	"context"

	"github.com/kbukum/pipekit/transform"
)

// Invoker is anything that can be called as a pipeline.
type Invoker[I, O any] interface {
	Call(ctx context.Context, input I) (O, error)
}

// Fused is two stages joined into one: A -> B -> C.
type Fused[A, B, C any] struct {
	first  transform.Transform[A, B]
	second transform.Transform[B, C]
}

// Compose fuses first and second. Neither may be nil.
func Compose[A, B, C any](first transform.Transform[A, B], second transform.Transform[B, C]) *Fused[A, B, C] {
	if first == nil || second == nil {
		panic("pipeline: Compose called with a nil stage")
	}
	return &Fused[A, B, C]{first: first, second: second}
}

// Transform calls the first stage, then feeds its result to the second.
// If the first stage fails the second is not called.
func (f *Fused[A, B, C]) Transform(ctx context.Context, input A) (C, error) {
	mid, err := f.first.Transform(ctx, input)
	if err != nil {
		var zero C
		return zero, err
	}
	return f.second.Transform(ctx, mid)
}

// Call is Transform under the Invoker name.
func (f *Fused[A, B, C]) Call(ctx context.Context, input A) (C, error) {
	return f.Transform(ctx, input)
}

// First returns the upstream stage.
func (f *Fused[A, B, C]) First() transform.Transform[A, B] { return f.first }

// Second returns the downstream stage.
func (f *Fused[A, B, C]) Second() transform.Transform[B, C] { return f.second }
