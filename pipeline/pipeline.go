package pipeline

import (
	"context"

	"github.com/kbukum/pipekit/transform"
)

// Pipeline is a fused chain of stages taking I and producing O.
type Pipeline[I, O any] struct {
	run   transform.Transform[I, O]
	shape Shape
	name  string
}

// From starts a pipeline with a single stage.
func From[I, O any](stage transform.Transform[I, O]) *Pipeline[I, O] {
	if stage == nil {
		panic("pipeline: From called with a nil stage")
	}
	return &Pipeline[I, O]{
		run:   stage,
		shape: Shape{}.with(infoOf(stage)),
	}
}

// Then returns a new pipeline that feeds p's output into stage. p is not
// modified and can be extended again independently.
func Then[I, T, O any](p *Pipeline[I, T], stage transform.Transform[T, O]) *Pipeline[I, O] {
	return &Pipeline[I, O]{
		run:   Compose(p.run, stage),
		shape: p.shape.with(infoOf(stage)),
		name:  p.name,
	}
}

// Transform invokes every stage in order and returns the last result.
func (p *Pipeline[I, O]) Transform(ctx context.Context, input I) (O, error) {
	return p.run.Transform(ctx, input)
}

// Call is Transform under the Invoker name.
func (p *Pipeline[I, O]) Call(ctx context.Context, input I) (O, error) {
	return p.run.Transform(ctx, input)
}

// Shape describes the pipeline's stages.
func (p *Pipeline[I, O]) Shape() Shape { return p.shape }

// Name returns the name set by Named, or "".
func (p *Pipeline[I, O]) Name() string { return p.name }

// Named returns a copy of p carrying name. The name labels the pipeline
// when it is nested in another one.
func (p *Pipeline[I, O]) Named(name string) *Pipeline[I, O] {
	cp := *p
	cp.name = name
	return &cp
}

// Source is a pipeline whose first stage is a producer.
type Source[O any] struct {
	*Pipeline[transform.Unit, O]
}

// FromSource starts a source pipeline with a producer.
func FromSource[O any](producer transform.Transform[transform.Unit, O]) *Source[O] {
	return &Source[O]{From(producer)}
}

// ThenSource returns a new source that feeds s's output into stage.
func ThenSource[T, O any](s *Source[T], stage transform.Transform[T, O]) *Source[O] {
	return &Source[O]{Then(s.Pipeline, stage)}
}

// Run invokes the pipeline without external input.
func (s *Source[O]) Run(ctx context.Context) (O, error) {
	return s.Pipeline.Call(ctx, transform.Unit{})
}

// Named returns a copy of s carrying name.
func (s *Source[O]) Named(name string) *Source[O] {
	return &Source[O]{s.Pipeline.Named(name)}
}
