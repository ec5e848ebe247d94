package pipeline

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/transform"
)

// Stage count accepted by Assemble.
const (
	MinStages = 2
	MaxStages = 5
)

// Dynamic is a pipeline assembled from untyped stages. Its joints were
// checked when it was assembled; its input is checked on every call.
type Dynamic struct {
	stages []*transform.Reflected
	shape  Shape
	name   string
}

// Assemble builds a pipeline from 2 to 5 stages. Each stage is either a
// function accepted by transform.Reflect or a value with a method
// Transform(context.Context, I) (O, error): typed stages, pipelines and
// other Dynamic values all qualify. The first stage may be a producer or a
// mapper.
//
// Stage i's output type must be identical to stage i+1's input type.
// Rejections are AppErrors with code INVALID_STAGE_COUNT, INVALID_STAGE,
// ARITY_VIOLATION or TYPE_MISMATCH, carrying the stage position (0-based).
func Assemble(stages ...any) (*Dynamic, error) {
	if len(stages) < MinStages || len(stages) > MaxStages {
		return nil, errors.InvalidStageCount(len(stages), MinStages, MaxStages)
	}

	d := &Dynamic{stages: make([]*transform.Reflected, len(stages))}
	for i, s := range stages {
		r, err := transform.ReflectStage(s)
		if err != nil {
			return nil, stageError(i, err)
		}
		if i > 0 {
			prev := d.stages[i-1]
			if prev.OutputType() != r.InputType() {
				return nil, errors.TypeMismatch(i, prev.OutputType().String(), r.InputType().String())
			}
		}
		d.stages[i] = r
		d.shape = d.shape.with(reflectedInfo(r))
	}
	return d, nil
}

func stageError(position int, err error) error {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return errors.InvalidStage(position, err.Error()).WithCause(err)
	}
	if appErr.Code == errors.ErrCodeInvalidStage {
		return errors.InvalidStage(position, appErr.Message)
	}
	return appErr.WithDetail("position", position)
}

// Call checks input against Input() and runs every stage in order. Stage
// errors are returned unchanged. For producer pipelines input must be nil
// or transform.Unit{}. A nil input to a mapper pipeline is the zero value
// of its input type.
func (d *Dynamic) Call(ctx context.Context, input any) (any, error) {
	var v any = transform.Unit{}
	if !d.shape.IsSource() {
		v = input
	}
	if input != nil {
		if got := reflect.TypeOf(input); !got.AssignableTo(d.Input()) {
			return nil, errors.InputMismatch(d.Input().String(), got.String())
		}
	}

	for _, s := range d.stages {
		out, err := s.Transform(ctx, v)
		if err != nil {
			return nil, err
		}
		v = out
	}
	return v, nil
}

// Transform is Call; it lets a Dynamic be a stage of another pipeline.
func (d *Dynamic) Transform(ctx context.Context, input any) (any, error) {
	return d.Call(ctx, input)
}

// Run invokes a producer pipeline.
func (d *Dynamic) Run(ctx context.Context) (any, error) {
	return d.Call(ctx, transform.Unit{})
}

// Reflected describes d with its real input and output types, so that
// nesting it in Assemble type-checks the joint.
func (d *Dynamic) Reflected() *transform.Reflected {
	return transform.NewReflected(transform.NameOf(d), d.Input(), d.Output(), d.Call)
}

// Input returns the input type; transform.Unit for producer pipelines.
func (d *Dynamic) Input() reflect.Type { return d.shape.Input() }

// Output returns the output type of the last stage.
func (d *Dynamic) Output() reflect.Type { return d.shape.Output() }

// Shape describes the pipeline's stages.
func (d *Dynamic) Shape() Shape { return d.shape }

// Name returns the name set by Named, or "".
func (d *Dynamic) Name() string { return d.name }

// Named returns a copy of d carrying name.
func (d *Dynamic) Named(name string) *Dynamic {
	cp := *d
	cp.name = name
	return &cp
}

// TypedSource converts a producer pipeline into a typed Source.
func TypedSource[O any](d *Dynamic) (*Source[O], error) {
	p, err := Typed[transform.Unit, O](d)
	if err != nil {
		return nil, err
	}
	return &Source[O]{p}, nil
}

// Typed converts d into a typed pipeline after checking that its end types
// are exactly I and O.
func Typed[I, O any](d *Dynamic) (*Pipeline[I, O], error) {
	wantIn, wantOut := reflect.TypeFor[I](), reflect.TypeFor[O]()
	if d.Input() != wantIn {
		return nil, errors.New(errors.ErrCodeTypeMismatch,
			fmt.Sprintf("pipeline takes %s, want %s", d.Input(), wantIn))
	}
	if d.Output() != wantOut {
		return nil, errors.New(errors.ErrCodeTypeMismatch,
			fmt.Sprintf("pipeline produces %s, want %s", d.Output(), wantOut))
	}
	return &Pipeline[I, O]{
		run: transform.Wrap(func(ctx context.Context, input I) (O, error) {
			out, err := d.Call(ctx, input)
			if err != nil {
				var zero O
				return zero, err
			}
			o, _ := out.(O)
			return o, nil
		}),
		shape: d.shape,
		name:  d.name,
	}, nil
}
