package transform

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kbukum/pipekit/errors"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	unitType    = reflect.TypeOf(Unit{})
)

// UnitType is the reflect type of Unit.
func UnitType() reflect.Type { return unitType }

// Reflected is a stage whose types are only known at runtime.
type Reflected struct {
	src    any
	fn     reflect.Value
	in     reflect.Type
	out    reflect.Type
	name   string
	ctx    bool // fn takes a leading context.Context
	arg    bool // fn takes an input argument
	result bool // fn returns a value besides the error
	err    bool // fn returns an error
}

// Reflect wraps an arbitrary function value as a stage. Accepted shapes are
//
//	func([ctx context.Context,] [in I]) [O] [error]
//
// with at most one input argument besides the context. Functions without an
// input argument are producers (input type Unit); functions without a
// result value are sinks (output type Unit). Any other arity is rejected
// with an ARITY_VIOLATION error.
func Reflect(fn any) (*Reflected, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, errors.New(errors.ErrCodeInvalidStage, fmt.Sprintf("%T is not a function", fn))
	}
	if v.IsNil() {
		return nil, errors.New(errors.ErrCodeInvalidStage, "nil function")
	}
	return reflectFunc(fn, v, NameOf(fn))
}

// ReflectStage wraps a function like Reflect, or any value with a method
//
//	Transform(context.Context, I) (O, error)
//
// such as the typed stages and pipelines of this module.
func ReflectStage(stage any) (*Reflected, error) {
	switch s := stage.(type) {
	case *Reflected:
		return s, nil
	case Reflector:
		cp := *s.Reflected()
		cp.src = stage
		return &cp, nil
	}
	v := reflect.ValueOf(stage)
	if !v.IsValid() {
		return nil, errors.New(errors.ErrCodeInvalidStage, "nil stage")
	}
	if v.Kind() == reflect.Func {
		return Reflect(stage)
	}
	if m := v.MethodByName("Transform"); m.IsValid() {
		mt := m.Type()
		if mt.NumIn() == 2 && mt.In(0) == contextType && mt.NumOut() == 2 && mt.Out(1) == errorType {
			return reflectFunc(stage, m, NameOf(stage))
		}
		return nil, errors.New(errors.ErrCodeInvalidStage,
			fmt.Sprintf("%T has Transform method %s, want func(context.Context, I) (O, error)", stage, mt))
	}
	return nil, errors.New(errors.ErrCodeInvalidStage, fmt.Sprintf("%T is neither a function nor a stage", stage))
}

// Reflector is implemented by stages that describe their own runtime types.
type Reflector interface {
	Reflected() *Reflected
}

// NewReflected builds a Reflected from an untyped function with explicit
// input and output types. fn receives values of type in (Unit for
// producers) and must return values of type out.
func NewReflected(name string, in, out reflect.Type, fn func(ctx context.Context, input any) (any, error)) *Reflected {
	return &Reflected{
		src: fn, fn: reflect.ValueOf(fn), in: in, out: out, name: name,
		ctx: true, arg: true, result: true, err: true,
	}
}

func reflectFunc(src any, v reflect.Value, name string) (*Reflected, error) {
	t := v.Type()
	r := &Reflected{src: src, fn: v, name: name, in: unitType, out: unitType}

	if t.IsVariadic() {
		return nil, errors.New(errors.ErrCodeArityViolation,
			fmt.Sprintf("%s is variadic; stage functions take zero or one argument", t))
	}
	params := t.NumIn()
	first := 0
	if params > 0 && t.In(0) == contextType {
		r.ctx = true
		first = 1
	}
	switch arity := params - first; {
	case arity == 1:
		r.arg = true
		r.in = t.In(first)
	case arity > 1:
		return nil, errors.ArityViolation(t.String(), arity)
	}

	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) == errorType {
			r.err = true
		} else {
			r.result = true
			r.out = t.Out(0)
		}
	case 2:
		if t.Out(1) != errorType {
			return nil, errors.New(errors.ErrCodeInvalidStage,
				fmt.Sprintf("%s: second result must be error", t))
		}
		r.result, r.err = true, true
		r.out = t.Out(0)
	default:
		return nil, errors.New(errors.ErrCodeInvalidStage,
			fmt.Sprintf("%s: stages return at most a value and an error", t))
	}
	return r, nil
}

// Transform calls the wrapped function. input must be assignable to
// InputType(); nil stands for the zero value.
func (r *Reflected) Transform(ctx context.Context, input any) (any, error) {
	args := make([]reflect.Value, 0, 2)
	if r.ctx {
		args = append(args, reflect.ValueOf(&ctx).Elem())
	}
	if r.arg {
		in, err := r.coerce(input)
		if err != nil {
			return nil, err
		}
		args = append(args, in)
	}

	results := r.fn.Call(args)

	var out any = Unit{}
	if r.result {
		out = results[0].Interface()
	}
	if r.err {
		if e := results[len(results)-1]; !e.IsNil() {
			return zeroOf(r.out), e.Interface().(error)
		}
	}
	return out, nil
}

func (r *Reflected) coerce(input any) (reflect.Value, error) {
	if input == nil {
		return reflect.Zero(r.in), nil
	}
	v := reflect.ValueOf(input)
	if !v.Type().AssignableTo(r.in) {
		return reflect.Value{}, errors.InputMismatch(r.in.String(), v.Type().String())
	}
	return v, nil
}

func zeroOf(t reflect.Type) any {
	return reflect.Zero(t).Interface()
}

// InputType returns the stage's input type; Unit for producers.
func (r *Reflected) InputType() reflect.Type { return r.in }

// OutputType returns the stage's output type; Unit for sinks.
func (r *Reflected) OutputType() reflect.Type { return r.out }

// Name returns the stage's display name.
func (r *Reflected) Name() string { return r.name }

// IsProducer reports whether the stage takes no input.
func (r *Reflected) IsProducer() bool { return r.in == unitType }

// Unwrap returns the original function or stage value.
func (r *Reflected) Unwrap() any { return r.src }

// Typed converts a Reflected into a typed stage after checking that its
// input and output types are exactly I and O.
func Typed[I, O any](r *Reflected) (Transform[I, O], error) {
	wantIn, wantOut := reflect.TypeFor[I](), reflect.TypeFor[O]()
	if r.in != wantIn {
		return nil, errors.New(errors.ErrCodeTypeMismatch,
			fmt.Sprintf("stage %s takes %s, want %s", r.name, r.in, wantIn)).
			WithDetails(map[string]any{"input": r.in.String(), "want": wantIn.String()})
	}
	if r.out != wantOut {
		return nil, errors.New(errors.ErrCodeTypeMismatch,
			fmt.Sprintf("stage %s produces %s, want %s", r.name, r.out, wantOut)).
			WithDetails(map[string]any{"output": r.out.String(), "want": wantOut.String()})
	}
	return Named(r.name, Wrap(func(ctx context.Context, input I) (O, error) {
		out, err := r.Transform(ctx, input)
		if err != nil {
			var zero O
			return zero, err
		}
		o, _ := out.(O)
		return o, nil
	})), nil
}
