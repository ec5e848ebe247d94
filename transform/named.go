package transform

import (
	"context"
	"reflect"
	"runtime"
	"strings"
)

// Namer is implemented by stages that carry a display name.
type Namer interface {
	Name() string
}

// Wrapper is implemented by stages that decorate another stage.
type Wrapper interface {
	Unwrap() any
}

// Named attaches a display name to t. The name shows up in pipeline shapes,
// log entries, spans and metric attributes.
func Named[I, O any](name string, t Transform[I, O]) Transform[I, O] {
	return &named[I, O]{inner: t, name: name}
}

type named[I, O any] struct {
	inner Transform[I, O]
	name  string
}

func (n *named[I, O]) Transform(ctx context.Context, input I) (O, error) {
	return n.inner.Transform(ctx, input)
}

func (n *named[I, O]) Name() string { return n.name }
func (n *named[I, O]) Unwrap() any  { return n.inner }

// NameOf returns a display name for a stage: its own Name() when it has
// one, the short name of a named function, or the type name otherwise.
func NameOf(stage any) string {
	if n, ok := stage.(Namer); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}
	if stage == nil {
		return "<nil>"
	}

	v := reflect.ValueOf(stage)
	if v.Kind() == reflect.Func && !v.IsNil() {
		// Closures created inside generic constructors have no useful name.
		if fn := runtime.FuncForPC(v.Pointer()); fn != nil && !strings.Contains(fn.Name(), "[...]") {
			return shortFuncName(fn.Name())
		}
	}

	t := v.Type()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		if i := strings.IndexByte(name, '['); i > 0 {
			return name[:i]
		}
		return name
	}
	return t.String()
}

// shortFuncName trims the import path and package from a runtime function
// name: "github.com/x/app.multiply" becomes "multiply", and
// "github.com/x/app.TestRun.func1" becomes "TestRun.func1".
func shortFuncName(full string) string {
	if i := strings.LastIndexByte(full, '/'); i >= 0 {
		full = full[i+1:]
	}
	if i := strings.IndexByte(full, '.'); i >= 0 {
		full = full[i+1:]
	}
	return strings.TrimSuffix(full, "-fm")
}
