package pipeline

import (
	"reflect"
	"strings"

	"github.com/kbukum/pipekit/transform"
)

// StageInfo describes one stage of a pipeline.
type StageInfo struct {
	Name   string
	Input  reflect.Type
	Output reflect.Type
	// Nested is the shape of the stage when it is itself a pipeline.
	Nested *Shape
}

// Shape is the ordered list of a pipeline's stages with their types.
// It is built once at assembly and never consulted while invoking.
type Shape struct {
	stages []StageInfo
}

// shaper is implemented by Pipeline, Source and Dynamic.
type shaper interface {
	Shape() Shape
}

func infoOf[I, O any](stage transform.Transform[I, O]) StageInfo {
	return StageInfo{
		Name:   transform.NameOf(stage),
		Input:  reflect.TypeFor[I](),
		Output: reflect.TypeFor[O](),
		Nested: nestedShape(stage),
	}
}

func reflectedInfo(r *transform.Reflected) StageInfo {
	return StageInfo{
		Name:   r.Name(),
		Input:  r.InputType(),
		Output: r.OutputType(),
		Nested: nestedShape(r),
	}
}

// nestedShape looks through decorators for a stage that is a pipeline.
func nestedShape(stage any) *Shape {
	for stage != nil {
		if s, ok := stage.(shaper); ok {
			sh := s.Shape()
			return &sh
		}
		w, ok := stage.(transform.Wrapper)
		if !ok {
			return nil
		}
		stage = w.Unwrap()
	}
	return nil
}

// with returns a new shape with info appended; s is left untouched.
func (s Shape) with(info StageInfo) Shape {
	stages := make([]StageInfo, len(s.stages), len(s.stages)+1)
	copy(stages, s.stages)
	return Shape{stages: append(stages, info)}
}

// Len returns the number of top-level stages.
func (s Shape) Len() int { return len(s.stages) }

// Stages returns a copy of the top-level stages.
func (s Shape) Stages() []StageInfo {
	out := make([]StageInfo, len(s.stages))
	copy(out, s.stages)
	return out
}

// Input returns the input type of the first stage, or nil for an empty shape.
func (s Shape) Input() reflect.Type {
	if len(s.stages) == 0 {
		return nil
	}
	return s.stages[0].Input
}

// Output returns the output type of the last stage, or nil for an empty shape.
func (s Shape) Output() reflect.Type {
	if len(s.stages) == 0 {
		return nil
	}
	return s.stages[len(s.stages)-1].Output
}

// IsSource reports whether the first stage is a producer.
func (s Shape) IsSource() bool {
	return s.Input() == transform.UnitType()
}

// Flatten expands nested pipelines in place. Nested stage names are
// prefixed with the name of the enclosing stage: "outer/inner".
func (s Shape) Flatten() []StageInfo {
	var out []StageInfo
	for _, st := range s.stages {
		if st.Nested == nil {
			out = append(out, st)
			continue
		}
		for _, inner := range st.Nested.Flatten() {
			inner.Name = st.Name + "/" + inner.Name
			out = append(out, inner)
		}
	}
	return out
}

// String renders the shape as alternating types and stage names:
//
//	int -> multiply -> int -> text -> string
//
// A leading Unit input is omitted. Nested pipelines render in brackets.
func (s Shape) String() string {
	if len(s.stages) == 0 {
		return ""
	}
	var parts []string
	if !s.IsSource() {
		parts = append(parts, s.stages[0].Input.String())
	}
	for _, st := range s.stages {
		label := st.Name
		if st.Nested != nil {
			label += "[" + st.Nested.String() + "]"
		}
		parts = append(parts, label, st.Output.String())
	}
	return strings.Join(parts, " -> ")
}
