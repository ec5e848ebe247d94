// Package pipeline fuses stages into a single callable unit.
//
// Compose joins two stages whose types meet (the output of the first is the
// input of the second) into a Fused stage. Pipelines are built by a left
// fold of Compose over their stages, either fluently:
//
//	p := pipeline.Then(pipeline.From(multiply), toText) // *Pipeline[int, string]
//	s, err := p.Call(ctx, 3)                            // "96"
//
// or with the fixed-arity assemblers Pipe2..Pipe5 (mapper first) and
// Source2..Source5 (producer first):
//
//	src := pipeline.Source3(transform.Const(3), multiply, toText)
//	s, err := src.Run(ctx) // "96"
//
// Joints are checked by the compiler. A mismatched stage does not compile.
//
// Invoking a pipeline calls every stage exactly once, strictly in order;
// the first error aborts the call and is returned unchanged. Pipelines are
// immutable and implement transform.Transform, so they nest inside larger
// pipelines and can be invoked concurrently (see InvokeAll).
//
// Assemble builds the same chain from untyped values, checking the joints
// at runtime, for hosts that only hold stages as any.
package pipeline
