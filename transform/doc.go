// Package transform defines the stage abstraction of pipekit.
//
// A stage is anything implementing Transform[I, O]: given an input of type
// I it produces an O, possibly blocking, and reports failure through the
// returned error. Producers are stages whose input type is Unit.
//
//	double := transform.Lift(func(n int) int { return n * 2 })
//	three := transform.Const(3)
//	fetch := transform.Wrap(func(ctx context.Context, id string) (*User, error) {
//	    return repo.Get(ctx, id)
//	})
//
// Stages built here are immutable values and safe to share between
// pipelines and goroutines. The functions they wrap are called exactly once
// per Transform call, and whatever error they return is passed through
// unchanged.
//
// Middleware (WithLogging, WithMetrics, WithTracing) are opt-in wrappers
// that observe a stage without altering its result.
package transform
