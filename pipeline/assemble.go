package pipeline

import "github.com/kbukum/pipekit/transform"

// Pipe2 fuses two stages: I -> T -> O.
func Pipe2[I, T, O any](
	s1 transform.Transform[I, T],
	s2 transform.Transform[T, O],
) *Pipeline[I, O] {
	return Then(From(s1), s2)
}

// Pipe3 fuses three stages, left-associated: ((s1 s2) s3).
func Pipe3[I, T, T2, O any](
	s1 transform.Transform[I, T],
	s2 transform.Transform[T, T2],
	s3 transform.Transform[T2, O],
) *Pipeline[I, O] {
	return Then(Pipe2(s1, s2), s3)
}

// Pipe4 fuses four stages, left-associated.
func Pipe4[I, T, T2, T3, O any](
	s1 transform.Transform[I, T],
	s2 transform.Transform[T, T2],
	s3 transform.Transform[T2, T3],
	s4 transform.Transform[T3, O],
) *Pipeline[I, O] {
	return Then(Pipe3(s1, s2, s3), s4)
}

// Pipe5 fuses five stages, left-associated.
func Pipe5[I, T, T2, T3, T4, O any](
	s1 transform.Transform[I, T],
	s2 transform.Transform[T, T2],
	s3 transform.Transform[T2, T3],
	s4 transform.Transform[T3, T4],
	s5 transform.Transform[T4, O],
) *Pipeline[I, O] {
	return Then(Pipe4(s1, s2, s3, s4), s5)
}

// Source2 fuses a producer and one stage.
func Source2[T, O any](
	p transform.Transform[transform.Unit, T],
	s2 transform.Transform[T, O],
) *Source[O] {
	return ThenSource(FromSource(p), s2)
}

// Source3 fuses a producer and two stages.
func Source3[T, T2, O any](
	p transform.Transform[transform.Unit, T],
	s2 transform.Transform[T, T2],
	s3 transform.Transform[T2, O],
) *Source[O] {
	return ThenSource(Source2(p, s2), s3)
}

// Source4 fuses a producer and three stages.
func Source4[T, T2, T3, O any](
	p transform.Transform[transform.Unit, T],
	s2 transform.Transform[T, T2],
	s3 transform.Transform[T2, T3],
	s4 transform.Transform[T3, O],
) *Source[O] {
	return ThenSource(Source3(p, s2, s3), s4)
}

// Source5 fuses a producer and four stages.
func Source5[T, T2, T3, T4, O any](
	p transform.Transform[transform.Unit, T],
	s2 transform.Transform[T, T2],
	s3 transform.Transform[T2, T3],
	s4 transform.Transform[T3, T4],
	s5 transform.Transform[T4, O],
) *Source[O] {
	return ThenSource(Source4(p, s2, s3, s4), s5)
}
