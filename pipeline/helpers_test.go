package pipeline_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/kbukum/pipekit/transform"
)

func times32(_ context.Context, n int) (int, error) { return n * 32, nil }

func toText(_ context.Context, n int) (string, error) { return strconv.Itoa(n), nil }

func foo(_ context.Context, s string) (string, error) { return "foo " + s, nil }

var (
	three    = transform.Named("three", transform.Transform[transform.Unit, int](transform.Const(3)))
	multiply = transform.Named("multiply", transform.Transform[int, int](transform.Wrap(times32)))
	text     = transform.Named("text", transform.Transform[int, string](transform.Wrap(toText)))
)

// recorder is a stage that logs its calls in a shared journal.
type recorder struct {
	mu      *sync.Mutex
	journal *[]string
	name    string
	fail    error
}

func newJournal() (*sync.Mutex, *[]string) {
	return &sync.Mutex{}, &[]string{}
}

func (r recorder) Transform(_ context.Context, n int) (int, error) {
	r.mu.Lock()
	*r.journal = append(*r.journal, r.name)
	r.mu.Unlock()
	if r.fail != nil {
		return 0, r.fail
	}
	return n + 1, nil
}

func (r recorder) Name() string { return r.name }
