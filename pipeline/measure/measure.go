// Package measure collects per-stage call statistics through a stage
// middleware.
package measure

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kbukum/pipekit/transform"
)

// Metric is a snapshot of one stage's statistics.
type Metric struct {
	Count  int64
	Errors int64
	Total  time.Duration
	Max    time.Duration
}

// Avg returns the mean call duration, rounded to a readable unit.
func (m Metric) Avg() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return round(m.Total / time.Duration(m.Count))
}

// Measure is a concurrency-safe store of stage metrics keyed by stage name.
type Measure struct {
	mu     sync.Mutex
	stages map[string]*Metric
}

// New creates an empty Measure.
func New() *Measure {
	return &Measure{stages: make(map[string]*Metric)}
}

// Add records one call of the named stage.
func (m *Measure) Add(name string, elapsed time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt, ok := m.stages[name]
	if !ok {
		mt = &Metric{}
		m.stages[name] = mt
	}
	mt.Count++
	mt.Total += elapsed
	if elapsed > mt.Max {
		mt.Max = elapsed
	}
	if err != nil {
		mt.Errors++
	}
}

// Metric returns the snapshot for name and whether it was recorded.
func (m *Measure) Metric(name string) (Metric, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt, ok := m.stages[name]
	if !ok {
		return Metric{}, false
	}
	return *mt, true
}

// Metrics returns a snapshot of every recorded stage.
func (m *Measure) Metrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Metric, len(m.stages))
	for name, mt := range m.stages {
		out[name] = *mt
	}
	return out
}

// Names returns the recorded stage names in sorted order.
func (m *Measure) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.stages))
	for name := range m.stages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset drops every recorded metric.
func (m *Measure) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages = make(map[string]*Metric)
}

// Middleware returns a transform.Middleware that records each call of the
// decorated stage under name, or under the stage's own name when name is
// empty. Stage errors are recorded and returned unchanged.
func Middleware[I, O any](m *Measure, name string) transform.Middleware[I, O] {
	return func(inner transform.Transform[I, O]) transform.Transform[I, O] {
		stage := name
		if stage == "" {
			stage = transform.NameOf(inner)
		}
		return &measured[I, O]{inner: inner, m: m, name: stage}
	}
}

type measured[I, O any] struct {
	inner transform.Transform[I, O]
	m     *Measure
	name  string
}

func (s *measured[I, O]) Transform(ctx context.Context, input I) (O, error) {
	start := time.Now()
	out, err := s.inner.Transform(ctx, input)
	s.m.Add(s.name, time.Since(start), err)
	return out, err
}

func (s *measured[I, O]) Name() string { return s.name }
func (s *measured[I, O]) Unwrap() any  { return s.inner }

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		return d.Round(time.Millisecond)
	case d > time.Millisecond:
		return d.Round(time.Microsecond)
	default:
		return d
	}
}
