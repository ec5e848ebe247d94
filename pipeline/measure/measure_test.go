package measure_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/pipekit/pipeline"
	"github.com/kbukum/pipekit/pipeline/measure"
	"github.com/kbukum/pipekit/transform"
)

func times32(_ context.Context, n int) (int, error) { return n * 32, nil }

func TestMiddlewareRecordsCalls(t *testing.T) {
	t.Parallel()

	m := measure.New()
	stage := transform.Use[int, int](transform.Wrap(times32), measure.Middleware[int, int](m, "multiply"))

	for i := 0; i < 3; i++ {
		out, err := stage.Transform(context.Background(), i)
		require.NoError(t, err)
		assert.Equal(t, i*32, out)
	}

	mt, ok := m.Metric("multiply")
	require.True(t, ok)
	assert.EqualValues(t, 3, mt.Count)
	assert.Zero(t, mt.Errors)
	assert.GreaterOrEqual(t, mt.Total, mt.Max)
	assert.Equal(t, "multiply", transform.NameOf(stage))
}

func TestMiddlewareRecordsErrorsUnchanged(t *testing.T) {
	t.Parallel()

	m := measure.New()
	failing := transform.Wrap(func(context.Context, int) (int, error) { return 0, assert.AnError })
	stage := measure.Middleware[int, int](m, "fails")(failing)

	_, err := stage.Transform(context.Background(), 1)
	assert.Same(t, assert.AnError, err)

	mt, ok := m.Metric("fails")
	require.True(t, ok)
	assert.EqualValues(t, 1, mt.Count)
	assert.EqualValues(t, 1, mt.Errors)
}

func TestMiddlewareDefaultsToStageName(t *testing.T) {
	t.Parallel()

	m := measure.New()
	mw := measure.Middleware[int, int](m, "")
	a := mw(transform.Named("a", transform.Transform[int, int](transform.Wrap(times32))))
	b := mw(transform.Named("b", transform.Transform[int, int](transform.Wrap(times32))))

	out, err := pipeline.Pipe2(a, b).Call(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1024, out)
	assert.Equal(t, []string{"a", "b"}, m.Names())
}

func TestMeasureConcurrentAdd(t *testing.T) {
	t.Parallel()

	m := measure.New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Add("stage", time.Millisecond, nil)
		}()
	}
	wg.Wait()

	mt, _ := m.Metric("stage")
	assert.EqualValues(t, 50, mt.Count)
	assert.Equal(t, 50*time.Millisecond, mt.Total)
	assert.Equal(t, time.Millisecond, mt.Avg())
}

func TestMetricsIsSnapshot(t *testing.T) {
	t.Parallel()

	m := measure.New()
	m.Add("stage", time.Second, nil)
	snap := m.Metrics()
	m.Add("stage", time.Second, nil)

	assert.EqualValues(t, 1, snap["stage"].Count)
	mt, _ := m.Metric("stage")
	assert.EqualValues(t, 2, mt.Count)

	m.Reset()
	assert.Empty(t, m.Metrics())
	_, ok := m.Metric("stage")
	assert.False(t, ok)
}

func TestAvg(t *testing.T) {
	t.Parallel()

	assert.Zero(t, measure.Metric{}.Avg())
	assert.Equal(t, 1500*time.Millisecond, measure.Metric{Count: 2, Total: 3 * time.Second}.Avg())
	assert.Equal(t, 2*time.Microsecond, measure.Metric{Count: 3, Total: 6 * time.Microsecond}.Avg())
}
