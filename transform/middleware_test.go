package transform_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/observability"
	"github.com/kbukum/pipekit/transform"
)

func TestChainEmpty(t *testing.T) {
	t.Parallel()

	stage := transform.Chain[int, int]()(transform.Wrap(multiply))
	out, err := stage.Transform(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 96, out)
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(tag string) transform.Middleware[int, int] {
		return func(inner transform.Transform[int, int]) transform.Transform[int, int] {
			return transform.Wrap(func(ctx context.Context, n int) (int, error) {
				order = append(order, tag+">")
				out, err := inner.Transform(ctx, n)
				order = append(order, "<"+tag)
				return out, err
			})
		}
	}

	stage := transform.Use[int, int](transform.Wrap(multiply), mw("A"), mw("B"), mw("C"))
	_, err := stage.Transform(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A>", "B>", "C>", "<C", "<B", "<A"}, order)
}

func jsonLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", buf)
}

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		entries = append(entries, e)
	}
	return entries
}

func TestWithLoggingSuccess(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	stage := transform.WithLogging[int, int](jsonLogger(&buf), "")(transform.Wrap(multiply))
	assert.Equal(t, "multiply", transform.NameOf(stage))

	out, err := stage.Transform(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 96, out)

	entries := logEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "debug", entries[0]["level"])
	assert.Equal(t, "stage ok", entries[0]["message"])
	assert.Equal(t, "multiply", entries[0][logger.FieldStage])
	assert.NotEmpty(t, entries[0][logger.FieldCallID])
	assert.Contains(t, entries[0], logger.FieldDuration)
}

func TestWithLoggingFailurePassesErrorThrough(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	failing := transform.Wrap(func(context.Context, int) (int, error) { return 0, assert.AnError })
	stage := transform.WithLogging[int, int](jsonLogger(&buf), "flaky")(failing)

	ctx := logger.ContextWithCallID(context.Background(), "call-7")
	_, err := stage.Transform(ctx, 1)
	assert.Same(t, assert.AnError, err)

	entries := logEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Equal(t, "flaky", entries[0][logger.FieldStage])
	assert.Equal(t, "call-7", entries[0][logger.FieldCallID])
	assert.Equal(t, assert.AnError.Error(), entries[0][logger.FieldError])
}

func TestWithLoggingSharesCallIDWithInnerStage(t *testing.T) {
	t.Parallel()

	var seen string
	inner := transform.Wrap(func(ctx context.Context, n int) (int, error) {
		seen, _ = logger.CallIDFromContext(ctx)
		return n, nil
	})
	var buf bytes.Buffer
	stage := transform.WithLogging[int, int](jsonLogger(&buf), "")(inner)
	_, err := stage.Transform(context.Background(), 1)
	require.NoError(t, err)

	entries := logEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, seen, entries[0][logger.FieldCallID])
}

func TestWithMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())
	metrics, err := observability.NewStageMetrics(mp.Meter("test"))
	require.NoError(t, err)

	calls := 0
	inner := transform.Wrap(func(_ context.Context, n int) (int, error) {
		calls++
		if n < 0 {
			return 0, assert.AnError
		}
		return n, nil
	})
	stage := transform.WithMetrics[int, int](metrics, "checked")(inner)

	ctx := logger.ContextWithPipeline(context.Background(), "scenario")
	_, err = stage.Transform(ctx, 1)
	require.NoError(t, err)
	_, err = stage.Transform(ctx, -1)
	assert.Same(t, assert.AnError, err)
	assert.Equal(t, 2, calls)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[m.Name] += dp.Value
					stage, _ := dp.Attributes.Value(observability.AttrStage)
					assert.Equal(t, "checked", stage.AsString())
					pipeline, _ := dp.Attributes.Value(observability.AttrPipeline)
					assert.Equal(t, "scenario", pipeline.AsString())
				}
			}
		}
	}
	assert.Equal(t, int64(2), totals["stage.invocations"])
	assert.Equal(t, int64(1), totals["stage.errors"])
}

func TestWithMetricsNil(t *testing.T) {
	t.Parallel()

	stage := transform.WithMetrics[int, int](nil, "unrecorded")(transform.Wrap(func(_ context.Context, n int) (int, error) {
		return n * 32, nil
	}))
	out, err := stage.Transform(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 64, out)
	assert.Equal(t, "unrecorded", transform.NameOf(stage))
}

// Tests below replace the global tracer provider and do not run in parallel.

func TestWithTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	stage := transform.WithTracing[int, int]("")(transform.Wrap(multiply))
	out, err := stage.Transform(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 96, out)

	failing := transform.WithTracing[int, int]("boom")(
		transform.Wrap(func(context.Context, int) (int, error) { return 0, assert.AnError }))
	_, err = failing.Transform(context.Background(), 3)
	assert.Same(t, assert.AnError, err)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	names := []string{}
	for _, s := range spans {
		assert.Equal(t, observability.SpanStage, s.Name())
		for _, kv := range s.Attributes() {
			if kv.Key == observability.AttrStage {
				names = append(names, kv.Value.AsString())
			}
		}
	}
	assert.Equal(t, []string{"multiply", "boom"}, names)
}

func TestWithObservabilityNestsUnderCaller(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, parent := observability.StartSpan(context.Background(), observability.SpanInvoke)
	stage := transform.WithObservability[int, int](nil, "child")(transform.Wrap(multiply))
	_, err := stage.Transform(ctx, 1)
	require.NoError(t, err)
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}
