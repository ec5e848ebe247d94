package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns development defaults.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.String(),
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter exports metrics over OTLP HTTP and installs the provider
// globally. The caller shuts the provider down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// StageMetrics holds the instruments recorded around each stage call.
type StageMetrics struct {
	invocations metric.Int64Counter
	duration    metric.Float64Histogram
	errors      metric.Int64Counter
	active      metric.Int64UpDownCounter
}

// NewStageMetrics creates stage instruments on the given meter.
func NewStageMetrics(meter metric.Meter) (*StageMetrics, error) {
	invocations, err := meter.Int64Counter("stage.invocations",
		metric.WithDescription("Total number of stage calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.invocations counter: %w", err)
	}

	duration, err := meter.Float64Histogram("stage.duration",
		metric.WithDescription("Duration of stage calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.duration histogram: %w", err)
	}

	errs, err := meter.Int64Counter("stage.errors",
		metric.WithDescription("Total number of failed stage calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.errors counter: %w", err)
	}

	active, err := meter.Int64UpDownCounter("stage.active",
		metric.WithDescription("Number of stage calls in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.active counter: %w", err)
	}

	return &StageMetrics{
		invocations: invocations,
		duration:    duration,
		errors:      errs,
		active:      active,
	}, nil
}

// RecordStart marks a stage call as in flight. A nil m records nothing.
func (m *StageMetrics) RecordStart(ctx context.Context, pipeline, stage string) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1, metric.WithAttributes(stageAttrs(pipeline, stage)...))
}

// RecordEnd records a finished stage call. A non-nil err counts as a
// failure. A nil m records nothing.
func (m *StageMetrics) RecordEnd(ctx context.Context, pipeline, stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	base := stageAttrs(pipeline, stage)
	status := StatusOK
	if err != nil {
		status = StatusError
		m.errors.Add(ctx, 1, metric.WithAttributes(base...))
	}
	m.active.Add(ctx, -1, metric.WithAttributes(base...))
	m.invocations.Add(ctx, 1, metric.WithAttributes(append(base, attribute.String(AttrStatus, status))...))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(base...))
}

func stageAttrs(pipeline, stage string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(AttrStage, stage)}
	if pipeline != "" {
		attrs = append(attrs, attribute.String(AttrPipeline, pipeline))
	}
	return attrs
}
