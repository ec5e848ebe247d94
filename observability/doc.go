// Package observability wires OpenTelemetry tracing and metrics for
// pipeline stages.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("scenarios"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("scenarios"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewStageMetrics(observability.Meter(observability.InstrumentationName))
//
// A stage wrapped with transform.WithTracing or transform.WithMetrics
// reports through these providers. Nothing in the pipeline package depends
// on this one.
package observability
