// Package telemetry provides optional OpenTelemetry tracing and metrics.
//
// Telemetry is off unless Init is called with enabled set; the global no-op
// providers are used in that case. When enabled, spans and metrics are
// written to the given writer (stderr from the CLI) when Shutdown runs.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationScope = "github.com/naag/gh-project-fields"

var shutdownFns []func(context.Context) error

var (
	newTraceExporter = func(w io.Writer) (sdktrace.SpanExporter, error) {
		return stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	}
	newMetricExporter = func(w io.Writer) (sdkmetric.Exporter, error) {
		return stdoutmetric.New(stdoutmetric.WithWriter(w), stdoutmetric.WithPrettyPrint())
	}
)

// Init configures the global OTel providers
func Init(ctx context.Context, enabled bool, w io.Writer, serviceName, version string) error {
	if !enabled {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
		return nil
	}

	res := resource.NewWithAttributes(semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(version),
	)

	traceExp, err := newTraceExporter(w)
	if err != nil {
		return fmt.Errorf("telemetry: trace exporter: %w", err)
	}
	metricExp, err := newMetricExporter(w)
	if err != nil {
		return fmt.Errorf("telemetry: metric exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(traceExp),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp, sdkmetric.WithInterval(30*time.Second))),
	)
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	shutdownFns = append(shutdownFns, tp.Shutdown, mp.Shutdown)

	return nil
}

// Tracer returns the tracer for this module
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationScope)
}

// Meter returns the meter for this module
func Meter() metric.Meter {
	return otel.Meter(instrumentationScope)
}

// Shutdown flushes all spans/metrics and shuts down the providers. Every provider
// is shut down even if an earlier one fails; the errors are joined.
func Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range shutdownFns {
		errs = append(errs, fn(ctx))
	}
	shutdownFns = nil
	return errors.Join(errs...)
}
