package cmd

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "solarlink-recon"

// newTracerProvider builds the provider for exporter, or returns nil when tracing is off.
func newTracerProvider(exporter string, w io.Writer) (*sdktrace.TracerProvider, error) {
	var exp sdktrace.SpanExporter
	switch exporter {
	case "", "none":
		return nil, nil
	case "stdout":
		e, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("stdout span exporter: %w", err)
		}
		exp = e
	default:
		return nil, fmt.Errorf("unknown OTEL_EXPORTER %q", exporter)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	)
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	), nil
}

// setupTracing installs the global tracer provider. The returned func flushes pending spans.
func setupTracing(exporter string, w io.Writer) (func(context.Context) error, error) {
	tp, err := newTracerProvider(exporter, w)
	if err != nil {
		return nil, err
	}
	if tp == nil {
		return func(context.Context) error { return nil }, nil
	}
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
