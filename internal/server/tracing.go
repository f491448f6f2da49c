package server

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// SetupTracing builds a tracer for the configured exporter and installs
// the provider globally. It returns a nil tracer when tracing is off.
// The returned shutdown func flushes pending spans.
func SetupTracing(ctx context.Context, exporter, endpoint, version string) (trace.Tracer, func(context.Context) error, error) {
	noShutdown := func(context.Context) error { return nil }

	var exp sdktrace.SpanExporter
	var err error
	switch exporter {
	case "", "none":
		return nil, noShutdown, nil
	case "stdout":
		// Stdout carries the MCP stream; spans go to stderr.
		exp, err = stdouttrace.New(
			stdouttrace.WithWriter(os.Stderr),
			stdouttrace.WithPrettyPrint(),
		)
	case "otlp":
		exp, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
	default:
		return nil, nil, fmt.Errorf("unknown trace exporter %q", exporter)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s trace exporter: %w", exporter, err)
	}

	res, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewSchemaless(
			attribute.String("service.name", serverName),
			attribute.String("service.version", version),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("building trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Tracer(serverName), tp.Shutdown, nil
}
