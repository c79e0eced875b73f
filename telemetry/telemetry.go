// ABOUTME: OpenTelemetry tracer provider setup for the kanban service.
// ABOUTME: Chooses noop, stdout or OTLP exporters from the environment.

// Package telemetry wires OpenTelemetry tracing for the kanban service.
//
// Tracing is off by default and costs nothing when off.
//
//	KANBAN_OTEL_ENABLED=true         enable tracing
//	KANBAN_OTEL_STDOUT=true          pretty-print spans to stdout
//	OTEL_EXPORTER_OTLP_ENDPOINT=...  OTLP/gRPC collector (e.g. localhost:4317)
package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Settings selects exporters. The zero value disables tracing.
type Settings struct {
	Enabled      bool
	Stdout       bool
	OTLPEndpoint string
}

// Provider owns the installed tracer provider until Shutdown.
type Provider struct {
	shutdown func(context.Context) error
}

// Init installs a global tracer provider per s. When tracing is disabled a
// no-op provider is installed and Shutdown does nothing.
func Init(ctx context.Context, s Settings, serviceName, version string) (*Provider, error) {
	if !s.Enabled {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		return &Provider{shutdown: func(context.Context) error { return nil }}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
		resource.WithHost(),
		resource.WithProcess(),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: resource: %w", err)
	}

	exporters, err := buildExporters(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}
	for _, exp := range exporters {
		opts = append(opts, sdktrace.WithBatcher(exp))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return &Provider{shutdown: tp.Shutdown}, nil
}

func buildExporters(ctx context.Context, s Settings) ([]sdktrace.SpanExporter, error) {
	var exporters []sdktrace.SpanExporter

	if s.Stdout {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("stdout trace exporter: %w", err)
		}
		exporters = append(exporters, exp)
	}

	if s.OTLPEndpoint != "" {
		endpoint := otlptracegrpc.WithEndpoint(s.OTLPEndpoint)
		if strings.Contains(s.OTLPEndpoint, "://") {
			endpoint = otlptracegrpc.WithEndpointURL(s.OTLPEndpoint)
		}
		exp, err := otlptracegrpc.New(ctx, endpoint, otlptracegrpc.WithInsecure())
		if err != nil {
			return nil, fmt.Errorf("otlp trace exporter: %w", err)
		}
		exporters = append(exporters, exp)
	}

	// Enabled without an explicit exporter means stdout.
	if len(exporters) == 0 {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("stdout trace exporter: %w", err)
		}
		exporters = append(exporters, exp)
	}
	return exporters, nil
}

// Tracer returns a tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Shutdown flushes pending spans and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}
