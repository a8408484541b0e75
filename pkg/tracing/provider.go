package tracing

import (
	"context"
	"fmt"

	"github.com/Ramsey-B/dahlia/pkg/tracing/exporters"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config holds tracing settings for the service
type Config struct {
	ServiceName string
	Enabled     bool
	Endpoint    string
	Protocol    string
	Insecure    bool
}

// Init configures the global tracer provider. When tracing is disabled the
// spans are discarded by the console exporter so span creation stays cheap.
// The returned function shuts the provider down and flushes pending spans.
func Init(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	var exporter sdktrace.SpanExporter
	if cfg.Enabled {
		otlpCfg := exporters.DefaultOTLPConfig()
		if cfg.Endpoint != "" {
			otlpCfg.Endpoint = cfg.Endpoint
		}
		if cfg.Protocol != "" {
			otlpCfg.Protocol = cfg.Protocol
		}
		otlpCfg.Insecure = cfg.Insecure

		otlpExporter, err := exporters.NewOTLPExporter(ctx, otlpCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		exporter = otlpExporter
	} else {
		exporter = &exporters.ConsoleExporter{}
	}

	res, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracing resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	SetTracer(provider.Tracer(cfg.ServiceName))

	return provider.Shutdown, nil
}
