// Package observe traces element computations with OpenTelemetry. The otel
// trace.Tracer API is the tracing abstraction here; this file only supplies
// a convenience constructor for an OTLP-exporting provider, so spans reach
// Jaeger, Grafana Tempo, or any OTLP-compatible collector.
//
//	tp, err := observe.NewOTLPTracerProvider(ctx, "my-service", "localhost:4317")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer tp.Shutdown(context.Background())
//
//	flow := observe.Instrument(source, "fetch-profiles", metrics, tp.Tracer("my-service"))
//
// View traces in Jaeger UI at http://localhost:16686 (default Jaeger port).
package observe

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// TracingOption configures NewOTLPTracerProvider.
type TracingOption func(*tracingConfig)

type tracingConfig struct {
	serviceVersion string
	useHTTP        bool
	secure         bool
	sampleRate     float64
	batchTimeout   time.Duration
}

// WithServiceVersion records the version shown alongside traces
func WithServiceVersion(version string) TracingOption {
	return func(cfg *tracingConfig) {
		cfg.serviceVersion = version
	}
}

// WithHTTPExporter exports over HTTP (port 4318) instead of gRPC (4317)
func WithHTTPExporter() TracingOption {
	return func(cfg *tracingConfig) {
		cfg.useHTTP = true
	}
}

// WithSecure enables TLS towards the collector; the default is insecure,
// for easy local development
func WithSecure() TracingOption {
	return func(cfg *tracingConfig) {
		cfg.secure = true
	}
}

// WithSampleRate records only the given fraction of traces (1.0 = all,
// 0.0 = none). High-traffic deployments usually want 0.1 or lower.
func WithSampleRate(rate float64) TracingOption {
	return func(cfg *tracingConfig) {
		cfg.sampleRate = rate
	}
}

// WithBatchTimeout sets how long spans may sit before a batch is exported
func WithBatchTimeout(d time.Duration) TracingOption {
	return func(cfg *tracingConfig) {
		cfg.batchTimeout = d
	}
}

// NewOTLPTracerProvider builds an OTLP-exporting trace provider.
//
// Input: context for exporter setup, service name for trace attribution,
// collector endpoint (host:port), options
// Output: the SDK provider, also installed as the otel global
// Behavior: hand provider.Tracer(...) to Instrument; always call Shutdown
// on exit so pending batches are flushed
func NewOTLPTracerProvider(ctx context.Context, serviceName, endpoint string, opts ...TracingOption) (*sdktrace.TracerProvider, error) {
	cfg := tracingConfig{
		serviceVersion: "dev",
		sampleRate:     1.0,
		batchTimeout:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var exporter *otlptrace.Exporter
	var err error
	if cfg.useHTTP {
		httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
		if !cfg.secure {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, httpOpts...)
	} else {
		grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
		if !cfg.secure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, grpcOpts...)
	}
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(cfg.serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("building trace resource: %w", err)
	}

	sampler := sdktrace.AlwaysSample()
	switch {
	case cfg.sampleRate <= 0:
		sampler = sdktrace.NeverSample()
	case cfg.sampleRate < 1:
		sampler = sdktrace.TraceIDRatioBased(cfg.sampleRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(cfg.batchTimeout)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}
