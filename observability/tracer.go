package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/requester/logger"
	"github.com/kbukum/requester/version"
)

const defaultTracerName = "github.com/kbukum/requester"

// SpanPrefix prefixes the span name of every dispatched call.
const SpanPrefix = "requester."

// Attribute keys set on call spans.
const (
	AttrServiceName = "service.name"
	AttrRequestID   = "request.id"
	AttrHTTPMethod  = "http.request.method"
	AttrEndpoint    = "requester.endpoint"
	AttrStatusCode  = "http.response.status_code"
	AttrDurationMs  = "duration_ms"
	AttrStatus      = "status"
)

// Config configures OTLP export of traces and metrics.
type Config struct {
	// ServiceName is reported as the resource's service.name.
	ServiceName string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure disables TLS towards the collector.
	Insecure bool
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64
	// MetricInterval is the metric export interval. Zero uses the SDK default.
	MetricInterval time.Duration
}

// DefaultConfig returns defaults for a local collector.
func DefaultConfig(serviceName string) Config {
	return Config{
		ServiceName:    serviceName,
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		SampleRate:     1.0,
		MetricInterval: 15 * time.Second,
	}
}

// InitTracer installs an OTLP/HTTP tracer provider as the global provider.
// The caller shuts it down on exit.
func InitTracer(ctx context.Context, config Config) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Debug("tracer initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"sample_rate", config.SampleRate,
	))

	return tp, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

func newResource(serviceName, environment string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version.Short()),
			attribute.String("environment", environment),
		),
	)
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// TracerName is the instrumentation name used when none is configured.
func TracerName() string { return defaultTracerName }
