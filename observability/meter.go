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

	"github.com/kbukum/requester/logger"
)

// InitMeter installs an OTLP/HTTP meter provider as the global provider.
// The caller shuts it down on exit.
func InitMeter(ctx context.Context, config Config) (*sdkmetric.MeterProvider, error) {
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

	res, err := newResource(config.ServiceName, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.MetricInterval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.MetricInterval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// callBuckets spans fast API lookups up to long uploads and streams.
var callBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// Metrics holds the instruments recorded for every dispatched call.
type Metrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
	errorTotal      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestTotal, err := meter.Int64Counter("requester.request.total",
		metric.WithDescription("Total number of dispatched calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request.total counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("requester.request.duration",
		metric.WithDescription("Duration of dispatched calls in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(callBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request.duration histogram: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("requester.request.active",
		metric.WithDescription("Number of calls in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request.active gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("requester.error.total",
		metric.WithDescription("Failed calls by error class and verb"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestActive:   requestActive,
		errorTotal:      errorTotal,
	}, nil
}

// RecordRequestStart increments the in-flight count.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements the in-flight count and records the call.
func (m *Metrics) RecordRequestEnd(ctx context.Context, service, method, status string, duration time.Duration) {
	m.requestActive.Add(ctx, -1)
	call := attribute.NewSet(
		attribute.String(AttrServiceName, service),
		attribute.String(AttrHTTPMethod, method),
	)
	m.requestTotal.Add(ctx, 1, metric.WithAttributeSet(call), metric.WithAttributes(
		attribute.String(AttrStatus, status),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributeSet(call))
}

// RecordError counts a failed call by error class.
func (m *Metrics) RecordError(ctx context.Context, errType, method string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("error.type", errType),
		attribute.String(AttrHTTPMethod, method),
	))
}
