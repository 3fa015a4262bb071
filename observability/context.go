package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one traced and measured call.
type Operation struct {
	Name      string
	Service   string
	RequestID string
	StartTime time.Time
	Metrics   *Metrics

	span trace.Span
}

type operationContextKey struct{}

// StartOperation opens a span named name on tracer and records the request
// start. A nil metrics skips metric recording; a nil tracer uses the
// package tracer.
func StartOperation(ctx context.Context, tracer trace.Tracer, name, service, requestID string, metrics *Metrics) (context.Context, *Operation) {
	if tracer == nil {
		tracer = Tracer(defaultTracerName)
	}
	op := &Operation{
		Name:      name,
		Service:   service,
		RequestID: requestID,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
	ctx, op.span = tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	op.span.SetAttributes(
		attribute.String(AttrServiceName, service),
		attribute.String(AttrRequestID, requestID),
	)
	if metrics != nil {
		metrics.RecordRequestStart(ctx)
	}
	return context.WithValue(ctx, operationContextKey{}, op), op
}

// OperationFromContext returns the Operation started on ctx, or nil.
func OperationFromContext(ctx context.Context) *Operation {
	if op, ok := ctx.Value(operationContextKey{}).(*Operation); ok {
		return op
	}
	return nil
}

// SetAttributes adds attributes to the operation's span.
func (op *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	op.span.SetAttributes(attrs...)
}

// End closes the span and records the request end with status.
func (op *Operation) End(ctx context.Context, status string, err error) {
	duration := op.Duration()

	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
		if op.Metrics != nil {
			op.Metrics.RecordError(ctx, status, op.Name)
		}
	}
	op.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	op.span.End()

	if op.Metrics != nil {
		op.Metrics.RecordRequestEnd(ctx, op.Service, op.Name, status, duration)
	}
}

// Duration returns the elapsed time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.StartTime)
}
