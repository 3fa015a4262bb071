// Package observability wires OpenTelemetry tracing and metrics for
// dispatched calls.
//
// Without initialization the global no-op providers are used, so spans and
// instruments cost nothing.
//
//	cfg := observability.DefaultConfig("requester")
//	tp, err := observability.InitTracer(ctx, cfg)
//	defer tp.Shutdown(ctx)
//	mp, err := observability.InitMeter(ctx, cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("requester"))
//
//	ctx, op := observability.StartOperation(ctx, nil, "requester.get", host, id, metrics)
//	defer op.End(ctx, "ok", nil)
package observability
