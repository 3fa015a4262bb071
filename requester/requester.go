package requester

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/requester/httpclient"
	"github.com/kbukum/requester/logger"
	"github.com/kbukum/requester/observability"
	"github.com/kbukum/requester/security"
)

// Requester dispatches calls through a Transport. It holds no per-call
// state and is safe for concurrent use.
type Requester struct {
	transport Transport
	files     security.AgentFiles
	log       *logger.Logger
	metrics   *observability.Metrics
	tracer    trace.Tracer
}

// Option configures a Requester.
type Option func(*Requester)

// WithAgentFiles sets the key and certificate paths read on every call.
func WithAgentFiles(files security.AgentFiles) Option {
	return func(r *Requester) { r.files = files }
}

// WithLogger sets the logger. Calls log at debug on success and warn on
// failure.
func WithLogger(l *logger.Logger) Option {
	return func(r *Requester) { r.log = l }
}

// WithMetrics records call counts and durations.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Requester) { r.metrics = m }
}

// WithTracerName selects the tracer taken from the global provider.
func WithTracerName(name string) Option {
	return func(r *Requester) { r.tracer = otel.Tracer(name) }
}

// New creates a Requester sending through transport.
func New(transport Transport, opts ...Option) *Requester {
	r := &Requester{
		transport: transport,
		log:       logger.Nop(),
		tracer:    otel.Tracer(observability.TracerName()),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("requester")
	return r
}

// Get fetches endpoint.
func (r *Requester) Get(ctx context.Context, svc Service, endpoint string, opts Options) (*Response, error) {
	return r.Do(ctx, MethodGet, svc, endpoint, opts)
}

// Post sends opts.Body to endpoint.
func (r *Requester) Post(ctx context.Context, svc Service, endpoint string, opts Options) (*Response, error) {
	return r.Do(ctx, MethodPost, svc, endpoint, opts)
}

// Put sends opts.Body to endpoint.
func (r *Requester) Put(ctx context.Context, svc Service, endpoint string, opts Options) (*Response, error) {
	return r.Do(ctx, MethodPut, svc, endpoint, opts)
}

// Delete removes endpoint.
func (r *Requester) Delete(ctx context.Context, svc Service, endpoint string, opts Options) (*Response, error) {
	return r.Do(ctx, MethodDelete, svc, endpoint, opts)
}

// Stream fetches endpoint and returns the body unread in Response.Stream.
// The caller must close it.
func (r *Requester) Stream(ctx context.Context, svc Service, endpoint string, opts Options) (*Response, error) {
	return r.Do(ctx, MethodStream, svc, endpoint, opts)
}

// Do builds, sends and normalizes one call. Transport failures are returned
// as the transport's error, enriched with the server's explanation.
func (r *Requester) Do(ctx context.Context, method Method, svc Service, endpoint string, opts Options) (*Response, error) {
	requestID := uuid.NewString()
	ctx = logger.ContextWithRequestID(ctx, requestID)

	ctx, op := observability.StartOperation(ctx, r.tracer, observability.SpanPrefix+string(method), serviceName(svc), requestID, r.metrics)
	op.SetAttributes(
		attribute.String(observability.AttrHTTPMethod, method.transportVerb()),
		attribute.String(observability.AttrEndpoint, endpoint),
	)
	log := r.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldMethod, string(method),
		logger.FieldEndpoint, endpoint,
	))

	req, err := Build(svc, method, opts, r.files)
	if err != nil {
		op.End(ctx, errorStatus(err), err)
		log.Warn("request not sent", logger.Fields(logger.FieldError, err.Error()))
		return nil, err
	}

	raw, err := r.transport.Send(ctx, endpoint, req)
	if err != nil {
		err = Enrich(err)
		status := errorStatus(err)
		if herr, ok := httpclient.AsError(err); ok && herr.StatusCode > 0 {
			op.SetAttributes(attribute.Int(observability.AttrStatusCode, herr.StatusCode))
		}
		op.End(ctx, status, err)
		log.Warn("request failed", logger.MergeWithDuration(logger.Fields(
			logger.FieldStatus, status,
			logger.FieldError, err.Error(),
		), op.Duration()))
		return nil, err
	}

	resp, err := Normalize(raw, req.Streaming)
	if err != nil {
		op.End(ctx, errorStatus(err), err)
		log.Warn("response unreadable", logger.Fields(logger.FieldError, err.Error()))
		return nil, err
	}

	op.SetAttributes(attribute.Int(observability.AttrStatusCode, resp.Status))
	op.End(ctx, "ok", nil)
	log.Debug("request completed", logger.MergeWithDuration(logger.Fields(
		logger.FieldStatus, resp.Status,
		"content_type", resp.Headers["content-type"],
	), op.Duration()))
	return resp, nil
}

func serviceName(svc Service) string {
	if u, err := url.Parse(svc.URL); err == nil && u.Host != "" {
		return u.Host
	}
	return svc.URL
}

// errorStatus names the failure class for spans, metrics and logs.
func errorStatus(err error) string {
	var cfgErr *security.ConfigurationError
	if errors.As(err, &cfgErr) {
		return "configuration"
	}
	if herr, ok := httpclient.AsError(err); ok {
		if herr.StatusCode > 0 {
			return herr.Code.String() + "_" + strconv.Itoa(herr.StatusCode)
		}
		return herr.Code.String()
	}
	return "error"
}
