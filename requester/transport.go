package requester

import (
	"context"

	"github.com/kbukum/requester/httpclient"
)

// Transport sends a built request to endpoint.
type Transport interface {
	Send(ctx context.Context, endpoint string, req *Request) (*httpclient.Response, error)
}

// HTTPTransport sends requests with an httpclient.Client.
type HTTPTransport struct {
	client *httpclient.Client
}

// NewHTTPTransport returns a Transport backed by client.
func NewHTTPTransport(client *httpclient.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, endpoint string, req *Request) (*httpclient.Response, error) {
	return t.client.Do(ctx, endpoint, &httpclient.Options{
		Method:       req.Method,
		PrefixURL:    req.PrefixURL,
		SearchParams: req.SearchParams,
		Headers:      req.Headers,
		Body:         req.Body,
		Timeout:      req.Timeout,
		Agent:        req.Agent,
		OnProgress:   req.OnProgress,
	})
}
