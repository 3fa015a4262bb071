package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/kbukum/requester/security"
)

// Client sends requests over a pooled transport. It is safe for concurrent use.
type Client struct {
	transport *http.Transport
	config    Config
}

// New creates a new client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()

	transport := cleanhttp.DefaultPooledTransport()
	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
	}

	return &Client{transport: transport, config: cfg}, nil
}

// Do sends the request described by opts to endpoint. A non-2xx status is
// returned as *Error with the buffered response attached; the caller owns
// the returned Response and must read or close it.
func (c *Client) Do(ctx context.Context, endpoint string, opts *Options) (*Response, error) {
	if opts == nil {
		opts = &Options{}
	}

	target, err := resolveURL(opts.PrefixURL, endpoint, opts.SearchParams)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("resolve url: %v", err))
	}

	body, contentType, err := encodeBody(opts.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	transport, release, err := c.transportFor(opts.Agent)
	if err != nil {
		closeBody(body)
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := sync.OnceFunc(func() {
		cancel()
		release()
	})

	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		done()
		closeBody(body)
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}
	c.applyHeaders(httpReq, opts.Headers, contentType)

	var timer *time.Timer
	if opts.Timeout > 0 {
		timer = time.AfterFunc(opts.Timeout, cancel)
	}

	resp, err := (&http.Client{Transport: transport}).Do(httpReq)
	timedOut := timer != nil && !timer.Stop()
	if err != nil {
		done()
		if timedOut || errors.Is(err, context.DeadlineExceeded) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	if timedOut {
		_ = resp.Body.Close()
		done()
		return nil, NewTimeoutError(context.DeadlineExceeded)
	}

	rc := io.ReadCloser(&releaseBody{ReadCloser: resp.Body, release: done})
	if opts.OnProgress != nil {
		rc = newProgressReader(rc, resp.ContentLength, opts.OnProgress)
	}
	result := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       rc,
	}

	if result.IsSuccess() {
		return result, nil
	}

	if err := result.buffer(); err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}
	classErr := ClassifyStatusCode(resp.StatusCode, result.data)
	classErr.Method = method
	classErr.URL = target
	classErr.Response = result
	return nil, classErr
}

// Close releases idle connections held by the pooled transport.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}

// transportFor returns the pooled transport, or a clone presenting the
// agent's client certificate. The release func drops the clone's connections.
func (c *Client) transportFor(agent *security.Agent) (http.RoundTripper, func(), error) {
	if agent == nil {
		return c.transport, func() {}, nil
	}
	tlsCfg, err := agent.ClientTLS(c.transport.TLSClientConfig)
	if err != nil {
		return nil, nil, err
	}
	t := c.transport.Clone()
	t.TLSClientConfig = tlsCfg
	return t, t.CloseIdleConnections, nil
}

func (c *Client) applyHeaders(req *http.Request, headers http.Header, contentType string) {
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	for k, vs := range headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
}

// encodeBody converts a body value into an io.Reader and an optional
// content type. JSON encoding happens before the transport.
func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case *MultipartBody:
		if v == nil {
			return nil, "", nil
		}
		return v.encode()
	case string:
		return strings.NewReader(v), "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case io.Reader:
		return v, "", nil
	default:
		return nil, "", fmt.Errorf("unsupported body type %T", body)
	}
}

// closeBody closes a request body that will never be sent.
func closeBody(body io.Reader) {
	if rc, ok := body.(io.Closer); ok {
		_ = rc.Close()
	}
}

// releaseBody cancels the request context and drops per-request
// connections once the body is closed.
type releaseBody struct {
	io.ReadCloser
	release func()
}

func (b *releaseBody) Close() error {
	err := b.ReadCloser.Close()
	b.release()
	return err
}
