package requester

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/requester/casing"
	"github.com/kbukum/requester/httpclient"
	"github.com/kbukum/requester/query"
	"github.com/kbukum/requester/security"
)

// Request is everything the transport needs for one call.
type Request struct {
	Timeout      time.Duration
	Headers      http.Header
	Method       string
	Agent        *security.Agent
	SearchParams string
	PrefixURL    string
	// Body is nil, a JSON-encoded string, or a pass-through payload.
	Body any
	// Streaming requests hand the body back unread.
	Streaming  bool
	OnProgress httpclient.ProgressFunc
}

// Build turns a service, verb and options into a transport request. Agent
// files are read here, so a missing certificate fails before any network I/O.
func Build(svc Service, method Method, opts Options, files security.AgentFiles) (*Request, error) {
	verb := method.transportVerb()
	if verb == "" {
		return nil, fmt.Errorf("requester: unknown method %q", method)
	}

	headers := make(http.Header, len(svc.Headers)+2)
	for k, v := range svc.Headers {
		headers.Set(k, v)
	}
	// Per-call values are added alongside any service default.
	if opts.Sudo != "" {
		headers.Add("Sudo", opts.Sudo)
	}

	var body any
	if opts.Body != nil {
		switch b := opts.Body.(type) {
		case jsonBody:
			encoded, err := encodeJSON(b.v)
			if err != nil {
				return nil, fmt.Errorf("requester: encode body: %w", err)
			}
			body = encoded
			headers.Add("Content-Type", "application/json")
		default:
			body = b.payload()
		}
	}

	params, err := queryParams(opts)
	if err != nil {
		return nil, err
	}

	agent, err := security.BuildAgent(files)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Timeout:      svc.RequestTimeout,
		Headers:      headers,
		Method:       verb,
		Agent:        agent,
		SearchParams: query.Stringify(params),
		PrefixURL:    svc.URL,
		Body:         body,
	}
	if method == MethodStream {
		req.Streaming = true
		req.OnProgress = func(int64, int64) {}
	}
	return req, nil
}

// queryParams merges the struct and map query inputs and decamelizes the
// result. Query entries win over struct fields of the same name.
func queryParams(opts Options) (map[string]any, error) {
	merged := make(map[string]any, len(opts.Query))
	if opts.QueryStruct != nil {
		fields, err := query.FromStruct(opts.QueryStruct)
		if err != nil {
			return nil, fmt.Errorf("requester: %w", err)
		}
		maps.Copy(merged, fields)
	}
	maps.Copy(merged, opts.Query)
	params, _ := casing.DecamelizeKeys(merged).(map[string]any)
	return params, nil
}

// encodeJSON decamelizes the keys of v and encodes it. Every value goes
// through a JSON round trip first so that struct fields and typed maps at
// any depth are cased too.
func encodeJSON(v any) (string, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(casing.DecamelizeKeys(generic)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func toGeneric(v any) (any, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
