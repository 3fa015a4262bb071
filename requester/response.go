package requester

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kbukum/requester/httpclient"
	"github.com/kbukum/requester/httpclient/sse"
)

// Response is a normalized answer. Header names are lowercase. Body holds
// decoded JSON for JSON content types and the raw text otherwise; for
// stream calls Body is nil and Stream holds the unread body.
type Response struct {
	Status  int
	Headers map[string]string
	Body    any
	Stream  io.ReadCloser
}

// ErrNoStream is returned by Events for responses that were not streamed.
var ErrNoStream = errors.New("requester: response has no stream")

// Events decodes the stream as server-sent events. Closing the reader
// closes the stream.
func (r *Response) Events() (sse.Reader, error) {
	if r.Stream == nil {
		return nil, ErrNoStream
	}
	return sse.NewReader(r.Stream), nil
}

// Close releases the stream, if any.
func (r *Response) Close() error {
	if r.Stream == nil {
		return nil
	}
	return r.Stream.Close()
}

// Normalize converts a transport response. Unless streaming, the body is
// read to the end: JSON content types are decoded (an empty body reads as
// {} and an undecodable one becomes an empty object), everything else is
// returned as text.
func Normalize(resp *httpclient.Response, streaming bool) (*Response, error) {
	out := &Response{
		Status:  resp.StatusCode,
		Headers: flattenHeaders(resp.Header),
	}

	if streaming {
		out.Stream = resp.Body
		return out, nil
	}

	text, err := resp.Text()
	if err != nil {
		return nil, httpclient.NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	if strings.Contains(strings.ToLower(out.Headers["content-type"]), "json") {
		out.Body = decodeJSON(text)
	} else {
		out.Body = text
	}
	return out, nil
}

func decodeJSON(text string) any {
	if text == "" {
		text = "{}"
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return map[string]any{}
	}
	return v
}

func flattenHeaders(h map[string][]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		if len(vs) == 0 {
			continue
		}
		out[strings.ToLower(k)] = vs[len(vs)-1]
	}
	return out
}
