package httpclient

import (
	"bytes"
	"io"
	"net/http"
)

// Response is a received HTTP response. The body is read lazily; call Close
// when it is not consumed through Bytes or Text.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body is the response body stream.
	Body io.ReadCloser

	data     []byte
	buffered bool
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Bytes reads and closes the body. Later calls return the same bytes.
func (r *Response) Bytes() ([]byte, error) {
	if r.buffered {
		return r.data, nil
	}
	if r.Body == nil {
		r.buffered = true
		return nil, nil
	}
	defer func() { _ = r.Body.Close() }()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.data = data
	r.buffered = true
	return data, nil
}

// Text returns the body as a string.
func (r *Response) Text() (string, error) {
	data, err := r.Bytes()
	return string(data), err
}

// Close releases the body without reading it.
func (r *Response) Close() error {
	if r.buffered || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// buffer reads the whole body into memory so it can be inspected again,
// e.g. by error enrichment after the request has failed.
func (r *Response) buffer() error {
	data, err := r.Bytes()
	if err != nil {
		return err
	}
	r.Body = io.NopCloser(bytes.NewReader(data))
	return nil
}
