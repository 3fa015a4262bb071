package requester

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/requester/httpclient"
)

func rawResponse(status int, header http.Header, body string) *httpclient.Response {
	return &httpclient.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNormalize_Body(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        any
	}{
		{"json object", "application/json", `{"id":1,"name":"p"}`, map[string]any{"id": float64(1), "name": "p"}},
		{"json array", "application/json; charset=utf-8", `[1,"a"]`, []any{float64(1), "a"}},
		{"json scalar", "application/json", `"hello"`, "hello"},
		{"vendor json type", "application/vnd.api+JSON", `{"a":true}`, map[string]any{"a": true}},
		{"empty json body", "application/json", ``, map[string]any{}},
		{"invalid json", "application/json", `{not json`, map[string]any{}},
		{"plain text", "text/plain", `hello`, "hello"},
		{"no content type", "", `{"id":1}`, `{"id":1}`},
		{"empty text", "text/html", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.contentType != "" {
				h.Set("Content-Type", tt.contentType)
			}
			resp, err := Normalize(rawResponse(200, h, tt.body), false)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if !reflect.DeepEqual(resp.Body, tt.want) {
				t.Errorf("Body = %#v, want %#v", resp.Body, tt.want)
			}
			if resp.Stream != nil {
				t.Error("Stream set for a non-stream call")
			}
		})
	}
}

func TestNormalize_Headers(t *testing.T) {
	h := http.Header{}
	h.Set("X-Total-Pages", "4")
	h.Add("Link", "<a>; rel=first")
	h.Add("Link", "<b>; rel=last")
	h["Empty"] = nil

	resp, err := Normalize(rawResponse(201, h, ""), false)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if resp.Status != 201 {
		t.Errorf("Status = %d", resp.Status)
	}
	want := map[string]string{"x-total-pages": "4", "link": "<b>; rel=last"}
	if !reflect.DeepEqual(resp.Headers, want) {
		t.Errorf("Headers = %v, want %v", resp.Headers, want)
	}
}

func TestNormalize_Streaming(t *testing.T) {
	h := http.Header{"Content-Type": {"application/json"}}
	raw := rawResponse(200, h, `{"not":"read"}`)

	resp, err := Normalize(raw, true)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if resp.Body != nil {
		t.Errorf("Body = %v, want nil", resp.Body)
	}
	if resp.Stream == nil {
		t.Fatal("expected Stream")
	}
	data, _ := io.ReadAll(resp.Stream)
	if string(data) != `{"not":"read"}` {
		t.Errorf("stream = %q", data)
	}
	if err := resp.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestNormalize_ReadError(t *testing.T) {
	raw := &httpclient.Response{StatusCode: 200, Header: http.Header{}, Body: io.NopCloser(failingReader{})}
	_, err := Normalize(raw, false)
	if !httpclient.IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestResponse_Events(t *testing.T) {
	resp := &Response{Stream: io.NopCloser(strings.NewReader("event: status\ndata: {\"state\":\"running\"}\n\n"))}
	events, err := resp.Events()
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	defer events.Close()

	ev, err := events.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	var v struct {
		State string `json:"state"`
	}
	if ev.Event != "status" || ev.Decode(&v) != nil || v.State != "running" {
		t.Errorf("unexpected event %+v", ev)
	}
	if _, err := events.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestResponse_EventsWithoutStream(t *testing.T) {
	resp := &Response{Body: "text"}
	if _, err := resp.Events(); !errors.Is(err, ErrNoStream) {
		t.Errorf("expected ErrNoStream, got %v", err)
	}
	if err := resp.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
