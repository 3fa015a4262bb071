package httpclient

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/requester/security"
	"github.com/kbukum/requester/security/tlstest"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestClient_Do_ResolvesURL(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tests := []struct {
		name      string
		prefix    string
		endpoint  string
		search    string
		wantPath  string
		wantQuery string
	}{
		{"plain join", srv.URL + "/api/v4", "projects", "", "/api/v4/projects", ""},
		{"slashes collapsed", srv.URL + "/api/v4/", "/projects/1", "", "/api/v4/projects/1", ""},
		{"search params", srv.URL + "/api/v4", "projects", "per_page=20&search=a%20b", "/api/v4/projects", "per_page=20&search=a%20b"},
		{"search replaces endpoint query", srv.URL, "users?active=true", "blocked=true", "/users", "blocked=true"},
		{"absolute endpoint", "http://unused.invalid", srv.URL + "/version", "", "/version", ""},
	}
	c := newTestClient(t, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.Do(t.Context(), tt.endpoint, &Options{PrefixURL: tt.prefix, SearchParams: tt.search})
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			_ = resp.Close()
			if gotPath != tt.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tt.wantPath)
			}
			if gotQuery != tt.wantQuery {
				t.Errorf("query = %q, want %q", gotQuery, tt.wantQuery)
			}
		})
	}
}

func TestClient_Do_Headers(t *testing.T) {
	var got http.Header
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{Headers: map[string]string{
		"Private-Token": "default",
		"X-Static":      "static",
	}})
	resp, err := c.Do(t.Context(), "x", &Options{
		Method:    "put",
		PrefixURL: srv.URL,
		Headers:   http.Header{"Private-Token": {"override"}, "Sudo": {"root"}},
		Body:      `{"a":1}`,
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	_ = resp.Close()

	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if v := got.Get("Private-Token"); v != "override" {
		t.Errorf("Private-Token = %q, want override", v)
	}
	if v := got.Get("X-Static"); v != "static" {
		t.Errorf("X-Static = %q, want static", v)
	}
	if v := got.Get("Sudo"); v != "root" {
		t.Errorf("Sudo = %q, want root", v)
	}
	if v := got.Get("User-Agent"); !strings.HasPrefix(v, "requester/") {
		t.Errorf("User-Agent = %q, want requester/ prefix", v)
	}
}

func TestClient_Do_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"404 Project Not Found"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{})
	resp, err := c.Do(t.Context(), "projects/9", &Options{Method: http.MethodDelete, PrefixURL: srv.URL})
	if resp != nil {
		t.Error("expected nil response on non-2xx")
	}
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Code != ErrCodeNotFound || e.StatusCode != 404 {
		t.Errorf("code = %s status = %d", e.Code, e.StatusCode)
	}
	if e.Method != http.MethodDelete || e.URL != srv.URL+"/projects/9" {
		t.Errorf("method/url = %s %s", e.Method, e.URL)
	}
	if string(e.Body) != `{"message":"404 Project Not Found"}` {
		t.Errorf("body = %q", e.Body)
	}
	if e.Response == nil {
		t.Fatal("expected Response on status error")
	}
	text, err := e.Response.Text()
	if err != nil || text != string(e.Body) {
		t.Errorf("Response.Text() = %q, %v", text, err)
	}
	if e.Response.Header.Get("Content-Type") != "application/json" {
		t.Error("response headers not preserved")
	}
}

func TestClient_Do_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, Config{})
	_, err := c.Do(t.Context(), "x", &Options{PrefixURL: url})
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if e, _ := AsError(err); e.Response != nil {
		t.Error("network errors carry no response")
	}
}

func TestClient_Do_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := newTestClient(t, Config{})
	_, err := c.Do(t.Context(), "slow", &Options{PrefixURL: srv.URL, Timeout: 20 * time.Millisecond})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestClient_Do_TimeoutStopsAtHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "first,")
		w.(http.Flusher).Flush()
		time.Sleep(150 * time.Millisecond)
		_, _ = io.WriteString(w, "second")
	}))
	defer srv.Close()

	c := newTestClient(t, Config{})
	resp, err := c.Do(t.Context(), "stream", &Options{PrefixURL: srv.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	text, err := resp.Text()
	if err != nil {
		t.Fatalf("reading body past the timeout: %v", err)
	}
	if text != "first,second" {
		t.Errorf("body = %q", text)
	}
}

func TestClient_Do_Progress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "10")
		_, _ = io.WriteString(w, "0123456789")
	}))
	defer srv.Close()

	var last, total int64
	calls := 0
	c := newTestClient(t, Config{})
	resp, err := c.Do(t.Context(), "", &Options{
		PrefixURL: srv.URL,
		OnProgress: func(transferred, n int64) {
			calls++
			last, total = transferred, n
		},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if _, err := resp.Bytes(); err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if calls == 0 || last != 10 || total != 10 {
		t.Errorf("progress calls=%d last=%d total=%d", calls, last, total)
	}
}

func TestClient_Do_UnsupportedBody(t *testing.T) {
	c := newTestClient(t, Config{})
	_, err := c.Do(t.Context(), "x", &Options{PrefixURL: "http://localhost", Body: 42})
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClient_Do_ClientCertificate(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	srv := tlstest.NewMTLSServer(t, certs, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.TLS.PeerCertificates) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, r.TLS.PeerCertificates[0].Subject.CommonName)
	}))

	c := newTestClient(t, Config{TLS: &security.TLSConfig{CAFile: certs.CAFile}})

	t.Run("without agent", func(t *testing.T) {
		_, err := c.Do(t.Context(), "", &Options{PrefixURL: srv.URL})
		if !IsConnection(err) {
			t.Fatalf("expected handshake failure, got %v", err)
		}
	})

	t.Run("with agent", func(t *testing.T) {
		agent, err := security.BuildAgent(security.AgentFiles{KeyFile: certs.KeyFile, CertFile: certs.CertFile})
		if err != nil {
			t.Fatalf("BuildAgent: %v", err)
		}
		resp, err := c.Do(t.Context(), "", &Options{PrefixURL: srv.URL, Agent: agent})
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		text, _ := resp.Text()
		if text != "localhost" {
			t.Errorf("peer CN = %q, want localhost", text)
		}
	})

	t.Run("half pair", func(t *testing.T) {
		agent := &security.Agent{Cert: []byte("cert only")}
		_, err := c.Do(t.Context(), "", &Options{PrefixURL: srv.URL, Agent: agent})
		var cfgErr *security.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigurationError, got %v", err)
		}
	})
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if !strings.HasPrefix(cfg.UserAgent, "requester/") {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}

	cfg = Config{UserAgent: "custom/1"}
	cfg.ApplyDefaults()
	if cfg.UserAgent != "custom/1" {
		t.Errorf("UserAgent overwritten: %q", cfg.UserAgent)
	}
}

func TestNew_BadCA(t *testing.T) {
	_, err := New(Config{TLS: &security.TLSConfig{CAFile: "/nonexistent/ca.pem"}})
	var cfgErr *security.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}
