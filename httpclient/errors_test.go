package httpclient

import (
	"fmt"
	"testing"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeTimeout, "timeout"},
		{ErrCodeConnection, "connection"},
		{ErrCodeAuth, "auth"},
		{ErrCodeNotFound, "not_found"},
		{ErrCodeRateLimit, "rate_limit"},
		{ErrCodeValidation, "validation"},
		{ErrCodeServer, "server"},
		{ErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	e := &Error{StatusCode: 404, Code: ErrCodeNotFound, Message: "HTTP 404"}
	want := "httpclient: not_found (HTTP 404): HTTP 404"
	if got := e.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	e2 := &Error{Code: ErrCodeConnection, Message: "connection refused"}
	want2 := "httpclient: connection: connection refused"
	if got := e2.Error(); got != want2 {
		t.Errorf("got %q, want %q", got, want2)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := NewValidationError("bad input")
	outer := &Error{Code: ErrCodeServer, Message: "wrapped", Err: inner}
	if outer.Unwrap() != inner {
		t.Error("Unwrap did not return inner error")
	}
}

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		code    int
		wantNil bool
		errCode ErrorCode
		retry   bool
	}{
		{200, true, 0, false},
		{201, true, 0, false},
		{204, true, 0, false},
		{304, false, ErrCodeServer, false},
		{400, false, ErrCodeValidation, false},
		{401, false, ErrCodeAuth, false},
		{403, false, ErrCodeAuth, false},
		{404, false, ErrCodeNotFound, false},
		{409, false, ErrCodeValidation, false},
		{422, false, ErrCodeValidation, false},
		{429, false, ErrCodeRateLimit, true},
		{500, false, ErrCodeServer, true},
		{502, false, ErrCodeServer, true},
	}
	for _, tt := range tests {
		e := ClassifyStatusCode(tt.code, []byte("body"))
		if tt.wantNil {
			if e != nil {
				t.Errorf("ClassifyStatusCode(%d): expected nil, got %v", tt.code, e)
			}
			continue
		}
		if e == nil {
			t.Errorf("ClassifyStatusCode(%d): expected error, got nil", tt.code)
			continue
		}
		if e.Code != tt.errCode || e.Retryable != tt.retry {
			t.Errorf("ClassifyStatusCode(%d) = %v retryable=%v, want %v retryable=%v", tt.code, e.Code, e.Retryable, tt.errCode, tt.retry)
		}
		if e.StatusCode != tt.code || string(e.Body) != "body" {
			t.Errorf("ClassifyStatusCode(%d): status/body not kept: %+v", tt.code, e)
		}
	}
}

func TestIsHelpers(t *testing.T) {
	timeout := NewTimeoutError(fmt.Errorf("timed out"))
	conn := NewConnectionError(fmt.Errorf("connection refused"))
	validation := NewValidationError("bad")

	tests := []struct {
		name  string
		is    func(error) bool
		match error
		miss  error
	}{
		{"IsTimeout", IsTimeout, timeout, conn},
		{"IsConnection", IsConnection, conn, timeout},
		{"IsAuth", IsAuth, ClassifyStatusCode(401, nil), ClassifyStatusCode(404, nil)},
		{"IsNotFound", IsNotFound, ClassifyStatusCode(404, nil), ClassifyStatusCode(403, nil)},
		{"IsRateLimit", IsRateLimit, ClassifyStatusCode(429, nil), ClassifyStatusCode(503, nil)},
		{"IsServerError", IsServerError, ClassifyStatusCode(503, nil), validation},
		{"IsRetryable", IsRetryable, conn, ClassifyStatusCode(401, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.is(fmt.Errorf("wrapped: %w", tt.match)) {
				t.Errorf("%s(%v) = false", tt.name, tt.match)
			}
			if tt.is(tt.miss) {
				t.Errorf("%s(%v) = true", tt.name, tt.miss)
			}
			if tt.is(fmt.Errorf("plain")) {
				t.Errorf("%s matched a plain error", tt.name)
			}
		})
	}
	if IsRetryable(validation) {
		t.Error("validation should not be retryable")
	}
}

func TestError_Description(t *testing.T) {
	e := ClassifyStatusCode(404, []byte(`{"message":"404 Project Not Found"}`))
	e.Description = "404 Project Not Found"
	want := "httpclient: not_found (HTTP 404): HTTP 404: 404 Project Not Found"
	if got := e.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAsError(t *testing.T) {
	inner := ClassifyStatusCode(502, nil)
	wrapped := fmt.Errorf("dispatch: %w", inner)
	got, ok := AsError(wrapped)
	if !ok || got != inner {
		t.Fatal("AsError should find the wrapped *Error")
	}
	if _, ok := AsError(fmt.Errorf("plain")); ok {
		t.Error("AsError should not match a plain error")
	}
}
