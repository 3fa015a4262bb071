package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidatorRequired(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"root", false},
		{"", true},
		{"   ", true},
	}
	for _, tt := range tests {
		v := New().Required("sudo", tt.value)
		if v.HasErrors() != tt.wantErr {
			t.Errorf("Required(%q) errors = %v, want %v", tt.value, v.HasErrors(), tt.wantErr)
		}
	}
}

func TestValidatorAbsoluteURL(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"https://gitlab.example.com/api/v4", false},
		{"http://localhost:8080", false},
		{"", false},
		{"/api/v4", true},
		{"gitlab.example.com", true},
		{"ftp://example.com", true},
		{"://bad", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := New().AbsoluteURL("url", tt.value)
			if v.HasErrors() != tt.wantErr {
				t.Errorf("AbsoluteURL(%q) errors = %v, want %v", tt.value, v.Errors(), tt.wantErr)
			}
		})
	}
}

func TestValidatorRange(t *testing.T) {
	if New().Range("sample_rate", 0.5, 0, 1).HasErrors() {
		t.Error("0.5 should be in [0,1]")
	}
	if !New().Range("sample_rate", 1.5, 0, 1).HasErrors() {
		t.Error("1.5 should be out of [0,1]")
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"json", "console"}
	if New().OneOf("format", "json", allowed).HasErrors() {
		t.Error("json should be allowed")
	}
	if New().OneOf("format", "", allowed).HasErrors() {
		t.Error("empty value is skipped")
	}
	v := New().OneOf("format", "xml", allowed)
	if !v.HasErrors() || !strings.Contains(v.Errors()[0].Message, "json, console") {
		t.Errorf("unexpected errors %v", v.Errors())
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New().Custom(false, "agent", "key and cert must be set together")
	if !v.HasErrors() || v.Errors()[0].Message != "key and cert must be set together" {
		t.Errorf("unexpected errors %v", v.Errors())
	}
}

func TestValidatorValidate(t *testing.T) {
	if err := New().Required("url", "https://x").Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	err := New().Required("url", "").Required("token", "").Validate()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(verr.Fields) != 2 || !verr.Has("url") || !verr.Has("token") {
		t.Errorf("fields = %v", verr.Fields)
	}
	if !strings.Contains(err.Error(), "url: is required; token: is required") {
		t.Errorf("message = %q", err.Error())
	}
}

type target struct {
	URL     string        `json:"url" validate:"required,url"`
	Timeout time.Duration `json:"request_timeout" validate:"gte=0"`
	Format  string        `validate:"omitempty,oneof=json console"`
	Nested  nested        `json:"api"`
}

type nested struct {
	Name string `json:"name" validate:"required"`
}

func TestValidate(t *testing.T) {
	ok := target{URL: "https://gitlab.example.com", Nested: nested{Name: "x"}}
	if err := Validate(ok); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	bad := target{URL: "not a url", Timeout: -time.Second, Format: "xml"}
	err := Validate(bad)
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	for _, field := range []string{"url", "request_timeout", "format", "api.name"} {
		if !verr.Has(field) {
			t.Errorf("expected failure for %q in %v", field, verr.Fields)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("RequestTimeout"); got != "request_timeout" {
		t.Errorf("got %q", got)
	}
}
