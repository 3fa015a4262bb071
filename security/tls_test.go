package security

import (
	"crypto/tls"
	"errors"
	"testing"

	"github.com/kbukum/requester/security/tlstest"
)

func TestTLSConfig_Build_NilConfig(t *testing.T) {
	var cfg *TLSConfig
	result, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatal("expected nil for nil config")
	}
}

func TestTLSConfig_Build_ZeroValue(t *testing.T) {
	result, err := (&TLSConfig{}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatal("expected nil for zero-value config")
	}
}

func TestTLSConfig_Build_SkipVerify(t *testing.T) {
	result, err := (&TLSConfig{SkipVerify: true, ServerName: "example.com"}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify=true")
	}
	if result.ServerName != "example.com" {
		t.Errorf("expected ServerName=example.com, got %s", result.ServerName)
	}
	if result.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected MinVersion=TLS12, got %d", result.MinVersion)
	}
}

func TestTLSConfig_Build_CustomMinVersion(t *testing.T) {
	result, err := (&TLSConfig{MinVersion: tls.VersionTLS13}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MinVersion != tls.VersionTLS13 {
		t.Errorf("expected MinVersion=TLS13, got %d", result.MinVersion)
	}
}

func TestTLSConfig_Build_ValidCA(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	result, err := (&TLSConfig{CAFile: certs.CAFile}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RootCAs == nil {
		t.Error("expected RootCAs to be set")
	}
}

func TestTLSConfig_Build_MissingCA(t *testing.T) {
	_, err := (&TLSConfig{CAFile: "/nonexistent/ca.pem"}).Build()
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Path != "/nonexistent/ca.pem" {
		t.Errorf("expected path in error, got %q", cfgErr.Path)
	}
}

func TestTLSConfig_Build_InvalidCAContent(t *testing.T) {
	caFile := tlstest.WriteInvalidPEM(t, "bad-ca.pem")
	if _, err := (&TLSConfig{CAFile: caFile}).Build(); err == nil {
		t.Fatal("expected error for invalid CA content")
	}
}

func TestTLSConfig_IsEnabled(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TLSConfig
		enabled bool
	}{
		{"nil", nil, false},
		{"zero", &TLSConfig{}, false},
		{"skip_verify", &TLSConfig{SkipVerify: true}, true},
		{"ca_file", &TLSConfig{CAFile: "ca.pem"}, true},
		{"server_name", &TLSConfig{ServerName: "example.com"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsEnabled(); got != tt.enabled {
				t.Errorf("IsEnabled() = %v, want %v", got, tt.enabled)
			}
		})
	}
}
