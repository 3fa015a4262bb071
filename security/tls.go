package security

import (
	"crypto/tls"
	"crypto/x509"
	"os"
)

// TLSConfig holds the server-verification side of the transport's TLS setup.
// Client certificates are supplied per call through Agent.
type TLSConfig struct {
	// SkipVerify disables server certificate verification.
	// Not recommended for production.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// CAFile is the path to a PEM bundle used to verify the server.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// ServerName overrides the server name used for certificate verification.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is the minimum TLS version (e.g., tls.VersionTLS12).
	// Defaults to TLS 1.2 if not set.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`
}

// Build creates a *tls.Config from the configuration.
// Returns nil if nothing is configured.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	cfg := &tls.Config{
		InsecureSkipVerify: c.SkipVerify, // #nosec G402 -- opt-in via config
		ServerName:         c.ServerName,
		MinVersion:         minVersion(c.MinVersion),
	}

	if c.CAFile != "" {
		ca, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, &ConfigurationError{Path: c.CAFile, Err: err}
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(ca) {
			return nil, &ConfigurationError{Path: c.CAFile, Err: errNoCertificates}
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}

// IsEnabled returns true if any TLS setting is configured.
func (c *TLSConfig) IsEnabled() bool {
	if c == nil {
		return false
	}
	return c.SkipVerify || c.CAFile != "" || c.ServerName != "" || c.MinVersion != 0
}

func minVersion(v uint16) uint16 {
	if v == 0 {
		return tls.VersionTLS12
	}
	return v
}
