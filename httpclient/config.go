package httpclient

import (
	"github.com/kbukum/requester/security"
	"github.com/kbukum/requester/version"
)

// Config configures the transport.
type Config struct {
	// Headers are applied to every request before per-request headers.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// UserAgent is sent when a request does not set its own.
	// Defaults to "requester/<version>".
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// TLS configures server verification for the pooled transport.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
}
