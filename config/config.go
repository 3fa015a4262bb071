package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/kbukum/requester/logger"
	"github.com/kbukum/requester/observability"
	"github.com/kbukum/requester/requester"
	"github.com/kbukum/requester/security"
	"github.com/kbukum/requester/validation"
)

// Config is the full requester configuration.
type Config struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
	API         APIConfig     `yaml:"api" mapstructure:"api"`
	Tracing     TracingConfig `yaml:"tracing" mapstructure:"tracing"`
}

// APIConfig describes the target API.
type APIConfig struct {
	URL            string             `yaml:"url" mapstructure:"url"`
	Headers        map[string]string  `yaml:"headers" mapstructure:"headers"`
	RequestTimeout time.Duration      `yaml:"request_timeout" mapstructure:"request_timeout"`
	TLS            security.TLSConfig `yaml:"tls" mapstructure:"tls"`
	// Agent holds the client key pair paths for mutual TLS.
	Agent security.AgentFiles `yaml:"agent" mapstructure:"agent"`
}

// TracingConfig controls OTLP export.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

var environments = []string{"development", "staging", "production"}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "requester"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
	if c.API.RequestTimeout == 0 {
		c.API.RequestTimeout = 30 * time.Second
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "localhost:4318"
	}
	if c.Tracing.Enabled && c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
	if !c.API.Agent.IsSet() {
		c.API.Agent = security.AgentFilesFromEnv()
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Name == "" {
		result = multierror.Append(result, fmt.Errorf("name is required"))
	}
	if !slices.Contains(environments, c.Environment) {
		result = multierror.Append(result, fmt.Errorf("environment must be one of %v (got: %s)", environments, c.Environment))
	}
	if err := c.Logging.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.Service().Validate(); err != nil {
		result = multierror.Append(result, fmt.Errorf("api: %w", err))
	}

	v := validation.New().
		Custom((c.API.Agent.KeyFile == "") == (c.API.Agent.CertFile == ""),
			"api.agent", "key_file and cert_file must be set together")
	if c.Tracing.Enabled {
		v.Required("tracing.endpoint", c.Tracing.Endpoint).
			Range("tracing.sample_rate", c.Tracing.SampleRate, 0, 1)
	}
	if err := v.Validate(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// Service returns the target API as a requester.Service.
func (c *Config) Service() requester.Service {
	return requester.Service{
		URL:            c.API.URL,
		Headers:        c.API.Headers,
		RequestTimeout: c.API.RequestTimeout,
	}
}

// AgentFiles returns the client key pair paths.
func (c *Config) AgentFiles() security.AgentFiles {
	return c.API.Agent
}

// Observability returns the OTLP export settings.
func (c *Config) Observability() observability.Config {
	oc := observability.DefaultConfig(c.Name)
	oc.Environment = c.Environment
	oc.Endpoint = c.Tracing.Endpoint
	oc.Insecure = c.Tracing.Insecure
	oc.SampleRate = c.Tracing.SampleRate
	return oc
}
