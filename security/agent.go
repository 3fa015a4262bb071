package security

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
)

// Environment variables holding the client key and certificate paths.
const (
	EnvKeyFile  = "GITLAB_SSL_KEY"
	EnvCertFile = "GITLAB_SSL_CERT"
)

var (
	errNoCertificates = errors.New("no PEM certificates found")
	errHalfPair       = errors.New("client key and certificate must both be provided")
)

// ConfigurationError reports unusable local TLS material. It is raised
// before any network I/O and is never worth retrying.
type ConfigurationError struct {
	// Path is the offending file. Empty when the problem spans both files.
	Path string
	// Err is the underlying I/O or parse error.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("security: invalid client certificate: %v", e.Err)
	}
	return fmt.Sprintf("security: error while reading file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// AgentFiles names the client key and certificate files for mutual TLS.
type AgentFiles struct {
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
}

// AgentFilesFromEnv reads the key and certificate paths from
// GITLAB_SSL_KEY and GITLAB_SSL_CERT.
func AgentFilesFromEnv() AgentFiles {
	return AgentFiles{
		KeyFile:  os.Getenv(EnvKeyFile),
		CertFile: os.Getenv(EnvCertFile),
	}
}

// IsSet reports whether either path is configured.
func (f AgentFiles) IsSet() bool {
	return f.KeyFile != "" || f.CertFile != ""
}

// Agent is the raw PEM material presented to the server for mutual TLS.
type Agent struct {
	Key  []byte
	Cert []byte
}

// BuildAgent reads the configured files. It returns nil when neither path is
// set; otherwise every configured path is read once, synchronously.
func BuildAgent(files AgentFiles) (*Agent, error) {
	if !files.IsSet() {
		return nil, nil
	}
	key, err := readFile(files.KeyFile)
	if err != nil {
		return nil, err
	}
	cert, err := readFile(files.CertFile)
	if err != nil {
		return nil, err
	}
	return &Agent{Key: key, Cert: cert}, nil
}

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	return data, nil
}

// ClientTLS returns a copy of base with the agent's key pair attached.
// A nil base starts from an empty config with a TLS 1.2 minimum.
func (a *Agent) ClientTLS(base *tls.Config) (*tls.Config, error) {
	var cfg *tls.Config
	if base != nil {
		cfg = base.Clone()
	} else {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if a == nil {
		return cfg, nil
	}
	if len(a.Key) == 0 || len(a.Cert) == 0 {
		return nil, &ConfigurationError{Err: errHalfPair}
	}
	pair, err := tls.X509KeyPair(a.Cert, a.Key)
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	cfg.Certificates = []tls.Certificate{pair}
	return cfg, nil
}
