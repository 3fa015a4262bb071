package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/requester/logger"
)

// EnvPrefix marks environment variables that override configuration keys.
const EnvPrefix = "REQUESTER_"

// FileSystem abstracts the file operations used by the loader.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds config and env files.
type Resolver struct {
	FileSystem FileSystem
	// UserConfigDir is searched last for <name>/config.yml. Empty skips it.
	UserConfigDir string
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths from opts, searching for the
// ones that were not given.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.first(cr.configCandidates(serviceName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.first(envCandidates(serviceName))
	}
	return resolved
}

func (cr *Resolver) configCandidates(serviceName string) []string {
	paths := []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"./config.yml",
	}
	if cr.UserConfigDir != "" {
		paths = append(paths, filepath.Join(cr.UserConfigDir, serviceName, "config.yml"))
	}
	return paths
}

func envCandidates(serviceName string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/.env", serviceName),
		fmt.Sprintf("./.env.%s", serviceName),
		"./.env",
	}
}

func (cr *Resolver) first(paths []string) string {
	for _, path := range paths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path. A missing explicit
// file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// LoadConfig loads configuration for serviceName into cfg.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	if lc.ConfigFile != "" && !lc.FileSystem.Exists(lc.ConfigFile) {
		return fmt.Errorf("config file %s not found", lc.ConfigFile)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	if dir, err := os.UserConfigDir(); err == nil {
		resolver.UserConfigDir = dir
	}
	files := resolver.ResolveFiles(serviceName, lc)

	return loadFromResolvedFiles(serviceName, cfg, files, lc.FileSystem)
}

func loadFromResolvedFiles(serviceName string, cfg interface{}, files ResolvedFiles, fs FileSystem) error {
	v := viper.New()

	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", files.ConfigFile, err)
		}
	}

	// .env values never override variables already set in the process.
	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("failed to load .env file", logger.Fields("path", files.EnvFile, logger.FieldError, err.Error()))
		}
	}

	bindEnv(v)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for %s: %w", serviceName, err)
	}
	return nil
}

// bindEnv maps REQUESTER_* variables onto configuration keys.
func bindEnv(v *viper.Viper) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		for _, variant := range generateEnvKeyVariants(strings.TrimPrefix(key, EnvPrefix)) {
			if v.IsSet(variant) || isKnownLeaf(variant) {
				v.Set(variant, value)
			}
		}
	}
}

// knownLeaves are the keys an environment variable may set even when the
// config file does not mention them.
var knownLeaves = map[string]bool{
	"name":                true,
	"environment":         true,
	"debug":               true,
	"logging.level":       true,
	"logging.format":      true,
	"logging.output":      true,
	"logging.no_color":    true,
	"api.url":             true,
	"api.request_timeout": true,
	"api.tls.skip_verify": true,
	"api.tls.ca_file":     true,
	"api.tls.server_name": true,
	"api.agent.key_file":  true,
	"api.agent.cert_file": true,
	"tracing.enabled":     true,
	"tracing.endpoint":    true,
	"tracing.insecure":    true,
	"tracing.sample_rate": true,
}

func isKnownLeaf(key string) bool {
	if name, ok := strings.CutPrefix(key, "api.headers."); ok {
		return name != "" && !strings.Contains(name, ".")
	}
	return knownLeaves[key]
}

// generateEnvKeyVariants lists the nested keys an upper-case variable name
// may refer to.
//
//	API_TLS_CA_FILE -> [api_tls_ca_file, api.tls.ca.file, api.tls_ca_file, api.tls.ca_file, ...]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}
	// Every split of the parts into a dotted prefix and an underscored suffix,
	// plus every dotted prefix with an underscored two-part tail.
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	for i := 1; i+2 <= len(parts); i++ {
		head := strings.Join(parts[:i], ".")
		for j := i + 1; j < len(parts); j++ {
			variants = append(variants, head+"."+strings.Join(parts[i:j], "_")+"."+strings.Join(parts[j:], "_"))
		}
	}
	return removeDuplicates(variants)
}

func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
