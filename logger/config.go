package logger

import (
	"fmt"
	"slices"
)

var (
	levels  = []string{"trace", "debug", "info", "warn", "error", "disabled"}
	formats = []string{FormatJSON, FormatConsole, FormatPretty}
)

// Config selects the level, encoding and destination of log output. Every
// line carries a timestamp.
type Config struct {
	Level   string `yaml:"level" mapstructure:"level"`
	Format  string `yaml:"format" mapstructure:"format"`
	Output  string `yaml:"output" mapstructure:"output"`
	NoColor bool   `yaml:"no_color" mapstructure:"no_color"`
	Caller  bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults logs at info to stderr in console format.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
}

func (c *Config) Validate() error {
	if !slices.Contains(levels, c.Level) {
		return fmt.Errorf("logging.level must be one of %v (got: %s)", levels, c.Level)
	}
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("logging.format must be one of %v (got: %s)", formats, c.Format)
	}
	return nil
}
