package rdbcfg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds rdbdump's runtime configuration.
type Config struct {
	Input  InputConfig  `json:"input" yaml:"input"`
	Output OutputConfig `json:"output" yaml:"output"`
	Log    LogConfig    `json:"log" yaml:"log"`
	Verify VerifyConfig `json:"verify" yaml:"verify"`
	Stats  StatsConfig  `json:"stats" yaml:"stats"`

	path string
}

type InputConfig struct {
	// Path is the snapshot file to decode. "-" means stdin.
	Path string `json:"path" yaml:"path"`
}

type OutputConfig struct {
	// Format is one of "text" or "json".
	Format string `json:"format" yaml:"format"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
	Dir   string `json:"dir" yaml:"dir"`
}

// VerifyConfig is read by the "verify" subcommand, which requires Addr and
// compares decoded entries against live values read back from this
// Redis-protocol endpoint. Other subcommands ignore it.
type VerifyConfig struct {
	Addr         string  `json:"addr" yaml:"addr"`
	Password     string  `json:"password" yaml:"password"`
	SampleRate   float64 `json:"sampleRate" yaml:"sampleRate"`
	MaxOpsPerSec int     `json:"maxOpsPerSec" yaml:"maxOpsPerSec"`
}

// StatsConfig is read by the "serve-stats" subcommand: Addr is the listen
// address of its stats HTTP server (an ephemeral port when empty). Other
// subcommands start no stats server.
type StatsConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// ValidationError collects configuration issues.
type ValidationError struct {
	Path   string
	Errors []string
}

func (e *ValidationError) Error() string {
	b := strings.Builder{}
	b.WriteString("invalid configuration")
	if e.Path != "" {
		b.WriteString(" (")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	for _, err := range e.Errors {
		b.WriteString("\n - ")
		b.WriteString(err)
	}
	return b.String()
}

// Load reads and validates the JSON configuration file at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", absPath, err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", absPath, err)
	}

	cfg.path = absPath
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills in unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Input.Path == "" {
		c.Input.Path = "-"
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	} else {
		c.Output.Format = strings.ToLower(c.Output.Format)
	}
	if c.Log.Level == "" {
		c.Log.Level = "INFO"
	} else {
		c.Log.Level = strings.ToUpper(c.Log.Level)
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
	if c.Verify.Addr != "" {
		if c.Verify.SampleRate <= 0 {
			c.Verify.SampleRate = 1.0
		}
		if c.Verify.MaxOpsPerSec <= 0 {
			c.Verify.MaxOpsPerSec = 500
		}
	}
}

// Validate ensures the config is internally consistent.
func (c *Config) Validate() error {
	var errs []string

	if c.Output.Format != "text" && c.Output.Format != "json" {
		errs = append(errs, "output.format must be \"text\" or \"json\"")
	}
	switch c.Log.Level {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, "log.level must be one of DEBUG, INFO, WARN, ERROR")
	}
	if c.Verify.Addr != "" {
		if c.Verify.SampleRate <= 0 || c.Verify.SampleRate > 1 {
			errs = append(errs, "verify.sampleRate must be in (0, 1]")
		}
		if c.Verify.MaxOpsPerSec <= 0 {
			errs = append(errs, "verify.maxOpsPerSec must be > 0")
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Path: c.path, Errors: errs}
	}
	return nil
}

// ResolvePath returns an absolute path, resolving relative paths against
// the config file's directory.
func (c *Config) ResolvePath(path string) string {
	if path == "" || path == "-" {
		return path
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(c.path), path))
}

// ConfigDir returns the directory the config file was loaded from.
func (c *Config) ConfigDir() string {
	return filepath.Dir(c.path)
}

// Summary returns a one-line overview of the configuration.
func (c *Config) Summary() string {
	verify := "disabled"
	if c.Verify.Addr != "" {
		verify = fmt.Sprintf("%s (sampleRate=%.3f maxOpsPerSec=%d)", c.Verify.Addr, c.Verify.SampleRate, c.Verify.MaxOpsPerSec)
	}
	stats := "disabled"
	if c.Stats.Addr != "" {
		stats = c.Stats.Addr
	}
	return fmt.Sprintf("input=%s output=%s log(level=%s dir=%s) verify=%s stats=%s",
		c.Input.Path, c.Output.Format, c.Log.Level, c.Log.Dir, verify, stats)
}
