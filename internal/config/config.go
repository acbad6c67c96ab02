package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/reactor/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "reactor.json"

	// DefaultAddr is the default dev server listen address.
	DefaultAddr = ":3000"

	// DefaultMaxPasses bounds the scheduler passes in one flush.
	DefaultMaxPasses = 100

	// DefaultNamespace prefixes every exported metric.
	DefaultNamespace = "reactor"

	// DefaultExportDir is where static exports are written.
	DefaultExportDir = "dist"
)

// Config represents reactor.json.
type Config struct {
	// Addr is the dev server listen address.
	Addr string `json:"addr,omitempty"`

	// DevMode enables verbose diagnostics.
	DevMode bool `json:"dev_mode,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// LogFormat is text or json.
	LogFormat string `json:"log_format,omitempty"`

	Scheduler SchedulerConfig `json:"scheduler"`
	Metrics   MetricsConfig   `json:"metrics"`
	Tracing   TracingConfig   `json:"tracing"`
	Export    ExportConfig    `json:"export"`

	configPath string
}

// SchedulerConfig tunes the job queue.
type SchedulerConfig struct {
	// MaxPasses caps re-entrant flush passes.
	MaxPasses int `json:"max_passes,omitempty"`
}

// MetricsConfig controls the Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig controls OpenTelemetry spans.
type TracingConfig struct {
	Enabled bool `json:"enabled"`
}

// ExportConfig selects the static export destination. When Bucket is
// set the export goes to S3, otherwise to Dir.
type ExportConfig struct {
	Dir      string `json:"dir,omitempty"`
	Bucket   string `json:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Addr:      DefaultAddr,
		LogLevel:  "info",
		LogFormat: "text",
		Scheduler: SchedulerConfig{MaxPasses: DefaultMaxPasses},
		Metrics:   MetricsConfig{Enabled: true, Namespace: DefaultNamespace},
		Export:    ExportConfig{Dir: DefaultExportDir},
	}
}

// Load reads reactor.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. Missing
// fields keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C121").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without --config")
		}
		return nil, errors.New("C120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("C120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields New().
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.Code(err) == "C121" {
		return New(), nil
	}
	return cfg, err
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("C120").Wrap(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("C120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.Scheduler.MaxPasses == 0 {
		c.Scheduler.MaxPasses = DefaultMaxPasses
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Export.Dir == "" && c.Export.Bucket == "" {
		c.Export.Dir = DefaultExportDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("C122").
			WithDetail(fmt.Sprintf("log_level %q must be debug, info, warn or error", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.New("C122").
			WithDetail(fmt.Sprintf("log_format %q must be text or json", c.LogFormat))
	}
	if c.Scheduler.MaxPasses < 1 {
		return errors.New("C122").
			WithDetail("scheduler.max_passes must be at least 1")
	}
	if c.Export.Bucket == "" && c.Export.Dir == "" {
		return errors.New("C122").
			WithDetail("export needs a dir or a bucket")
	}
	if c.Export.Bucket != "" && c.Export.Region == "" {
		return errors.New("C122").
			WithDetail("export.region is required with export.bucket")
	}
	return nil
}

// UseS3 reports whether exports go to a bucket.
func (c *Config) UseS3() bool {
	return c.Export.Bucket != ""
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
