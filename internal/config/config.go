package config

import (
	"time"
)

// Config represents the complete CLI configuration
type Config struct {
	// Log configuration
	Log LogConfig `yaml:"log" validate:"required"`

	// Credential discovery configuration
	Credentials CredentialsConfig `yaml:"credentials"`

	// Metadata probe configuration
	Probe ProbeConfig `yaml:"probe"`

	// Tracing configuration
	Tracing TracingConfig `yaml:"tracing"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `yaml:"level" validate:"required,oneof=debug info warn error"`

	// Format is the log format (json, console)
	Format string `yaml:"format" validate:"required,oneof=json console"`
}

// CredentialsConfig holds credential discovery configuration
type CredentialsConfig struct {
	// File is an explicit credentials file path. When set, discovery is
	// skipped and the file is loaded directly.
	File string `yaml:"file"`

	// Scopes are the OAuth2 scopes requested for tokens
	Scopes []string `yaml:"scopes"`

	// Subject is the user to impersonate through domain-wide delegation
	Subject string `yaml:"subject"`
}

// ProbeConfig holds Compute Engine metadata probe configuration
type ProbeConfig struct {
	// Timeout bounds the metadata server probe
	Timeout time.Duration `yaml:"timeout" validate:"min=0"`

	// Disabled skips the metadata probe; discovery then never falls back
	// to Compute Engine credentials
	Disabled bool `yaml:"disabled"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	// Enabled determines if span export is enabled
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP collector endpoint
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the collector connection
	Insecure bool `yaml:"insecure"`

	// SamplingRatio is the trace sampling ratio (0.0 to 1.0)
	SamplingRatio float64 `yaml:"sampling_ratio" validate:"min=0,max=1"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Probe: ProbeConfig{
			Timeout: 500 * time.Millisecond,
		},
		Tracing: TracingConfig{
			Enabled:       false,
			Endpoint:      "localhost:4317",
			Insecure:      true,
			SamplingRatio: 1.0,
		},
	}
}

// Merge merges the given config into this config
// Non-zero values from other take precedence
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Merge log config
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}

	// Merge credentials config
	if other.Credentials.File != "" {
		c.Credentials.File = other.Credentials.File
	}
	if len(other.Credentials.Scopes) > 0 {
		c.Credentials.Scopes = other.Credentials.Scopes
	}
	if other.Credentials.Subject != "" {
		c.Credentials.Subject = other.Credentials.Subject
	}

	// Merge probe config
	if other.Probe.Timeout > 0 {
		c.Probe.Timeout = other.Probe.Timeout
	}
	if other.Probe.Disabled {
		c.Probe.Disabled = true
	}

	// Merge tracing config
	if other.Tracing.Enabled {
		c.Tracing.Enabled = true
	}
	if other.Tracing.Endpoint != "" {
		c.Tracing.Endpoint = other.Tracing.Endpoint
	}
	if other.Tracing.Insecure {
		c.Tracing.Insecure = true
	}
	if other.Tracing.SamplingRatio > 0 {
		c.Tracing.SamplingRatio = other.Tracing.SamplingRatio
	}
}
