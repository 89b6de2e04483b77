package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cloudmesa/gcpadc/pkg/errors"
)

// LoadOption is a functional option for loading configuration
type LoadOption func(*loadOptions)

type loadOptions struct {
	configFile string
	fromEnv    bool
}

// WithConfigFile specifies the config file path
func WithConfigFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.configFile = path
	}
}

// WithEnv enables environment variable overrides
func WithEnv() LoadOption {
	return func(o *loadOptions) {
		o.fromEnv = true
	}
}

// Load loads configuration with the given options
func Load(opts ...LoadOption) (*Config, error) {
	options := &loadOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Start with default config
	config := DefaultConfig()

	// Load from file if specified
	if options.configFile != "" {
		fileConfig, err := loadFromFile(options.configFile)
		if err != nil {
			return nil, err
		}
		config.Merge(fileConfig)
	}

	// Override with environment variables if enabled
	if options.fromEnv {
		envConfig := loadFromEnv()
		config.Merge(envConfig)
	}

	// Validate final configuration
	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(
			errors.ErrConfigLoadFailed,
			err,
			"failed to read config file",
		).WithField("path", path)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(
			errors.ErrConfigInvalid,
			err,
			"failed to parse config file",
		).WithField("path", path)
	}

	return &config, nil
}

// loadFromEnv loads configuration from environment variables. Note that
// GOOGLE_APPLICATION_CREDENTIALS is deliberately not read here: the resolver
// owns it, with its own precedence and error semantics.
func loadFromEnv() *Config {
	return &Config{
		Log: LogConfig{
			Level:  getEnv("GCPADC_LOG_LEVEL", ""),
			Format: getEnv("GCPADC_LOG_FORMAT", ""),
		},
		Credentials: CredentialsConfig{
			File:    getEnv("GCPADC_CREDENTIALS_FILE", ""),
			Scopes:  getSliceEnv("GCPADC_SCOPES"),
			Subject: getEnv("GCPADC_SUBJECT", ""),
		},
		Probe: ProbeConfig{
			Timeout:  getDurationEnv("GCPADC_PROBE_TIMEOUT_MS", 0),
			Disabled: getBoolEnv("GCPADC_PROBE_DISABLED", false),
		},
		Tracing: TracingConfig{
			Enabled:       getBoolEnv("GCPADC_TRACING_ENABLED", false),
			Endpoint:      getEnv("GCPADC_TRACING_ENDPOINT", ""),
			Insecure:      getBoolEnv("GCPADC_TRACING_INSECURE", false),
			SamplingRatio: getFloatEnv("GCPADC_TRACING_SAMPLING_RATIO", 0),
		},
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable with a default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getFloatEnv gets a float environment variable with a default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable with a default value
// Expects value in milliseconds
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if millis, err := strconv.Atoi(value); err == nil {
			return time.Duration(millis) * time.Millisecond
		}
	}
	return defaultValue
}

// getSliceEnv gets a comma-separated environment variable as a slice
func getSliceEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// FromFlags builds a sparse config from command-line flag values, meant to
// be merged over a loaded configuration. Zero values mark flags the user did
// not set and leave the loaded values in place.
func FromFlags(
	credentialsFile string,
	scopes []string,
	subject string,
	logLevel string,
	logFormat string,
) *Config {
	return &Config{
		Log: LogConfig{
			Level:  logLevel,
			Format: logFormat,
		},
		Credentials: CredentialsConfig{
			File:    credentialsFile,
			Scopes:  scopes,
			Subject: subject,
		},
	}
}
