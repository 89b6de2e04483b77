package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmesa/gcpadc/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.NotNil(t, config)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 500*time.Millisecond, config.Probe.Timeout)
	assert.False(t, config.Probe.Disabled)
	assert.False(t, config.Tracing.Enabled)
	assert.Equal(t, 1.0, config.Tracing.SamplingRatio)
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Log: LogConfig{
			Level: "debug",
		},
		Credentials: CredentialsConfig{
			File:    "/etc/gcpadc/sa.json",
			Scopes:  []string{"https://www.googleapis.com/auth/cloud-platform"},
			Subject: "user@foo.bar",
		},
		Probe: ProbeConfig{
			Timeout: time.Second,
		},
	}

	base.Merge(override)

	assert.Equal(t, "debug", base.Log.Level)
	assert.Equal(t, "json", base.Log.Format)
	assert.Equal(t, "/etc/gcpadc/sa.json", base.Credentials.File)
	assert.Equal(t, []string{"https://www.googleapis.com/auth/cloud-platform"}, base.Credentials.Scopes)
	assert.Equal(t, "user@foo.bar", base.Credentials.Subject)
	assert.Equal(t, time.Second, base.Probe.Timeout)
}

func TestLoadFromFile(t *testing.T) {
	contents := `
log:
  level: debug
  format: console
credentials:
  file: /etc/gcpadc/sa.json
  scopes:
    - https://www.googleapis.com/auth/devstorage.full_control
  subject: user@foo.bar
probe:
  disabled: true
tracing:
  enabled: true
  endpoint: collector:4317
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	config, err := Load(WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "console", config.Log.Format)
	assert.Equal(t, "/etc/gcpadc/sa.json", config.Credentials.File)
	assert.Equal(t, "user@foo.bar", config.Credentials.Subject)
	assert.True(t, config.Probe.Disabled)
	assert.True(t, config.Tracing.Enabled)
	assert.Equal(t, "collector:4317", config.Tracing.Endpoint)
	// Defaults survive where the file is silent.
	assert.Equal(t, 500*time.Millisecond, config.Probe.Timeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigLoadFailed))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [not: a: mapping"), 0o600))

	_, err := Load(WithConfigFile(path))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigInvalid))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GCPADC_LOG_LEVEL", "warn")
	t.Setenv("GCPADC_SCOPES", "scope-a, scope-b,,scope-c")
	t.Setenv("GCPADC_PROBE_TIMEOUT_MS", "250")
	t.Setenv("GCPADC_PROBE_DISABLED", "true")

	config, err := Load(WithEnv())
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, []string{"scope-a", "scope-b", "scope-c"}, config.Credentials.Scopes)
	assert.Equal(t, 250*time.Millisecond, config.Probe.Timeout)
	assert.True(t, config.Probe.Disabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "sampling ratio above one",
			mutate:  func(c *Config) { c.Tracing.SamplingRatio = 1.5 },
			wantErr: true,
		},
		{
			name:    "empty scope entry",
			mutate:  func(c *Config) { c.Credentials.Scopes = []string{"scope-a", ""} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := Validate(config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateNil(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigInvalid))
}

func TestFromFlags(t *testing.T) {
	config := FromFlags("/tmp/sa.json", []string{"scope-a"}, "user@foo.bar", "debug", "console")

	assert.Equal(t, "/tmp/sa.json", config.Credentials.File)
	assert.Equal(t, []string{"scope-a"}, config.Credentials.Scopes)
	assert.Equal(t, "user@foo.bar", config.Credentials.Subject)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "console", config.Log.Format)
}

func TestFromFlagsMergeKeepsUnsetValues(t *testing.T) {
	config := DefaultConfig()
	config.Log.Level = "debug"
	config.Credentials.Subject = "admin@foo.bar"

	config.Merge(FromFlags("", nil, "", "", "console"))

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "console", config.Log.Format)
	assert.Equal(t, "admin@foo.bar", config.Credentials.Subject)
}
