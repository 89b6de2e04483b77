package adcfile

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudmesa/gcpadc/internal/envprobe"
)

func TestWellKnownPath(t *testing.T) {
	t.Run("override wins over home", func(t *testing.T) {
		env := envprobe.Static(map[string]string{
			PathOverrideEnvVar: "/opt/override/adc.json",
			HomeEnvVar():       "/home/user",
		})

		assert.Equal(t, "/opt/override/adc.json", WellKnownPath(env))
	})

	t.Run("override set to empty disables the well-known file", func(t *testing.T) {
		env := envprobe.Static(map[string]string{
			PathOverrideEnvVar: "",
			HomeEnvVar():       "/home/user",
		})

		assert.Equal(t, "", WellKnownPath(env))
	})

	t.Run("computed from home directory", func(t *testing.T) {
		env := envprobe.Static(map[string]string{
			HomeEnvVar(): "/home/user",
		})

		want := filepath.Join("/home/user", ".config", "gcloud", "application_default_credentials.json")
		if runtime.GOOS == "windows" {
			want = filepath.Join("/home/user", "gcloud", "application_default_credentials.json")
		}
		assert.Equal(t, want, WellKnownPath(env))
	})

	t.Run("home unset yields no path", func(t *testing.T) {
		env := envprobe.Static(map[string]string{})

		assert.Equal(t, "", WellKnownPath(env))
	})

	t.Run("home empty yields no path", func(t *testing.T) {
		env := envprobe.Static(map[string]string{
			HomeEnvVar(): "",
		})

		assert.Equal(t, "", WellKnownPath(env))
	})
}

func TestHomeEnvVar(t *testing.T) {
	if runtime.GOOS == "windows" {
		assert.Equal(t, "APPDATA", HomeEnvVar())
		return
	}
	assert.Equal(t, "HOME", HomeEnvVar())
}
