package adcfile

import (
	"path/filepath"
	"runtime"

	"github.com/cloudmesa/gcpadc/internal/envprobe"
)

// Environment variables consulted during discovery.
const (
	// CredentialsEnvVar names an explicit ADC file and takes priority over
	// every other discovery mechanism.
	CredentialsEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"

	// PathOverrideEnvVar replaces the computed gcloud well-known path
	// verbatim. Setting it to an empty string deliberately disables the
	// well-known file step.
	PathOverrideEnvVar = "GOOGLE_GCLOUD_ADC_PATH_OVERRIDE"
)

const wellKnownFilename = "application_default_credentials.json"

// HomeEnvVar returns the variable naming the user's home directory on the
// current platform. gcloud keys its config directory off APPDATA on
// Windows and HOME everywhere else.
func HomeEnvVar() string {
	if runtime.GOOS == "windows" {
		return "APPDATA"
	}
	return "HOME"
}

// WellKnownPath returns the location of the gcloud application default
// credentials file. PathOverrideEnvVar wins when set, even when empty. An
// empty result means there is no well-known file to consult.
func WellKnownPath(env envprobe.Lookup) string {
	if override, ok := env(PathOverrideEnvVar); ok {
		return override
	}
	home, ok := env(HomeEnvVar())
	if !ok || home == "" {
		return ""
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "gcloud", wellKnownFilename)
	}
	return filepath.Join(home, ".config", "gcloud", wellKnownFilename)
}
