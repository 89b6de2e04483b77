package adcfile

import "fmt"

// SourceKind identifies the mechanism that produced a credential payload.
type SourceKind string

const (
	// SourceEnvVar means the path came from GOOGLE_APPLICATION_CREDENTIALS.
	SourceEnvVar SourceKind = "env_var"

	// SourceWellKnownFile means the payload came from the gcloud
	// application default credentials file.
	SourceWellKnownFile SourceKind = "well_known_file"

	// SourceExplicitPath means the caller named the file directly.
	SourceExplicitPath SourceKind = "explicit_path"

	// SourceInline means the payload was handed over as raw bytes.
	SourceInline SourceKind = "inline"
)

// Source records where a credential payload came from. It exists so error
// messages can point at the offending file; it never influences how a
// payload is parsed or dispatched.
type Source struct {
	Kind SourceKind
	Path string
}

// EnvVarSource tags a payload loaded via the ADC environment variable.
func EnvVarSource(path string) Source {
	return Source{Kind: SourceEnvVar, Path: path}
}

// WellKnownSource tags a payload loaded from the gcloud well-known file.
func WellKnownSource(path string) Source {
	return Source{Kind: SourceWellKnownFile, Path: path}
}

// ExplicitSource tags a payload loaded from a caller-provided path.
func ExplicitSource(path string) Source {
	return Source{Kind: SourceExplicitPath, Path: path}
}

// InlineSource tags a payload provided as raw bytes.
func InlineSource() Source {
	return Source{Kind: SourceInline}
}

// Description renders the source for use in error messages.
func (s Source) Description() string {
	if s.Kind == SourceInline {
		return "inline credentials contents"
	}
	return fmt.Sprintf("credentials file %s", s.Path)
}
