// Package adcfile locates, loads, and classifies application default
// credential files. It knows where gcloud keeps its well-known file, how to
// read a candidate document, and which credential type a document declares,
// but it never interprets the credential beyond its type discriminator.
package adcfile

import (
	"fmt"
	"io"
	"os"

	"github.com/cloudmesa/gcpadc/pkg/errors"
)

// Payload holds raw credential bytes together with their origin. The bytes
// are owned by the payload and never mutated after construction.
type Payload struct {
	Data   []byte
	Source Source
}

// Load reads the credential file at path. A file that does not exist or
// cannot be opened is reported as ErrCredentialFileNotFound so callers can
// tell "nothing there" apart from a present-but-broken file, which surfaces
// as ErrCredentialFileUnreadable.
func Load(path string, src Source) (*Payload, error) {
	if path == "" {
		return nil, errors.New(
			errors.ErrCredentialFileNotFound,
			"credentials file path is empty",
		).WithField("source", string(src.Kind))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(
			errors.ErrCredentialFileNotFound,
			err,
			fmt.Sprintf("Cannot open credentials file %s", path),
		).WithField("path", path)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(
			errors.ErrCredentialFileUnreadable,
			err,
			fmt.Sprintf("failed to read credentials file %s", path),
		).WithField("path", path)
	}

	return &Payload{Data: data, Source: src}, nil
}

// LoadInline wraps caller-provided credential bytes in a payload. The bytes
// are copied so the payload does not alias caller memory.
func LoadInline(contents []byte) *Payload {
	data := make([]byte, len(contents))
	copy(data, contents)
	return &Payload{Data: data, Source: InlineSource()}
}
