package execplugin

import (
	"encoding/json"
	"io"

	"golang.org/x/oauth2"

	"github.com/cloudmesa/gcpadc/pkg/errors"
)

// OutputWriter emits exec credential documents for resolved tokens.
type OutputWriter struct {
	writer io.Writer
}

// NewOutputWriter returns a writer that renders tokens to w.
func NewOutputWriter(w io.Writer) *OutputWriter {
	return &OutputWriter{writer: w}
}

// WriteToken writes the token as an indented ExecCredential document
// followed by a newline.
func (w *OutputWriter) WriteToken(token *oauth2.Token) error {
	data, err := marshalToken(token)
	if err != nil {
		return err
	}

	if _, err := w.writer.Write(data); err != nil {
		return errors.Wrap(
			errors.ErrExecOutputFailed,
			err,
			"failed to write exec credential output",
		)
	}
	if _, err := w.writer.Write([]byte("\n")); err != nil {
		return errors.Wrap(
			errors.ErrExecOutputFailed,
			err,
			"failed to write trailing newline",
		)
	}
	return nil
}

func marshalToken(token *oauth2.Token) ([]byte, error) {
	if token == nil {
		return nil, errors.New(
			errors.ErrInvalidArgument,
			"token is nil",
		)
	}

	cred := NewExecCredential(token.AccessToken, token.Expiry)
	if err := cred.Validate(); err != nil {
		return nil, errors.Wrap(
			errors.ErrExecOutputInvalid,
			err,
			"exec credential failed validation",
		)
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return nil, errors.Wrap(
			errors.ErrExecOutputFailed,
			err,
			"failed to marshal exec credential",
		)
	}
	return data, nil
}
