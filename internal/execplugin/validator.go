package execplugin

import (
	"time"

	"github.com/cloudmesa/gcpadc/pkg/errors"
)

// Validator checks ExecCredential documents against the rules a client-go
// consumer applies when reading plugin output.
type Validator struct{}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateExecCredential verifies the document shape, the API group and
// version, and that any declared expiry is still in the future.
func (v *Validator) ValidateExecCredential(cred *ExecCredential) error {
	if cred == nil {
		return errors.New(
			errors.ErrExecOutputInvalid,
			"exec credential is nil",
		)
	}

	if cred.TypeMeta.APIVersion != execAPIVersion &&
		cred.TypeMeta.APIVersion != execAPIVersionBeta {
		return errors.New(
			errors.ErrExecOutputInvalid,
			"unexpected API version",
		).WithField("api_version", cred.TypeMeta.APIVersion).
			WithDetail("expected " + execAPIVersion)
	}

	if cred.TypeMeta.Kind != execKind {
		return errors.New(
			errors.ErrExecOutputInvalid,
			"unexpected kind",
		).WithField("kind", cred.TypeMeta.Kind).
			WithDetail("expected " + execKind)
	}

	if cred.Status == nil {
		return errors.New(
			errors.ErrExecOutputInvalid,
			"status is required",
		)
	}

	if cred.Status.Token == "" {
		return errors.New(
			errors.ErrExecOutputInvalid,
			"token is required",
		)
	}

	if cred.Status.ExpirationTimestamp != nil {
		expiresAt := cred.Status.ExpirationTimestamp.Time
		if expiresAt.Before(time.Now()) {
			return errors.New(
				errors.ErrTokenExpired,
				"token has already expired",
			).WithField("expires_at", expiresAt)
		}
	}

	return nil
}
