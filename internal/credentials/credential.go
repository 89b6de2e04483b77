// Package credentials implements Application Default Credentials discovery
// for Google Cloud: the GOOGLE_APPLICATION_CREDENTIALS override, the gcloud
// well-known file, and the Compute Engine metadata fallback, plus direct
// constructors for each supported credential type.
package credentials

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/cloudmesa/gcpadc/internal/adcfile"
	"github.com/cloudmesa/gcpadc/pkg/errors"
)

// Kind identifies a supported credential type.
type Kind string

const (
	// KindAuthorizedUser is an end-user refresh token credential as minted
	// by gcloud auth application-default login.
	KindAuthorizedUser Kind = "authorized_user"

	// KindServiceAccount is a service account private key credential.
	KindServiceAccount Kind = "service_account"

	// KindComputeEngine is a credential served by the Compute Engine
	// metadata server.
	KindComputeEngine Kind = "compute_engine"

	// KindAnonymous is the explicit no-authentication credential.
	KindAnonymous Kind = "anonymous"
)

// IsValid reports whether k names a supported credential kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindAuthorizedUser, KindServiceAccount, KindComputeEngine, KindAnonymous:
		return true
	}
	return false
}

// Credential is a resolved Google Cloud credential of a known kind.
type Credential interface {
	// Kind returns the credential type.
	Kind() Kind

	// TokenSource returns an OAuth2 token source backed by this credential.
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)

	// AuthorizationHeader fetches an access token and renders it as an
	// Authorization header value such as "Bearer ya29....".
	AuthorizationHeader(ctx context.Context) (string, error)
}

// DefaultScopes returns the scopes requested when a credential has none
// configured.
func DefaultScopes() []string {
	return []string{"https://www.googleapis.com/auth/cloud-platform"}
}

// FromFile loads a credential from an explicitly named file, bypassing the
// discovery chain. The file is classified by its type field the same way
// discovered files are.
func FromFile(path string, opts ...Option) (Credential, error) {
	payload, err := adcfile.Load(path, adcfile.ExplicitSource(path))
	if err != nil {
		return nil, err
	}
	doc, err := adcfile.Classify(payload)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, opts)
}

// fromDocument dispatches a classified document to the constructor for its
// credential type.
func fromDocument(doc *adcfile.Document, opts []Option) (Credential, error) {
	switch doc.Kind() {
	case adcfile.KindAuthorizedUser:
		return NewAuthorizedUserFromDocument(doc)
	case adcfile.KindServiceAccount:
		return NewServiceAccountFromDocument(doc, opts...)
	default:
		return nil, unsupportedTypeError(doc)
	}
}

// authorizationHeader fetches a token from ts and renders it as an
// Authorization header value.
func authorizationHeader(kind Kind, ts oauth2.TokenSource) (string, error) {
	token, err := ts.Token()
	if err != nil {
		return "", errors.Wrap(
			errors.ErrTokenFetchFailed,
			err,
			"failed to fetch access token",
		).WithField("credential_type", string(kind))
	}
	return token.Type() + " " + token.AccessToken, nil
}

// unsupportedTypeError is the terminal error for a credentials document
// whose type field names no supported credential kind.
func unsupportedTypeError(doc *adcfile.Document) *errors.Error {
	return errors.New(
		errors.ErrCredentialTypeUnsupported,
		fmt.Sprintf("Unsupported credential type (%s) when reading %s",
			doc.CredentialType(), doc.Source().Description()),
	).WithField("credential_type", doc.CredentialType())
}

// missingFieldError reports a structurally valid credentials document that
// lacks a field its credential type requires.
func missingFieldError(kind Kind, field string, src adcfile.Source) *errors.Error {
	return errors.New(
		errors.ErrCredentialMissingField,
		fmt.Sprintf("%s credentials missing required field %q in %s",
			kind, field, src.Description()),
	).WithField("field", field)
}

// requiredField extracts a field the credential type cannot do without.
func requiredField(doc *adcfile.Document, kind Kind, name string) (string, error) {
	value, ok := doc.Field(name)
	if !ok || value == "" {
		return "", missingFieldError(kind, name, doc.Source())
	}
	return value, nil
}
