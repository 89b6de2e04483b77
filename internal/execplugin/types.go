// Package execplugin renders resolved tokens in the Kubernetes client-go
// exec credential plugin format. kubectl and other client-go consumers
// invoke the binary and read a single ExecCredential JSON document from
// its stdout.
package execplugin

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// execAPIVersion is the stable exec credential API version emitted on output.
	execAPIVersion = "client.authentication.k8s.io/v1"

	// execAPIVersionBeta is accepted on input for older clients.
	execAPIVersionBeta = "client.authentication.k8s.io/v1beta1"

	execKind = "ExecCredential"
)

// ExecCredential is the output document of an exec credential plugin, as
// defined by the client.authentication.k8s.io API group.
type ExecCredential struct {
	metav1.TypeMeta `json:",inline"`

	// Status carries the bearer token and its expiry.
	Status *ExecCredentialStatus `json:"status,omitempty"`
}

// ExecCredentialStatus holds the credential material returned to the client.
type ExecCredentialStatus struct {
	// ExpirationTimestamp is the RFC3339 time at which the token becomes
	// invalid. When absent, the client re-invokes the plugin for every new
	// connection instead of caching the token.
	ExpirationTimestamp *metav1.Time `json:"expirationTimestamp,omitempty"`

	// Token is the bearer token presented to the API server.
	Token string `json:"token"`

	ClientCertificateData string `json:"clientCertificateData,omitempty"`
	ClientKeyData         string `json:"clientKeyData,omitempty"`
}

// NewExecCredential builds a v1 ExecCredential carrying the given bearer
// token. A zero expiresAt leaves ExpirationTimestamp unset, which is how
// tokens without a known lifetime are represented on the wire.
func NewExecCredential(token string, expiresAt time.Time) *ExecCredential {
	cred := &ExecCredential{
		TypeMeta: metav1.TypeMeta{
			APIVersion: execAPIVersion,
			Kind:       execKind,
		},
		Status: &ExecCredentialStatus{
			Token: token,
		},
	}
	if !expiresAt.IsZero() {
		cred.Status.ExpirationTimestamp = &metav1.Time{Time: expiresAt}
	}
	return cred
}

// Validate normalizes the TypeMeta and checks the fields the exec protocol
// requires before the document may be written.
func (e *ExecCredential) Validate() error {
	if e.TypeMeta.APIVersion == "" {
		e.TypeMeta.APIVersion = execAPIVersion
	}
	if e.TypeMeta.Kind == "" {
		e.TypeMeta.Kind = execKind
	}

	if e.Status == nil {
		return &ValidationError{Field: "status", Message: "status is required"}
	}
	if e.Status.Token == "" {
		return &ValidationError{Field: "status.token", Message: "token is required"}
	}
	return nil
}

// ValidationError reports a field that fails exec credential validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
