package credentials

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// defaultServiceAccount is the metadata server alias for the VM's attached
// service account.
const defaultServiceAccount = "default"

// ComputeEngine is a credential served by the Compute Engine metadata server
// on behalf of the VM's attached service account.
type ComputeEngine struct {
	ServiceAccountEmail string
	Scopes              []string
}

// NewComputeEngine returns a Compute Engine credential for the named service
// account. An empty email selects the VM's default service account.
func NewComputeEngine(email string, opts ...Option) *ComputeEngine {
	if email == "" {
		email = defaultServiceAccount
	}
	options := applyOptions(opts)
	return &ComputeEngine{
		ServiceAccountEmail: email,
		Scopes:              options.scopes,
	}
}

// Kind returns KindComputeEngine.
func (c *ComputeEngine) Kind() Kind {
	return KindComputeEngine
}

// TokenSource returns a token source that asks the metadata server for
// access tokens.
func (c *ComputeEngine) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	return google.ComputeTokenSource(c.ServiceAccountEmail, c.Scopes...), nil
}

// AuthorizationHeader fetches an access token from the metadata server and
// renders it as an Authorization header value.
func (c *ComputeEngine) AuthorizationHeader(ctx context.Context) (string, error) {
	ts, err := c.TokenSource(ctx)
	if err != nil {
		return "", err
	}
	return authorizationHeader(KindComputeEngine, ts)
}
