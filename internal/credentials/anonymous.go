package credentials

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/cloudmesa/gcpadc/pkg/errors"
)

// Anonymous is the explicit no-authentication credential, for public
// endpoints and emulators. It never produces tokens and its Authorization
// header value is empty.
type Anonymous struct{}

// NewAnonymous returns the anonymous credential.
func NewAnonymous() *Anonymous {
	return &Anonymous{}
}

// Kind returns KindAnonymous.
func (c *Anonymous) Kind() Kind {
	return KindAnonymous
}

// TokenSource always fails: anonymous access carries no token.
func (c *Anonymous) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	return nil, errors.New(
		errors.ErrInvalidArgument,
		"anonymous credentials do not produce access tokens",
	)
}

// AuthorizationHeader returns an empty header value.
func (c *Anonymous) AuthorizationHeader(ctx context.Context) (string, error) {
	return "", nil
}
