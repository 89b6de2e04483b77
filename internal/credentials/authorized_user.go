package credentials

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/cloudmesa/gcpadc/internal/adcfile"
)

// AuthorizedUser is an end-user credential: an OAuth2 refresh token plus the
// client it was issued to, as written by gcloud auth application-default
// login.
type AuthorizedUser struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	source adcfile.Source
}

// NewAuthorizedUserFromDocument builds an authorized user credential from a
// classified credentials document.
func NewAuthorizedUserFromDocument(doc *adcfile.Document) (*AuthorizedUser, error) {
	clientID, err := requiredField(doc, KindAuthorizedUser, "client_id")
	if err != nil {
		return nil, err
	}
	clientSecret, err := requiredField(doc, KindAuthorizedUser, "client_secret")
	if err != nil {
		return nil, err
	}
	refreshToken, err := requiredField(doc, KindAuthorizedUser, "refresh_token")
	if err != nil {
		return nil, err
	}

	return &AuthorizedUser{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: refreshToken,
		source:       doc.Source(),
	}, nil
}

// NewAuthorizedUserFromFile loads an authorized user credential from a JSON
// file. A file of any other credential type is rejected.
func NewAuthorizedUserFromFile(path string) (*AuthorizedUser, error) {
	payload, err := adcfile.Load(path, adcfile.ExplicitSource(path))
	if err != nil {
		return nil, err
	}
	return newAuthorizedUserFromPayload(payload)
}

// NewAuthorizedUserFromJSON builds an authorized user credential from raw
// JSON contents.
func NewAuthorizedUserFromJSON(contents []byte) (*AuthorizedUser, error) {
	return newAuthorizedUserFromPayload(adcfile.LoadInline(contents))
}

func newAuthorizedUserFromPayload(payload *adcfile.Payload) (*AuthorizedUser, error) {
	doc, err := adcfile.Classify(payload)
	if err != nil {
		return nil, err
	}
	if doc.Kind() != adcfile.KindAuthorizedUser {
		return nil, unsupportedTypeError(doc)
	}
	return NewAuthorizedUserFromDocument(doc)
}

// Kind returns KindAuthorizedUser.
func (c *AuthorizedUser) Kind() Kind {
	return KindAuthorizedUser
}

// Source reports where the credential was loaded from.
func (c *AuthorizedUser) Source() adcfile.Source {
	return c.source
}

// TokenSource returns a token source that exchanges the refresh token at
// Google's OAuth2 endpoint.
func (c *AuthorizedUser) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	config := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
	}
	return config.TokenSource(ctx, &oauth2.Token{RefreshToken: c.RefreshToken}), nil
}

// AuthorizationHeader fetches an access token and renders it as an
// Authorization header value.
func (c *AuthorizedUser) AuthorizationHeader(ctx context.Context) (string, error) {
	ts, err := c.TokenSource(ctx)
	if err != nil {
		return "", err
	}
	return authorizationHeader(KindAuthorizedUser, ts)
}
