package credentials

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"

	"github.com/cloudmesa/gcpadc/internal/adcfile"
)

// defaultTokenURI is the Google OAuth2 token endpoint used when a key file
// does not carry its own token_uri.
const defaultTokenURI = "https://oauth2.googleapis.com/token"

// ServiceAccount is a service account private key credential, as produced by
// gcloud iam service-accounts keys create.
type ServiceAccount struct {
	ProjectID    string
	ClientEmail  string
	PrivateKey   string
	PrivateKeyID string
	TokenURI     string

	// Scopes and Subject are not part of the key file; they come from
	// options at build time.
	Scopes  []string
	Subject string

	source adcfile.Source
}

// NewServiceAccountFromDocument builds a service account credential from a
// classified credentials document.
func NewServiceAccountFromDocument(doc *adcfile.Document, opts ...Option) (*ServiceAccount, error) {
	clientEmail, err := requiredField(doc, KindServiceAccount, "client_email")
	if err != nil {
		return nil, err
	}
	privateKey, err := requiredField(doc, KindServiceAccount, "private_key")
	if err != nil {
		return nil, err
	}

	options := applyOptions(opts)

	sa := &ServiceAccount{
		ClientEmail: clientEmail,
		PrivateKey:  privateKey,
		TokenURI:    defaultTokenURI,
		Scopes:      options.scopes,
		Subject:     options.subject,
		source:      doc.Source(),
	}
	if projectID, ok := doc.Field("project_id"); ok {
		sa.ProjectID = projectID
	}
	if keyID, ok := doc.Field("private_key_id"); ok {
		sa.PrivateKeyID = keyID
	}
	if tokenURI, ok := doc.Field("token_uri"); ok && tokenURI != "" {
		sa.TokenURI = tokenURI
	}
	return sa, nil
}

// NewServiceAccountFromFile loads a service account credential from a JSON
// key file. A file of any other credential type is rejected.
func NewServiceAccountFromFile(path string, opts ...Option) (*ServiceAccount, error) {
	payload, err := adcfile.Load(path, adcfile.ExplicitSource(path))
	if err != nil {
		return nil, err
	}
	return newServiceAccountFromPayload(payload, opts)
}

// NewServiceAccountFromJSON builds a service account credential from raw
// JSON key contents.
func NewServiceAccountFromJSON(contents []byte, opts ...Option) (*ServiceAccount, error) {
	return newServiceAccountFromPayload(adcfile.LoadInline(contents), opts)
}

func newServiceAccountFromPayload(payload *adcfile.Payload, opts []Option) (*ServiceAccount, error) {
	doc, err := adcfile.Classify(payload)
	if err != nil {
		return nil, err
	}
	if doc.Kind() != adcfile.KindServiceAccount {
		return nil, unsupportedTypeError(doc)
	}
	return NewServiceAccountFromDocument(doc, opts...)
}

// Kind returns KindServiceAccount.
func (c *ServiceAccount) Kind() Kind {
	return KindServiceAccount
}

// Source reports where the credential was loaded from.
func (c *ServiceAccount) Source() adcfile.Source {
	return c.source
}

// TokenSource returns a two-legged JWT token source that signs assertions
// with the service account key.
func (c *ServiceAccount) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes()
	}
	config := &jwt.Config{
		Email:        c.ClientEmail,
		PrivateKey:   []byte(c.PrivateKey),
		PrivateKeyID: c.PrivateKeyID,
		Subject:      c.Subject,
		Scopes:       scopes,
		TokenURL:     c.TokenURI,
	}
	return config.TokenSource(ctx), nil
}

// AuthorizationHeader fetches an access token and renders it as an
// Authorization header value.
func (c *ServiceAccount) AuthorizationHeader(ctx context.Context) (string, error) {
	ts, err := c.TokenSource(ctx)
	if err != nil {
		return "", err
	}
	return authorizationHeader(KindServiceAccount, ts)
}
