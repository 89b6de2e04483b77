package credentials

import "github.com/samber/lo"

// buildOptions carries per-call settings applied to service account and
// Compute Engine credentials.
type buildOptions struct {
	scopes  []string
	subject string
}

// Option configures a credential at build time.
type Option func(*buildOptions)

// WithScopes sets the OAuth2 scopes the credential requests. Duplicates are
// dropped, first occurrence wins.
func WithScopes(scopes ...string) Option {
	return func(o *buildOptions) {
		o.scopes = lo.Uniq(scopes)
	}
}

// WithSubject sets the user to impersonate through domain-wide delegation.
// Only service account credentials honor it.
func WithSubject(subject string) Option {
	return func(o *buildOptions) {
		o.subject = subject
	}
}

func applyOptions(opts []Option) buildOptions {
	var options buildOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
