package credentials

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/cloudmesa/gcpadc/internal/adcfile"
	"github.com/cloudmesa/gcpadc/internal/testutil"
	"github.com/cloudmesa/gcpadc/pkg/errors"
)

// staticTokenSource hands out a fixed token or error, so header rendering
// can be tested without contacting Google.
type staticTokenSource struct {
	token *oauth2.Token
	err   error
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	return s.token, s.err
}

func TestKindIsValid(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want bool
	}{
		{name: "authorized user", kind: KindAuthorizedUser, want: true},
		{name: "service account", kind: KindServiceAccount, want: true},
		{name: "compute engine", kind: KindComputeEngine, want: true},
		{name: "anonymous", kind: KindAnonymous, want: true},
		{name: "empty", kind: Kind(""), want: false},
		{name: "unknown", kind: Kind("unknown_type"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsValid())
		})
	}
}

func TestDefaultScopes(t *testing.T) {
	scopes := DefaultScopes()
	assert.Equal(t, []string{"https://www.googleapis.com/auth/cloud-platform"}, scopes)

	// Callers may append to the returned slice.
	scopes[0] = "mutated"
	assert.Equal(t, "https://www.googleapis.com/auth/cloud-platform", DefaultScopes()[0])
}

func TestAuthorizationHeaderRendering(t *testing.T) {
	t.Run("bearer by default", func(t *testing.T) {
		ts := &staticTokenSource{token: &oauth2.Token{AccessToken: "ya29.test-token"}}

		header, err := authorizationHeader(KindServiceAccount, ts)
		require.NoError(t, err)
		assert.Equal(t, "Bearer ya29.test-token", header)
	})

	t.Run("keeps explicit token type", func(t *testing.T) {
		ts := &staticTokenSource{token: &oauth2.Token{AccessToken: "abc", TokenType: "MAC"}}

		header, err := authorizationHeader(KindAuthorizedUser, ts)
		require.NoError(t, err)
		assert.Equal(t, "MAC abc", header)
	})

	t.Run("fetch failure", func(t *testing.T) {
		ts := &staticTokenSource{err: assert.AnError}

		_, err := authorizationHeader(KindAuthorizedUser, ts)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTokenFetchFailed))
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestFromFile(t *testing.T) {
	t.Run("service account", func(t *testing.T) {
		path := testutil.WriteCredentialsFile(t, testutil.ServiceAccountJSON)

		cred, err := FromFile(path, WithScopes("scope-a"))
		require.NoError(t, err)

		sa, ok := cred.(*ServiceAccount)
		require.True(t, ok)
		assert.Equal(t, []string{"scope-a"}, sa.Scopes)
		assert.Equal(t, adcfile.SourceExplicitPath, sa.Source().Kind)
		assert.Equal(t, path, sa.Source().Path)
	})

	t.Run("authorized user", func(t *testing.T) {
		path := testutil.WriteCredentialsFile(t, testutil.AuthorizedUserJSON)

		cred, err := FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, KindAuthorizedUser, cred.Kind())
	})

	t.Run("unknown type", func(t *testing.T) {
		path := testutil.WriteCredentialsFile(t, testutil.UnknownTypeJSON)

		cred, err := FromFile(path)
		require.Error(t, err)
		assert.Nil(t, cred)
		assert.True(t, errors.Is(err, errors.ErrCredentialTypeUnsupported))
		assert.Contains(t, err.Error(), "Unsupported credential type (unknown_type)")
		assert.Contains(t, err.Error(), path)
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "no-such-file.json")

		cred, err := FromFile(path)
		require.Error(t, err)
		assert.Nil(t, cred)
		assert.True(t, errors.Is(err, errors.ErrCredentialFileNotFound))
		assert.Contains(t, err.Error(), "Cannot open credentials file "+path)
	})
}

func TestAnonymous(t *testing.T) {
	ctx := context.Background()
	cred := NewAnonymous()

	assert.Equal(t, KindAnonymous, cred.Kind())

	ts, err := cred.TokenSource(ctx)
	require.Error(t, err)
	assert.Nil(t, ts)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	header, err := cred.AuthorizationHeader(ctx)
	require.NoError(t, err)
	assert.Empty(t, header)
}
