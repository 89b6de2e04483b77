package adcfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmesa/gcpadc/internal/testutil"
	"github.com/cloudmesa/gcpadc/pkg/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantKind Kind
		wantType string
	}{
		{
			name:     "authorized user",
			contents: testutil.AuthorizedUserJSON,
			wantKind: KindAuthorizedUser,
			wantType: "authorized_user",
		},
		{
			name:     "service account",
			contents: testutil.ServiceAccountJSON,
			wantKind: KindServiceAccount,
			wantType: "service_account",
		},
		{
			name:     "unknown type",
			contents: testutil.UnknownTypeJSON,
			wantKind: KindUnsupported,
			wantType: "unknown_type",
		},
		{
			name:     "missing type",
			contents: `{"client_id": "abc"}`,
			wantKind: KindUnsupported,
			wantType: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Classify(LoadInline([]byte(tt.contents)))
			require.NoError(t, err)
			require.NotNil(t, doc)

			assert.Equal(t, tt.wantKind, doc.Kind())
			assert.Equal(t, tt.wantType, doc.CredentialType())
		})
	}
}

func TestClassifyMalformed(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{
			name:     "not JSON at all",
			contents: testutil.NotJSON,
		},
		{
			name:     "JSON array instead of object",
			contents: `[1, 2, 3]`,
		},
		{
			name:     "bare string",
			contents: `"authorized_user"`,
		},
		{
			name:     "JSON null",
			contents: `null`,
		},
		{
			name:     "empty input",
			contents: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Classify(LoadInline([]byte(tt.contents)))
			require.Error(t, err)
			assert.Nil(t, doc)

			assert.True(t, errors.Is(err, errors.ErrCredentialMalformed))
			assert.Equal(t, 400, errors.GetStatus(err))
		})
	}
}

func TestClassifyMalformedNamesThePath(t *testing.T) {
	path := testutil.WriteCredentialsFile(t, testutil.NotJSON)

	payload, err := Load(path, EnvVarSource(path))
	require.NoError(t, err)

	doc, err := Classify(payload)
	require.Error(t, err)
	assert.Nil(t, doc)

	assert.True(t, errors.Is(err, errors.ErrCredentialMalformed))
	assert.Contains(t, err.Error(), "credentials file "+path)
}

func TestDocumentFields(t *testing.T) {
	doc, err := Classify(LoadInline([]byte(`{
		"type": "authorized_user",
		"client_id": "abc.apps.googleusercontent.com",
		"quota_project_id": 123,
		"nested": {"inner": "value"}
	}`)))
	require.NoError(t, err)

	t.Run("string field present", func(t *testing.T) {
		v, ok := doc.Field("client_id")
		assert.True(t, ok)
		assert.Equal(t, "abc.apps.googleusercontent.com", v)
	})

	t.Run("non-string values are dropped", func(t *testing.T) {
		_, ok := doc.Field("quota_project_id")
		assert.False(t, ok)

		_, ok = doc.Field("nested")
		assert.False(t, ok)
	})

	t.Run("absent field", func(t *testing.T) {
		_, ok := doc.Field("refresh_token")
		assert.False(t, ok)
	})
}

func TestDocumentSource(t *testing.T) {
	path := testutil.WriteCredentialsFile(t, testutil.ServiceAccountJSON)

	payload, err := Load(path, WellKnownSource(path))
	require.NoError(t, err)

	doc, err := Classify(payload)
	require.NoError(t, err)

	assert.Equal(t, SourceWellKnownFile, doc.Source().Kind)
	assert.Equal(t, path, doc.Source().Path)
}

func TestSourceDescription(t *testing.T) {
	tests := []struct {
		name   string
		source Source
		want   string
	}{
		{
			name:   "file-backed source",
			source: EnvVarSource("/tmp/adc.json"),
			want:   "credentials file /tmp/adc.json",
		},
		{
			name:   "inline source",
			source: InlineSource(),
			want:   "inline credentials contents",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.source.Description())
		})
	}
}
