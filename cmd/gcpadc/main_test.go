package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmesa/gcpadc/cmd/gcpadc/common"
	"github.com/cloudmesa/gcpadc/cmd/gcpadc/paths"
	"github.com/cloudmesa/gcpadc/cmd/gcpadc/resolve"
	"github.com/cloudmesa/gcpadc/cmd/gcpadc/version"
	"github.com/cloudmesa/gcpadc/internal/adcfile"
	"github.com/cloudmesa/gcpadc/internal/execplugin"
	"github.com/cloudmesa/gcpadc/internal/metadata"
	"github.com/cloudmesa/gcpadc/internal/testutil"
)

// executeCommand runs a fresh root command and captures everything the
// process writes to stdout. Each call builds its own command tree so flag
// state from one test cannot leak into the next.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	flags := &common.Flags{}
	rootCmd := newRootCommand(flags)
	rootCmd.SetArgs(args)
	execErr := rootCmd.Execute()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String(), execErr
}

// newTokenServer serves a canned OAuth2 token exchange for service account
// assertions.
func newTokenServer(t *testing.T, accessToken string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.NotEmpty(t, r.Form.Get("assertion"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":%q,"token_type":"Bearer","expires_in":3600}`, accessToken)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestVersionCommand(t *testing.T) {
	version.Version = "1.0.0"
	version.Commit = "abc123"
	version.BuildTime = "2026-02-05"

	output, err := executeCommand(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, output, "gcpadc")
	assert.Contains(t, output, "1.0.0")
	assert.Contains(t, output, "abc123")
	assert.Contains(t, output, "2026-02-05")
}

func TestHelpListsSubcommands(t *testing.T) {
	output, err := executeCommand(t, "--help")

	assert.NoError(t, err)
	assert.Contains(t, output, "resolve")
	assert.Contains(t, output, "get-token")
	assert.Contains(t, output, "exec-credential")
	assert.Contains(t, output, "paths")
	assert.Contains(t, output, "version")
}

func TestUnknownSubcommand(t *testing.T) {
	_, err := executeCommand(t, "frobnicate")
	assert.Error(t, err)
}

func TestResolveCommand_ExplicitFile(t *testing.T) {
	path := testutil.WriteCredentialsFile(t, testutil.ServiceAccountJSON)

	output, err := executeCommand(t, "resolve", "--credentials-file", path, "--output", "json")
	require.NoError(t, err)

	var report resolve.Report
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	assert.Equal(t, "service_account", report.Kind)
	assert.Equal(t, "foo-email@foo-project.iam.gserviceaccount.com", report.Principal)
	assert.Equal(t, "foo-project", report.ProjectID)
	assert.Contains(t, report.Source, path)
}

func TestResolveCommand_EnvVarDiscovery(t *testing.T) {
	path := testutil.WriteCredentialsFile(t, testutil.AuthorizedUserJSON)
	t.Setenv(adcfile.CredentialsEnvVar, path)
	t.Setenv(metadata.CheckOverrideEnvVar, "0")

	output, err := executeCommand(t, "resolve")
	require.NoError(t, err)

	assert.Contains(t, output, "kind:      authorized_user")
	assert.Contains(t, output, path)
}

func TestResolveCommand_OutputFromEnvironment(t *testing.T) {
	path := testutil.WriteCredentialsFile(t, testutil.ServiceAccountJSON)
	t.Setenv("GCPADC_OUTPUT", "json")

	output, err := executeCommand(t, "resolve", "--credentials-file", path)
	require.NoError(t, err)

	var report resolve.Report
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	assert.Equal(t, "service_account", report.Kind)
}

func TestResolveCommand_NothingFound(t *testing.T) {
	t.Setenv(adcfile.CredentialsEnvVar, "")
	t.Setenv(adcfile.PathOverrideEnvVar, "")
	t.Setenv(metadata.CheckOverrideEnvVar, "0")

	_, err := executeCommand(t, "resolve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not automatically determine credentials")
}

func TestResolveCommand_JSONErrorDocument(t *testing.T) {
	t.Setenv(adcfile.CredentialsEnvVar, "")
	t.Setenv(adcfile.PathOverrideEnvVar, "")
	t.Setenv(metadata.CheckOverrideEnvVar, "0")

	output, err := executeCommand(t, "resolve", "--output", "json")

	require.Error(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	assert.Equal(t, "ERR_NO_CREDENTIALS", doc["code"])
	assert.Equal(t, "Could not automatically determine credentials", doc["title"])
}

func TestResolveCommand_UnreadableExplicitFile(t *testing.T) {
	path := testutil.WriteCredentialsFile(t, testutil.AuthorizedUserJSON) + ".missing"
	t.Setenv(adcfile.CredentialsEnvVar, path)
	t.Setenv(metadata.CheckOverrideEnvVar, "0")

	_, err := executeCommand(t, "resolve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot open credentials file "+path)
}

func TestResolveCommand_UnsupportedOutputFormat(t *testing.T) {
	_, err := executeCommand(t, "resolve", "--output", "yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format: yaml")
}

func TestGetTokenCommand(t *testing.T) {
	server := newTokenServer(t, "test-token-123")
	path := testutil.WriteCredentialsFile(t, testutil.ServiceAccountJSONWithKey(t, server.URL+"/token"))

	output, err := executeCommand(t, "get-token", "--credentials-file", path)

	require.NoError(t, err)
	assert.Equal(t, "test-token-123\n", output)
}

func TestGetTokenCommand_Header(t *testing.T) {
	server := newTokenServer(t, "test-token-123")
	path := testutil.WriteCredentialsFile(t, testutil.ServiceAccountJSONWithKey(t, server.URL+"/token"))

	output, err := executeCommand(t, "get-token", "--credentials-file", path, "--header")

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token-123\n", output)
}

func TestGetTokenCommand_NoCredentials(t *testing.T) {
	t.Setenv(adcfile.CredentialsEnvVar, "")
	t.Setenv(adcfile.PathOverrideEnvVar, "")
	t.Setenv(metadata.CheckOverrideEnvVar, "0")

	_, err := executeCommand(t, "get-token")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not automatically determine credentials")
}

func TestExecCredentialCommand(t *testing.T) {
	server := newTokenServer(t, "test-token-123")
	path := testutil.WriteCredentialsFile(t, testutil.ServiceAccountJSONWithKey(t, server.URL+"/token"))

	output, err := executeCommand(t, "exec-credential", "--credentials-file", path)
	require.NoError(t, err)

	// stdout must carry exactly one ExecCredential document
	var cred execplugin.ExecCredential
	require.NoError(t, json.Unmarshal([]byte(output), &cred))
	assert.Equal(t, "client.authentication.k8s.io/v1", cred.APIVersion)
	assert.Equal(t, "ExecCredential", cred.Kind)
	require.NotNil(t, cred.Status)
	assert.Equal(t, "test-token-123", cred.Status.Token)
	require.NotNil(t, cred.Status.ExpirationTimestamp)

	require.NoError(t, execplugin.NewValidator().ValidateExecCredential(&cred))
}

func TestPathsCommand(t *testing.T) {
	credPath := testutil.WriteCredentialsFile(t, testutil.ServiceAccountJSON)
	wellKnown := testutil.WriteCredentialsFile(t, testutil.AuthorizedUserJSON)
	t.Setenv(adcfile.CredentialsEnvVar, credPath)
	t.Setenv(adcfile.PathOverrideEnvVar, wellKnown)
	t.Setenv(metadata.CheckOverrideEnvVar, "0")

	output, err := executeCommand(t, "paths", "--output", "json")
	require.NoError(t, err)

	var report paths.Report
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	assert.True(t, report.CredentialsEnvVar.Set)
	assert.Equal(t, credPath, report.CredentialsEnvVar.Value)
	assert.Equal(t, wellKnown, report.WellKnownFile.Path)
	assert.True(t, report.WellKnownFile.Exists)
	assert.Equal(t, paths.ProbeOffGCE, report.MetadataProbe)
}

func TestPathsCommand_ProbeDisabledByEnvironment(t *testing.T) {
	t.Setenv("GCPADC_PROBE_DISABLED", "true")

	output, err := executeCommand(t, "paths", "--output", "json")
	require.NoError(t, err)

	var report paths.Report
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	assert.Equal(t, paths.ProbeDisabled, report.MetadataProbe)
}
