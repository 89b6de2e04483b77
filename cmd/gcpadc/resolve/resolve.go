// Package resolve implements the resolve subcommand: run credential
// discovery and report what it finds without fetching a token.
package resolve

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudmesa/gcpadc/cmd/gcpadc/common"
	"github.com/cloudmesa/gcpadc/internal/credentials"
	"github.com/cloudmesa/gcpadc/pkg/errors"
	"github.com/cloudmesa/gcpadc/pkg/logger"
)

// Report describes a resolved credential: its type, where discovery found
// it, and the identity it carries.
type Report struct {
	Kind      string   `json:"kind"`
	Source    string   `json:"source,omitempty"`
	Principal string   `json:"principal,omitempty"`
	ProjectID string   `json:"project_id,omitempty"`
	Scopes    []string `json:"scopes,omitempty"`
	TokenURI  string   `json:"token_uri,omitempty"`
}

// NewCommand creates the resolve command.
func NewCommand(flags *common.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Run credential discovery and report what it finds",
		Long: `Run Application Default Credentials discovery and print a report of the
resolved credential: its type, where it came from, and the identity it
carries. No token is fetched.

Examples:
  # Full discovery chain
  gcpadc resolve

  # Inspect an explicit credentials file
  gcpadc resolve --credentials-file=/path/to/sa.json --output=json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.Scopes, "scopes", nil, "OAuth2 scopes to request (comma-separated)")
	cmd.Flags().StringVar(&flags.Subject, "subject", "", "User to impersonate through domain-wide delegation")
	cmd.Flags().StringVar(&flags.Output, "output", "", "Output format: json or text (default text)")
	cobra.CheckErr(common.BindCommandFlags(cmd))

	return cmd
}

func run(cmd *cobra.Command, flags *common.Flags) error {
	cfg, err := common.LoadConfig(cmd, flags)
	if err != nil {
		return err
	}

	output := flags.Output
	if output == "" {
		output = "text"
	}
	if output != "json" && output != "text" {
		return fmt.Errorf("unsupported output format: %s (must be json or text)", output)
	}

	log, err := common.CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := common.SetupSignalHandler()
	defer cancel()

	shutdown, err := common.SetupTracing(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown(ctx)

	cred, err := common.ResolveCredential(ctx, cfg, log)
	if err != nil {
		log.Error("Credential discovery failed", logger.Error(err))
		if output == "json" {
			WriteError(os.Stdout, err)
		}
		return err
	}

	report := BuildReport(cred)
	log.Debug("Credential resolved",
		logger.String("kind", report.Kind),
		logger.String("source", report.Source),
	)

	return Write(os.Stdout, report, output)
}

// BuildReport extracts the reportable fields from a resolved credential.
func BuildReport(cred credentials.Credential) Report {
	switch c := cred.(type) {
	case *credentials.AuthorizedUser:
		return Report{
			Kind:      string(c.Kind()),
			Source:    c.Source().Description(),
			Principal: c.ClientID,
		}
	case *credentials.ServiceAccount:
		return Report{
			Kind:      string(c.Kind()),
			Source:    c.Source().Description(),
			Principal: c.ClientEmail,
			ProjectID: c.ProjectID,
			Scopes:    c.Scopes,
			TokenURI:  c.TokenURI,
		}
	case *credentials.ComputeEngine:
		return Report{
			Kind:      string(c.Kind()),
			Source:    "metadata server",
			Principal: c.ServiceAccountEmail,
			Scopes:    c.Scopes,
		}
	default:
		return Report{Kind: string(cred.Kind())}
	}
}

// WriteError renders a machine-readable failure document. Context fields
// are redacted so credential material never reaches stdout.
func WriteError(w io.Writer, err error) {
	var appErr *errors.Error
	if !errors.As(err, &appErr) {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(appErr.Redact())
}

// Write renders the report in the requested format.
func Write(w io.Writer, report Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(w, "kind:      %s\n", report.Kind)
	if report.Source != "" {
		fmt.Fprintf(w, "source:    %s\n", report.Source)
	}
	if report.Principal != "" {
		fmt.Fprintf(w, "principal: %s\n", report.Principal)
	}
	if report.ProjectID != "" {
		fmt.Fprintf(w, "project:   %s\n", report.ProjectID)
	}
	if len(report.Scopes) > 0 {
		fmt.Fprintf(w, "scopes:    %s\n", strings.Join(report.Scopes, ", "))
	}
	if report.TokenURI != "" {
		fmt.Fprintf(w, "token_uri: %s\n", report.TokenURI)
	}
	return nil
}
