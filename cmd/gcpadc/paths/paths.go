// Package paths implements the paths subcommand, a diagnostic view of the
// discovery inputs: which environment variables are set, where the well-known
// file would be read from and what the metadata probe reports.
package paths

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudmesa/gcpadc/cmd/gcpadc/common"
	"github.com/cloudmesa/gcpadc/internal/adcfile"
	"github.com/cloudmesa/gcpadc/internal/envprobe"
	"github.com/cloudmesa/gcpadc/internal/metadata"
	"github.com/cloudmesa/gcpadc/pkg/logger"
)

// Probe verdicts reported by the paths command.
const (
	ProbeOnGCE    = "on_gce"
	ProbeOffGCE   = "off_gce"
	ProbeDisabled = "disabled"
)

// Report describes the discovery inputs as observed right now.
type Report struct {
	CredentialsEnvVar EnvVarStatus `json:"credentials_env_var"`
	PathOverride      EnvVarStatus `json:"path_override_env_var"`
	WellKnownFile     FileStatus   `json:"well_known_file"`
	CheckOverride     EnvVarStatus `json:"check_override_env_var"`
	MetadataProbe     string       `json:"metadata_probe"`
}

// EnvVarStatus reports whether a discovery variable is set and its value.
// A set-but-empty variable reports Set true with an empty Value.
type EnvVarStatus struct {
	Name  string `json:"name"`
	Set   bool   `json:"set"`
	Value string `json:"value,omitempty"`
}

// FileStatus reports the computed well-known file location. An empty Path
// means the well-known step is disabled for this environment.
type FileStatus struct {
	Path   string `json:"path,omitempty"`
	Exists bool   `json:"exists"`
}

// NewCommand creates the paths command.
func NewCommand(flags *common.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Show the credential discovery inputs",
		Long: `Show where credential discovery would look: the GOOGLE_APPLICATION_CREDENTIALS
environment variable, the gcloud well-known file location and the Compute
Engine metadata probe verdict. No credentials are read or validated.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

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

	var prober metadata.Prober
	if !cfg.Probe.Disabled {
		prober = common.BuildProber(cfg, log)
	}

	report := BuildReport(ctx, envprobe.OS(), prober)
	log.Debug("Discovery inputs inspected",
		logger.String("metadata_probe", report.MetadataProbe),
		logger.Bool("credentials_env_var_set", report.CredentialsEnvVar.Set),
	)

	return Write(os.Stdout, report, output)
}

// BuildReport inspects the environment through env and the metadata server
// through prober. A nil prober records the probe as disabled.
func BuildReport(ctx context.Context, env envprobe.Lookup, prober metadata.Prober) Report {
	report := Report{
		CredentialsEnvVar: lookupStatus(env, adcfile.CredentialsEnvVar),
		PathOverride:      lookupStatus(env, adcfile.PathOverrideEnvVar),
		CheckOverride:     lookupStatus(env, metadata.CheckOverrideEnvVar),
	}

	path := adcfile.WellKnownPath(env)
	report.WellKnownFile.Path = path
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			report.WellKnownFile.Exists = true
		}
	}

	switch {
	case prober == nil:
		report.MetadataProbe = ProbeDisabled
	case prober.OnComputeEngine(ctx):
		report.MetadataProbe = ProbeOnGCE
	default:
		report.MetadataProbe = ProbeOffGCE
	}

	return report
}

func lookupStatus(env envprobe.Lookup, name string) EnvVarStatus {
	value, ok := env(name)
	return EnvVarStatus{Name: name, Set: ok, Value: value}
}

// Write renders the report in the requested format.
func Write(w io.Writer, report Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	writeEnvVar(w, report.CredentialsEnvVar)
	writeEnvVar(w, report.PathOverride)
	if report.WellKnownFile.Path == "" {
		fmt.Fprintf(w, "well-known file:                 (none)\n")
	} else {
		fmt.Fprintf(w, "well-known file:                 %s (exists: %t)\n",
			report.WellKnownFile.Path, report.WellKnownFile.Exists)
	}
	writeEnvVar(w, report.CheckOverride)
	fmt.Fprintf(w, "metadata probe:                  %s\n", report.MetadataProbe)
	return nil
}

func writeEnvVar(w io.Writer, status EnvVarStatus) {
	if !status.Set {
		fmt.Fprintf(w, "%-32s (unset)\n", status.Name+":")
		return
	}
	fmt.Fprintf(w, "%-32s %q\n", status.Name+":", status.Value)
}
