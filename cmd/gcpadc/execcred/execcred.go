// Package execcred implements the exec-credential subcommand, which emits
// tokens in the Kubernetes client-go credential plugin format.
package execcred

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudmesa/gcpadc/cmd/gcpadc/common"
	"github.com/cloudmesa/gcpadc/internal/execplugin"
	"github.com/cloudmesa/gcpadc/pkg/logger"
)

// NewCommand creates the exec-credential command.
func NewCommand(flags *common.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec-credential",
		Short: "Emit an ExecCredential document for kubectl",
		Long: `Resolve Application Default Credentials, fetch an access token and write
it to stdout as a client.authentication.k8s.io/v1 ExecCredential document.
All diagnostics go to stderr so kubectl can consume stdout directly.

Example kubeconfig user entry:

  users:
  - name: gcp
    user:
      exec:
        apiVersion: client.authentication.k8s.io/v1
        command: gcpadc
        args: ["exec-credential"]
        interactiveMode: Never
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.Scopes, "scopes", nil, "OAuth2 scopes to request (comma-separated)")
	cmd.Flags().StringVar(&flags.Subject, "subject", "", "User to impersonate through domain-wide delegation")
	cobra.CheckErr(common.BindCommandFlags(cmd))

	return cmd
}

func run(cmd *cobra.Command, flags *common.Flags) error {
	cfg, err := common.LoadConfig(cmd, flags)
	if err != nil {
		return err
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
		return err
	}

	token, err := common.FetchToken(ctx, cred)
	if err != nil {
		log.Error("Failed to fetch access token", logger.Error(err))
		return err
	}

	log.Debug("Writing exec credential",
		logger.String("credential_type", string(cred.Kind())),
	)

	writer := execplugin.NewOutputWriter(os.Stdout)
	if err := writer.WriteToken(token); err != nil {
		log.Error("Failed to write exec credential", logger.Error(err))
		return err
	}
	return nil
}
