// Package token implements the get-token subcommand.
package token

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudmesa/gcpadc/cmd/gcpadc/common"
	"github.com/cloudmesa/gcpadc/pkg/logger"
)

// NewCommand creates the get-token command.
func NewCommand(flags *common.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-token",
		Short: "Resolve credentials and fetch an access token",
		Long: `Resolve Application Default Credentials and exchange them for an access
token. The token is printed to stdout; logs go to stderr.

Examples:
  # Print a bare access token
  gcpadc get-token

  # Print a full Authorization header value
  gcpadc get-token --header

  # Use an explicit service account key with custom scopes
  gcpadc get-token --credentials-file=/path/to/sa.json --scopes=https://www.googleapis.com/auth/devstorage.read_only
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.Scopes, "scopes", nil, "OAuth2 scopes to request (comma-separated)")
	cmd.Flags().StringVar(&flags.Subject, "subject", "", "User to impersonate through domain-wide delegation")
	cmd.Flags().BoolVar(&flags.Header, "header", false, "Print a full Authorization header value instead of the bare token")
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

	if flags.Header {
		header, err := cred.AuthorizationHeader(ctx)
		if err != nil {
			log.Error("Failed to fetch access token", logger.Error(err))
			return err
		}
		fmt.Fprintln(os.Stdout, header)
		return nil
	}

	token, err := common.FetchToken(ctx, cred)
	if err != nil {
		log.Error("Failed to fetch access token", logger.Error(err))
		return err
	}

	log.Debug("Access token fetched",
		logger.String("credential_type", string(cred.Kind())),
		logger.String("expires_at", token.Expiry.Format(time.RFC3339)),
	)

	fmt.Fprintln(os.Stdout, token.AccessToken)
	return nil
}
