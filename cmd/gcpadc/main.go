package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cloudmesa/gcpadc/cmd/gcpadc/common"
	"github.com/cloudmesa/gcpadc/cmd/gcpadc/execcred"
	"github.com/cloudmesa/gcpadc/cmd/gcpadc/paths"
	"github.com/cloudmesa/gcpadc/cmd/gcpadc/resolve"
	"github.com/cloudmesa/gcpadc/cmd/gcpadc/token"
	"github.com/cloudmesa/gcpadc/cmd/gcpadc/version"
)

func newRootCommand(flags *common.Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gcpadc",
		Short: "Google Application Default Credentials resolver",
		Long: `gcpadc discovers Google Application Default Credentials the same way the
official client libraries do: the GOOGLE_APPLICATION_CREDENTIALS environment
variable first, then the gcloud well-known file, then the Compute Engine
metadata server.

It can report what it found, mint access tokens and act as a kubectl exec
credential plugin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "json", "Log format (json, console)")
	rootCmd.PersistentFlags().StringVar(&flags.CredentialsFile, "credentials-file", "", "Path to a credentials file (skips discovery)")
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to a configuration file")

	// Environment bindings (GCPADC_* variables)
	common.InitViper()
	cobra.CheckErr(common.BindPersistentFlags(rootCmd))

	// Subcommands
	rootCmd.AddCommand(version.NewCommand())
	rootCmd.AddCommand(resolve.NewCommand(flags))
	rootCmd.AddCommand(token.NewCommand(flags))
	rootCmd.AddCommand(execcred.NewCommand(flags))
	rootCmd.AddCommand(paths.NewCommand(flags))

	return rootCmd
}

func main() {
	// A .env file is a convenience for local development; absence is fine.
	_ = godotenv.Load()

	flags := &common.Flags{}
	rootCmd := newRootCommand(flags)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
