// Package common holds the flag surface and wiring shared by the gcpadc
// subcommands.
package common

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/cloudmesa/gcpadc/internal/config"
	"github.com/cloudmesa/gcpadc/internal/credentials"
	"github.com/cloudmesa/gcpadc/internal/metadata"
	"github.com/cloudmesa/gcpadc/pkg/errors"
	"github.com/cloudmesa/gcpadc/pkg/logger"
	"github.com/cloudmesa/gcpadc/pkg/tracing"
)

// Flags holds the command-line flag values shared across subcommands.
type Flags struct {
	LogLevel        string
	LogFormat       string
	CredentialsFile string
	ConfigFile      string

	Scopes  []string
	Subject string
	Output  string
	Header  bool
}

// LoadConfig layers configuration for a command run: defaults, then the
// config file, then GCPADC_ environment variables, then flags the user set
// on the command line.
func LoadConfig(cmd *cobra.Command, flags *Flags) (*config.Config, error) {
	BindFlagsToViper(flags)

	opts := []config.LoadOption{config.WithEnv()}
	if flags.ConfigFile != "" {
		opts = append(opts, config.WithConfigFile(flags.ConfigFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}

	cfg.Merge(config.FromFlags(
		changedString(cmd, "credentials-file", flags.CredentialsFile),
		changedSlice(cmd, "scopes", flags.Scopes),
		changedString(cmd, "subject", flags.Subject),
		changedString(cmd, "log-level", flags.LogLevel),
		changedString(cmd, "log-format", flags.LogFormat),
	))

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func changedString(cmd *cobra.Command, name, value string) string {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return value
	}
	return ""
}

func changedSlice(cmd *cobra.Command, name string, value []string) []string {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return value
	}
	return nil
}

// CreateLogger builds the command logger. Output goes to stderr: stdout is
// reserved for command output such as ExecCredential documents.
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	return logger.New(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		Output: os.Stderr,
	})
}

// NewResolver assembles the credential resolver from configuration.
func NewResolver(cfg *config.Config, log logger.Logger) *credentials.Resolver {
	return credentials.NewResolver(
		credentials.WithLogger(log),
		credentials.WithProber(BuildProber(cfg, log)),
	)
}

// BuildProber returns the Compute Engine prober the configuration asks for.
// A disabled probe yields a prober that always reports off-GCE.
func BuildProber(cfg *config.Config, log logger.Logger) metadata.Prober {
	if cfg.Probe.Disabled {
		return disabledProber{}
	}
	opts := []metadata.DetectorOption{metadata.WithLogger(log)}
	if cfg.Probe.Timeout > 0 {
		opts = append(opts, metadata.WithTimeout(cfg.Probe.Timeout))
	}
	return metadata.NewDetector(opts...)
}

// disabledProber reports off-GCE without touching the network, so discovery
// never falls back to Compute Engine credentials.
type disabledProber struct{}

func (disabledProber) OnComputeEngine(context.Context) bool { return false }

// CredentialOptions translates configuration into credential build options.
func CredentialOptions(cfg *config.Config) []credentials.Option {
	var opts []credentials.Option
	if len(cfg.Credentials.Scopes) > 0 {
		opts = append(opts, credentials.WithScopes(cfg.Credentials.Scopes...))
	}
	if cfg.Credentials.Subject != "" {
		opts = append(opts, credentials.WithSubject(cfg.Credentials.Subject))
	}
	return opts
}

// ResolveCredential resolves a credential per the configuration: an explicit
// credentials file bypasses discovery, anything else runs the full chain.
func ResolveCredential(ctx context.Context, cfg *config.Config, log logger.Logger) (credentials.Credential, error) {
	opts := CredentialOptions(cfg)
	if cfg.Credentials.File != "" {
		return credentials.FromFile(cfg.Credentials.File, opts...)
	}
	return NewResolver(cfg, log).Resolve(ctx, opts...)
}

// FetchToken obtains an access token from the credential.
func FetchToken(ctx context.Context, cred credentials.Credential) (*oauth2.Token, error) {
	ts, err := cred.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	token, err := ts.Token()
	if err != nil {
		return nil, errors.Wrap(
			errors.ErrTokenFetchFailed,
			err,
			"failed to fetch access token",
		).WithField("credential_type", string(cred.Kind()))
	}
	return token, nil
}

// SetupTracing starts span export when tracing is enabled and returns a
// shutdown hook to flush pending spans. The hook is a no-op when tracing is
// off.
func SetupTracing(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.Tracing.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	tc := tracing.DefaultConfig()
	tc.Enabled = true
	tc.Endpoint = cfg.Tracing.Endpoint
	tc.Insecure = cfg.Tracing.Insecure
	tc.SamplingRatio = cfg.Tracing.SamplingRatio

	provider, err := tracing.NewProvider(ctx, tc)
	if err != nil {
		return nil, err
	}
	return provider.Shutdown, nil
}

// SetupSignalHandler returns a context canceled on SIGINT or SIGTERM.
func SetupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx, cancel
}
