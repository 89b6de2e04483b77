package common

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables bound to flags, so
// --log-level becomes GCPADC_LOG_LEVEL.
const EnvPrefix = "GCPADC"

// InitViper configures viper to read GCPADC_ environment variables for
// flag names, with hyphens mapped to underscores.
func InitViper() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// BindCommandFlags registers a command's local flags with viper.
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// BindPersistentFlags registers a command's persistent flags with viper.
func BindPersistentFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.PersistentFlags())
}

// BindFlagsToViper overlays GCPADC_ environment values onto the flag fields
// that internal/config does not own: the config file path and presentation
// toggles. A value set on the command line wins over the environment; the
// log and credential settings are layered by LoadConfig instead.
func BindFlagsToViper(flags *Flags) {
	if flags.ConfigFile == "" {
		flags.ConfigFile = viper.GetString("config")
	}
	if flags.Output == "" {
		flags.Output = viper.GetString("output")
	}
	if !flags.Header {
		flags.Header = viper.GetBool("header")
	}
	if flags.CredentialsFile == "" {
		flags.CredentialsFile = viper.GetString("credentials-file")
	}
	if flags.Subject == "" {
		flags.Subject = viper.GetString("subject")
	}
	if len(flags.Scopes) == 0 {
		flags.Scopes = splitScopes(viper.GetString("scopes"))
	}
}

// splitScopes parses a comma-separated scope list from the environment.
func splitScopes(value string) []string {
	if value == "" {
		return nil
	}
	var scopes []string
	for _, scope := range strings.Split(value, ",") {
		scope = strings.TrimSpace(scope)
		if scope != "" {
			scopes = append(scopes, scope)
		}
	}
	return scopes
}
