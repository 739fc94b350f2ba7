package cliutil

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// GetString resolves a string setting: an explicitly set flag wins, then the
// config key (file or GNASCTL_* environment), then the flag's default.
func GetString(cmd *cobra.Command, flag string, key string) string {
	f := cmd.Flags().Lookup(flag)
	if f != nil && f.Changed {
		return f.Value.String()
	}

	if key != "" && viper.IsSet(key) {
		if value := viper.GetString(key); value != "" {
			return value
		}
	}

	if f != nil {
		return f.DefValue
	}
	return ""
}
