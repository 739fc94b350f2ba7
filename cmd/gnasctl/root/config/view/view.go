package view

import (
	"github.com/gnasmp/gnasctl/internal/cliutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the effective configuration",
		Long:  `Show every known configuration key with the value resolved from the config file, GNASCTL_* environment variables and defaults.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := make(map[string]string, len(cliutil.ConfigKeys))
			for _, key := range cliutil.SortedConfigKeys() {
				settings[key] = viper.GetString(key)
			}
			return cliutil.HandleOutput(cmd, settings, "")
		},
	}

	cliutil.AddOutputFlags(cmd, "yaml")

	return cmd
}
