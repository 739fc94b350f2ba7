package set

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gnasmp/gnasctl/internal/cliutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  `Set a configuration value that will be persisted in the config file.`,
		Example: heredoc.Doc(`
			# Use the interpreter of a virtualenv
			$ gnasctl config set python /opt/gnas/venv/bin/python

			# Run the training program from its checkout
			$ gnasctl config set workdir ~/src/GNAS-MP

			# Keep a record of every run
			$ gnasctl config set record-dir ~/.gnasctl/runs
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			if !cliutil.IsConfigKey(key) {
				return fmt.Errorf("invalid config key: %s. Valid keys are: %v", key, cliutil.SortedConfigKeys())
			}

			viper.Set(key, value)

			if err := viper.WriteConfig(); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully set %s = %s\n", key, value)
			return nil
		},
	}

	return cmd
}
