package config

import (
	"github.com/gnasmp/gnasctl/cmd/gnasctl/root/config/set"
	"github.com/gnasmp/gnasctl/cmd/gnasctl/root/config/view"
	"github.com/spf13/cobra"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Configuration commands",
		Long:  `Commands for managing the CLI configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(set.NewSetCmd())
	cmd.AddCommand(view.NewViewCmd())

	return cmd
}
