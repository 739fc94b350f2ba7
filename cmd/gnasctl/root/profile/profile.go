package profile

import (
	"github.com/gnasmp/gnasctl/cmd/gnasctl/root/profile/list"
	"github.com/gnasmp/gnasctl/cmd/gnasctl/root/profile/show"
	"github.com/spf13/cobra"
)

func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <command>",
		Short: "Inspect hyperparameter profiles",
		Long:  `Commands for listing and showing the hyperparameter profiles training runs are launched with.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(list.NewListCmd())
	cmd.AddCommand(show.NewShowCmd())

	return cmd
}
