package run

import (
	"github.com/gnasmp/gnasctl/cmd/gnasctl/root/run/kubernetes"
	"github.com/spf13/cobra"
)

func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run training on a remote backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(kubernetes.NewKubernetesCmd())

	return cmd
}
