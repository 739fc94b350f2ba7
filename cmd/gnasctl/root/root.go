package root

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/log"
	"github.com/gnasmp/gnasctl/cmd/gnasctl/root/config"
	"github.com/gnasmp/gnasctl/cmd/gnasctl/root/profile"
	"github.com/gnasmp/gnasctl/cmd/gnasctl/root/run"
	"github.com/gnasmp/gnasctl/cmd/gnasctl/root/train"
	"github.com/gnasmp/gnasctl/cmd/gnasctl/root/version"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "gnasctl <command> <subcommand> [flags]",
		Short: "Launch graph architecture search training runs",
		Long: heredoc.Doc(`
			Launch the architecture search training program with a fixed
			hyperparameter profile, a device list and a searched genotype.
		`),
		Example: heredoc.Doc(`
			$ gnasctl train 0 genotypes/SBM_PATTERN.txt
			$ gnasctl train 0,1 genotypes/SBM_PATTERN.txt --set lr=5e-4 --dry-run
			$ gnasctl run kubernetes 0 /data/genotypes/SBM_PATTERN.txt --image gnas:latest --pvc gnas-data
		`),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			log.SetLevel(level)
			log.SetOutput(os.Stderr)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(train.NewTrainCmd())
	cmd.AddCommand(run.NewRunCmd())
	cmd.AddCommand(profile.NewProfileCmd())
	cmd.AddCommand(config.NewConfigCmd())
	cmd.AddCommand(version.NewVersionCmd())

	return cmd
}
