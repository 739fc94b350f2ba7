package train

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gnasmp/gnasctl/internal/cliutil"
	"github.com/gnasmp/gnasctl/pkg/launcher"
	"github.com/spf13/cobra"
)

func NewTrainCmd() *cobra.Command {
	var (
		dryRun bool
		usePTY bool
	)

	cmd := &cobra.Command{
		Use:   "train <devices> <genotype>",
		Short: "Train a searched architecture on the local machine",
		Long: heredoc.Doc(`
			Run the training program with the selected hyperparameter profile.
			<devices> becomes the device visibility variable of the child
			process and <genotype> is passed as the genotype file. Both are
			forwarded unchanged. The exit code of the training program is the
			exit code of this command.
		`),
		Example: heredoc.Doc(`
			# Train the SBM_PATTERN architecture on GPU 0
			$ gnasctl train 0 genotypes/SBM_PATTERN.txt

			# Use two GPUs and a different learning rate
			$ gnasctl train 0,1 genotypes/SBM_PATTERN.txt --set lr=5e-4

			# Print the command line instead of running it
			$ gnasctl train 0 genotypes/SBM_PATTERN.txt --dry-run
		`),
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := cliutil.ResolveInvocation(cmd, args[0], args[1], cliutil.LocalTarget)
			if err != nil {
				return err
			}

			if dryRun {
				return cliutil.HandleOutput(cmd, inv, inv.CommandLine())
			}

			runner := &launcher.LocalRunner{
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
				PTY:    usePTY,
			}
			recorder := &launcher.Recorder{Dir: cliutil.GetString(cmd, "record-dir", "record-dir")}
			return launcher.Launch(cmd.Context(), runner, inv, recorder)
		},
	}

	cliutil.AddLaunchFlags(cmd)
	cliutil.AddOutputFlags(cmd, "text")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the invocation instead of running it")
	cmd.Flags().BoolVar(&usePTY, "pty", false, "Attach the training program to a pseudo-terminal")
	cmd.Flags().String("record-dir", "", "Directory receiving one YAML record per run")

	return cmd
}
