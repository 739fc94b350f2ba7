package show

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gnasmp/gnasctl/internal/cliutil"
	"github.com/gnasmp/gnasctl/pkg/hparams"
	"github.com/spf13/cobra"
)

func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the flags of a profile",
		Long:  `Show a profile after --set overrides are applied. The YAML output can be loaded back with --profile-file.`,
		Example: heredoc.Doc(`
			$ gnasctl profile show SBM_PATTERN
			$ gnasctl profile show SBM_PATTERN --set lr=5e-4 --format json
			$ gnasctl profile show SBM_PATTERN --template '{{range .flags}}{{.name}}={{.value}} {{end}}'
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := hparams.Load(args[0], cliutil.GetString(cmd, "profile-dir", "profile-dir"))
			if err != nil {
				return err
			}
			overrides, err := cliutil.GetOverrides(cmd)
			if err != nil {
				return err
			}
			if err := p.ApplyOverrides(overrides); err != nil {
				return err
			}
			return cliutil.HandleOutput(cmd, p, "")
		},
	}

	cmd.Flags().String("profile-dir", "", "Directory containing <profile>.yaml files")
	cliutil.AddSetFlag(cmd)
	cliutil.AddOutputFlags(cmd, "yaml")

	return cmd
}
