package list

import (
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gnasmp/gnasctl/internal/cliutil"
	"github.com/gnasmp/gnasctl/pkg/hparams"
	"github.com/spf13/cobra"
)

type entry struct {
	Name    string `json:"name"`
	Source  string `json:"source"`
	Task    string `json:"task,omitempty"`
	Data    string `json:"data,omitempty"`
	Metric  string `json:"metric,omitempty"`
	Encoder string `json:"encoder,omitempty"`
}

func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available profiles",
		Example: heredoc.Doc(`
			$ gnasctl profile list
			$ gnasctl profile list --profile-dir ./profiles --format json
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cliutil.GetString(cmd, "profile-dir", "profile-dir")
			names, err := hparams.List(dir)
			if err != nil {
				return err
			}

			entries := make([]entry, 0, len(names))
			lines := make([]string, 0, len(names))
			for _, name := range names {
				e, err := describe(name, dir)
				if err != nil {
					return err
				}
				entries = append(entries, e)
				lines = append(lines, e.Name+"\t"+e.Source+"\t"+e.Task+"\t"+e.Data)
			}
			return cliutil.HandleOutput(cmd, entries, strings.Join(lines, "\n"))
		},
	}

	cmd.Flags().String("profile-dir", "", "Directory containing <profile>.yaml files")
	cliutil.AddOutputFlags(cmd, "text")

	return cmd
}

func describe(name, dir string) (entry, error) {
	p, err := hparams.Load(name, dir)
	if err != nil {
		return entry{}, err
	}
	e := entry{Name: p.Name, Source: "builtin"}
	if path, ok := hparams.FilePath(name, dir); ok {
		e.Source = path
	}
	e.Task, _ = p.Get("task")
	e.Data, _ = p.Get("data")
	if ds, ok := hparams.Datasets[e.Data]; ok {
		e.Metric = ds.Metric
		e.Encoder = ds.Encoder
	}
	return e, nil
}
