package cliutil

import (
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// AddOutputFlags registers the --template and --format flags read by
// HandleOutput.
func AddOutputFlags(cmd *cobra.Command, defaultFormat string) {
	cmd.Flags().String("template", "", "Template for output format. Accepts Go template format (e.g. --template='{{.runId}}')")
	cmd.Flags().String("format", defaultFormat, "Output format. Accepts 'json', 'yaml' or 'text'")
}

// HandleOutput renders value according to the template or format flag.
// The value goes through a JSON round trip first so templates and YAML see
// the same field names as the JSON output. For the "text" format, text is
// printed as is.
func HandleOutput(cmd *cobra.Command, value any, text string) error {
	templateFlag, _ := cmd.Flags().GetString("template")
	formatFlag, _ := cmd.Flags().GetString("format")

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	var result any
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("failed to decode output: %w", err)
	}

	if templateFlag != "" {
		tmpl, err := template.New("output").Parse(templateFlag)
		if err != nil {
			return fmt.Errorf("failed to parse template: %w", err)
		}

		if err := tmpl.Execute(cmd.OutOrStdout(), result); err != nil {
			return fmt.Errorf("failed to execute template: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}

	var output []byte

	switch formatFlag {
	case "text":
		if text != "" {
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		}
		fallthrough
	case "yaml":
		output, err = yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal to YAML: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(output))
		return nil
	case "json", "":
		output, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format %q", formatFlag)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}
