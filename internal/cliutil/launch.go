package cliutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gnasmp/gnasctl/pkg/hparams"
	"github.com/gnasmp/gnasctl/pkg/launcher"
	"github.com/spf13/cobra"
)

// AddLaunchFlags registers the flags shared by every command that launches
// the training program.
func AddLaunchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("profile", "p", hparams.DefaultProfile, "Hyperparameter profile to launch with")
	cmd.Flags().String("profile-file", "", "Path to a YAML profile, takes precedence over --profile")
	cmd.Flags().String("profile-dir", "", "Directory searched for <profile>.yaml before the built-in profiles")
	AddSetFlag(cmd)
	cmd.Flags().String("python", "python", "Python interpreter used to run the entry point")
	cmd.Flags().String("entrypoint", "", "Training entry point (default from the profile, train.py)")
	cmd.Flags().String("workdir", "", "Working directory of the training program")
	cmd.Flags().String("device-env", "", "Environment variable receiving the device list (default from the profile, CUDA_VISIBLE_DEVICES)")
	cmd.Flags().Bool("skip-checks", false, "Skip profile validation and the genotype file check")
}

// Target names the config keys an invocation reads for settings that only
// make sense on one machine.
type Target struct {
	PythonKey     string
	EntrypointKey string
	WorkdirKey    string

	// CheckGenotype requires the genotype path to exist on this host.
	CheckGenotype bool
}

var (
	LocalTarget = Target{
		PythonKey:     "python",
		EntrypointKey: "entrypoint",
		WorkdirKey:    "workdir",
		CheckGenotype: true,
	}
	KubernetesTarget = Target{
		PythonKey:     "kube-python",
		EntrypointKey: "kube-entrypoint",
		WorkdirKey:    "kube-workdir",
	}
)

// AddSetFlag registers the repeatable --set k=v flag. Values are taken
// verbatim after the first '=', commas included.
func AddSetFlag(cmd *cobra.Command) {
	cmd.Flags().StringArray("set", nil, "Override a profile flag (e.g. --set lr=5e-4 --set epochs=100)")
}

// GetOverrides parses the --set flag.
func GetOverrides(cmd *cobra.Command) (map[string]string, error) {
	values, err := cmd.Flags().GetStringArray("set")
	if err != nil {
		return nil, err
	}
	overrides := make(map[string]string, len(values))
	for _, kv := range values {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", kv)
		}
		overrides[strings.TrimPrefix(name, "--")] = value
	}
	return overrides, nil
}

// ResolveProfile loads the profile selected by the launch flags and applies
// entry point, device variable and --set overrides.
func ResolveProfile(cmd *cobra.Command, target Target) (*hparams.Profile, error) {
	var (
		profile *hparams.Profile
		err     error
	)
	if file := GetString(cmd, "profile-file", ""); file != "" {
		profile, err = hparams.LoadFile(file)
	} else {
		profile, err = hparams.Load(GetString(cmd, "profile", ""), GetString(cmd, "profile-dir", "profile-dir"))
	}
	if err != nil {
		return nil, err
	}

	if entrypoint := GetString(cmd, "entrypoint", target.EntrypointKey); entrypoint != "" {
		profile.Program = entrypoint
	}
	if deviceEnv := GetString(cmd, "device-env", "device-env"); deviceEnv != "" {
		profile.DeviceEnv = deviceEnv
	}

	overrides, err := GetOverrides(cmd)
	if err != nil {
		return nil, err
	}
	if err := profile.ApplyOverrides(overrides); err != nil {
		return nil, err
	}
	return profile, nil
}

// ResolveInvocation builds the invocation for the two positional inputs.
// When the target checks the genotype, the path must name a readable file as
// seen from the training program's working directory.
func ResolveInvocation(cmd *cobra.Command, devices, genotype string, target Target) (*launcher.Invocation, error) {
	profile, err := ResolveProfile(cmd, target)
	if err != nil {
		return nil, err
	}

	workdir := GetString(cmd, "workdir", target.WorkdirKey)
	skipChecks, _ := cmd.Flags().GetBool("skip-checks")
	if !skipChecks {
		if err := profile.Validate(); err != nil {
			return nil, err
		}
		if target.CheckGenotype {
			if err := CheckGenotype(genotype, workdir); err != nil {
				return nil, err
			}
		}
	}

	if devices == "" {
		log.Warn("Device list is empty, the training program will see no accelerators")
	}

	return launcher.Build(devices, genotype, profile,
		launcher.WithPython(GetString(cmd, "python", target.PythonKey)),
		launcher.WithWorkDir(workdir),
	), nil
}

// CheckGenotype verifies that genotype names a regular file. Relative paths
// are resolved against workdir when one is set.
func CheckGenotype(genotype, workdir string) error {
	if genotype == "" {
		return fmt.Errorf("genotype path is empty")
	}
	path := genotype
	if workdir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(workdir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("genotype file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("genotype path %s is a directory", path)
	}
	return nil
}
