package launcher

import (
	"os"
	"strings"

	"github.com/gnasmp/gnasctl/internal/options"
	"github.com/gnasmp/gnasctl/pkg/hparams"
	"github.com/google/uuid"
)

const DefaultPython = "python"

// Invocation is a fully resolved launch of the training program.
type Invocation struct {
	RunID     string   `json:"runId" yaml:"runId"`
	Profile   string   `json:"profile" yaml:"profile"`
	Program   string   `json:"program" yaml:"program"`
	Args      []string `json:"args" yaml:"args"`
	Dir       string   `json:"dir,omitempty" yaml:"dir,omitempty"`
	DeviceEnv string   `json:"deviceEnv" yaml:"deviceEnv"`
	Devices   string   `json:"devices" yaml:"devices"`
	Genotype  string   `json:"genotype" yaml:"genotype"`

	// Env is the complete child environment. It is not serialized since it
	// usually carries the whole parent environment.
	Env []string `json:"-" yaml:"-"`
}

type buildConfig struct {
	python  string
	dir     string
	environ []string
	runID   string
}

type BuildOption = options.Option[buildConfig]

// WithPython sets the interpreter used to run the entry point.
func WithPython(python string) BuildOption {
	return options.OptionFunc[buildConfig](func(c *buildConfig) {
		if python != "" {
			c.python = python
		}
	})
}

// WithWorkDir sets the child's working directory.
func WithWorkDir(dir string) BuildOption {
	return options.OptionFunc[buildConfig](func(c *buildConfig) {
		c.dir = dir
	})
}

// WithEnviron replaces the inherited parent environment.
func WithEnviron(environ []string) BuildOption {
	return options.OptionFunc[buildConfig](func(c *buildConfig) {
		c.environ = environ
	})
}

// WithRunID pins the run id instead of generating one.
func WithRunID(id string) BuildOption {
	return options.OptionFunc[buildConfig](func(c *buildConfig) {
		c.runID = id
	})
}

// Build resolves the invocation for devices and genotype under profile.
// Both inputs are forwarded verbatim: the device variable is set to exactly
// devices and genotype becomes the value of the genotype flag.
func Build(devices, genotype string, profile *hparams.Profile, opts ...BuildOption) *Invocation {
	cfg := options.ApplyAll(&buildConfig{python: DefaultPython}, opts...)
	if cfg.environ == nil {
		cfg.environ = os.Environ()
	}
	if cfg.runID == "" {
		cfg.runID = uuid.New().String()
	}

	deviceEnv := profile.DeviceEnv
	if deviceEnv == "" {
		deviceEnv = hparams.DefaultDeviceEnv
	}
	program := profile.Program
	if program == "" {
		program = hparams.DefaultProgram
	}

	args := append([]string{program}, profile.Args(genotype)...)

	return &Invocation{
		RunID:     cfg.runID,
		Profile:   profile.Name,
		Program:   cfg.python,
		Args:      args,
		Dir:       cfg.dir,
		DeviceEnv: deviceEnv,
		Devices:   devices,
		Genotype:  genotype,
		Env:       setEnv(cfg.environ, deviceEnv, devices),
	}
}

// setEnv returns a copy of environ with every binding of key replaced by a
// single key=value entry at the end.
func setEnv(environ []string, key, value string) []string {
	env := make([]string, 0, len(environ)+1)
	for _, kv := range environ {
		if strings.HasPrefix(kv, key+"=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env, key+"="+value)
}

// CommandLine renders the invocation as an equivalent shell command.
func (inv *Invocation) CommandLine() string {
	parts := make([]string, 0, len(inv.Args)+2)
	parts = append(parts, inv.DeviceEnv+"="+shellQuote(inv.Devices), shellQuote(inv.Program))
	for _, a := range inv.Args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_./:,=+@%", r):
		default:
			safe = false
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
