package hparams

import (
	"errors"
	"fmt"
	"sort"
)

const (
	DefaultProgram      = "train.py"
	DefaultDeviceEnv    = "CUDA_VISIBLE_DEVICES"
	DefaultGenotypeFlag = "load_genotypes"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrGenotypeOverride = errors.New("genotype flag is set from the command line")
	ErrEmptyFlagName    = errors.New("flag name is empty")
)

// Flag is a single `--name value` pair handed to the training program. Value
// holds the literal text, so "1e-3" is never rewritten as "0.001".
type Flag struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Profile is a named, ordered set of hyperparameters for one training setup.
type Profile struct {
	Name         string `json:"name" yaml:"name"`
	Program      string `json:"program" yaml:"program"`
	DeviceEnv    string `json:"deviceEnv" yaml:"deviceEnv"`
	GenotypeFlag string `json:"genotypeFlag" yaml:"genotypeFlag"`
	Flags        []Flag `json:"flags" yaml:"flags"`
}

func (p *Profile) applyDefaults() {
	if p.Program == "" {
		p.Program = DefaultProgram
	}
	if p.DeviceEnv == "" {
		p.DeviceEnv = DefaultDeviceEnv
	}
	if p.GenotypeFlag == "" {
		p.GenotypeFlag = DefaultGenotypeFlag
	}
}

// Clone returns a deep copy so registry entries are never mutated.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Flags = append([]Flag(nil), p.Flags...)
	return &c
}

// Get returns the value of the named flag.
func (p *Profile) Get(name string) (string, bool) {
	for _, f := range p.Flags {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing flag in place, or appends it.
func (p *Profile) Set(name, value string) error {
	if name == "" {
		return ErrEmptyFlagName
	}
	if name == p.GenotypeFlag {
		return fmt.Errorf("%w: --%s", ErrGenotypeOverride, name)
	}
	for i := range p.Flags {
		if p.Flags[i].Name == name {
			p.Flags[i].Value = value
			return nil
		}
	}
	p.Flags = append(p.Flags, Flag{Name: name, Value: value})
	return nil
}

// ApplyOverrides sets every key in overrides. Keys are applied in sorted
// order so appended flags land in a stable position.
func (p *Profile) ApplyOverrides(overrides map[string]string) error {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := p.Set(k, overrides[k]); err != nil {
			return err
		}
	}
	return nil
}

// Args renders the argument vector for the training program: the fixed
// flags in profile order, then the genotype flag with genotype verbatim.
func (p *Profile) Args(genotype string) []string {
	args := make([]string, 0, 2*len(p.Flags)+2)
	for _, f := range p.Flags {
		args = append(args, "--"+f.Name, f.Value)
	}
	return append(args, "--"+p.GenotypeFlag, genotype)
}
