package hparams

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// profileFile mirrors Profile but keeps flags as a raw node so that mapping
// order and literal scalar text survive decoding.
type profileFile struct {
	Name         string    `yaml:"name"`
	Program      string    `yaml:"program"`
	DeviceEnv    string    `yaml:"deviceEnv"`
	GenotypeFlag string    `yaml:"genotypeFlag"`
	Flags        yaml.Node `yaml:"flags"`
}

// LoadFile reads a profile from a YAML document. Flags may be written as a
// mapping (`lr: 1e-3`) or as a list of {name, value} entries, which is the
// shape `profile show --format yaml` prints.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var raw profileFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse profile file %s: %w", path, err)
	}

	flags, err := decodeFlags(&raw.Flags)
	if err != nil {
		return nil, fmt.Errorf("invalid flags in %s: %w", path, err)
	}

	p := &Profile{
		Name:         raw.Name,
		Program:      raw.Program,
		DeviceEnv:    raw.DeviceEnv,
		GenotypeFlag: raw.GenotypeFlag,
		Flags:        flags,
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	p.applyDefaults()

	seen := make(map[string]bool, len(p.Flags))
	for _, f := range p.Flags {
		if f.Name == p.GenotypeFlag {
			return nil, fmt.Errorf("%w: --%s in %s", ErrGenotypeOverride, f.Name, path)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate flag --%s in %s", f.Name, path)
		}
		seen[f.Name] = true
	}
	return p, nil
}

func decodeFlags(node *yaml.Node) ([]Flag, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.MappingNode:
		flags := make([]Flag, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if key.Value == "" {
				return nil, ErrEmptyFlagName
			}
			if val.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: value of %q must be a scalar", val.Line, key.Value)
			}
			flags = append(flags, Flag{Name: key.Value, Value: scalarText(val)})
		}
		return flags, nil
	case yaml.SequenceNode:
		var flags []Flag
		if err := node.Decode(&flags); err != nil {
			return nil, err
		}
		for _, f := range flags {
			if f.Name == "" {
				return nil, ErrEmptyFlagName
			}
		}
		return flags, nil
	default:
		return nil, fmt.Errorf("line %d: flags must be a mapping or a list", node.Line)
	}
}

func scalarText(n *yaml.Node) string {
	if n.Tag == "!!null" {
		return ""
	}
	return n.Value
}

// Load resolves a profile by name. A file <dir>/<name>.yaml takes precedence
// over the built-in registry.
func Load(name, dir string) (*Profile, error) {
	if path, ok := FilePath(name, dir); ok {
		return LoadFile(path)
	}
	if p, ok := Builtin(name); ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// FilePath returns the path of <dir>/<name>.yaml when that file exists.
func FilePath(name, dir string) (string, bool) {
	if dir == "" {
		return "", false
	}
	path := filepath.Join(dir, name+".yaml")
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// List returns the names of all profiles reachable from dir, built-ins
// included.
func List(dir string) ([]string, error) {
	set := make(map[string]bool)
	for _, name := range Names() {
		set[name] = true
	}
	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			set[strings.TrimSuffix(filepath.Base(m), ".yaml")] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
