package hparams

import "sort"

var builtins = map[string]*Profile{
	"SBM_PATTERN": {
		Name:         "SBM_PATTERN",
		Program:      DefaultProgram,
		DeviceEnv:    DefaultDeviceEnv,
		GenotypeFlag: DefaultGenotypeFlag,
		Flags: []Flag{
			{"task", "node_level"},
			{"data", "SBM_PATTERN"},
			{"nb_classes", "2"},
			{"in_dim_V", "3"},
			{"pos_encode", "0"},
			{"batch", "64"},
			{"node_dim", "70"},
			{"nb_layers", "4"},
			{"nb_nodes", "3"},
			{"nb_mlp_layer", "4"},
			{"dropout", "0.2"},
			{"optimizer", "ADAM"},
			{"lr", "1e-3"},
			{"weight_decay", "0.0"},
			{"momentum", "0.9"},
			{"min_lr", "1e-5"},
			{"lr_reduce_factor", "0.5"},
			{"patience", "10"},
			{"epochs", "200"},
		},
	},
}

// DefaultProfile is used when no profile is named.
const DefaultProfile = "SBM_PATTERN"

// Builtin returns a copy of the named built-in profile.
func Builtin(name string) (*Profile, bool) {
	p, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Names lists the built-in profiles.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
