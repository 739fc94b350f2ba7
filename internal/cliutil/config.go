package cliutil

import (
	"sort"

	"github.com/spf13/viper"
)

// ConfigKeys lists the keys accepted in the config file, with their
// defaults. An empty default means "unset".
var ConfigKeys = map[string]string{
	"python":          "python",
	"entrypoint":      "",
	"workdir":         "",
	"device-env":      "",
	"profile-dir":     "",
	"record-dir":      "",
	"kube-image":      "",
	"kube-namespace":  "",
	"kube-python":     "",
	"kube-entrypoint": "",
	"kube-workdir":    "",
	"kubeconfig":      "",
}

// SetDefaults registers the defaults of every config key with v.
func SetDefaults(v *viper.Viper) {
	for key, value := range ConfigKeys {
		if value != "" {
			v.SetDefault(key, value)
		}
	}
}

// IsConfigKey reports whether key is a known config key.
func IsConfigKey(key string) bool {
	_, ok := ConfigKeys[key]
	return ok
}

// SortedConfigKeys returns the known config keys in order.
func SortedConfigKeys() []string {
	keys := make([]string, 0, len(ConfigKeys))
	for k := range ConfigKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
