// Package config exposes the process-wide configuration defaults consumed by
// flowstore. Values resolve, in order, from explicit Set calls, environment
// variables prefixed FLOWSTORE_ (dots become underscores), an optional
// config file, and the shipped defaults.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// KeyAddDefaultLabels controls whether storage backends merge their default
// labels into the user-supplied ones when not explicitly specified at
// construction.
const KeyAddDefaultLabels = "flows.defaults.storage.add_default_labels"

var v = newViper()

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetDefault(KeyAddDefaultLabels, true)
	nv.SetEnvPrefix("flowstore")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()
	return nv
}

// Load reads configuration from the given file, layering it over the
// defaults. Missing files are an error; callers that want optional files
// should stat first.
func Load(path string) error {
	v.SetConfigFile(path)
	return v.ReadInConfig()
}

// AddDefaultLabels returns the current process-wide default for merging
// backend default labels. Storage backends read this exactly once, at
// construction.
func AddDefaultLabels() bool {
	return v.GetBool(KeyAddDefaultLabels)
}

// Set overrides a configuration key for the current process. Intended for
// tests and embedding applications.
func Set(key string, value any) {
	v.Set(key, value)
}

// Reset restores the shipped defaults, dropping any Set overrides and
// loaded files. Environment variables still apply.
func Reset() {
	v = newViper()
}
