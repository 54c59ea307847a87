// Package project loads the optional mcgen.toml configuration file.
// Command-line flags override anything configured here.
package project

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultPackage is the package name generated output uses unless
// configured otherwise.
const DefaultPackage = "codes"

// DefaultConfigName is the file name probed for next to the inputs.
const DefaultConfigName = "mcgen.toml"

// Generate holds the [generate] section.
type Generate struct {
	Out     string `toml:"out"`
	Package string `toml:"package"`
	Force   bool   `toml:"force"`
	NoCache bool   `toml:"no_cache"`
}

// Config models a whole mcgen.toml.
type Config struct {
	Generate Generate `toml:"generate"`
	Inputs   []string `toml:"inputs"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{Generate: Generate{Package: DefaultPackage}}
}

// Load parses a mcgen.toml. Unknown keys are rejected so typos do not
// silently disable options.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Generate.Package == "" {
		cfg.Generate.Package = DefaultPackage
	}
	return cfg, nil
}
