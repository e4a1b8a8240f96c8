// Package config loads the optional usdmerge configuration file.
//
// The file lives at $XDG_CONFIG_HOME/usdmerge/config.toml and every
// field is optional; a missing file yields the defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/usdtools/usdmerge/pkg/errors"
	"github.com/usdtools/usdmerge/pkg/logging"
)

// EnvMergeTool overrides the configured merge helper name.
const EnvMergeTool = "USDMERGE_MERGE_TOOL"

// Config holds the tool's runtime settings.
type Config struct {
	// MergeTool is the name of the external three-way merge executable.
	MergeTool string `toml:"merge_tool"`
	// FallbackToCopy controls what happens when the merge tool is not
	// installed: overwrite conflicting files by copy (true, the default)
	// or refuse to run (false).
	FallbackToCopy bool `toml:"fallback_to_copy"`
	// SourceRoot overrides where the bundled plugin trees are looked up.
	SourceRoot string `toml:"source_root"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MergeTool:      "merge",
		FallbackToCopy: true,
	}
}

// Path returns the location of the user configuration file.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "usdmerge", "config.toml")
}

// Load reads the user configuration file, if present, on top of the
// defaults, then applies environment overrides.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configuration from an explicit path on top of the
// defaults. A missing file is not an error.
func LoadFrom(path string) (Config, error) {
	log := logging.GetLogger("config")
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		log.Debug().Str("path", path).Msg("No config file, using defaults")
	case err != nil:
		return cfg, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse config file %s", path)
		}
		log.Debug().Str("path", path).Msg("Loaded config file")
	}

	if tool := os.Getenv(EnvMergeTool); tool != "" {
		cfg.MergeTool = tool
	}

	return cfg, nil
}
