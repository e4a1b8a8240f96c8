// Package plugins holds the static registry of mergeable plugins.
//
// The registry is declared in plugins.yaml, embedded at build time and
// parsed once on first use. Order in the manifest is the order plugins
// merge in when several are requested together.
package plugins

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/usdtools/usdmerge/pkg/errors"
	"github.com/usdtools/usdmerge/pkg/types"
)

//go:embed plugins.yaml
var manifest []byte

type registryFile struct {
	Plugins []types.Plugin `yaml:"plugins"`
}

var (
	loadOnce sync.Once
	loaded   []types.Plugin
	loadErr  error
)

func load() ([]types.Plugin, error) {
	loadOnce.Do(func() {
		var file registryFile
		if err := yaml.Unmarshal(manifest, &file); err != nil {
			loadErr = errors.Wrap(err, errors.ErrInternal, "embedded plugin manifest is malformed")
			return
		}
		loaded = file.Plugins
	})
	return loaded, loadErr
}

// All returns every registered plugin in manifest order.
func All() ([]types.Plugin, error) {
	return load()
}

// Names returns the registered plugin names in manifest order.
func Names() ([]string, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Name)
	}
	return names, nil
}

// Get returns the plugin registered under name.
func Get(name string) (types.Plugin, error) {
	all, err := load()
	if err != nil {
		return types.Plugin{}, err
	}
	for _, p := range all {
		if p.Name == name {
			return p, nil
		}
	}
	return types.Plugin{}, errors.Newf(errors.ErrPluginUnknown, "unknown plugin %q", name).
		WithDetail("plugin", name)
}
