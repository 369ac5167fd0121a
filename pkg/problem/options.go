package problem

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// ProjectFile is the name of the project settings file.
const ProjectFile = "unify.toml"

// Options tune the unifier. Unset fields fall back to the project settings
// and then to the defaults.
type Options struct {
	// MaxPasses bounds how many times deferred equations are woken. Zero
	// means no bound.
	MaxPasses int `toml:"max_passes,omitempty" yaml:"max_passes,omitempty"`

	// Inversion enables solving through constructor-headed functions.
	// Defaults to true.
	Inversion *bool `toml:"inversion,omitempty" yaml:"inversion,omitempty"`

	// Eta enables function eta. Defaults to true.
	Eta *bool `toml:"eta,omitempty" yaml:"eta,omitempty"`
}

// Over returns o with unset fields taken from base.
func (o Options) Over(base Options) Options {
	if o.MaxPasses == 0 {
		o.MaxPasses = base.MaxPasses
	}
	if o.Inversion == nil {
		o.Inversion = base.Inversion
	}
	if o.Eta == nil {
		o.Eta = base.Eta
	}
	return o
}

func (o Options) InversionEnabled() bool {
	return o.Inversion == nil || *o.Inversion
}

func (o Options) EtaEnabled() bool {
	return o.Eta == nil || *o.Eta
}

// ProjectConfig is the contents of unify.toml.
type ProjectConfig struct {
	Options Options `toml:"options"`
}

// LoadProjectConfig loads a unify.toml file.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	var config ProjectConfig
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("%s: unknown keys: %v", path, undecoded)
	}
	return &config, nil
}

// FindProjectConfig searches for unify.toml starting from dir and walking
// up to parent directories, stopping at a .git boundary. It returns
// ("", nil, nil) if there is none.
func FindProjectConfig(dir string) (string, *ProjectConfig, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(path); err == nil {
			config, err := LoadProjectConfig(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}

// FindProjectOptions returns the project-wide option defaults for dir.
func FindProjectOptions(dir string) (Options, error) {
	_, config, err := FindProjectConfig(dir)
	if err != nil || config == nil {
		return Options{}, err
	}
	return config.Options, nil
}
