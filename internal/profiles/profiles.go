// Package profiles reads named connection profiles from a YAML file.
// A profile bundles the automation ProgID with the defaults the CLI
// needs: a category to work on and a directory of saved queries.
package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Profile is one named connection configuration.
type Profile struct {
	// ProgID is the automation class of the Commence instance. Empty
	// selects the standard Commence.DB.
	ProgID string `yaml:"prog_id"`
	// Category is the default category for record commands.
	Category string `yaml:"category"`
	// QueriesDir is where saved query definitions live.
	QueriesDir string `yaml:"queries_dir"`
}

// File is a parsed profiles file.
type File struct {
	Default  string             `yaml:"default"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// DefaultPath returns the conventional profiles file location under
// the user config directory.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "gommence.yaml"
	}
	return filepath.Join(base, "gommence", "profiles.yaml")
}

// Load parses a profiles file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	if len(f.Profiles) == 0 {
		return nil, fmt.Errorf("profiles file %s defines no profiles", path)
	}
	if f.Default != "" {
		if _, ok := f.Profiles[f.Default]; !ok {
			return nil, fmt.Errorf("default profile %q not defined in %s", f.Default, path)
		}
	}
	return &f, nil
}

// Select resolves a profile by name. An empty name selects the file's
// default, or the only profile when exactly one is defined.
func (f *File) Select(name string) (Profile, error) {
	if name == "" {
		name = f.Default
	}
	if name == "" && len(f.Profiles) == 1 {
		for only := range f.Profiles {
			name = only
		}
	}
	if name == "" {
		return Profile{}, fmt.Errorf("no profile named and no default set (have: %v)", f.Names())
	}
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (have: %v)", name, f.Names())
	}
	return p, nil
}

// Names lists the defined profile names in stable order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
