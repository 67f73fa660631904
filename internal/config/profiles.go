package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ColumnProfile overrides how one column participates in fitting.
// Zero values mean "no override".
type ColumnProfile struct {
	Priority int    `yaml:"priority,omitempty"`
	MinWidth int    `yaml:"min-width,omitempty"`
	Label    string `yaml:"label,omitempty"`
}

// TableProfile maps column names to their overrides.
type TableProfile map[string]ColumnProfile

// Profiles maps table names to column overrides. The file is edited by
// hand at ~/.config/pgbrowse/profiles.yaml:
//
//	orders:
//	  status:
//	    priority: 3
//	    min-width: 12
//	  total:
//	    priority: 4
//	    label: Amount
type Profiles map[string]TableProfile

// LoadProfiles reads profiles.yaml. A missing file is not an error.
func LoadProfiles() (Profiles, error) {
	dir, err := configDir()
	if err != nil {
		return Profiles{}, err
	}
	path := filepath.Join(dir, "profiles.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Profiles{}, nil
		}
		return Profiles{}, fmt.Errorf("failed to read profiles: %w", err)
	}

	var p Profiles
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profiles{}, fmt.Errorf("failed to parse profiles: %w", err)
	}
	if p == nil {
		p = Profiles{}
	}
	return p, nil
}

// Table returns the profile for a table, empty when none is configured.
func (p Profiles) Table(name string) TableProfile {
	if tp, ok := p[name]; ok {
		return tp
	}
	return TableProfile{}
}
