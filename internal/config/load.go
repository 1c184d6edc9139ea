package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up under the scanned base path when no explicit
// config file is given.
const DefaultFileName = ".shieldci.yml"

// file is the on-disk shape: the schema nested under a product key.
type file struct {
	ShieldCI Config `yaml:"shieldci"`
}

// Load resolves and parses the configuration. An explicit path must exist; the
// conventional file under base may be absent, in which case defaults apply.
// File values are decoded over the defaults, so partial files override only
// what they mention.
func Load(explicit string, base string) (*Config, error) {
	path := explicit
	if path == "" {
		candidate := filepath.Join(base, DefaultFileName)
		if _, err := os.Stat(candidate); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Default(), nil
			}

			return nil, fmt.Errorf("stat config %s: %w", candidate, err)
		}

		path = candidate
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	parsed := file{ShieldCI: *Default()}
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := parsed.ShieldCI

	return &cfg, nil
}
