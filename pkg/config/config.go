// Package config provides YAML-based configuration loading with environment
// variable expansion and ordered layer merging.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load loads configuration from a single YAML file with environment variable
// expansion. The file must exist. If the target implements Validator it is
// validated after decoding.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// LoadLayers folds an ordered list of YAML layers into target. Each layer
// overrides only the keys it sets; keys absent from a layer keep the value
// from the previous one, so the caller seeds target with its defaults first.
// Empty and missing filenames are skipped. Validation is left to the caller,
// which typically applies environment overrides as the final layer before
// validating.
func LoadLayers[T any](target *T, filenames ...string) error {
	for _, filename := range filenames {
		if filename == "" {
			continue
		}
		data, err := os.ReadFile(filename)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to read config file %s: %w", filename, err)
		}

		expandedData := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", filename, err)
		}
	}
	return nil
}

// GlobalPath returns the conventional global config location for app:
// $XDG_CONFIG_HOME/<app>/config.yaml, falling back to
// ~/.config/<app>/config.yaml. Returns "" when no home directory can be
// resolved, which LoadLayers treats as an absent layer.
func GlobalPath(app string) string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, app, "config.yaml")
}
