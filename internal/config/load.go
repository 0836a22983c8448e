package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name `verity init` writes.
const ConfigFileName = "verity.toml"

// hiddenConfigFileName is accepted when a project keeps its config out of
// sight. ConfigFileName wins when a directory holds both.
const hiddenConfigFileName = ".verity.toml"

// FindConfigFile returns the absolute path of the nearest verity.toml or
// .verity.toml at or above startDir. Directories with those names are
// ignored. It returns "" when no ancestor has one.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	for ; ; dir = filepath.Dir(dir) {
		for _, name := range []string{ConfigFileName, hiddenConfigFileName} {
			candidate := filepath.Join(dir, name)
			if fi, err := os.Stat(candidate); err == nil && fi.Mode().IsRegular() {
				return candidate, nil
			}
		}
		if filepath.Dir(dir) == dir {
			return "", nil
		}
	}
}

// LoadFromFile decodes the config at path. Keys the Config struct does not
// know are left in the metadata for Validate to report.
func LoadFromFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, md, fmt.Errorf("loading config %s: %w", path, err)
	}
	return &cfg, md, nil
}
