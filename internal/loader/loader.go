// Package loader reads scenario files from disk and turns their step lists
// into engine steps.
//
// Two encodings are supported, chosen by file extension:
//
//	*.scenario.toml   BurntSushi/toml
//	*.scenario.yaml   gopkg.in/yaml.v3 (also *.scenario.yml)
//
// Both describe the same document: a feature title, current fixture values,
// the in-memory pages used by the fixtures module and an ordered step list.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/AbdelazizMoustafa10m/verity/internal/module/fixtures"
)

// ErrUnsupportedFormat is returned for files whose extension is neither
// TOML nor YAML.
var ErrUnsupportedFormat = errors.New("loader: unsupported scenario file format")

// ErrNoScenarios is returned by callers when discovery matched nothing.
var ErrNoScenarios = errors.New("loader: no scenario files matched")

// File is one decoded scenario file.
type File struct {
	// Path is the file location as given to Load.
	Path string `toml:"-" yaml:"-"`

	// ID is a stable fingerprint of the path and content, used as the test
	// identifier in events and reports.
	ID string `toml:"-" yaml:"-"`

	Feature string                   `toml:"feature" yaml:"feature"`
	Current map[string]any           `toml:"current" yaml:"current"`
	Pages   map[string]fixtures.Page `toml:"pages" yaml:"pages"`
	Steps   []StepSpec               `toml:"steps" yaml:"steps"`
}

// Load reads and decodes the scenario file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes data using the encoding implied by path and validates every
// step entry.
func Parse(path string, data []byte) (*File, error) {
	f := &File{}
	switch format(path) {
	case "toml":
		md, err := toml.Decode(string(data), f)
		if err != nil {
			return nil, fmt.Errorf("loader: decoding %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("loader: %s: unknown key %q", path, undecoded[0].String())
		}
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil {
			return nil, fmt.Errorf("loader: decoding %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	for i := range f.Steps {
		if err := f.Steps[i].validate(); err != nil {
			return nil, fmt.Errorf("loader: %s: step %d: %w", path, i+1, err)
		}
	}

	f.Path = path
	f.ID = Fingerprint(path, data)
	return f, nil
}

// Fingerprint returns a hex xxhash of the path and content.
func Fingerprint(path string, data []byte) string {
	d := xxhash.New()
	_, _ = d.WriteString(filepath.ToSlash(path))
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(data)
	return fmt.Sprintf("%016x", d.Sum64())
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}
