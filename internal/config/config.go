// Package config loads verity.toml, layers environment and flag overrides on
// top of the built-in defaults, and validates the result.
package config

// Config is the top-level configuration structure mapping to verity.toml.
type Config struct {
	Run     RunConfig     `toml:"run"`
	Modules ModulesConfig `toml:"modules"`
}

// RunConfig maps to the [run] section in verity.toml.
type RunConfig struct {
	// Paths are doublestar patterns, relative to the config file directory,
	// selecting scenario files.
	Paths       []string `toml:"paths"`
	Concurrency int      `toml:"concurrency"`
	Format      string   `toml:"format"`
	FailFast    bool     `toml:"fail_fast"`
	ReportDir   string   `toml:"report_dir"`
}

// ModulesConfig maps to the [modules] section in verity.toml.
type ModulesConfig struct {
	Enabled []string `toml:"enabled"`
}

// Report formats.
const (
	FormatText = "text"
	FormatHTML = "html"
)
