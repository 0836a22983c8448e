package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Overrides carries CLI flag values. A nil field means the flag was not set.
type Overrides struct {
	Concurrency *int
	Format      *string
	FailFast    *bool
	ReportDir   *string
	Paths       []string
}

// envOverlay lists the environment variables that override [run] settings.
type envOverlay struct {
	Concurrency *int    `env:"VERITY_CONCURRENCY"`
	Format      *string `env:"VERITY_FORMAT"`
	FailFast    *bool   `env:"VERITY_FAIL_FAST"`
	ReportDir   *string `env:"VERITY_REPORT_DIR"`
}

// Resolve merges configuration in priority order: CLI overrides, then the
// environment, then the config file, then defaults. environ is the
// environment to read; pass nil to use the process environment.
func Resolve(defaults, file *Config, environ map[string]string, overrides *Overrides) (*Config, error) {
	if defaults == nil {
		defaults = NewDefaults()
	}
	cfg := clone(defaults)

	if file != nil {
		if len(file.Run.Paths) > 0 {
			cfg.Run.Paths = append([]string(nil), file.Run.Paths...)
		}
		if file.Run.Concurrency != 0 {
			cfg.Run.Concurrency = file.Run.Concurrency
		}
		if file.Run.Format != "" {
			cfg.Run.Format = file.Run.Format
		}
		if file.Run.FailFast {
			cfg.Run.FailFast = true
		}
		if file.Run.ReportDir != "" {
			cfg.Run.ReportDir = file.Run.ReportDir
		}
		if len(file.Modules.Enabled) > 0 {
			cfg.Modules.Enabled = append([]string(nil), file.Modules.Enabled...)
		}
	}

	var overlay envOverlay
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&overlay, opts); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	applyRun(&cfg.Run, overlay.Concurrency, overlay.Format, overlay.FailFast, overlay.ReportDir)

	if overrides != nil {
		applyRun(&cfg.Run, overrides.Concurrency, overrides.Format, overrides.FailFast, overrides.ReportDir)
		if len(overrides.Paths) > 0 {
			cfg.Run.Paths = append([]string(nil), overrides.Paths...)
		}
	}
	return cfg, nil
}

func applyRun(run *RunConfig, concurrency *int, format *string, failFast *bool, reportDir *string) {
	if concurrency != nil {
		run.Concurrency = *concurrency
	}
	if format != nil {
		run.Format = *format
	}
	if failFast != nil {
		run.FailFast = *failFast
	}
	if reportDir != nil {
		run.ReportDir = *reportDir
	}
}

func clone(c *Config) *Config {
	out := *c
	out.Run.Paths = append([]string(nil), c.Run.Paths...)
	out.Modules.Enabled = append([]string(nil), c.Modules.Enabled...)
	return &out
}
