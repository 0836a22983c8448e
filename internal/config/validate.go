package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

// ValidationSeverity indicates whether a validation issue is an error or warning.
type ValidationSeverity string

const (
	// SeverityError indicates a fatal validation issue; the configuration is unusable.
	SeverityError ValidationSeverity = "error"
	// SeverityWarning indicates the configuration works but may have problems.
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity ValidationSeverity
	Field    string // dotted path, e.g., "run.format"
	Message  string
}

// ValidationResult holds all validation findings.
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasErrors returns true if any issue has error severity.
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors()) > 0
}

// HasWarnings returns true if any issue has warning severity.
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings()) > 0
}

// Errors returns only error-severity issues.
func (vr *ValidationResult) Errors() []ValidationIssue {
	return vr.filter(SeverityError)
}

// Warnings returns only warning-severity issues.
func (vr *ValidationResult) Warnings() []ValidationIssue {
	return vr.filter(SeverityWarning)
}

func (vr *ValidationResult) filter(sev ValidationSeverity) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// KnownModules lists the module names accepted in modules.enabled.
var KnownModules = []string{"asserts", "fixtures"}

var validFormats = map[string]bool{
	FormatText: true,
	FormatHTML: true,
}

// Validate checks the configuration for correctness. meta is the TOML
// metadata from LoadFromFile and may be nil when no file was loaded.
func Validate(cfg *Config, meta *toml.MetaData) *ValidationResult {
	vr := &ValidationResult{}

	if cfg == nil {
		addError(vr, "", "configuration is nil")
		return vr
	}

	validateRun(vr, &cfg.Run)
	validateModules(vr, &cfg.Modules)
	validateUnknownKeys(vr, meta)

	return vr
}

func validateRun(vr *ValidationResult, r *RunConfig) {
	if len(r.Paths) == 0 {
		addError(vr, "run.paths", "must list at least one pattern")
	}
	for i, p := range r.Paths {
		field := fmt.Sprintf("run.paths[%d]", i)
		switch {
		case p == "":
			addError(vr, field, "must not be an empty string")
		case !doublestar.ValidatePattern(p):
			addError(vr, field, fmt.Sprintf("invalid glob pattern %q", p))
		}
	}

	if r.Concurrency < 1 {
		addError(vr, "run.concurrency", fmt.Sprintf("must be at least 1, got %d", r.Concurrency))
	} else if r.Concurrency > 64 {
		addWarning(vr, "run.concurrency", fmt.Sprintf("%d workers is unusually high", r.Concurrency))
	}

	if !validFormats[r.Format] {
		addError(vr, "run.format",
			fmt.Sprintf("unrecognized format %q; must be one of: text, html", r.Format))
	}
}

func validateModules(vr *ValidationResult, m *ModulesConfig) {
	if len(m.Enabled) == 0 {
		addWarning(vr, "modules.enabled", "no modules enabled; every action step will fail")
	}
	seen := make(map[string]bool, len(m.Enabled))
	for i, name := range m.Enabled {
		field := fmt.Sprintf("modules.enabled[%d]", i)
		if !isKnownModule(name) {
			addError(vr, field, fmt.Sprintf("unknown module %q; must be one of: %s",
				name, strings.Join(KnownModules, ", ")))
			continue
		}
		if seen[name] {
			addWarning(vr, field, fmt.Sprintf("module %q listed more than once", name))
		}
		seen[name] = true
	}
}

func isKnownModule(name string) bool {
	for _, k := range KnownModules {
		if k == name {
			return true
		}
	}
	return false
}

// validateUnknownKeys reports keys present in the file that no field decoded.
func validateUnknownKeys(vr *ValidationResult, meta *toml.MetaData) {
	if meta == nil {
		return
	}

	for _, key := range meta.Undecoded() {
		addWarning(vr, strings.Join(key, "."), "unknown configuration key")
	}
}

func addError(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{
		Severity: SeverityError,
		Field:    field,
		Message:  message,
	})
}

func addWarning(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{
		Severity: SeverityWarning,
		Field:    field,
		Message:  message,
	})
}
