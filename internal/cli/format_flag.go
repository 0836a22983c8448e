package cli

import (
	"fmt"
	"strings"

	"github.com/AbdelazizMoustafa10m/verity/internal/config"
)

// formatFlag is a pflag.Value restricted to the report formats.
type formatFlag string

func (f *formatFlag) String() string { return string(*f) }

func (f *formatFlag) Set(v string) error {
	switch v = strings.ToLower(v); v {
	case config.FormatText, config.FormatHTML:
		*f = formatFlag(v)
		return nil
	default:
		return fmt.Errorf("must be one of: %s, %s", config.FormatText, config.FormatHTML)
	}
}

func (f *formatFlag) Type() string { return "format" }
