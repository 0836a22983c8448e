package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/verity/internal/config"
)

// configCmd groups the config show and validate subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Inspect and validate Verity configuration.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Long: `Display the configuration after layering defaults, verity.toml and
VERITY_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, err := loadAndResolveConfig(nil)
		if err != nil {
			return err
		}
		printResolvedConfig(cmd.OutOrStdout(), lc)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and report issues",
	Long:  "Check the configuration for errors and warnings.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, err := loadAndResolveConfig(nil)
		if err != nil {
			return err
		}
		vr := config.Validate(lc.Config, lc.Meta)
		printValidationResult(cmd.OutOrStdout(), vr)
		if vr.HasErrors() {
			return fmt.Errorf("configuration has %d error(s)", len(vr.Errors()))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

// loadedConfig is the resolved configuration plus where it came from.
type loadedConfig struct {
	Config *config.Config
	// Meta is nil when no file was loaded.
	Meta *toml.MetaData
	// Path is the config file, or "" when none was found.
	Path string
	// Dir is the directory relative run.paths patterns resolve against.
	Dir string
}

// loadAndResolveConfig loads --config, or the nearest verity.toml above the
// working directory, and resolves it against the environment and overrides.
func loadAndResolveConfig(overrides *config.Overrides) (*loadedConfig, error) {
	lc := &loadedConfig{Dir: "."}

	path := flagConfig
	if path == "" {
		found, err := config.FindConfigFile(".")
		if err != nil {
			return nil, fmt.Errorf("finding config file: %w", err)
		}
		path = found
	}

	var fileCfg *config.Config
	if path != "" {
		fc, md, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		fileCfg = fc
		lc.Meta = &md
		lc.Path = path
		lc.Dir = filepath.Dir(path)
	}

	resolved, err := config.Resolve(config.NewDefaults(), fileCfg, nil, overrides)
	if err != nil {
		return nil, err
	}
	lc.Config = resolved
	return lc, nil
}

var (
	styleHeader   = lipgloss.NewStyle().Bold(true)
	styleSection  = lipgloss.NewStyle().Bold(true)
	styleErrorLbl = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)  // red
	styleWarnLbl  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true) // yellow
	styleSuccess  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))            // green
	styleMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const fieldWidth = 14

func printResolvedConfig(out io.Writer, lc *loadedConfig) {
	fmt.Fprintln(out, styleHeader.Render("Resolved Configuration"))
	fmt.Fprintln(out, strings.Repeat("=", len("Resolved Configuration")))
	fmt.Fprintln(out)

	if lc.Path != "" {
		fmt.Fprintf(out, "Config file: %s\n", lc.Path)
	} else {
		fmt.Fprintln(out, "Config file: none found")
	}
	fmt.Fprintln(out)

	r := lc.Config.Run
	fmt.Fprintln(out, styleSection.Render("[run]"))
	printField(out, "paths", fmtSlice(r.Paths))
	printField(out, "concurrency", fmt.Sprint(r.Concurrency))
	printField(out, "format", fmt.Sprintf("%q", r.Format))
	printField(out, "fail_fast", fmt.Sprint(r.FailFast))
	printField(out, "report_dir", fmt.Sprintf("%q", r.ReportDir))
	fmt.Fprintln(out)

	fmt.Fprintln(out, styleSection.Render("[modules]"))
	printField(out, "enabled", fmtSlice(lc.Config.Modules.Enabled))
}

func printField(out io.Writer, name, value string) {
	fmt.Fprintf(out, "  %-*s = %s\n", fieldWidth, name, value)
}

func fmtSlice(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func printValidationResult(out io.Writer, vr *config.ValidationResult) {
	if len(vr.Issues) == 0 {
		fmt.Fprintln(out, styleSuccess.Render("Configuration is valid."))
		return
	}
	for _, issue := range vr.Issues {
		label := styleWarnLbl.Render("WARN ")
		if issue.Severity == config.SeverityError {
			label = styleErrorLbl.Render("ERROR")
		}
		fmt.Fprintf(out, "%s %s: %s\n", label, issue.Field, issue.Message)
	}
	fmt.Fprintf(out, "\n%d error(s), %d warning(s)\n", len(vr.Errors()), len(vr.Warnings()))
}
