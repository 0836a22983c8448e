package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/verity/internal/logging"
)

// Global flag values accessible to all subcommands.
var (
	flagVerbose bool
	flagQuiet   bool
	flagConfig  string
	flagDir     string
	flagNoColor bool
)

// rootCmd is the base command for Verity.
var rootCmd = &cobra.Command{
	Use:   "verity",
	Short: "Step-driven acceptance scenario runner",
	Long: `Verity runs acceptance scenarios described as ordered steps in TOML or
YAML files, records every step as it runs, and renders the executed steps as a
readable text or HTML log.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: persistentPreRun,
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	// Check env vars for flags not explicitly set on command line.
	flags := cmd.Root().PersistentFlags()
	if !flags.Changed("verbose") && os.Getenv("VERITY_VERBOSE") != "" {
		flagVerbose = true
	}
	if !flags.Changed("quiet") && os.Getenv("VERITY_QUIET") != "" {
		flagQuiet = true
	}
	if !flags.Changed("no-color") && (os.Getenv("NO_COLOR") != "" || os.Getenv("VERITY_NO_COLOR") != "") {
		flagNoColor = true
	}

	jsonFormat := os.Getenv("VERITY_LOG_FORMAT") == "json"
	logging.Setup(flagVerbose, flagQuiet, jsonFormat)

	if flagNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if flagDir != "" {
		if err := os.Chdir(flagDir); err != nil {
			return fmt.Errorf("changing directory to %s: %w", flagDir, err)
		}
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose (debug) output (env: VERITY_VERBOSE)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress all output except errors (env: VERITY_QUIET)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to verity.toml config file")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Override working directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output (env: VERITY_NO_COLOR, NO_COLOR)")
}

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
