package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/verity/internal/config"
	"github.com/AbdelazizMoustafa10m/verity/internal/loader"
	"github.com/AbdelazizMoustafa10m/verity/internal/logging"
	"github.com/AbdelazizMoustafa10m/verity/internal/result"
	"github.com/AbdelazizMoustafa10m/verity/internal/runner"
)

// errScenariosFailed is returned when at least one scenario failed or errored
// so the process exits non-zero.
var errScenariosFailed = errors.New("one or more scenarios failed")

// runFlags holds parsed flag values for the run command.
type runFlags struct {
	Format      formatFlag
	FailFast    bool
	Concurrency int
	ReportDir   string
	ShowSteps   bool
}

// newRunCmd creates the "verity run" command.
func newRunCmd() *cobra.Command {
	flags := runFlags{Format: config.FormatText}

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run scenario files",
		Long: `Run scenario files and print a summary.

Without arguments the run.paths patterns from verity.toml select the files,
relative to the directory holding verity.toml. Arguments are files or
doublestar patterns relative to the working directory.

Each scenario's step log is written to --report-dir in the chosen --format.
Failed scenarios also print their text log below the summary.

The exit code is 0 when every scenario passed, was skipped or is incomplete,
and 1 otherwise.`,
		Example: `  # Run every scenario matched by verity.toml
  verity run

  # Run one file and keep HTML logs
  verity run features/login.scenario.toml --format html --report-dir reports

  # Stop after the first failure
  verity run --fail-fast --concurrency 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, &flags)
		},
	}

	cmd.Flags().Var(&flags.Format, "format", `Report format: "text" or "html" (env: VERITY_FORMAT)`)
	cmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop scheduling scenarios after the first failure (env: VERITY_FAIL_FAST)")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", 0, "Maximum scenarios run at once (env: VERITY_CONCURRENCY)")
	cmd.Flags().StringVar(&flags.ReportDir, "report-dir", "", "Directory for per-scenario step logs (env: VERITY_REPORT_DIR)")
	cmd.Flags().BoolVar(&flags.ShowSteps, "steps", false, "Print the step log of every scenario, not only failed ones")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{config.FormatText, config.FormatHTML}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}

// overridesFrom maps the flags that were explicitly set to config overrides.
func overridesFrom(cmd *cobra.Command, flags *runFlags, args []string) *config.Overrides {
	o := &config.Overrides{Paths: args}
	if cmd.Flags().Changed("format") {
		v := string(flags.Format)
		o.Format = &v
	}
	if cmd.Flags().Changed("fail-fast") {
		o.FailFast = &flags.FailFast
	}
	if cmd.Flags().Changed("concurrency") {
		o.Concurrency = &flags.Concurrency
	}
	if cmd.Flags().Changed("report-dir") {
		o.ReportDir = &flags.ReportDir
	}
	return o
}

func runRun(cmd *cobra.Command, args []string, flags *runFlags) error {
	logger := logging.New("run")

	lc, err := loadAndResolveConfig(overridesFrom(cmd, flags, args))
	if err != nil {
		return err
	}

	vr := config.Validate(lc.Config, lc.Meta)
	for _, w := range vr.Warnings() {
		logger.Warn("config", "field", w.Field, "issue", w.Message)
	}
	if vr.HasErrors() {
		printValidationResult(cmd.ErrOrStderr(), vr)
		return fmt.Errorf("configuration has %d error(s)", len(vr.Errors()))
	}
	cfg := lc.Config

	root := lc.Dir
	if len(args) > 0 {
		root = "."
	}
	paths, err := loader.Discover(root, cfg.Run.Paths)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: %v under %s", loader.ErrNoScenarios, cfg.Run.Paths, root)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	r := runner.New(
		runner.WithLogger(logging.New("runner")),
		runner.WithModules(cfg.Modules.Enabled...),
		runner.WithConcurrency(cfg.Run.Concurrency),
		runner.WithFailFast(cfg.Run.FailFast),
	)

	logger.Debug("starting run", "files", len(paths), "concurrency", cfg.Run.Concurrency)

	sum, err := r.RunAll(ctx, paths)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "\nRun cancelled.")
		}
		return err
	}

	printSummary(cmd.OutOrStdout(), sum, flags.ShowSteps)

	if cfg.Run.ReportDir != "" {
		written, err := runner.WriteReports(cfg.Run.ReportDir, cfg.Run.Format, sum.Reports)
		if err != nil {
			return err
		}
		logger.Info("reports written", "dir", cfg.Run.ReportDir, "files", len(written))
	}

	if sum.Failed() {
		return errScenariosFailed
	}
	return nil
}

func statusStyle(st result.Status) lipgloss.Style {
	switch st {
	case result.StatusPassed:
		return styleSuccess
	case result.StatusFailed, result.StatusError:
		return styleErrorLbl
	default:
		return styleWarnLbl
	}
}

var summaryOrder = []result.Status{
	result.StatusPassed,
	result.StatusFailed,
	result.StatusError,
	result.StatusSkipped,
	result.StatusIncomplete,
}

func printSummary(out io.Writer, sum *runner.Summary, showSteps bool) {
	for _, rep := range sum.Reports {
		label := statusStyle(rep.Status).Render(fmt.Sprintf("%-10s", rep.Status))
		fmt.Fprintf(out, "%s %s %s\n", label, rep.Path,
			styleMuted.Render(fmt.Sprintf("(%d assertions, %s)", rep.Assertions, rep.Duration.Round(time.Millisecond))))
		if rep.Message != "" {
			fmt.Fprintf(out, "           %s\n", rep.Message)
		}
		for _, f := range rep.Failures {
			fmt.Fprintf(out, "           %s: %s\n", f.Step, f.Message)
		}
		for _, n := range rep.Notices {
			fmt.Fprintf(out, "           %s: %s\n", n.Kind, n.Message)
		}
		if rep.Text != "" && (showSteps || rep.Status == result.StatusFailed || rep.Status == result.StatusError) {
			fmt.Fprintln(out)
			fmt.Fprint(out, rep.Text)
		}
	}

	counts := sum.Counts()
	fmt.Fprintln(out)
	fmt.Fprint(out, styleHeader.Render(fmt.Sprintf("%d scenario(s)", len(sum.Reports))))
	for _, st := range summaryOrder {
		if counts[st] > 0 {
			fmt.Fprintf(out, ", %s", statusStyle(st).Render(fmt.Sprintf("%d %s", counts[st], st)))
		}
	}
	fmt.Fprintf(out, ", %d assertion(s) in %s\n", sum.Assertions(), sum.Duration.Round(time.Millisecond))
	if sum.Stopped {
		fmt.Fprintln(out, styleWarnLbl.Render("stopped after first failure (--fail-fast)"))
	}
}
