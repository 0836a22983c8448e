package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/verity/internal/config"
)

var initFlagForce bool

// exampleScenario is written to features/login.scenario.toml by init.
const exampleScenario = `feature = "login"

[current]
user = "alice"

[pages."/login"]
body = "Please sign in"
links = { submit = "/dashboard" }

[pages."/dashboard"]
body = "Welcome to the dashboard"

[[steps]]
kind = "comment"
text = "given a registered user"

[[steps]]
action = "amOnPage"
args = ["/login"]

[[steps]]
action = "fillField"
args = ["user", "alice"]

[[steps]]
action = "click"
args = ["submit"]

[[steps]]
action = "see"
args = ["dashboard"]
`

// initCmd implements "verity init". It writes a default verity.toml and an
// example scenario into the working directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create verity.toml and an example scenario",
	Long: `Write a verity.toml with the default settings and an example scenario
under features/. Existing files are preserved unless --force is supplied.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlagForce, "force", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	destDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfgPath := filepath.Join(destDir, config.ConfigFileName)
	scenarioPath := filepath.Join(destDir, "features", "login.scenario.toml")

	for _, p := range []string{cfgPath, scenarioPath} {
		if _, statErr := os.Stat(p); statErr == nil && !initFlagForce {
			return fmt.Errorf("%s already exists; use --force to overwrite", p)
		}
	}

	f, err := os.Create(cfgPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", cfgPath, err)
	}
	encErr := toml.NewEncoder(f).Encode(config.NewDefaults())
	if closeErr := f.Close(); encErr == nil {
		encErr = closeErr
	}
	if encErr != nil {
		return fmt.Errorf("writing %s: %w", cfgPath, encErr)
	}

	if err := os.MkdirAll(filepath.Dir(scenarioPath), 0o755); err != nil {
		return fmt.Errorf("creating features directory: %w", err)
	}
	if err := os.WriteFile(scenarioPath, []byte(exampleScenario), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", scenarioPath, err)
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, "Created files:")
	for _, p := range []string{cfgPath, scenarioPath} {
		rel, relErr := filepath.Rel(destDir, p)
		if relErr != nil {
			rel = p
		}
		fmt.Fprintf(out, "  %s\n", rel)
	}
	fmt.Fprintln(out, "\nNext: verity run")
	return nil
}
