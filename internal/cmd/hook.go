package cmd

import (
	"fmt"

	"moth/internal/configservice"
	"moth/internal/githook"

	"github.com/spf13/cobra"
)

// HookJSON is the JSON output format for hook install and uninstall.
type HookJSON struct {
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
}

// newHookCmd creates the hook command group.
func newHookCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage the git commit hook",
		Long: `Manage the prepare-commit-msg hook that prefixes commit messages with the
current issue ID, e.g. "[x7k2m] Fix login redirect".`,
	}

	cmd.AddCommand(newHookInstallCmd(provider))
	cmd.AddCommand(newHookUninstallCmd(provider))

	return cmd
}

// gitDirFor returns the git directory of the repository holding the project.
func gitDirFor(app *App) (string, error) {
	gitDir, err := configservice.GitDir(app.Paths.ProjectRoot)
	if err != nil {
		return "", fmt.Errorf("locating git directory: %w", err)
	}
	if gitDir == "" {
		return "", fmt.Errorf("%s is not inside a git repository", app.Paths.ProjectRoot)
	}
	return gitDir, nil
}

func printHookOutcome(app *App, outcome githook.Outcome, path string) error {
	if app.JSON {
		return writeJSON(app, HookJSON{Path: path, Outcome: string(outcome)})
	}
	switch outcome {
	case githook.AlreadyInstalled:
		fmt.Fprintf(app.Out, "Hook already installed at %s (use --force to reinstall)\n", path)
	case githook.NotInstalled:
		fmt.Fprintf(app.Out, "No hook installed at %s\n", path)
	default:
		fmt.Fprintf(app.Out, "Hook %s: %s\n", outcome, path)
	}
	return nil
}

// newHookInstallCmd creates the "hook install" subcommand.
func newHookInstallCmd(provider *AppProvider) *cobra.Command {
	var (
		force      bool
		appendMode bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the prepare-commit-msg hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			gitDir, err := gitDirFor(app)
			if err != nil {
				return err
			}

			outcome, path, err := githook.Install(gitDir, force, appendMode)
			if err != nil {
				return err
			}
			return printHookOutcome(app, outcome, path)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing hook")
	cmd.Flags().BoolVar(&appendMode, "append", false, "Append to an existing hook")

	return cmd
}

// newHookUninstallCmd creates the "hook uninstall" subcommand.
func newHookUninstallCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the prepare-commit-msg hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			gitDir, err := gitDirFor(app)
			if err != nil {
				return err
			}

			outcome, path, err := githook.Uninstall(gitDir)
			if err != nil {
				return err
			}
			return printHookOutcome(app, outcome, path)
		},
	}

	return cmd
}
