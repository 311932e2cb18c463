package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// openEditor runs the configured editor on path with the terminal attached.
// The editor setting may carry arguments, e.g. "code --wait".
func openEditor(ctx context.Context, app *App, path string) error {
	editor := app.Config.EditorCommand()
	argv, err := shlex.Split(editor)
	if err != nil {
		return fmt.Errorf("parsing editor command %q: %w", editor, err)
	}
	if len(argv) == 0 {
		return errors.New("no editor configured")
	}

	app.logger().Debug("opening editor", zap.Strings("argv", argv), zap.String("path", path))
	// #nosec G204 -- the editor comes from the user's own configuration
	editorCmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	editorCmd.Stdin = app.In
	editorCmd.Stdout = app.Out
	editorCmd.Stderr = app.Err

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor %s: %w", editor, err)
	}
	return nil
}

// newEditCmd creates the edit command.
func newEditCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [issue-id]",
		Short: "Edit an issue in the configured editor",
		Long: `Open an issue file in your editor.

The editor is resolved from MOTH_EDITOR, then the editor setting in
config.yml, then $EDITOR, and falls back to vi. Without an ID the current
issue is opened.

Examples:
  moth edit x7k2m
  MOTH_EDITOR="code --wait" moth edit x7`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeIssueIDs(provider),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			issue, err := app.issueOrCurrent(ctx, args)
			if err != nil {
				return err
			}

			return app.withHooks(ctx, "edit", issue.ID, func() error {
				return openEditor(ctx, app, issue.Path)
			})
		},
	}

	return cmd
}
