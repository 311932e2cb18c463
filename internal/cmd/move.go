package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moth/internal/issuestorage"

	"github.com/spf13/cobra"
)

// moveIssue moves issue to status inside the lifecycle hooks for command.
func moveIssue(ctx context.Context, app *App, command string, issue *issuestorage.Issue, status string) error {
	if err := app.Store.CheckLayout(ctx); err != nil {
		return err
	}
	return app.withHooks(ctx, command, issue.ID, func() error {
		if err := app.Store.Move(ctx, issue, status); err != nil {
			return fmt.Errorf("moving %s: %w", issue.ID, err)
		}
		return nil
	})
}

func printMoved(app *App, issue *issuestorage.Issue) error {
	if app.JSON {
		return writeJSON(app, ToIssueJSON(issue))
	}
	fmt.Fprintf(app.Out, "Moved %s to %s\n", issue.ID, app.SuccessColor(issue.Status))
	return nil
}

// startIssue moves issue to the second status and makes it current.
func startIssue(ctx context.Context, app *App, issue *issuestorage.Issue) error {
	if len(app.Config.Statuses) < 2 {
		return errors.New("cannot use 'start' with fewer than 2 statuses configured")
	}
	if err := moveIssue(ctx, app, "start", issue, app.Config.Second().Name); err != nil {
		return err
	}
	if err := app.Store.SetCurrent(ctx, issue.ID); err != nil {
		return fmt.Errorf("setting current issue: %w", err)
	}
	if app.JSON {
		return nil
	}
	return printMoved(app, issue)
}

// newStartCmd creates the start command.
func newStartCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <issue-id>",
		Short: "Start working on an issue",
		Long: `Move an issue to the second configured status (doing, by default) and
record it as the current issue. The git commit hook prefixes commit
messages with the current issue ID.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeIssueIDs(provider),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			issue, err := app.Store.Find(ctx, args[0])
			if err != nil {
				return err
			}
			if err := startIssue(ctx, app, issue); err != nil {
				return err
			}
			if app.JSON {
				return writeJSON(app, ToIssueJSON(issue))
			}
			return nil
		},
	}

	return cmd
}

// newDoneCmd creates the done command.
func newDoneCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done [issue-id]",
		Short: "Move an issue to the last status",
		Long: `Move an issue to the last configured status (done, by default).

Without an ID the current issue is used. The current issue is cleared
when it is the one being finished.`,
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

			if err := moveIssue(ctx, app, "done", issue, app.Config.Last().Name); err != nil {
				return err
			}

			current, err := app.Store.Current(ctx)
			switch {
			case err == nil && current.ID == issue.ID:
				if err := app.Store.ClearCurrent(ctx); err != nil {
					return fmt.Errorf("clearing current issue: %w", err)
				}
			case err != nil && !errors.Is(err, issuestorage.ErrNotFound):
				return err
			}

			return printMoved(app, issue)
		},
	}

	return cmd
}

// newMoveCmd creates the mv command.
func newMoveCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mv <issue-id> <status>",
		Short: "Move an issue to a status",
		Long: `Move an issue to any configured status. Moving into a status that is not
prioritized drops the issue's priority rank.

Examples:
  moth mv x7k2m doing
  moth mv x7 ready`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return completeIssueIDs(provider)(cmd, args, toComplete)
			}
			return completeStatuses(provider)(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			target := args[1]
			if _, ok := app.Config.StatusByName(target); !ok {
				return fmt.Errorf("unknown status %q (valid: %s)", target, strings.Join(app.Config.StatusNames(), ", "))
			}

			issue, err := app.Store.Find(ctx, args[0])
			if err != nil {
				return err
			}
			if err := moveIssue(ctx, app, "mv", issue, target); err != nil {
				return err
			}
			return printMoved(app, issue)
		},
	}

	return cmd
}
