package cmd

import (
	"errors"
	"fmt"

	"moth/internal/issuestorage"

	"github.com/spf13/cobra"
)

// newCreateCmd creates the new command.
func newCreateCmd(provider *AppProvider) *cobra.Command {
	var (
		severity string
		noEdit   bool
		start    bool
	)

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a new issue",
		Long: `Create a new issue in the first status with the given title.

The issue file is opened in the configured editor unless --no-edit is
given. When no_edit_on_new is set in config.yml, --no-edit is required.

Examples:
  moth new "Fix login bug"
  moth new "Crash on save" -s crit --no-edit
  moth new "Write docs" --start`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			sev := app.Config.Severity()
			if severity != "" {
				if sev, err = issuestorage.ParseSeverity(severity); err != nil {
					return err
				}
			}

			if err := app.Store.CheckLayout(ctx); err != nil {
				return err
			}

			var issue *issuestorage.Issue
			err = app.withHooks(ctx, "new", "", func() error {
				issue, err = app.Store.Create(ctx, args[0], sev)
				return err
			})
			if err != nil {
				return fmt.Errorf("creating issue: %w", err)
			}

			if !app.JSON {
				fmt.Fprintf(app.Out, "Created %s: %s [%s]\n", issue.ID, issue.Title(), app.SeverityLabel(issue.Severity))
			}

			if start {
				if err := startIssue(ctx, app, issue); err != nil {
					return err
				}
			}

			if app.JSON {
				return writeJSON(app, ToIssueJSON(issue))
			}

			if noEdit {
				return nil
			}
			if app.Config.NoEditOnNew {
				return errors.New("editing is disabled by configuration (no_edit_on_new: true); pass --no-edit")
			}
			return openEditor(ctx, app, issue.Path)
		},
	}

	cmd.Flags().StringVarP(&severity, "severity", "s", "", "Severity (crit, high, med, low)")
	cmd.Flags().BoolVar(&noEdit, "no-edit", false, "Skip opening the editor")
	cmd.Flags().BoolVar(&start, "start", false, "Start the issue immediately")
	_ = cmd.RegisterFlagCompletionFunc("severity", completeSeverities)

	return cmd
}
