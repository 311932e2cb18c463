package cmd

import (
	"fmt"

	"moth/internal/issuestorage"

	"github.com/spf13/cobra"
)

// newSeverityCmd creates the severity command.
func newSeverityCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "severity <issue-id> <level>",
		Short: "Change issue severity",
		Long: `Change an issue's severity to one of crit, high, med or low.

Examples:
  moth severity x7k2m crit`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return completeIssueIDs(provider)(cmd, args, toComplete)
			}
			return completeSeverities(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			level, err := issuestorage.ParseSeverity(args[1])
			if err != nil {
				return err
			}

			issue, err := app.Store.Find(ctx, args[0])
			if err != nil {
				return err
			}
			old := issue.Severity

			err = app.withHooks(ctx, "severity", issue.ID, func() error {
				return app.Store.SetSeverity(ctx, issue, level)
			})
			if err != nil {
				return fmt.Errorf("changing severity of %s: %w", issue.ID, err)
			}

			if app.JSON {
				return writeJSON(app, ToIssueJSON(issue))
			}
			fmt.Fprintf(app.Out, "Changed severity of %s from %s to %s\n",
				issue.ID, app.SeverityLabel(old), app.SeverityLabel(level))
			return nil
		},
	}

	return cmd
}
