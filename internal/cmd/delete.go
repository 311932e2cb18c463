package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDeleteCmd creates the rm command.
func newDeleteCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <issue-id>",
		Short: "Delete an issue",
		Long: `Delete an issue file. There is no soft delete; the file is gone unless it
is tracked by git. Deleting the current issue clears it.`,
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

			err = app.withHooks(ctx, "rm", issue.ID, func() error {
				return app.Store.Delete(ctx, issue)
			})
			if err != nil {
				return fmt.Errorf("deleting %s: %w", issue.ID, err)
			}

			if app.JSON {
				return writeJSON(app, map[string]string{"deleted": issue.ID})
			}
			fmt.Fprintf(app.Out, "Deleted %s: %s\n", issue.ID, issue.Title())
			return nil
		},
	}

	return cmd
}
