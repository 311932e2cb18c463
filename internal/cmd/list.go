package cmd

import (
	"fmt"

	"moth/internal/issuestorage"

	"github.com/spf13/cobra"
)

// newListCmd creates the ls command.
func newListCmd(provider *AppProvider) *cobra.Command {
	var (
		status   string
		all      bool
		severity string
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List issues",
		Long: `List issues grouped by status, in priority order.

By default every status except the last (done) is listed. Statuses with no
matching issues are omitted.

Examples:
  moth ls                # Everything not done
  moth ls -a             # Every status
  moth ls -t doing       # One status
  moth ls -s crit        # Only critical issues`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			var sevFilter *issuestorage.Severity
			if severity != "" {
				sev, err := issuestorage.ParseSeverity(severity)
				if err != nil {
					return err
				}
				sevFilter = &sev
			}

			var statuses []string
			switch {
			case status != "":
				statuses = []string{status}
			case all:
				statuses = app.Config.StatusNames()
			default:
				names := app.Config.StatusNames()
				statuses = names[:len(names)-1]
			}

			var (
				listed []*issuestorage.Issue
				groups [][]*issuestorage.Issue
			)
			for _, name := range statuses {
				issues, err := app.Store.List(ctx, name)
				if err != nil {
					return fmt.Errorf("listing %s: %w", name, err)
				}
				var kept []*issuestorage.Issue
				for _, issue := range issues {
					if sevFilter == nil || issue.Severity == *sevFilter {
						kept = append(kept, issue)
					}
				}
				groups = append(groups, kept)
				listed = append(listed, kept...)
			}

			if app.JSON {
				return writeJSON(app, ToIssueListJSON(listed))
			}

			for i, issues := range groups {
				if len(issues) == 0 {
					continue
				}
				fmt.Fprintln(app.Out, statuses[i])
				for _, issue := range issues {
					fmt.Fprintf(app.Out, "  %s [%s] %s\n", issue.ID, app.SeverityLabel(issue.Severity), issue.Title())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "t", "", "Only list this status")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every status, including the last")
	cmd.Flags().StringVarP(&severity, "severity", "s", "", "Only list this severity (crit, high, med, low)")
	_ = cmd.RegisterFlagCompletionFunc("status", completeStatuses(provider))
	_ = cmd.RegisterFlagCompletionFunc("severity", completeSeverities)

	return cmd
}
