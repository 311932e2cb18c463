package cmd

import (
	"fmt"
	"strings"

	"moth/internal/issuestorage"

	"github.com/spf13/cobra"
)

// newShowCmd creates the show command.
func newShowCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [issue-id]",
		Short: "Show issue details",
		Long: `Display an issue's metadata followed by its file content.

Supports prefix matching on issue IDs. Without an ID the current issue is
shown.

Examples:
  moth show x7k2m       # Exact ID match
  moth show x7          # Prefix match (if unique)
  moth show             # Current issue`,
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

			content, err := app.Store.Content(ctx, issue)
			if err != nil {
				return err
			}

			return outputIssue(app, issue, string(content))
		},
	}

	return cmd
}

// outputIssue formats and outputs the issue details.
func outputIssue(app *App, issue *issuestorage.Issue, content string) error {
	if app.JSON {
		result := ToIssueJSON(issue)
		result.Content = content
		return writeJSON(app, result)
	}

	header := fmt.Sprintf("ID: %s | Severity: %s | Status: %s", issue.ID, app.SeverityLabel(issue.Severity), issue.Status)
	if issue.HasOrder() {
		header += fmt.Sprintf(" | Priority: %d", issue.Order)
	}
	fmt.Fprintln(app.Out, header)
	fmt.Fprintf(app.Out, "Title: %s\n", issue.Title())
	fmt.Fprintln(app.Out, "---")
	fmt.Fprint(app.Out, content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		fmt.Fprintln(app.Out)
	}
	return nil
}
