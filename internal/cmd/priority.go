package cmd

import (
	"errors"
	"fmt"
	"strings"

	"moth/internal/issuestorage"

	"github.com/spf13/cobra"
)

// positionArg joins the position and optional other-issue arguments into
// the form ParsePosition accepts, so "above x7" and "above:x7" agree.
func positionArg(args []string) (string, error) {
	pos := args[0]
	if len(args) < 2 {
		return pos, nil
	}
	switch strings.ToLower(pos) {
	case "above", "below":
		return pos + ":" + args[1], nil
	}
	return "", fmt.Errorf("%w: position %q does not take another issue ID", issuestorage.ErrInvalidInput, pos)
}

// newPriorityCmd creates the priority command.
func newPriorityCmd(provider *AppProvider) *cobra.Command {
	var (
		compact   bool
		noCompact bool
	)

	cmd := &cobra.Command{
		Use:   "priority <issue-id> <position> [other-id]",
		Short: "Set the priority order of an issue",
		Long: `Set an issue's manual priority rank within its status. Only statuses with
prioritized: true in config.yml accept a rank.

Positions:
  top              Above every ranked issue
  bottom           Remove the rank; the issue sorts after ranked issues
  above <id>       Just above another issue in the same status
  below <id>       Just below another issue in the same status
  <n>              Exactly rank n

With --compact (or priority.auto_compact in config.yml) the status is
renumbered 1..n afterwards.

Examples:
  moth priority x7k2m top
  moth priority x7k2m above ab3
  moth priority x7k2m 2 --compact`,
		Args: cobra.RangeArgs(2, 3),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 1:
				return []string{"top", "bottom", "above", "below"}, cobra.ShellCompDirectiveNoFileComp
			case 0, 2:
				return completeIssueIDs(provider)(cmd, args, toComplete)
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			if compact && noCompact {
				return errors.New("cannot specify both --compact and --no-compact")
			}
			var opts issuestorage.ReorderOpts
			switch {
			case compact:
				opts.Compact = &compact
			case noCompact:
				off := false
				opts.Compact = &off
			}

			raw, err := positionArg(args[1:])
			if err != nil {
				return err
			}
			pos, err := issuestorage.ParsePosition(raw)
			if err != nil {
				return err
			}

			issue, err := app.Store.Find(ctx, args[0])
			if err != nil {
				return err
			}

			err = app.withHooks(ctx, "priority", issue.ID, func() error {
				return app.Store.Reorder(ctx, issue, pos, opts)
			})
			if err != nil {
				return fmt.Errorf("setting priority of %s: %w", issue.ID, err)
			}

			if app.JSON {
				return writeJSON(app, ToIssueJSON(issue))
			}
			if issue.HasOrder() {
				fmt.Fprintf(app.Out, "Set priority of %s to %d\n", issue.ID, issue.Order)
			} else {
				fmt.Fprintf(app.Out, "Removed priority from %s\n", issue.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Compact the status after repositioning")
	cmd.Flags().BoolVar(&noCompact, "no-compact", false, "Don't compact after repositioning")

	return cmd
}
