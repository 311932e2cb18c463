package cmd

import (
	"errors"
	"fmt"

	"moth/internal/issuestorage"

	"github.com/spf13/cobra"
)

// CompactJSON is the JSON output format for one compacted status.
type CompactJSON struct {
	Status  string   `json:"status"`
	Ordered int      `json:"ordered"`
	Renamed int      `json:"renamed"`
	Failed  []string `json:"failed,omitempty"`
}

// newCompactCmd creates the compact command.
func newCompactCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compact [status]",
		Short: "Renumber priority ranks to 1..n",
		Long: `Renumber the ranked issues of a status to 1, 2, 3... keeping their order.

Without a status every prioritized status is compacted. Compaction renames
files one at a time; if a rename fails the others still happen and the
failures are reported.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeStatuses(provider),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			var targets []string
			if len(args) == 1 {
				targets = args
			} else {
				for _, s := range app.Config.Statuses {
					if s.Prioritized {
						targets = append(targets, s.Name)
					}
				}
			}

			var (
				results []CompactJSON
				errs    []error
			)
			err = app.withHooks(ctx, "compact", "", func() error {
				for _, status := range targets {
					result, err := app.Store.Compact(ctx, status)
					if result != nil {
						results = append(results, compactJSON(result))
					}
					if err != nil {
						errs = append(errs, err)
					}
				}
				return errors.Join(errs...)
			})

			if app.JSON {
				if jerr := writeJSON(app, results); jerr != nil {
					return jerr
				}
				return err
			}

			for _, r := range results {
				fmt.Fprintf(app.Out, "Compacted %d prioritized issues in %s\n", r.Ordered, r.Status)
			}
			return err
		},
	}

	return cmd
}

func compactJSON(result *issuestorage.CompactResult) CompactJSON {
	out := CompactJSON{
		Status:  result.Status,
		Ordered: result.Ordered,
		Renamed: len(result.Renamed),
	}
	for _, f := range result.Failed {
		out.Failed = append(out.Failed, f.ID)
	}
	return out
}
