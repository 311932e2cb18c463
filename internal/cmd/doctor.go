package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DoctorResult represents the output of the doctor command.
type DoctorResult struct {
	Problems []string `json:"problems"`
	Fixed    bool     `json:"fixed"`
}

// newDoctorCmd creates the doctor command.
func newDoctorCmd(provider *AppProvider) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check for and fix inconsistencies",
		Long: `Check for and fix inconsistencies in the .moth directory.

Checks for:
- Missing status directories
- Issue files whose names cannot be parsed
- Priority ranks in statuses that are not prioritized
- Legacy or otherwise non-canonical filenames
- Duplicate priority ranks within a status
- The same issue ID in more than one file
- A current issue that no longer exists`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			var problems []string
			err = app.withHooks(ctx, "doctor", "", func() error {
				problems, err = app.Store.Doctor(ctx, fix)
				return err
			})
			if err != nil {
				return fmt.Errorf("doctor failed: %w", err)
			}
			if problems == nil {
				problems = []string{}
			}

			if app.JSON {
				return writeJSON(app, DoctorResult{Problems: problems, Fixed: fix})
			}

			if len(problems) == 0 {
				fmt.Fprintln(app.Out, app.SuccessColor("No problems found."))
				return nil
			}

			if fix {
				fmt.Fprintf(app.Out, "Fixed %d problems:\n", len(problems))
			} else {
				fmt.Fprintf(app.Out, "Found %d problems:\n", len(problems))
			}

			for _, problem := range problems {
				fmt.Fprintf(app.Out, "  - %s\n", problem)
			}

			if !fix {
				fmt.Fprintln(app.Out, "\nRun 'moth doctor --fix' to fix these issues.")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Fix problems (default is check only)")

	return cmd
}
