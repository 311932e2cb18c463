package cmd

import (
	"fmt"
	"path/filepath"

	"moth/internal/configservice"
	"moth/internal/report"

	"github.com/spf13/cobra"
)

// newReportCmd creates the report command.
func newReportCmd(provider *AppProvider) *cobra.Command {
	var (
		since string
		until string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print issue change history from git as CSV",
		Long: `Walk the git history of the .moth directory and print one CSV row for
every issue created, moved, edited or deleted in each commit.

Columns: commit_sha, commit_date, committer_name, committer_email,
issue_id, severity, status, event.

Examples:
  moth report
  moth report --since v1.0 --until HEAD > history.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			repoRoot, err := configservice.FindGitRoot(app.Paths.ProjectRoot)
			if err != nil {
				return err
			}
			if repoRoot == "" {
				return fmt.Errorf("%s is not inside a git repository", app.Paths.ProjectRoot)
			}
			rel, err := filepath.Rel(repoRoot, app.Paths.ConfigDir)
			if err != nil {
				return fmt.Errorf("locating .moth inside %s: %w", repoRoot, err)
			}

			return report.Generate(cmd.Context(), report.Options{
				RepoDir:  repoRoot,
				MothDir:  filepath.ToSlash(rel),
				Since:    since,
				Until:    until,
				Statuses: app.Config.StatusDefs(),
				Logger:   app.Logger,
			}, app.Out)
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Start after this commit (exclusive)")
	cmd.Flags().StringVar(&until, "until", "", "End at this commit (default HEAD)")

	return cmd
}
