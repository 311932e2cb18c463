package cmd

import (
	"fmt"
	"strings"

	"moth/internal/githook"

	"github.com/spf13/cobra"
)

// newPrefixCmd creates the prefix command. The git hook uses it to skip
// messages that are already tagged, so it works without a .moth directory.
func newPrefixCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefix <message>",
		Short: "Print the issue ID a commit message starts with",
		Long: `Print the issue ID when the message begins with "[<id>]". Exits with
status 1 and prints nothing otherwise.`,
		Args:   cobra.MinimumNArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := githook.ExtractIssueID(strings.Join(args, " "))
			if !ok {
				return &ExitError{Code: 1}
			}
			fmt.Fprintln(provider.out(), id)
			return nil
		},
	}

	return cmd
}
