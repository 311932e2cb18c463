package cmd

import (
	"strings"

	"moth/internal/issuestorage"

	"github.com/spf13/cobra"
)

// completeIssueIDs completes issue IDs with their titles as descriptions.
// Completion stays silent outside a moth project.
func completeIssueIDs(provider *AppProvider) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		app, err := provider.Get()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		issues, err := app.Store.All(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var out []string
		for _, issue := range issues {
			if strings.HasPrefix(issue.ID, toComplete) {
				out = append(out, issue.ID+"\t"+issue.Title())
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeStatuses completes configured status names.
func completeStatuses(provider *AppProvider) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		app, err := provider.Get()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var out []string
		for _, name := range app.Config.StatusNames() {
			if strings.HasPrefix(name, toComplete) {
				out = append(out, name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

func completeSeverities(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, sev := range issuestorage.Severities {
		if strings.HasPrefix(sev.String(), toComplete) {
			out = append(out, sev.String())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
