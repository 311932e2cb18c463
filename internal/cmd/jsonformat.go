package cmd

import (
	"encoding/json"

	"moth/internal/issuestorage"
)

// IssueJSON is the JSON output format for a single issue.
// Used for new, ls, show and the commands that change an issue.
type IssueJSON struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
	Status   string `json:"status"`
	Order    int    `json:"order,omitempty"`
	Path     string `json:"path"`
	Content  string `json:"content,omitempty"`
}

// ToIssueJSON converts an issue to its JSON output form.
func ToIssueJSON(issue *issuestorage.Issue) IssueJSON {
	return IssueJSON{
		ID:       issue.ID,
		Title:    issue.Title(),
		Severity: issue.Severity.String(),
		Status:   issue.Status,
		Order:    issue.Order,
		Path:     issue.Path,
	}
}

// ToIssueListJSON converts issues to their JSON output form. The result is
// never nil so an empty listing encodes as [].
func ToIssueListJSON(issues []*issuestorage.Issue) []IssueJSON {
	result := make([]IssueJSON, len(issues))
	for i, issue := range issues {
		result[i] = ToIssueJSON(issue)
	}
	return result
}

// writeJSON encodes v to the app output.
func writeJSON(app *App, v any) error {
	return json.NewEncoder(app.Out).Encode(v)
}
