package e2etests

import "encoding/json"

// IssueResult mirrors the JSON moth prints for one issue.
type IssueResult struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
	Status   string `json:"status"`
	Order    int    `json:"order"`
	Path     string `json:"path"`
	Content  string `json:"content"`
}

// ExtractID extracts the issue ID from a JSON issue response.
func ExtractID(jsonOutput []byte) string {
	var result IssueResult
	if err := json.Unmarshal(jsonOutput, &result); err != nil {
		return ""
	}
	return result.ID
}

// ParseIssue decodes a single JSON issue.
func ParseIssue(jsonOutput string) (IssueResult, error) {
	var result IssueResult
	err := json.Unmarshal([]byte(jsonOutput), &result)
	return result, err
}

// ParseIssueList decodes a JSON issue listing.
func ParseIssueList(jsonOutput string) ([]IssueResult, error) {
	var result []IssueResult
	err := json.Unmarshal([]byte(jsonOutput), &result)
	return result, err
}
