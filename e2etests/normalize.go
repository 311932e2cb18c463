package e2etests

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Normalizer tracks ID mappings across a test case and rewrites output for
// deterministic comparison. Moth IDs are short random strings that look
// like ordinary words, so only IDs the case has learned are replaced.
type Normalizer struct {
	sandbox  string
	issueIDs map[string]string // "x7k2m" -> "ISSUE_1"
	issueSeq int
}

// NewNormalizer creates a Normalizer that also replaces the sandbox path.
func NewNormalizer(sandbox string) *Normalizer {
	return &Normalizer{
		sandbox:  sandbox,
		issueIDs: make(map[string]string),
	}
}

// Learn records id and returns its stable placeholder.
func (n *Normalizer) Learn(id string) string {
	if mapped, ok := n.issueIDs[id]; ok {
		return mapped
	}
	n.issueSeq++
	mapped := fmt.Sprintf("ISSUE_%d", n.issueSeq)
	n.issueIDs[id] = mapped
	return mapped
}

// NormalizeText replaces the sandbox path and every learned ID in s.
func (n *Normalizer) NormalizeText(s string) string {
	if n.sandbox != "" {
		s = strings.ReplaceAll(s, n.sandbox, "SANDBOX")
	}

	// Longest first so an ID never clobbers a longer one containing it.
	ids := make([]string, 0, len(n.issueIDs))
	for id := range n.issueIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) > len(ids[j])
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		s = strings.ReplaceAll(s, id, n.issueIDs[id])
	}
	return strings.TrimRight(s, "\n")
}

// NormalizeJSON takes raw JSON bytes, normalizes IDs and paths, and
// returns pretty-printed JSON with sorted keys. Invalid JSON is
// normalized as plain text.
func (n *Normalizer) NormalizeJSON(input []byte) string {
	input = []byte(strings.TrimSpace(string(input)))
	if len(input) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(input, &data); err != nil {
		return n.NormalizeText(string(input))
	}

	output, err := json.MarshalIndent(n.walk(data), "", "  ")
	if err != nil {
		return n.NormalizeText(string(input))
	}
	return string(output)
}

func (n *Normalizer) walk(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(val))
		for k, item := range val {
			result[k] = n.walk(item)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(val))
		for i, item := range val {
			result[i] = n.walk(item)
		}
		return result
	case string:
		return n.NormalizeText(val)
	default:
		return val
	}
}
