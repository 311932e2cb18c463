// Package issuestorage defines the issue model and the IssueStore interface
// for moth. Issues are markdown files whose metadata (order, id, severity,
// slug) lives in the filename; see codec.go for the encoding.
package issuestorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors returned by IssueStore implementations.
var (
	ErrNotFound     = errors.New("not found")
	ErrAmbiguous    = errors.New("ambiguous issue ID")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrExhausted    = errors.New("resource exhausted")
)

// AmbiguousError is returned when a partial ID matches more than one issue.
type AmbiguousError struct {
	Prefix  string
	Matches []string // sorted
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous ID '%s'. Matches: %s", e.Prefix, strings.Join(e.Matches, ", "))
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

// Severity is the urgency of an issue. Lower values are more severe.
type Severity int

const (
	SeverityCrit Severity = iota
	SeverityHigh
	SeverityMed
	SeverityLow
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCrit, SeverityHigh, SeverityMed, SeverityLow}

var severityNames = [...]string{"crit", "high", "med", "low"}

// String returns the filename form of the severity ("crit", "high", ...).
func (s Severity) String() string {
	if s < SeverityCrit || s > SeverityLow {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity converts "crit", "high", "med" or "low" to a Severity.
// Matching is exact; filenames and config always use the lowercase form.
func ParseSeverity(s string) (Severity, error) {
	for i, name := range severityNames {
		if s == name {
			return Severity(i), nil
		}
	}
	return SeverityMed, fmt.Errorf("%w: invalid severity %q. Must be one of: crit, high, med, low", ErrInvalidInput, s)
}

// MarshalJSON writes the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON reads a severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("severity must be a string, got %s", string(data))
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// StatusDef describes one configured status and the directory backing it.
type StatusDef struct {
	Name      string
	Dir       string
	Orderable bool
}

// Issue is a single issue file.
type Issue struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Slug     string   `json:"slug"`
	Status   string   `json:"status"`

	// Order is the manual priority rank within an orderable status.
	// Zero means unordered; unordered issues sort after all ordered ones.
	Order int `json:"order,omitempty"`

	// Path is where the backing file was last observed on disk.
	Path string `json:"path"`
}

// HasOrder reports whether the issue carries a manual priority rank.
func (issue *Issue) HasOrder() bool {
	return issue.Order > 0
}

// Title returns the human-readable title derived from the slug.
func (issue *Issue) Title() string {
	return TitleFromSlug(issue.Slug)
}

// Filename returns the canonical filename for the issue's current fields.
func (issue *Issue) Filename() string {
	return EncodeFilename(issue.Order, issue.ID, issue.Severity, issue.Slug)
}

// Less reports whether a sorts before b in a status listing: ordered issues
// first by ascending order, then by severity, slug and ID.
func Less(a, b *Issue) bool {
	if a.HasOrder() != b.HasOrder() {
		return a.HasOrder()
	}
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	if a.Severity != b.Severity {
		return a.Severity < b.Severity
	}
	if a.Slug != b.Slug {
		return a.Slug < b.Slug
	}
	return a.ID < b.ID
}

// SortIssues sorts issues in listing order (see Less).
func SortIssues(issues []*Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return Less(issues[i], issues[j])
	})
}

// ReorderOpts controls the optional compaction after a reorder.
type ReorderOpts struct {
	// Compact overrides the store's auto-compact setting when non-nil.
	Compact *bool
}

// Rename records a single file rename performed by Compact.
type Rename struct {
	ID       string
	OldOrder int
	NewOrder int
}

// RenameFailure records a rename Compact attempted but could not perform.
type RenameFailure struct {
	ID  string
	Err error
}

// CompactResult describes the outcome of compacting one status.
// Compaction is best-effort: renames that succeeded stay in place even
// when later renames fail.
type CompactResult struct {
	Status  string
	Ordered int // number of ordered issues in the status
	Renamed []Rename
	Failed  []RenameFailure
}

// IssueStore defines the interface for issue persistence.
type IssueStore interface {
	// Init creates the control directory and every status directory.
	Init(ctx context.Context) error

	// CheckLayout verifies that every status directory exists.
	CheckLayout(ctx context.Context) error

	// Statuses returns the configured statuses in order.
	Statuses() []StatusDef

	// List returns the issues in a status, ordered issues first (ascending
	// order), then unordered issues by severity and slug.
	// Files that fail to decode are skipped and logged.
	// Returns ErrNotFound for an unknown status.
	List(ctx context.Context, status string) ([]*Issue, error)

	// All returns every issue, status by status in configuration order.
	All(ctx context.Context) ([]*Issue, error)

	// Find returns the single issue whose ID starts with partialID.
	// Returns ErrNotFound for no match and an *AmbiguousError for several.
	Find(ctx context.Context, partialID string) (*Issue, error)

	// Create allocates a fresh ID and writes an empty issue file in the
	// first status.
	Create(ctx context.Context, title string, severity Severity) (*Issue, error)

	// Move renames the issue into another status, dropping its order when
	// the target status is not orderable. The issue is updated in place.
	Move(ctx context.Context, issue *Issue, status string) error

	// SetSeverity renames the issue with a new severity.
	SetSeverity(ctx context.Context, issue *Issue, severity Severity) error

	// Delete removes the issue file. Returns ErrNotFound if it is gone.
	Delete(ctx context.Context, issue *Issue) error

	// Reorder sets the issue's manual priority within its status.
	Reorder(ctx context.Context, issue *Issue, pos Position, opts ReorderOpts) error

	// Compact renumbers the ordered issues of a status to 1..N.
	Compact(ctx context.Context, status string) (*CompactResult, error)

	// Content returns the markdown body of the issue.
	Content(ctx context.Context, issue *Issue) ([]byte, error)

	// Current returns the issue recorded as currently being worked on.
	// Returns ErrNotFound if there is none.
	Current(ctx context.Context) (*Issue, error)

	// SetCurrent records id as the issue currently being worked on.
	SetCurrent(ctx context.Context, id string) error

	// ClearCurrent forgets the current issue.
	ClearCurrent(ctx context.Context) error

	// Doctor checks for and optionally fixes inconsistencies.
	Doctor(ctx context.Context, fix bool) ([]string, error)
}
