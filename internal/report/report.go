// Package report derives a change history of moth issues from git.
//
// Every commit in the requested range is compared with its predecessor by
// listing the issue files under the control directory. Each difference is
// emitted as one CSV row.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"moth/internal/issuestorage"
)

// Header is the first CSV row written by Generate.
var Header = []string{
	"commit_sha", "commit_date", "committer_name", "committer_email",
	"issue_id", "severity", "status", "event",
}

// DateFormat renders commit dates in UTC.
const DateFormat = "2006-01-02T15:04:05Z"

// EventKind classifies a change to one issue between two commits.
type EventKind string

const (
	Created EventKind = "created"
	Moved   EventKind = "moved"
	Edited  EventKind = "edited"
	Deleted EventKind = "deleted"
)

// Options configures Generate.
type Options struct {
	// RepoDir is any directory inside the git work tree.
	RepoDir string
	// MothDir is the control directory relative to the repository root,
	// e.g. ".moth".
	MothDir string
	// Since excludes it and its ancestors; empty means the full history.
	Since string
	// Until is the last commit reported; empty means HEAD.
	Until string
	// Statuses maps status directories to names. Directories not listed
	// are reported under their directory name.
	Statuses []issuestorage.StatusDef
	Logger   *zap.Logger
}

// Event is one reported change.
type Event struct {
	Commit Commit
	Kind   EventKind
	Issue  issuestorage.Issue
}

// snapshotEntry is the state of one issue at a commit.
type snapshotEntry struct {
	issue issuestorage.Issue
	blob  string
}

type snapshot map[string]snapshotEntry

// Generate writes the report for opts to w as CSV.
func Generate(ctx context.Context, opts Options, w io.Writer) error {
	events, err := Events(ctx, opts)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{
			ev.Commit.SHA,
			ev.Commit.Date.UTC().Format(DateFormat),
			ev.Commit.CommitterName,
			ev.Commit.CommitterEmail,
			ev.Issue.ID,
			ev.Issue.Severity.String(),
			ev.Issue.Status,
			string(ev.Kind),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Events computes the change events for opts, in commit order and sorted
// by issue ID within a commit.
func Events(ctx context.Context, opts Options) ([]Event, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mothDir := strings.Trim(path.Clean(opts.MothDir), "/")
	if mothDir == "" || mothDir == "." {
		return nil, fmt.Errorf("%w: control directory must be inside the repository", issuestorage.ErrInvalidInput)
	}

	g := gitRunner{dir: opts.RepoDir}
	commits, err := g.commits(ctx, opts.Since, opts.Until)
	if err != nil {
		return nil, err
	}

	statusNames := make(map[string]string, len(opts.Statuses))
	for _, def := range opts.Statuses {
		statusNames[def.Dir] = def.Name
	}

	load := func(sha string) (snapshot, error) {
		entries, err := g.tree(ctx, sha, mothDir)
		if err != nil {
			return nil, err
		}
		return buildSnapshot(entries, mothDir, statusNames, logger), nil
	}

	prev := snapshot{}
	if opts.Since != "" {
		sha, err := g.resolve(ctx, opts.Since)
		if err != nil {
			return nil, err
		}
		if prev, err = load(sha); err != nil {
			return nil, err
		}
	}

	var events []Event
	for _, c := range commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur, err := load(c.SHA)
		if err != nil {
			return nil, err
		}
		events = append(events, diff(c, prev, cur)...)
		prev = cur
	}
	return events, nil
}

// buildSnapshot keeps the decodable issue files that sit directly inside a
// visible status directory.
func buildSnapshot(entries []treeEntry, mothDir string, statusNames map[string]string, logger *zap.Logger) snapshot {
	snap := snapshot{}
	for _, e := range entries {
		rel := strings.TrimPrefix(e.Path, mothDir+"/")
		dir, name, ok := strings.Cut(rel, "/")
		if !ok || strings.Contains(name, "/") || strings.HasPrefix(dir, ".") {
			continue
		}
		if !strings.HasSuffix(name, issuestorage.Extension) {
			continue
		}
		issue, err := issuestorage.DecodeFilename(name)
		if err != nil {
			logger.Debug("skipping file in history", zap.String("path", e.Path), zap.Error(err))
			continue
		}
		issue.Status = dir
		if status, ok := statusNames[dir]; ok {
			issue.Status = status
		}
		issue.Path = e.Path
		snap[issue.ID] = snapshotEntry{issue: *issue, blob: e.Blob}
	}
	return snap
}

// diff reports what changed between two snapshots. A status change is a
// move even when other fields also changed.
func diff(c Commit, prev, cur snapshot) []Event {
	var events []Event
	for id, now := range cur {
		before, ok := prev[id]
		switch {
		case !ok:
			events = append(events, Event{Commit: c, Kind: Created, Issue: now.issue})
		case before.issue.Status != now.issue.Status:
			events = append(events, Event{Commit: c, Kind: Moved, Issue: now.issue})
		case before.issue.Severity != now.issue.Severity,
			before.issue.Slug != now.issue.Slug,
			before.issue.Order != now.issue.Order,
			before.blob != now.blob:
			events = append(events, Event{Commit: c, Kind: Edited, Issue: now.issue})
		}
	}
	for id, before := range prev {
		if _, ok := cur[id]; !ok {
			events = append(events, Event{Commit: c, Kind: Deleted, Issue: before.issue})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Issue.ID < events[j].Issue.ID
	})
	return events
}
