package report

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Commit is the committer metadata of one commit in the report range.
type Commit struct {
	SHA            string
	Date           time.Time
	CommitterName  string
	CommitterEmail string
}

// treeEntry is one blob under the control directory at some commit.
type treeEntry struct {
	Path string // relative to the repository root, slash separated
	Blob string
}

// gitRunner runs git in a fixed repository directory.
type gitRunner struct {
	dir string
}

func (g gitRunner) run(ctx context.Context, args ...string) ([]byte, error) {
	// #nosec G204 -- arguments are built by this package
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// commits lists the commits in since..until, oldest first. An empty until
// means HEAD; an empty since means the whole history.
func (g gitRunner) commits(ctx context.Context, since, until string) ([]Commit, error) {
	if until == "" {
		until = "HEAD"
	}
	rev := until
	if since != "" {
		rev = since + ".." + until
	}

	out, err := g.run(ctx, "log", "--reverse", "--format=%H%x00%ct%x00%cn%x00%ce", rev, "--")
	if err != nil {
		return nil, err
	}

	var commits []Commit
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\x00")
		if len(fields) != 4 {
			return nil, fmt.Errorf("unexpected git log line %q", line)
		}
		secs, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing commit time %q: %w", fields[1], err)
		}
		commits = append(commits, Commit{
			SHA:            fields[0],
			Date:           time.Unix(secs, 0).UTC(),
			CommitterName:  fields[2],
			CommitterEmail: fields[3],
		})
	}
	return commits, nil
}

// resolve returns the full commit SHA a revision names.
func (g gitRunner) resolve(ctx context.Context, rev string) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--verify", rev+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// tree lists every blob below dir at commit. A commit where dir does not
// exist yields no entries.
func (g gitRunner) tree(ctx context.Context, commit, dir string) ([]treeEntry, error) {
	out, err := g.run(ctx, "ls-tree", "-r", "-z", "--full-tree", commit, "--", dir)
	if err != nil {
		return nil, err
	}

	var entries []treeEntry
	for _, rec := range strings.Split(string(out), "\x00") {
		if rec == "" {
			continue
		}
		// <mode> SP <type> SP <object> TAB <path>
		meta, path, ok := strings.Cut(rec, "\t")
		if !ok {
			return nil, fmt.Errorf("unexpected git ls-tree record %q", rec)
		}
		fields := strings.Fields(meta)
		if len(fields) != 3 || fields[1] != "blob" {
			continue
		}
		entries = append(entries, treeEntry{Path: path, Blob: fields[2]})
	}
	return entries, nil
}
