package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"moth/internal/issuestorage"
)

// Doctor checks the .moth directory for inconsistencies and optionally fixes them.
// Returns a list of problems found (and fixed, if fix=true).
//
// Checks:
//   - missing status directories (fix: create)
//   - .md files whose names do not decode (reported only)
//   - ordered files in a status that is not orderable (fix: strip the order)
//   - non-canonical names such as legacy hyphen-joined slugs or a 000
//     prefix (fix: rename to the canonical name)
//   - duplicate orders within an orderable status (fix: compact)
//   - the same ID in more than one file (reported only)
//   - a .current pointing at a missing issue (fix: clear)
func (fs *FilesystemStorage) Doctor(ctx context.Context, fix bool) ([]string, error) {
	var problems []string
	paths := make(map[string][]string) // id -> files carrying it

	for _, def := range fs.statuses {
		dir := fs.statusDir(def)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("missing status directory: %s", def.Dir))
			if fix {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return problems, fmt.Errorf("creating %s: %w", dir, err)
				}
			}
			continue
		}
		if err != nil {
			return problems, fmt.Errorf("reading %s: %w", dir, err)
		}

		needsCompact := false
		seenOrder := make(map[int]string)

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, issuestorage.Extension) {
				continue
			}
			rel := filepath.Join(def.Dir, name)

			issue, err := issuestorage.DecodeFilename(name)
			if err != nil {
				problems = append(problems, fmt.Sprintf("undecodable issue file: %s: %v", rel, err))
				continue
			}
			issue.Status = def.Name
			issue.Path = filepath.Join(dir, name)
			paths[issue.ID] = append(paths[issue.ID], rel)

			next := *issue
			if issue.HasOrder() && !def.Orderable {
				problems = append(problems, fmt.Sprintf("ordered issue in unordered status: %s", rel))
				next.Order = 0
			} else if next.Filename() != name {
				problems = append(problems, fmt.Sprintf("non-canonical filename: %s (want %s)", rel, next.Filename()))
			}
			if next.Filename() != name && fix {
				if err := fs.rename(issue, next); err != nil {
					return problems, err
				}
			}

			if def.Orderable && next.HasOrder() {
				if other, ok := seenOrder[next.Order]; ok {
					problems = append(problems, fmt.Sprintf("duplicate order %d in %s: %s and %s", next.Order, def.Name, other, issue.ID))
					needsCompact = true
				} else {
					seenOrder[next.Order] = issue.ID
				}
			}
		}

		if needsCompact && fix {
			if _, err := fs.compact(def, nil); err != nil {
				return problems, err
			}
		}
	}

	ids := make([]string, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if files := paths[id]; len(files) > 1 {
			problems = append(problems, fmt.Sprintf("duplicate ID %s: %s", id, strings.Join(files, ", ")))
		}
	}

	if id, err := fs.readCurrent(); err == nil {
		if _, ok := paths[id]; !ok {
			problems = append(problems, fmt.Sprintf("current issue %s does not exist", id))
			if fix {
				if err := fs.ClearCurrent(ctx); err != nil {
					return problems, err
				}
			}
		}
	}

	return problems, nil
}
