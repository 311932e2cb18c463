package filesystem

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"moth/internal/issuestorage"
)

// Reorder sets the issue's manual priority within its status and, when
// compaction is enabled, renumbers the status afterwards. The issue is
// updated in place with its final order and path.
func (fs *FilesystemStorage) Reorder(ctx context.Context, issue *issuestorage.Issue, pos issuestorage.Position, opts issuestorage.ReorderOpts) error {
	def, err := fs.orderableStatus(issue.Status)
	if err != nil {
		return err
	}

	order, err := fs.targetOrder(ctx, def, issue, pos)
	if err != nil {
		return err
	}

	next := *issue
	next.Order = order
	if err := fs.rename(issue, next); err != nil {
		return err
	}
	fs.logger.Debug("reordered issue",
		zap.String("id", issue.ID),
		zap.Stringer("position", pos),
		zap.Int("order", order))

	compact := fs.autoCompact
	if opts.Compact != nil {
		compact = *opts.Compact
	}
	if !compact {
		return nil
	}

	place := &placement{id: issue.ID}
	switch pos.Kind {
	case issuestorage.PositionAbove:
		place.anchor = pos.Other
	case issuestorage.PositionBelow:
		place.anchor = pos.Other
		place.below = true
	}
	result, err := fs.compact(def, place)
	if result != nil {
		for _, r := range result.Renamed {
			if r.ID == issue.ID {
				next := *issue
				next.Order = r.NewOrder
				if path, perr := fs.canonicalPath(&next); perr == nil {
					next.Path = path
				}
				*issue = next
			}
		}
	}
	return err
}

// targetOrder computes the order a reorder to pos assigns. Zero means the
// issue becomes unordered.
func (fs *FilesystemStorage) targetOrder(ctx context.Context, def issuestorage.StatusDef, issue *issuestorage.Issue, pos issuestorage.Position) (int, error) {
	switch pos.Kind {
	case issuestorage.PositionTop:
		issues, err := fs.listStatus(def)
		if err != nil {
			return 0, err
		}
		lowest := 0
		for _, other := range issues {
			if other.HasOrder() && (lowest == 0 || other.Order < lowest) {
				lowest = other.Order
			}
		}
		if lowest <= 1 {
			return 1, nil
		}
		return lowest - 1, nil

	case issuestorage.PositionBottom:
		return 0, nil

	case issuestorage.PositionAbove, issuestorage.PositionBelow:
		other, err := fs.Find(ctx, pos.Other)
		if err != nil {
			return 0, err
		}
		if other.ID == issue.ID {
			return 0, fmt.Errorf("%w: cannot place %s relative to itself", issuestorage.ErrInvalidInput, issue.ID)
		}
		if other.Status != issue.Status {
			return 0, fmt.Errorf("%w: target issue is in a different status: %s vs %s", issuestorage.ErrConflict, other.Status, issue.Status)
		}
		if !other.HasOrder() {
			return 0, nil
		}
		if pos.Kind == issuestorage.PositionBelow {
			return other.Order + 1, nil
		}
		if other.Order <= 1 {
			return 1, nil
		}
		return other.Order - 1, nil

	case issuestorage.PositionExplicit:
		if pos.Order < 1 {
			return 0, fmt.Errorf("%w: position must be at least 1, got %d", issuestorage.ErrInvalidInput, pos.Order)
		}
		return pos.Order, nil
	}
	return 0, fmt.Errorf("%w: unknown position %s", issuestorage.ErrInvalidInput, pos)
}

func (fs *FilesystemStorage) orderableStatus(name string) (issuestorage.StatusDef, error) {
	def, ok := fs.statusDef(name)
	if !ok {
		return def, fmt.Errorf("%w: unknown status '%s'", issuestorage.ErrNotFound, name)
	}
	if !def.Orderable {
		return def, fmt.Errorf("%w: status '%s' is not configured for prioritization", issuestorage.ErrConflict, name)
	}
	return def, nil
}

// Compact renumbers the ordered issues of a status to 1..N.
//
// Each renumbered file is a separate rename. A failed rename is recorded
// in the result and the remaining renames still run; renames that already
// happened are not rolled back.
func (fs *FilesystemStorage) Compact(ctx context.Context, status string) (*issuestorage.CompactResult, error) {
	def, err := fs.orderableStatus(status)
	if err != nil {
		return nil, err
	}
	return fs.compact(def, nil)
}

// placement pins a just-reordered issue during compaction. With an anchor
// the issue goes directly above it, or directly below when below is set.
// Without one it goes first among the issues sharing its order.
type placement struct {
	id     string
	anchor string
	below  bool
}

// compact renumbers def. Issues sharing an order keep their listing order;
// place, when non-nil, positions one issue explicitly.
func (fs *FilesystemStorage) compact(def issuestorage.StatusDef, place *placement) (*issuestorage.CompactResult, error) {
	issues, err := fs.listStatus(def)
	if err != nil {
		return nil, err
	}

	var ordered []*issuestorage.Issue
	var moved *issuestorage.Issue
	for _, issue := range issues {
		if !issue.HasOrder() {
			continue
		}
		if place != nil && issue.ID == place.id {
			moved = issue
			continue
		}
		ordered = append(ordered, issue)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	if moved != nil {
		ordered = insertPlaced(ordered, moved, place)
	}

	result := &issuestorage.CompactResult{Status: def.Name, Ordered: len(ordered)}
	var errs []error
	for i, issue := range ordered {
		want := i + 1
		if issue.Order == want {
			continue
		}
		old := issue.Order
		next := *issue
		next.Order = want
		if err := fs.rename(issue, next); err != nil {
			fs.logger.Warn("compaction rename failed",
				zap.String("status", def.Name),
				zap.String("id", issue.ID),
				zap.Error(err))
			result.Failed = append(result.Failed, issuestorage.RenameFailure{ID: issue.ID, Err: err})
			errs = append(errs, err)
			continue
		}
		result.Renamed = append(result.Renamed, issuestorage.Rename{ID: issue.ID, OldOrder: old, NewOrder: want})
	}

	if len(errs) > 0 {
		return result, fmt.Errorf("compacting %s: %d of %d renames failed: %w", def.Name, len(errs), len(ordered), errors.Join(errs...))
	}
	return result, nil
}

// insertPlaced returns ordered with moved inserted where place puts it.
// An anchor is matched by ID prefix, the same way Reorder resolved it.
func insertPlaced(ordered []*issuestorage.Issue, moved *issuestorage.Issue, place *placement) []*issuestorage.Issue {
	at := -1
	if place.anchor != "" {
		for i, issue := range ordered {
			if strings.HasPrefix(issue.ID, place.anchor) {
				at = i
				if place.below {
					at++
				}
				break
			}
		}
	}
	if at < 0 {
		at = len(ordered)
		for i, issue := range ordered {
			if issue.Order >= moved.Order {
				at = i
				break
			}
		}
	}
	ordered = append(ordered, nil)
	copy(ordered[at+1:], ordered[at:])
	ordered[at] = moved
	return ordered
}
