package issuestorage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ContractStatuses is the status layout the contract suite expects the
// factory to configure: two orderable and two non-orderable statuses, with
// an orderable first status and a non-orderable last status.
var ContractStatuses = []StatusDef{
	{Name: "ready", Dir: "ready", Orderable: true},
	{Name: "doing", Dir: "doing", Orderable: false},
	{Name: "review", Dir: "review", Orderable: true},
	{Name: "done", Dir: "done", Orderable: false},
}

// RunContractTests runs the full contract test suite against an IssueStore implementation.
// The factory must return a fresh, initialized store configured with
// ContractStatuses and auto-compaction disabled.
func RunContractTests(t *testing.T, factory func() IssueStore) {
	t.Run("CreateThenFind", func(t *testing.T) { testCreateThenFind(t, factory()) })
	t.Run("CreateRejectsEmptyTitle", func(t *testing.T) { testCreateRejectsEmptyTitle(t, factory()) })
	t.Run("ListScenario", func(t *testing.T) { testListScenario(t, factory()) })
	t.Run("ListOrdering", func(t *testing.T) { testListOrdering(t, factory()) })
	t.Run("ListUnknownStatus", func(t *testing.T) { testListUnknownStatus(t, factory()) })
	t.Run("FindErrors", func(t *testing.T) { testFindErrors(t, factory()) })
	t.Run("FindAmbiguous", func(t *testing.T) { testFindAmbiguous(t, factory()) })
	t.Run("Move", func(t *testing.T) { testMove(t, factory()) })
	t.Run("SetSeverity", func(t *testing.T) { testSetSeverity(t, factory()) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, factory()) })
	t.Run("ReorderTop", func(t *testing.T) { testReorderTop(t, factory()) })
	t.Run("ReorderRelative", func(t *testing.T) { testReorderRelative(t, factory()) })
	t.Run("ReorderConflicts", func(t *testing.T) { testReorderConflicts(t, factory()) })
	t.Run("ReorderWithCompact", func(t *testing.T) { testReorderWithCompact(t, factory()) })
	t.Run("ReorderRelativeWithCompact", func(t *testing.T) { testReorderRelativeWithCompact(t, factory()) })
	t.Run("CompactIdempotent", func(t *testing.T) { testCompactIdempotent(t, factory()) })
	t.Run("CompactNotOrderable", func(t *testing.T) { testCompactNotOrderable(t, factory()) })
	t.Run("Current", func(t *testing.T) { testCurrent(t, factory()) })
	t.Run("ConcurrentCreates", func(t *testing.T) { testConcurrentCreates(t, factory()) })
}

func mustCreate(t *testing.T, s IssueStore, title string, sev Severity) *Issue {
	t.Helper()
	issue, err := s.Create(context.Background(), title, sev)
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", title, err)
	}
	return issue
}

func mustList(t *testing.T, s IssueStore, status string) []*Issue {
	t.Helper()
	issues, err := s.List(context.Background(), status)
	if err != nil {
		t.Fatalf("List(%q) failed: %v", status, err)
	}
	return issues
}

func mustReorder(t *testing.T, s IssueStore, issue *Issue, pos Position) {
	t.Helper()
	if err := s.Reorder(context.Background(), issue, pos, ReorderOpts{}); err != nil {
		t.Fatalf("Reorder(%s, %s) failed: %v", issue.ID, pos, err)
	}
}

func listIDs(issues []*Issue) []string {
	ids := make([]string, len(issues))
	for i, issue := range issues {
		ids[i] = issue.ID
	}
	return ids
}

func testCreateThenFind(t *testing.T, s IssueStore) {
	ctx := context.Background()
	first := s.Statuses()[0].Name

	titles := []string{
		"Fix Login Bug",
		"  padded title  ",
		"Symbols!! & more -- here",
		"Unicode café résumé",
		"123 numbers first",
		"ALL CAPS",
	}
	for _, title := range titles {
		created := mustCreate(t, s, title, SeverityMed)

		got, err := s.Find(ctx, created.ID)
		if err != nil {
			t.Fatalf("Find(%q) after Create failed: %v", created.ID, err)
		}
		if got.ID != created.ID {
			t.Errorf("ID mismatch: got %q, want %q", got.ID, created.ID)
		}
		if got.Slug != Slugify(title) {
			t.Errorf("Slug mismatch for %q: got %q, want %q", title, got.Slug, Slugify(title))
		}
		if got.Status != first {
			t.Errorf("Status mismatch: got %q, want %q", got.Status, first)
		}
		if got.HasOrder() {
			t.Errorf("new issue should be unordered, got order %d", got.Order)
		}
		if got.Severity != SeverityMed {
			t.Errorf("Severity mismatch: got %s, want med", got.Severity)
		}
	}
}

func testCreateRejectsEmptyTitle(t *testing.T, s IssueStore) {
	ctx := context.Background()
	for _, title := range []string{"", "   ", "!!!", "---"} {
		_, err := s.Create(ctx, title, SeverityLow)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Create(%q): expected ErrInvalidInput, got %v", title, err)
		}
	}
}

func testListScenario(t *testing.T, s IssueStore) {
	ctx := context.Background()
	statuses := s.Statuses()
	first, last := statuses[0].Name, statuses[len(statuses)-1].Name

	login := mustCreate(t, s, "Fix Login Bug", SeverityHigh)
	dark := mustCreate(t, s, "Add Dark Mode", SeverityMed)

	got := listIDs(mustList(t, s, first))
	if diff := cmp.Diff([]string{login.ID, dark.ID}, got); diff != "" {
		t.Errorf("List(%s) mismatch (-want +got):\n%s", first, diff)
	}

	if err := s.Move(ctx, login, last); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	got = listIDs(mustList(t, s, first))
	if diff := cmp.Diff([]string{dark.ID}, got); diff != "" {
		t.Errorf("List(%s) after move mismatch (-want +got):\n%s", first, diff)
	}
	got = listIDs(mustList(t, s, last))
	if diff := cmp.Diff([]string{login.ID}, got); diff != "" {
		t.Errorf("List(%s) after move mismatch (-want +got):\n%s", last, diff)
	}
}

func testListOrdering(t *testing.T, s IssueStore) {
	first := s.Statuses()[0].Name

	a := mustCreate(t, s, "alpha", SeverityLow)
	b := mustCreate(t, s, "bravo", SeverityCrit)
	c := mustCreate(t, s, "charlie", SeverityMed)
	d := mustCreate(t, s, "delta", SeverityMed)
	e := mustCreate(t, s, "echo", SeverityHigh)

	mustReorder(t, s, a, At(7))
	mustReorder(t, s, c, At(2))

	issues := mustList(t, s, first)
	want := []string{c.ID, a.ID, b.ID, e.ID, d.ID}
	if diff := cmp.Diff(want, listIDs(issues)); diff != "" {
		t.Errorf("List order mismatch (-want +got):\n%s", diff)
	}

	for i := 1; i < len(issues); i++ {
		prev, cur := issues[i-1], issues[i]
		if !prev.HasOrder() && cur.HasOrder() {
			t.Errorf("ordered %s sorts after unordered %s", cur.ID, prev.ID)
		}
		if prev.HasOrder() && cur.HasOrder() && prev.Order > cur.Order {
			t.Errorf("order decreases: %s(%d) before %s(%d)", prev.ID, prev.Order, cur.ID, cur.Order)
		}
	}
}

func testListUnknownStatus(t *testing.T, s IssueStore) {
	_, err := s.List(context.Background(), "no-such-status")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("List(unknown): expected ErrNotFound, got %v", err)
	}
}

func testFindErrors(t *testing.T, s IssueStore) {
	ctx := context.Background()
	mustCreate(t, s, "only issue", SeverityMed)

	if _, err := s.Find(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Find(\"\"): expected ErrInvalidInput, got %v", err)
	}
	// IDs never contain uppercase letters.
	if _, err := s.Find(ctx, "ZZZ"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(ZZZ): expected ErrNotFound, got %v", err)
	}
}

func testFindAmbiguous(t *testing.T, s IssueStore) {
	ctx := context.Background()

	// IDs start with one of 26 letters, so 27 issues guarantee a shared
	// first character.
	byFirst := make(map[byte][]string)
	var pair []string
	for i := 0; i < 27 && pair == nil; i++ {
		issue := mustCreate(t, s, fmt.Sprintf("issue %d", i), SeverityMed)
		c := issue.ID[0]
		byFirst[c] = append(byFirst[c], issue.ID)
		if len(byFirst[c]) == 2 {
			pair = byFirst[c]
		}
	}
	if pair == nil {
		t.Fatal("expected two IDs with a shared first character")
	}

	prefix := commonPrefix(pair[0], pair[1])
	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	var want []string
	for _, issue := range all {
		if strings.HasPrefix(issue.ID, prefix) {
			want = append(want, issue.ID)
		}
	}
	sort.Strings(want)

	_, err = s.Find(ctx, prefix)
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("Find(%q): expected ErrAmbiguous, got %v", prefix, err)
	}
	var ambErr *AmbiguousError
	if !errors.As(err, &ambErr) {
		t.Fatalf("expected *AmbiguousError, got %T", err)
	}
	if diff := cmp.Diff(want, ambErr.Matches); diff != "" {
		t.Errorf("ambiguous matches mismatch (-want +got):\n%s", diff)
	}
}

func commonPrefix(a, b string) string {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return a[:n]
}

func testMove(t *testing.T, s IssueStore) {
	ctx := context.Background()
	statuses := s.Statuses()
	ready, doing, review := statuses[0].Name, statuses[1].Name, statuses[2].Name

	a := mustCreate(t, s, "move between orderable", SeverityMed)
	mustReorder(t, s, a, At(4))

	if err := s.Move(ctx, a, review); err != nil {
		t.Fatalf("Move to %s failed: %v", review, err)
	}
	if a.Status != review || a.Order != 4 {
		t.Errorf("after Move to orderable: status=%q order=%d, want %q/4", a.Status, a.Order, review)
	}
	got, err := s.Find(ctx, a.ID)
	if err != nil {
		t.Fatalf("Find after Move failed: %v", err)
	}
	if got.Status != review || got.Order != 4 {
		t.Errorf("persisted: status=%q order=%d, want %q/4", got.Status, got.Order, review)
	}

	if err := s.Move(ctx, a, doing); err != nil {
		t.Fatalf("Move to %s failed: %v", doing, err)
	}
	if a.HasOrder() {
		t.Errorf("Move into non-orderable status kept order %d", a.Order)
	}
	got, err = s.Find(ctx, a.ID)
	if err != nil {
		t.Fatalf("Find after Move failed: %v", err)
	}
	if got.HasOrder() || got.Status != doing {
		t.Errorf("persisted: status=%q order=%d, want %q unordered", got.Status, got.Order, doing)
	}

	if err := s.Move(ctx, a, "nowhere"); !errors.Is(err, ErrConflict) {
		t.Errorf("Move to unknown status: expected ErrConflict, got %v", err)
	}

	if err := s.Move(ctx, a, ready); err != nil {
		t.Fatalf("Move back to %s failed: %v", ready, err)
	}
	if a.Status != ready || a.HasOrder() {
		t.Errorf("after Move back: status=%q order=%d", a.Status, a.Order)
	}
}

func testSetSeverity(t *testing.T, s IssueStore) {
	ctx := context.Background()
	issue := mustCreate(t, s, "severity change", SeverityLow)

	if err := s.SetSeverity(ctx, issue, SeverityCrit); err != nil {
		t.Fatalf("SetSeverity failed: %v", err)
	}
	got, err := s.Find(ctx, issue.ID)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got.Severity != SeverityCrit {
		t.Errorf("Severity = %s, want crit", got.Severity)
	}
	if got.Slug != issue.Slug {
		t.Errorf("Slug changed: got %q, want %q", got.Slug, issue.Slug)
	}
}

func testDelete(t *testing.T, s IssueStore) {
	ctx := context.Background()
	issue := mustCreate(t, s, "to delete", SeverityMed)

	if err := s.Delete(ctx, issue); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Find(ctx, issue.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find after Delete: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, issue); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func testReorderTop(t *testing.T, s IssueStore) {
	first := s.Statuses()[0].Name

	a := mustCreate(t, s, "a", SeverityCrit)
	b := mustCreate(t, s, "b", SeverityHigh)
	c := mustCreate(t, s, "c", SeverityLow)

	// No ordered issues yet: top is 1.
	mustReorder(t, s, c, Top())
	if c.Order != 1 {
		t.Errorf("first top: order = %d, want 1", c.Order)
	}

	mustReorder(t, s, a, At(5))
	mustReorder(t, s, b, At(3))

	// Minimum is 1 already (c), so b floors to 1 and ties with c.
	mustReorder(t, s, b, Top())
	if b.Order != 1 {
		t.Errorf("top with min 1: order = %d, want 1", b.Order)
	}

	mustReorder(t, s, c, At(9))
	mustReorder(t, s, b, At(6))
	mustReorder(t, s, c, Top())
	if c.Order != 4 {
		t.Errorf("top with min 5: order = %d, want 4", c.Order)
	}

	issues := mustList(t, s, first)
	if issues[0].ID != c.ID {
		t.Errorf("after top, first issue = %s, want %s", issues[0].ID, c.ID)
	}
}

func testReorderRelative(t *testing.T, s IssueStore) {
	ctx := context.Background()
	a := mustCreate(t, s, "anchor", SeverityMed)
	b := mustCreate(t, s, "mover", SeverityMed)
	u := mustCreate(t, s, "unordered anchor", SeverityMed)

	mustReorder(t, s, a, At(3))

	mustReorder(t, s, b, Above(a.ID))
	if b.Order != 2 {
		t.Errorf("above: order = %d, want 2", b.Order)
	}
	mustReorder(t, s, b, Below(a.ID))
	if b.Order != 4 {
		t.Errorf("below: order = %d, want 4", b.Order)
	}

	mustReorder(t, s, a, At(1))
	mustReorder(t, s, b, Above(a.ID))
	if b.Order != 1 {
		t.Errorf("above order 1: order = %d, want 1", b.Order)
	}

	mustReorder(t, s, b, Below(u.ID))
	if b.HasOrder() {
		t.Errorf("below unordered: order = %d, want unordered", b.Order)
	}

	mustReorder(t, s, a, Bottom())
	if a.HasOrder() {
		t.Errorf("bottom: order = %d, want unordered", a.Order)
	}

	err := s.Reorder(ctx, a, Above(a.ID), ReorderOpts{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("above self: expected ErrInvalidInput, got %v", err)
	}
}

func testReorderConflicts(t *testing.T, s IssueStore) {
	ctx := context.Background()
	statuses := s.Statuses()
	doing, review := statuses[1].Name, statuses[2].Name

	a := mustCreate(t, s, "subject", SeverityMed)
	x := mustCreate(t, s, "elsewhere", SeverityMed)
	if err := s.Move(ctx, x, review); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	err := s.Reorder(ctx, a, Above(x.ID), ReorderOpts{})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("above issue in other status: expected ErrConflict, got %v", err)
	}
	err = s.Reorder(ctx, a, Below(x.ID), ReorderOpts{})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("below issue in other status: expected ErrConflict, got %v", err)
	}

	if err := s.Move(ctx, a, doing); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	err = s.Reorder(ctx, a, Top(), ReorderOpts{})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("reorder in non-orderable status: expected ErrConflict, got %v", err)
	}

	err = s.Reorder(ctx, x, Above("zzzzzzzzzz"), ReorderOpts{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("above unknown issue: expected ErrNotFound, got %v", err)
	}
}

func testReorderWithCompact(t *testing.T, s IssueStore) {
	first := s.Statuses()[0].Name
	compact := true

	a := mustCreate(t, s, "a", SeverityMed)
	b := mustCreate(t, s, "b", SeverityMed)
	c := mustCreate(t, s, "c", SeverityMed)
	mustReorder(t, s, a, At(1))
	mustReorder(t, s, b, At(2))
	mustReorder(t, s, c, At(3))

	// c lands on 1 and must win the tie with a.
	if err := s.Reorder(context.Background(), c, Top(), ReorderOpts{Compact: &compact}); err != nil {
		t.Fatalf("Reorder with compact failed: %v", err)
	}

	issues := mustList(t, s, first)
	if diff := cmp.Diff([]string{c.ID, a.ID, b.ID}, listIDs(issues)); diff != "" {
		t.Errorf("order after compacting reorder (-want +got):\n%s", diff)
	}
	for i, issue := range issues {
		if issue.Order != i+1 {
			t.Errorf("%s order = %d, want %d", issue.ID, issue.Order, i+1)
		}
	}
	if c.Order != 1 {
		t.Errorf("moved issue order = %d, want 1", c.Order)
	}

	// a sits at 2; below a lands on 3, tied with b, and must end up
	// directly under a.
	if err := s.Reorder(context.Background(), c, Below(a.ID), ReorderOpts{Compact: &compact}); err != nil {
		t.Fatalf("Reorder with compact failed: %v", err)
	}
	issues = mustList(t, s, first)
	if diff := cmp.Diff([]string{a.ID, c.ID, b.ID}, listIDs(issues)); diff != "" {
		t.Errorf("order after compacting below (-want +got):\n%s", diff)
	}
}

func testReorderRelativeWithCompact(t *testing.T, s IssueStore) {
	ctx := context.Background()
	first := s.Statuses()[0].Name
	compact := true

	w := mustCreate(t, s, "w", SeverityMed)
	x := mustCreate(t, s, "x", SeverityMed)
	y := mustCreate(t, s, "y", SeverityMed)
	m := mustCreate(t, s, "m", SeverityMed)
	mustReorder(t, s, w, At(1))
	mustReorder(t, s, x, At(2))
	mustReorder(t, s, y, At(3))

	tests := []struct {
		name string
		pos  Position
		want []string
	}{
		{"above middle", Above(x.ID), []string{w.ID, m.ID, x.ID, y.ID}},
		{"below first", Below(w.ID), []string{w.ID, m.ID, x.ID, y.ID}},
		{"above first", Above(w.ID), []string{m.ID, w.ID, x.ID, y.ID}},
		{"below last", Below(y.ID), []string{w.ID, x.ID, y.ID, m.ID}},
		{"below middle by prefix", Below(x.ID[:len(x.ID)-1]), []string{w.ID, x.ID, m.ID, y.ID}},
	}

	for _, tt := range tests {
		if err := s.Reorder(ctx, m, Bottom(), ReorderOpts{Compact: &compact}); err != nil {
			t.Fatalf("%s: resetting m failed: %v", tt.name, err)
		}
		if err := s.Reorder(ctx, m, tt.pos, ReorderOpts{Compact: &compact}); err != nil {
			t.Fatalf("%s: Reorder(%s) failed: %v", tt.name, tt.pos, err)
		}

		issues := mustList(t, s, first)
		if diff := cmp.Diff(tt.want, listIDs(issues)); diff != "" {
			t.Errorf("%s: order (-want +got):\n%s", tt.name, diff)
		}
		for i, issue := range issues {
			if issue.Order != i+1 {
				t.Errorf("%s: %s order = %d, want %d", tt.name, issue.ID, issue.Order, i+1)
			}
			if issue.ID == m.ID && m.Order != issue.Order {
				t.Errorf("%s: moved issue reports order %d, listing has %d", tt.name, m.Order, issue.Order)
			}
		}
	}
}

type snapshotEntry struct {
	ID    string
	Order int
	Path  string
}

func snapshot(t *testing.T, s IssueStore, status string) []snapshotEntry {
	t.Helper()
	var out []snapshotEntry
	for _, issue := range mustList(t, s, status) {
		out = append(out, snapshotEntry{ID: issue.ID, Order: issue.Order, Path: issue.Path})
	}
	return out
}

func testCompactIdempotent(t *testing.T, s IssueStore) {
	ctx := context.Background()
	first := s.Statuses()[0].Name

	a := mustCreate(t, s, "a", SeverityLow)
	b := mustCreate(t, s, "b", SeverityHigh)
	c := mustCreate(t, s, "c", SeverityMed)
	mustCreate(t, s, "unordered", SeverityCrit)
	mustReorder(t, s, a, At(5))
	mustReorder(t, s, b, At(5))
	mustReorder(t, s, c, At(12))

	result, err := s.Compact(ctx, first)
	if err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	if result.Ordered != 3 {
		t.Errorf("Ordered = %d, want 3", result.Ordered)
	}
	once := snapshot(t, s, first)

	var orders []int
	for _, e := range once {
		orders = append(orders, e.Order)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 0}, orders); diff != "" {
		t.Errorf("orders after compact (-want +got):\n%s", diff)
	}

	result, err = s.Compact(ctx, first)
	if err != nil {
		t.Fatalf("second Compact failed: %v", err)
	}
	if len(result.Renamed) != 0 {
		t.Errorf("second Compact renamed %d files, want 0", len(result.Renamed))
	}
	if diff := cmp.Diff(once, snapshot(t, s, first)); diff != "" {
		t.Errorf("Compact not idempotent (-once +twice):\n%s", diff)
	}
}

func testCompactNotOrderable(t *testing.T, s IssueStore) {
	ctx := context.Background()
	doing := s.Statuses()[1].Name
	if _, err := s.Compact(ctx, doing); !errors.Is(err, ErrConflict) {
		t.Errorf("Compact non-orderable: expected ErrConflict, got %v", err)
	}
	if _, err := s.Compact(ctx, "nowhere"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Compact unknown: expected ErrNotFound, got %v", err)
	}
}

func testCurrent(t *testing.T, s IssueStore) {
	ctx := context.Background()
	if _, err := s.Current(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Current with none set: expected ErrNotFound, got %v", err)
	}

	issue := mustCreate(t, s, "current work", SeverityMed)
	if err := s.SetCurrent(ctx, issue.ID); err != nil {
		t.Fatalf("SetCurrent failed: %v", err)
	}
	got, err := s.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if got.ID != issue.ID {
		t.Errorf("Current = %s, want %s", got.ID, issue.ID)
	}

	if err := s.ClearCurrent(ctx); err != nil {
		t.Fatalf("ClearCurrent failed: %v", err)
	}
	if _, err := s.Current(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Current after clear: expected ErrNotFound, got %v", err)
	}

	if err := s.SetCurrent(ctx, issue.ID); err != nil {
		t.Fatalf("SetCurrent failed: %v", err)
	}
	if err := s.Delete(ctx, issue); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Current(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Current after deleting it: expected ErrNotFound, got %v", err)
	}
}

// testConcurrentCreates verifies that goroutines creating issues at the
// same time never receive duplicate IDs.
func testConcurrentCreates(t *testing.T, s IssueStore) {
	ctx := context.Background()

	const numGoroutines = 50
	var wg sync.WaitGroup
	var createdIDs sync.Map
	errCh := make(chan error, numGoroutines)

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(idx int) {
			defer wg.Done()
			issue, err := s.Create(ctx, fmt.Sprintf("concurrent issue %d", idx), SeverityMed)
			if err != nil {
				errCh <- fmt.Errorf("goroutine %d: create failed: %w", idx, err)
				return
			}
			if _, loaded := createdIDs.LoadOrStore(issue.ID, idx); loaded {
				errCh <- fmt.Errorf("duplicate ID detected: %s (goroutine %d)", issue.ID, idx)
			}
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Error(err)
	}

	issues := mustList(t, s, s.Statuses()[0].Name)
	if len(issues) != numGoroutines {
		t.Errorf("List returned %d issues, want %d", len(issues), numGoroutines)
	}
}
