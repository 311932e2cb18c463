package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"moth/internal/issuestorage"

	"github.com/google/go-cmp/cmp"
)

func TestPositionArg(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		wantErr bool
	}{
		{[]string{"top"}, "top", false},
		{[]string{"3"}, "3", false},
		{[]string{"above", "x7k2m"}, "above:x7k2m", false},
		{[]string{"Below", "x7"}, "Below:x7", false},
		{[]string{"above:x7"}, "above:x7", false},
		{[]string{"top", "x7"}, "", true},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			got, err := positionArg(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("positionArg(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("positionArg(%q) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestPriorityCommand_Top(t *testing.T) {
	app, out := newTestApp(t)
	issue := mustCreateIssue(t, app, "Urgent", issuestorage.SeverityCrit)

	cmd := newPriorityCmd(NewTestProvider(app))
	if err := runCmd(t, cmd, issue.ID, "top"); err != nil {
		t.Fatalf("priority command failed: %v", err)
	}
	if out.String() != "Set priority of "+issue.ID+" to 1\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if got := mustFind(t, app, issue.ID); got.Order != 1 {
		t.Errorf("order = %d, want 1", got.Order)
	}
}

func TestPriorityCommand_Bottom(t *testing.T) {
	app, out := newTestApp(t)
	issue := mustCreateIssue(t, app, "Later", issuestorage.SeverityLow)
	if err := app.Store.Reorder(context.Background(), issue, issuestorage.At(4), issuestorage.ReorderOpts{}); err != nil {
		t.Fatal(err)
	}

	cmd := newPriorityCmd(NewTestProvider(app))
	if err := runCmd(t, cmd, issue.ID, "bottom"); err != nil {
		t.Fatalf("priority command failed: %v", err)
	}
	if out.String() != "Removed priority from "+issue.ID+"\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if got := mustFind(t, app, issue.ID); got.HasOrder() {
		t.Errorf("order = %d, want none", got.Order)
	}
}

func TestPriorityCommand_AboveWithCompact(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()
	first := mustCreateIssue(t, app, "First", issuestorage.SeverityMed)
	second := mustCreateIssue(t, app, "Second", issuestorage.SeverityMed)
	if err := app.Store.Reorder(ctx, first, issuestorage.At(1), issuestorage.ReorderOpts{}); err != nil {
		t.Fatal(err)
	}

	cmd := newPriorityCmd(NewTestProvider(app))
	if err := runCmd(t, cmd, second.ID, "above", first.ID, "--compact"); err != nil {
		t.Fatalf("priority command failed: %v", err)
	}

	issues, err := app.Store.List(ctx, "ready")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, issue := range issues {
		got = append(got, issue.ID)
	}
	if d := cmp.Diff([]string{second.ID, first.ID}, got); d != "" {
		t.Errorf("listing order mismatch (-want +got):\n%s", d)
	}
	if o := mustFind(t, app, second.ID).Order; o != 1 {
		t.Errorf("moved issue order = %d, want 1", o)
	}
	if o := mustFind(t, app, first.ID).Order; o != 2 {
		t.Errorf("displaced issue order = %d, want 2", o)
	}
}

func TestPriorityCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, app *App) []string
		wantErr error
	}{
		{
			name: "status not prioritized",
			setup: func(t *testing.T, app *App) []string {
				issue := mustCreateIssue(t, app, "Busy", issuestorage.SeverityMed)
				if err := app.Store.Move(context.Background(), issue, "doing"); err != nil {
					t.Fatal(err)
				}
				return []string{issue.ID, "top"}
			},
			wantErr: issuestorage.ErrConflict,
		},
		{
			name: "zero position",
			setup: func(t *testing.T, app *App) []string {
				issue := mustCreateIssue(t, app, "Zero", issuestorage.SeverityMed)
				return []string{issue.ID, "0"}
			},
			wantErr: issuestorage.ErrInvalidInput,
		},
		{
			name: "relative to itself",
			setup: func(t *testing.T, app *App) []string {
				issue := mustCreateIssue(t, app, "Self", issuestorage.SeverityMed)
				return []string{issue.ID, "above", issue.ID}
			},
			wantErr: issuestorage.ErrInvalidInput,
		},
		{
			name: "other issue in different status",
			setup: func(t *testing.T, app *App) []string {
				issue := mustCreateIssue(t, app, "Here", issuestorage.SeverityMed)
				other := mustCreateIssue(t, app, "There", issuestorage.SeverityMed)
				if err := app.Store.Move(context.Background(), other, "done"); err != nil {
					t.Fatal(err)
				}
				return []string{issue.ID, "below", other.ID}
			},
			wantErr: issuestorage.ErrConflict,
		},
		{
			name: "unknown issue",
			setup: func(t *testing.T, app *App) []string {
				return []string{"zzzzzz", "top"}
			},
			wantErr: issuestorage.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			args := tt.setup(t, app)

			cmd := newPriorityCmd(NewTestProvider(app))
			if err := runCmd(t, cmd, args...); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPriorityCommand_CompactFlagsExclusive(t *testing.T) {
	app, _ := newTestApp(t)
	issue := mustCreateIssue(t, app, "Either", issuestorage.SeverityMed)

	cmd := newPriorityCmd(NewTestProvider(app))
	err := runCmd(t, cmd, issue.ID, "top", "--compact", "--no-compact")
	if err == nil {
		t.Fatal("expected error for --compact with --no-compact")
	}
	if got := mustFind(t, app, issue.ID); got.HasOrder() {
		t.Error("issue should be left unranked")
	}
}

func TestCompactCommand(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()
	a := mustCreateIssue(t, app, "Alpha", issuestorage.SeverityMed)
	b := mustCreateIssue(t, app, "Beta", issuestorage.SeverityMed)
	if err := app.Store.Reorder(ctx, a, issuestorage.At(5), issuestorage.ReorderOpts{}); err != nil {
		t.Fatal(err)
	}
	if err := app.Store.Reorder(ctx, b, issuestorage.At(9), issuestorage.ReorderOpts{}); err != nil {
		t.Fatal(err)
	}

	cmd := newCompactCmd(NewTestProvider(app))
	if err := runCmd(t, cmd); err != nil {
		t.Fatalf("compact command failed: %v", err)
	}
	if out.String() != "Compacted 2 prioritized issues in ready\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if o := mustFind(t, app, a.ID).Order; o != 1 {
		t.Errorf("alpha order = %d, want 1", o)
	}
	if o := mustFind(t, app, b.ID).Order; o != 2 {
		t.Errorf("beta order = %d, want 2", o)
	}
}

func TestCompactCommand_JSON(t *testing.T) {
	app, out := newTestApp(t)
	app.JSON = true
	issue := mustCreateIssue(t, app, "Alpha", issuestorage.SeverityMed)
	if err := app.Store.Reorder(context.Background(), issue, issuestorage.At(3), issuestorage.ReorderOpts{}); err != nil {
		t.Fatal(err)
	}

	cmd := newCompactCmd(NewTestProvider(app))
	if err := runCmd(t, cmd, "ready"); err != nil {
		t.Fatalf("compact command failed: %v", err)
	}

	var results []CompactJSON
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	want := []CompactJSON{{Status: "ready", Ordered: 1, Renamed: 1}}
	if d := cmp.Diff(want, results); d != "" {
		t.Errorf("result mismatch (-want +got):\n%s", d)
	}
}

func TestCompactCommand_NotPrioritized(t *testing.T) {
	app, _ := newTestApp(t)

	cmd := newCompactCmd(NewTestProvider(app))
	if err := runCmd(t, cmd, "done"); !errors.Is(err, issuestorage.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}
