package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"moth/internal/issuestorage"
)

func TestStartCommand(t *testing.T) {
	app, out := newTestApp(t)
	issue := mustCreateIssue(t, app, "Start me", issuestorage.SeverityMed)

	cmd := newStartCmd(NewTestProvider(app))
	if err := runCmd(t, cmd, issue.ID); err != nil {
		t.Fatalf("start command failed: %v", err)
	}

	if out.String() != "Moved "+issue.ID+" to doing\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if got := mustFind(t, app, issue.ID); got.Status != "doing" {
		t.Errorf("status = %q, want doing", got.Status)
	}
	current, err := app.Store.Current(context.Background())
	if err != nil || current.ID != issue.ID {
		t.Errorf("current = %v, %v; want %s", current, err, issue.ID)
	}
}

func TestDoneCommand_ClearsMatchingCurrent(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()
	issue := mustCreateIssue(t, app, "Finish me", issuestorage.SeverityMed)
	if err := app.Store.SetCurrent(ctx, issue.ID); err != nil {
		t.Fatal(err)
	}

	cmd := newDoneCmd(NewTestProvider(app))
	if err := runCmd(t, cmd); err != nil {
		t.Fatalf("done command failed: %v", err)
	}

	if out.String() != "Moved "+issue.ID+" to done\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if got := mustFind(t, app, issue.ID); got.Status != "done" {
		t.Errorf("status = %q, want done", got.Status)
	}
	if _, err := app.Store.Current(ctx); !errors.Is(err, issuestorage.ErrNotFound) {
		t.Errorf("current should be cleared, got %v", err)
	}
}

func TestDoneCommand_KeepsOtherCurrent(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()
	working := mustCreateIssue(t, app, "Working", issuestorage.SeverityMed)
	other := mustCreateIssue(t, app, "Other", issuestorage.SeverityMed)
	if err := app.Store.SetCurrent(ctx, working.ID); err != nil {
		t.Fatal(err)
	}

	cmd := newDoneCmd(NewTestProvider(app))
	if err := runCmd(t, cmd, other.ID); err != nil {
		t.Fatalf("done command failed: %v", err)
	}

	current, err := app.Store.Current(ctx)
	if err != nil || current.ID != working.ID {
		t.Errorf("current = %v, %v; want %s", current, err, working.ID)
	}
}

func TestDoneCommand_DropsPriority(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()
	issue := mustCreateIssue(t, app, "Ranked", issuestorage.SeverityMed)
	if err := app.Store.Reorder(ctx, issue, issuestorage.Top(), issuestorage.ReorderOpts{}); err != nil {
		t.Fatal(err)
	}

	cmd := newDoneCmd(NewTestProvider(app))
	if err := runCmd(t, cmd, issue.ID); err != nil {
		t.Fatalf("done command failed: %v", err)
	}
	if got := mustFind(t, app, issue.ID); got.HasOrder() {
		t.Errorf("order should be dropped in done, got %d", got.Order)
	}
}

func TestMoveCommand(t *testing.T) {
	app, out := newTestApp(t)
	issue := mustCreateIssue(t, app, "Move me", issuestorage.SeverityMed)

	cmd := newMoveCmd(NewTestProvider(app))
	if err := runCmd(t, cmd, issue.ID, "done"); err != nil {
		t.Fatalf("mv command failed: %v", err)
	}
	if out.String() != "Moved "+issue.ID+" to done\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if got := mustFind(t, app, issue.ID); got.Status != "done" {
		t.Errorf("status = %q, want done", got.Status)
	}
}

func TestMoveCommand_UnknownStatus(t *testing.T) {
	app, _ := newTestApp(t)
	issue := mustCreateIssue(t, app, "Move me", issuestorage.SeverityMed)

	cmd := newMoveCmd(NewTestProvider(app))
	err := runCmd(t, cmd, issue.ID, "archive")
	if err == nil || !strings.Contains(err.Error(), `unknown status "archive"`) {
		t.Fatalf("expected unknown status error, got %v", err)
	}
	if got := mustFind(t, app, issue.ID); got.Status != "ready" {
		t.Errorf("issue should not move, status = %q", got.Status)
	}
}

func TestSeverityCommand(t *testing.T) {
	app, out := newTestApp(t)
	issue := mustCreateIssue(t, app, "Sev", issuestorage.SeverityMed)

	cmd := newSeverityCmd(NewTestProvider(app))
	if err := runCmd(t, cmd, issue.ID, "crit"); err != nil {
		t.Fatalf("severity command failed: %v", err)
	}
	if out.String() != "Changed severity of "+issue.ID+" from med to crit\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if got := mustFind(t, app, issue.ID); got.Severity != issuestorage.SeverityCrit {
		t.Errorf("severity = %v, want crit", got.Severity)
	}

	cmd = newSeverityCmd(NewTestProvider(app))
	if err := runCmd(t, cmd, issue.ID, "huge"); !errors.Is(err, issuestorage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteCommand(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()
	issue := mustCreateIssue(t, app, "Delete me", issuestorage.SeverityMed)
	if err := app.Store.SetCurrent(ctx, issue.ID); err != nil {
		t.Fatal(err)
	}

	cmd := newDeleteCmd(NewTestProvider(app))
	if err := runCmd(t, cmd, issue.ID); err != nil {
		t.Fatalf("rm command failed: %v", err)
	}
	if out.String() != "Deleted "+issue.ID+": Delete Me\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if _, err := app.Store.Find(ctx, issue.ID); !errors.Is(err, issuestorage.ErrNotFound) {
		t.Errorf("issue should be gone, got %v", err)
	}
	if _, err := app.Store.Current(ctx); !errors.Is(err, issuestorage.ErrNotFound) {
		t.Errorf("current should be cleared, got %v", err)
	}
}
