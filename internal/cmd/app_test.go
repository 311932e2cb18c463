package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"moth/internal/issuestorage"
)

func TestUseColor(t *testing.T) {
	tests := []struct {
		name       string
		noColor    string
		cliColor   string
		colorForce string
		want       bool
	}{
		{"buffer output", "", "", "", false},
		{"CLICOLOR_FORCE enables color off a terminal", "", "", "1", true},
		{"CLICOLOR_FORCE=0 is ignored", "", "", "0", false},
		{"NO_COLOR takes precedence over CLICOLOR_FORCE", "1", "", "1", false},
		{"CLICOLOR=0 disables color", "", "0", "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("CLICOLOR", tt.cliColor)
			t.Setenv("CLICOLOR_FORCE", tt.colorForce)

			app := &App{Out: &bytes.Buffer{}}
			if got := app.useColor(); got != tt.want {
				t.Errorf("useColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeverityLabel(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR", "")
	t.Setenv("CLICOLOR_FORCE", "1")
	app := &App{Out: &bytes.Buffer{}}

	if got := app.SeverityLabel(issuestorage.SeverityCrit); got != "\x1b[31;1mcrit\x1b[0m" {
		t.Errorf("crit label = %q", got)
	}
	if got := app.SeverityLabel(issuestorage.SeverityMed); got != "med" {
		t.Errorf("med label should stay plain, got %q", got)
	}

	t.Setenv("CLICOLOR_FORCE", "")
	if got := app.SeverityLabel(issuestorage.SeverityCrit); got != "crit" {
		t.Errorf("crit label without color = %q", got)
	}
}

func TestWithHooks_NilRunner(t *testing.T) {
	app, _ := newTestApp(t)

	called := false
	err := app.withHooks(context.Background(), "new", "", func() error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Errorf("withHooks = %v, called = %v", err, called)
	}

	want := errors.New("boom")
	if err := app.withHooks(context.Background(), "new", "", func() error { return want }); !errors.Is(err, want) {
		t.Errorf("expected command error to pass through, got %v", err)
	}
}

func TestIssueOrCurrent(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()

	_, err := app.issueOrCurrent(ctx, nil)
	if !errors.Is(err, issuestorage.ErrNotFound) || !strings.Contains(err.Error(), "moth start") {
		t.Errorf("expected hint to start an issue, got %v", err)
	}

	issue := mustCreateIssue(t, app, "Pick me", issuestorage.SeverityMed)
	if err := app.Store.SetCurrent(ctx, issue.ID); err != nil {
		t.Fatal(err)
	}
	got, err := app.issueOrCurrent(ctx, nil)
	if err != nil || got.ID != issue.ID {
		t.Errorf("issueOrCurrent = %v, %v; want %s", got, err, issue.ID)
	}
}
