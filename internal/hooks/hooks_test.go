//go:build unix

package hooks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeHook(t *testing.T, hooksDir, command string, phase Phase, name, body string) {
	t.Helper()
	dir := filepath.Join(hooksDir, command, string(phase))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	// Scripts run through sh, so they need not be executable.
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRun_NoHooksDir(t *testing.T) {
	r := NewRunner(filepath.Join(t.TempDir(), "hooks"), nil, nil, nil)
	if err := r.Run(context.Background(), Event{Command: "new", Phase: Before}); err != nil {
		t.Errorf("Run with no hooks should succeed, got %v", err)
	}
}

func TestRun_OrderAndEnvironment(t *testing.T) {
	hooksDir := filepath.Join(t.TempDir(), "hooks")
	writeHook(t, hooksDir, "start", After, "20-second.sh", `echo "second $MOTH_ISSUE_ID"`)
	writeHook(t, hooksDir, "start", After, "10-first.sh", `echo "first $MOTH_COMMAND $MOTH_HOOK_PHASE"`)
	writeHook(t, hooksDir, "start", Before, "never.sh", `echo "wrong phase"`)

	var stdout bytes.Buffer
	r := NewRunner(hooksDir, &stdout, &stdout, nil)
	if err := r.Run(context.Background(), Event{Command: "start", Phase: After, IssueID: "x7k2m"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := "first start after\nsecond x7k2m\n"
	if stdout.String() != want {
		t.Errorf("output = %q, want %q", stdout.String(), want)
	}
}

func TestRun_FailureStopsRemaining(t *testing.T) {
	hooksDir := filepath.Join(t.TempDir(), "hooks")
	writeHook(t, hooksDir, "rm", Before, "a.sh", "exit 3")
	writeHook(t, hooksDir, "rm", Before, "b.sh", "echo ran")

	var stdout bytes.Buffer
	r := NewRunner(hooksDir, &stdout, &stdout, nil)
	err := r.Run(context.Background(), Event{Command: "rm", Phase: Before})
	if err == nil {
		t.Fatal("expected failure from a.sh")
	}
	if !strings.Contains(err.Error(), "a.sh") {
		t.Errorf("error should name the failing script: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("b.sh should not have run, output %q", stdout.String())
	}
}

func TestRun_SkipsDirectories(t *testing.T) {
	hooksDir := filepath.Join(t.TempDir(), "hooks")
	writeHook(t, hooksDir, "done", After, "ok.sh", "true")
	if err := os.MkdirAll(filepath.Join(hooksDir, "done", "after", "subdir"), 0755); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(hooksDir, nil, nil, nil)
	scripts, err := r.Scripts("done", After)
	if err != nil {
		t.Fatalf("Scripts failed: %v", err)
	}
	if len(scripts) != 1 || filepath.Base(scripts[0]) != "ok.sh" {
		t.Errorf("Scripts = %v, want [ok.sh]", scripts)
	}
}

func TestRun_Timeout(t *testing.T) {
	hooksDir := filepath.Join(t.TempDir(), "hooks")
	writeHook(t, hooksDir, "new", Before, "slow.sh", "sleep 30 & wait")

	r := NewRunner(hooksDir, nil, nil, nil)
	r.SetTimeout(200 * time.Millisecond)

	start := time.Now()
	err := r.Run(context.Background(), Event{Command: "new", Phase: Before})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}
