package e2etests

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func caseCreateShow(r *Runner, n *Normalizer, sandbox string) (string, error) {
	var out strings.Builder

	issue, err := mustCreate(r, n, sandbox, "Fix login bug", "-s", "high")
	if err != nil {
		return "", err
	}
	if err := expect(issue.Title == "Fix Login Bug" && issue.Severity == "high" && issue.Status == "ready",
		"unexpected created issue %+v", issue); err != nil {
		return "", err
	}
	wantPath := filepath.Join(sandbox, ".moth", "ready", issue.ID+"-high-fix_login_bug.md")
	if err := expect(issue.Path == wantPath, "path = %q, want %q", issue.Path, wantPath); err != nil {
		return "", err
	}

	result, err := mustRun(r, sandbox, "show", issue.ID)
	if err != nil {
		return "", err
	}
	got := n.NormalizeText(result.Stdout)
	section(&out, "show", got)
	want := "ID: ISSUE_1 | Severity: high | Status: ready\nTitle: Fix Login Bug\n---"
	if err := expect(got == want, "show output = %q, want %q", got, want); err != nil {
		return "", err
	}

	if err := os.WriteFile(issue.Path, []byte("Users land on /404 after login.\n"), 0644); err != nil {
		return "", err
	}
	result, err = mustRunJSON(r, sandbox, "show", issue.ID[:3])
	if err != nil {
		return "", err
	}
	section(&out, "show --json by prefix", n.NormalizeJSON([]byte(result.Stdout)))
	shown, err := ParseIssue(result.Stdout)
	if err != nil {
		return "", err
	}
	if err := expect(shown.Content == "Users land on /404 after login.\n", "content = %q", shown.Content); err != nil {
		return "", err
	}

	return out.String(), nil
}

func caseStartDone(r *Runner, n *Normalizer, sandbox string) (string, error) {
	var out strings.Builder

	issue, err := mustCreate(r, n, sandbox, "Write docs")
	if err != nil {
		return "", err
	}

	result, err := mustRun(r, sandbox, "start", issue.ID)
	if err != nil {
		return "", err
	}
	section(&out, "start", n.NormalizeText(result.Stdout))
	if err := expect(result.Stdout == "Moved "+issue.ID+" to doing\n", "start output = %q", result.Stdout); err != nil {
		return "", err
	}

	result, err = mustRunJSON(r, sandbox, "show")
	if err != nil {
		return "", err
	}
	current, err := ParseIssue(result.Stdout)
	if err != nil {
		return "", err
	}
	if err := expect(current.ID == issue.ID && current.Status == "doing", "current issue = %+v", current); err != nil {
		return "", err
	}

	result, err = mustRun(r, sandbox, "done")
	if err != nil {
		return "", err
	}
	section(&out, "done", n.NormalizeText(result.Stdout))

	result = r.Run(sandbox, "show")
	sectionExitCode(&out, "show without current", result.ExitCode)
	if err := expect(result.ExitCode == 1 && strings.HasPrefix(result.Stderr, "Error:"),
		"show without current: exit %d, stderr %q", result.ExitCode, result.Stderr); err != nil {
		return "", err
	}

	open, err := mustList(r, sandbox)
	if err != nil {
		return "", err
	}
	if err := expect(len(open) == 0, "default listing should hide done issues, got %v", ids(open)); err != nil {
		return "", err
	}
	all, err := mustList(r, sandbox, "-a")
	if err != nil {
		return "", err
	}
	if err := expect(len(all) == 1 && all[0].Status == "done", "ls -a = %+v", all); err != nil {
		return "", err
	}

	return out.String(), nil
}

func caseMove(r *Runner, n *Normalizer, sandbox string) (string, error) {
	var out strings.Builder

	issue, err := mustCreate(r, n, sandbox, "Triage")
	if err != nil {
		return "", err
	}

	result := r.Run(sandbox, "mv", issue.ID, "archive")
	sectionExitCode(&out, "mv unknown status", result.ExitCode)
	if err := expect(result.ExitCode == 1 && strings.Contains(result.Stderr, `unknown status "archive"`),
		"mv to unknown status: exit %d, stderr %q", result.ExitCode, result.Stderr); err != nil {
		return "", err
	}

	result, err = mustRun(r, sandbox, "mv", issue.ID, "done")
	if err != nil {
		return "", err
	}
	section(&out, "mv", n.NormalizeText(result.Stdout))

	moved := filepath.Join(sandbox, ".moth", "done", issue.ID+"-med-triage.md")
	if _, err := os.Stat(moved); err != nil {
		return "", fmt.Errorf("expected %s after move: %w", moved, err)
	}
	return out.String(), nil
}

func casePriority(r *Runner, n *Normalizer, sandbox string) (string, error) {
	var out strings.Builder

	a, err := mustCreate(r, n, sandbox, "Alpha")
	if err != nil {
		return "", err
	}
	b, err := mustCreate(r, n, sandbox, "Bravo")
	if err != nil {
		return "", err
	}
	c, err := mustCreate(r, n, sandbox, "Charlie")
	if err != nil {
		return "", err
	}

	result, err := mustRun(r, sandbox, "priority", c.ID, "top")
	if err != nil {
		return "", err
	}
	section(&out, "priority top", n.NormalizeText(result.Stdout))

	result, err = mustRun(r, sandbox, "priority", a.ID, "below", c.ID)
	if err != nil {
		return "", err
	}
	section(&out, "priority below", n.NormalizeText(result.Stdout))

	listed, err := mustList(r, sandbox, "-t", "ready")
	if err != nil {
		return "", err
	}
	got := strings.Join(ids(listed), ",")
	want := strings.Join([]string{c.ID, a.ID, b.ID}, ",")
	if err := expect(got == want, "order after ranking = %s, want %s", n.NormalizeText(got), n.NormalizeText(want)); err != nil {
		return "", err
	}

	// Ranking b at 1 ties with c; the moved issue wins the tie on compaction.
	result, err = mustRun(r, sandbox, "priority", b.ID, "1", "--compact")
	if err != nil {
		return "", err
	}
	section(&out, "priority 1 --compact", n.NormalizeText(result.Stdout))

	listed, err = mustList(r, sandbox, "-t", "ready")
	if err != nil {
		return "", err
	}
	section(&out, "ls after compact", n.NormalizeText(strings.Join(ids(listed), "\n")))
	for i, want := range []string{b.ID, c.ID, a.ID} {
		if err := expect(listed[i].ID == want && listed[i].Order == i+1,
			"position %d = %s order %d", i+1, n.NormalizeText(listed[i].ID), listed[i].Order); err != nil {
			return "", err
		}
	}

	result = r.Run(sandbox, "priority", a.ID, "top", "--compact", "--no-compact")
	sectionExitCode(&out, "priority conflicting flags", result.ExitCode)
	if err := expect(result.ExitCode == 1, "conflicting compact flags should fail"); err != nil {
		return "", err
	}

	return out.String(), nil
}

func caseSeverityDelete(r *Runner, n *Normalizer, sandbox string) (string, error) {
	var out strings.Builder

	issue, err := mustCreate(r, n, sandbox, "Flaky test", "-s", "low")
	if err != nil {
		return "", err
	}

	result, err := mustRun(r, sandbox, "severity", issue.ID, "crit")
	if err != nil {
		return "", err
	}
	section(&out, "severity", n.NormalizeText(result.Stdout))
	if err := expect(result.Stdout == "Changed severity of "+issue.ID+" from low to crit\n",
		"severity output = %q", result.Stdout); err != nil {
		return "", err
	}

	result, err = mustRun(r, sandbox, "rm", issue.ID)
	if err != nil {
		return "", err
	}
	section(&out, "rm", n.NormalizeText(result.Stdout))
	if err := expect(result.Stdout == "Deleted "+issue.ID+": Flaky Test\n", "rm output = %q", result.Stdout); err != nil {
		return "", err
	}

	result = r.Run(sandbox, "show", issue.ID)
	sectionExitCode(&out, "show deleted", result.ExitCode)
	if err := expect(result.ExitCode == 1, "show of a deleted issue should fail"); err != nil {
		return "", err
	}
	return out.String(), nil
}

func caseDoctor(r *Runner, n *Normalizer, sandbox string) (string, error) {
	var out strings.Builder

	if err := os.RemoveAll(filepath.Join(sandbox, ".moth", "doing")); err != nil {
		return "", err
	}

	result, err := mustRunJSON(r, sandbox, "doctor")
	if err != nil {
		return "", err
	}
	section(&out, "doctor --json", n.NormalizeJSON([]byte(result.Stdout)))
	if err := expect(strings.Contains(result.Stdout, "missing status directory: doing"),
		"doctor should report the missing directory: %s", result.Stdout); err != nil {
		return "", err
	}

	if _, err := mustRun(r, sandbox, "doctor", "--fix"); err != nil {
		return "", err
	}
	result, err = mustRun(r, sandbox, "doctor")
	if err != nil {
		return "", err
	}
	section(&out, "doctor after fix", n.NormalizeText(result.Stdout))
	if err := expect(result.Stdout == "No problems found.\n", "doctor after fix = %q", result.Stdout); err != nil {
		return "", err
	}
	return out.String(), nil
}

func casePrefix(r *Runner, n *Normalizer, sandbox string) (string, error) {
	var out strings.Builder

	// prefix must work outside any project; the git hook calls it.
	result, err := mustRun(r, "", "prefix", "[x7k2m] Fix login")
	if err != nil {
		return "", err
	}
	section(&out, "prefix tagged", result.Stdout)
	if err := expect(result.Stdout == "x7k2m\n", "prefix output = %q", result.Stdout); err != nil {
		return "", err
	}

	result = r.Run("", "prefix", "Fix login")
	sectionExitCode(&out, "prefix untagged", result.ExitCode)
	if err := expect(result.ExitCode == 1 && result.Stdout == "" && result.Stderr == "",
		"untagged prefix: exit %d, stdout %q, stderr %q", result.ExitCode, result.Stdout, result.Stderr); err != nil {
		return "", err
	}
	return out.String(), nil
}
