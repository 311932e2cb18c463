package prettyoutput

import (
	"os"
	"strings"
	"testing"

	"moth/e2etests"
)

// setupListSandbox creates a sandbox with an issue of every severity spread
// over the default statuses. Returns the sandbox path and the IDs by title.
func setupListSandbox(t *testing.T, r *e2etests.Runner) (string, map[string]string) {
	t.Helper()

	sandbox, err := r.SetupSandbox()
	if err != nil {
		t.Fatalf("setup sandbox: %v", err)
	}
	t.Cleanup(func() { r.TeardownSandbox(sandbox) })

	ids := make(map[string]string)
	create := func(title, sev string) {
		res := r.RunJSON(sandbox, "new", title, "-s", sev)
		if res.ExitCode != 0 {
			t.Fatalf("create %q: exit %d, stderr: %s", title, res.ExitCode, res.Stderr)
		}
		ids[title] = e2etests.ExtractID([]byte(res.Stdout))
	}
	create("Crash on save", "crit")
	create("Slow search", "high")
	create("Tidy docs", "med")
	create("Old typo", "low")

	if res := r.Run(sandbox, "start", ids["Slow search"]); res.ExitCode != 0 {
		t.Fatalf("start: exit %d, stderr: %s", res.ExitCode, res.Stderr)
	}
	if res := r.Run(sandbox, "done", ids["Old typo"]); res.ExitCode != 0 {
		t.Fatalf("done: exit %d, stderr: %s", res.ExitCode, res.Stderr)
	}
	if res := r.Run(sandbox, "priority", ids["Tidy docs"], "top"); res.ExitCode != 0 {
		t.Fatalf("priority: exit %d, stderr: %s", res.ExitCode, res.Stderr)
	}
	return sandbox, ids
}

func mothCmd(t *testing.T) string {
	t.Helper()
	cmd := os.Getenv(e2etests.EnvCmd)
	if cmd == "" {
		t.Skip(e2etests.EnvCmd + " environment variable not set")
	}
	return cmd
}

func TestListPlainOutput(t *testing.T) {
	r := &e2etests.Runner{MothCmd: mothCmd(t)}
	sandbox, ids := setupListSandbox(t, r)

	res := r.Run(sandbox, "ls", "-a")
	if res.ExitCode != 0 {
		t.Fatalf("ls -a: exit %d, stderr: %s", res.ExitCode, res.Stderr)
	}

	if strings.Contains(res.Stdout, "\033[") {
		t.Errorf("expected no ANSI escape codes in piped output, got:\n%s", res.Stdout)
	}

	want := "ready\n" +
		"  " + ids["Tidy docs"] + " [med] Tidy Docs\n" +
		"  " + ids["Crash on save"] + " [crit] Crash On Save\n" +
		"doing\n" +
		"  " + ids["Slow search"] + " [high] Slow Search\n" +
		"done\n" +
		"  " + ids["Old typo"] + " [low] Old Typo\n"
	if res.Stdout != want {
		t.Errorf("ls -a output:\n%s\nwant:\n%s", res.Stdout, want)
	}
}

func TestListColorOutput(t *testing.T) {
	r := &e2etests.Runner{MothCmd: mothCmd(t)}
	sandbox, _ := setupListSandbox(t, r)

	r.ExtraEnv = []string{"CLICOLOR_FORCE=1", "NO_COLOR="}
	res := r.Run(sandbox, "ls", "-a")
	if res.ExitCode != 0 {
		t.Fatalf("ls -a: exit %d, stderr: %s", res.ExitCode, res.Stderr)
	}
	output := res.Stdout

	// crit is bold red, high yellow, low blue; med stays plain.
	for _, code := range []string{"\033[31;1mcrit", "\033[33mhigh", "\033[34mlow"} {
		if !strings.Contains(output, code) {
			t.Errorf("expected %q in colored output, got:\n%s", code, output)
		}
	}
	if !strings.Contains(output, "[med]") {
		t.Errorf("expected plain [med] in output, got:\n%s", output)
	}
}
