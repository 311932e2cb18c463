package e2etests

import (
	"fmt"
	"strings"
)

// TestCase defines a named e2e test scenario. Fn returns a normalized
// transcript of the commands it ran, or an error when an expectation
// fails.
type TestCase struct {
	Name string
	Fn   func(r *Runner, n *Normalizer, sandbox string) (string, error)
}

// testCases is the ordered registry of all e2e test cases.
var testCases = []TestCase{
	{"01_create_show", caseCreateShow},
	{"02_start_done", caseStartDone},
	{"03_move", caseMove},
	{"04_priority", casePriority},
	{"05_severity_delete", caseSeverityDelete},
	{"06_doctor", caseDoctor},
	{"07_prefix", casePrefix},
}

// section writes a section header and content to the builder.
func section(out *strings.Builder, label string, content string) {
	out.WriteString("=== ")
	out.WriteString(label)
	out.WriteString(" ===\n")
	out.WriteString(content)
	out.WriteString("\n\n")
}

// sectionExitCode writes a section with just an exit code.
func sectionExitCode(out *strings.Builder, label string, exitCode int) {
	out.WriteString("=== ")
	out.WriteString(label)
	out.WriteString(" ===\n")
	out.WriteString(fmt.Sprintf("EXIT_CODE: %d", exitCode))
	out.WriteString("\n\n")
}

// mustRun runs a command and returns the result, failing the test case on error.
func mustRun(r *Runner, sandbox string, args ...string) (RunResult, error) {
	result := r.Run(sandbox, args...)
	if result.ExitCode != 0 {
		return result, fmt.Errorf("command %v failed (exit %d): %s", args, result.ExitCode, result.Stderr)
	}
	return result, nil
}

// mustRunJSON runs a command with --json, failing the test case on error.
func mustRunJSON(r *Runner, sandbox string, args ...string) (RunResult, error) {
	result := r.RunJSON(sandbox, args...)
	if result.ExitCode != 0 {
		return result, fmt.Errorf("command %v failed (exit %d): %s", args, result.ExitCode, result.Stderr)
	}
	return result, nil
}

// mustCreate creates an issue without opening an editor and teaches the
// normalizer its ID.
func mustCreate(r *Runner, n *Normalizer, sandbox, title string, args ...string) (IssueResult, error) {
	full := append([]string{"new", title}, args...)
	result, err := mustRunJSON(r, sandbox, full...)
	if err != nil {
		return IssueResult{}, err
	}
	issue, err := ParseIssue(result.Stdout)
	if err != nil || issue.ID == "" {
		return IssueResult{}, fmt.Errorf("failed to extract ID from: %s", result.Stdout)
	}
	n.Learn(issue.ID)
	return issue, nil
}

// mustList runs ls --json and returns the issues in the order printed.
func mustList(r *Runner, sandbox string, args ...string) ([]IssueResult, error) {
	full := append([]string{"ls"}, args...)
	result, err := mustRunJSON(r, sandbox, full...)
	if err != nil {
		return nil, err
	}
	issues, err := ParseIssueList(result.Stdout)
	if err != nil {
		return nil, fmt.Errorf("parsing ls output %q: %w", result.Stdout, err)
	}
	return issues, nil
}

func ids(issues []IssueResult) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.ID
	}
	return out
}

// expect returns an error built from format when ok is false.
func expect(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	return fmt.Errorf(format, args...)
}
