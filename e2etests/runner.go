// Package e2etests drives a built moth binary against throwaway projects.
// Tests skip unless MOTH_CMD names the binary.
package e2etests

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// EnvCmd names the moth binary under test.
const EnvCmd = "MOTH_CMD"

// Runner executes moth commands against a sandbox directory.
type Runner struct {
	MothCmd  string   // path to moth binary
	ExtraEnv []string // additional environment variables, e.g. CLICOLOR_FORCE=1
}

// SetupSandbox creates a fresh project directory and runs moth init in it.
// Returns the sandbox path.
func (r *Runner) SetupSandbox() (string, error) {
	dir, err := os.MkdirTemp("", "moth-e2e-*")
	if err != nil {
		return "", fmt.Errorf("creating sandbox: %w", err)
	}
	result := r.Run(dir, "init")
	if result.ExitCode != 0 {
		os.RemoveAll(dir)
		return "", fmt.Errorf("moth init failed (exit %d): %s", result.ExitCode, result.Stderr)
	}
	return dir, nil
}

// TeardownSandbox removes a sandbox directory.
func (r *Runner) TeardownSandbox(path string) error {
	return os.RemoveAll(path)
}

// RunResult holds the output of a command execution.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes a moth command with the given arguments inside sandbox.
// MOTH_DIR points at the sandbox so the project is found regardless of
// the caller's working directory. An empty sandbox runs without a project.
func (r *Runner) Run(sandbox string, args ...string) RunResult {
	cmd := exec.Command(r.MothCmd, args...)
	cmd.Env = append(os.Environ(), "MOTH_JSON=", "MOTH_DEBUG=", "MOTH_EDITOR=true")
	cmd.Env = append(cmd.Env, r.ExtraEnv...)
	if sandbox != "" {
		cmd.Dir = sandbox
		cmd.Env = append(cmd.Env, "MOTH_DIR="+sandbox)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	return RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// RunJSON executes a moth command with --json appended.
func (r *Runner) RunJSON(sandbox string, args ...string) RunResult {
	fullArgs := append(args, "--json")
	return r.Run(sandbox, fullArgs...)
}
