// Package hooks runs the user's lifecycle scripts around moth commands.
// Scripts live in .moth/hooks/<command>/<phase>/ and run with sh in
// lexical order.
package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Phase is when a hook runs relative to its command.
type Phase string

const (
	Before Phase = "before"
	After  Phase = "after"
)

// Environment passed to every hook script.
const (
	EnvCommand = "MOTH_COMMAND"
	EnvPhase   = "MOTH_HOOK_PHASE"
	EnvIssueID = "MOTH_ISSUE_ID"
)

// DefaultTimeout bounds a single script.
const DefaultTimeout = 10 * time.Second

// Event identifies the hooks to run.
type Event struct {
	Command string
	Phase   Phase
	IssueID string // empty when the command has no single issue
}

// Runner handles hook execution.
type Runner struct {
	hooksDir string
	timeout  time.Duration
	stdout   io.Writer
	stderr   io.Writer
	logger   *zap.Logger
}

// NewRunner creates a new hook runner.
// hooksDir is typically .moth/hooks/.
func NewRunner(hooksDir string, stdout, stderr io.Writer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		hooksDir: hooksDir,
		timeout:  DefaultTimeout,
		stdout:   stdout,
		stderr:   stderr,
		logger:   logger,
	}
}

// SetTimeout changes the per-script timeout.
func (r *Runner) SetTimeout(d time.Duration) {
	r.timeout = d
}

// Scripts lists the scripts that would run for command and phase.
// A missing directory yields no scripts.
func (r *Runner) Scripts(command string, phase Phase) ([]string, error) {
	dir := filepath.Join(r.hooksDir, command, string(phase))
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading hooks directory %s: %w", dir, err)
	}

	var scripts []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		scripts = append(scripts, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(scripts)
	return scripts, nil
}

// Run executes every script for the event in order and stops at the first
// failure. On platforms without sh, hooks are skipped.
func (r *Runner) Run(ctx context.Context, ev Event) error {
	if r == nil || !supported {
		return nil
	}
	scripts, err := r.Scripts(ev.Command, ev.Phase)
	if err != nil {
		return err
	}

	env := append(os.Environ(),
		EnvCommand+"="+ev.Command,
		EnvPhase+"="+string(ev.Phase),
	)
	if ev.IssueID != "" {
		env = append(env, EnvIssueID+"="+ev.IssueID)
	}

	for _, script := range scripts {
		r.logger.Debug("running hook",
			zap.String("command", ev.Command),
			zap.String("phase", string(ev.Phase)),
			zap.String("script", script))

		if err := r.runScript(ctx, script, env); err != nil {
			return fmt.Errorf("hook script %s failed: %w", script, err)
		}
	}
	return nil
}
