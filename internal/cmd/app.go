// Package cmd implements the moth command-line interface.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"moth/internal/config"
	"moth/internal/hooks"
	"moth/internal/issuestorage"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// App holds application state shared across commands.
type App struct {
	Store  issuestorage.IssueStore
	Config config.Config
	Paths  config.Paths
	Hooks  *hooks.Runner // nil disables lifecycle hooks
	Logger *zap.Logger
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	JSON   bool // output in JSON format
}

// isTerminal reports whether stdout is an interactive terminal.
func (a *App) isTerminal() bool {
	f, ok := a.Out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// useColor follows the NO_COLOR and CLICOLOR conventions, falling back to
// whether stdout is a terminal.
func (a *App) useColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && force != "0" {
		return true
	}
	return a.isTerminal()
}

// paint renders s with the given attributes when color is enabled,
// otherwise returns s unchanged.
func (a *App) paint(s string, attrs ...color.Attribute) string {
	if len(attrs) == 0 || !a.useColor() {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// SuccessColor returns the string in green on a terminal.
func (a *App) SuccessColor(s string) string {
	return a.paint(s, color.FgGreen)
}

// WarnColor returns the string in yellow on a terminal.
func (a *App) WarnColor(s string) string {
	return a.paint(s, color.FgYellow)
}

// SeverityLabel renders a severity name, colored by urgency on a terminal.
func (a *App) SeverityLabel(sev issuestorage.Severity) string {
	switch sev {
	case issuestorage.SeverityCrit:
		return a.paint(sev.String(), color.FgRed, color.Bold)
	case issuestorage.SeverityHigh:
		return a.paint(sev.String(), color.FgYellow)
	case issuestorage.SeverityLow:
		return a.paint(sev.String(), color.FgBlue)
	default:
		return sev.String()
	}
}

// logger returns the app logger, never nil.
func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// withHooks runs the before hooks for command, then fn, then the after
// hooks. A failing before hook aborts the command. A failing after hook
// is reported but the command's own result stands.
func (a *App) withHooks(ctx context.Context, command, issueID string, fn func() error) error {
	ev := hooks.Event{Command: command, Phase: hooks.Before, IssueID: issueID}
	if err := a.Hooks.Run(ctx, ev); err != nil {
		return fmt.Errorf("before hook: %w", err)
	}

	if err := fn(); err != nil {
		return err
	}

	ev.Phase = hooks.After
	if err := a.Hooks.Run(ctx, ev); err != nil {
		fmt.Fprintf(a.Err, "%s after hook: %v\n", a.WarnColor("Warning:"), err)
		a.logger().Warn("after hook failed", zap.String("command", command), zap.Error(err))
	}
	return nil
}

// issueOrCurrent resolves args[0] when present, otherwise the current issue.
func (a *App) issueOrCurrent(ctx context.Context, args []string) (*issuestorage.Issue, error) {
	if len(args) > 0 {
		return a.Store.Find(ctx, args[0])
	}
	issue, err := a.Store.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w (pass an issue ID or run 'moth start <id>')", err)
	}
	return issue, nil
}
