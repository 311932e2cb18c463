// Package githook installs the prepare-commit-msg hook that tags commit
// messages with the issue recorded in .moth/.current.
package githook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"moth/internal/idgen"
)

// HookName is the git hook moth installs.
const HookName = "prepare-commit-msg"

// Marker delimits moth's section of the hook file.
const Marker = "# MOTH_HOOK_MARKER"

const shebang = "#!/bin/bash\n"

// section is the marker-delimited block; it is appended verbatim after
// foreign hook content.
const section = Marker + ` - Do not edit this section manually
(
COMMIT_MSG_FILE=$1
COMMIT_SOURCE=$2

# Leave merge and squash messages alone
if [ "$COMMIT_SOURCE" = "merge" ] || [ "$COMMIT_SOURCE" = "squash" ]; then
    exit 0
fi

find_moth_dir() {
    dir="$PWD"
    while [ "$dir" != "/" ]; do
        if [ -d "$dir/.moth" ]; then
            echo "$dir/.moth"
            return 0
        fi
        dir="$(dirname "$dir")"
    done
    return 1
}

MOTH_DIR="${MOTH_DIR:-$(find_moth_dir)}"
[ -n "$MOTH_DIR" ] || exit 0
[ -f "$MOTH_DIR/.current" ] || exit 0

ISSUE_ID=$(tr -d '[:space:]' < "$MOTH_DIR/.current")
[ -n "$ISSUE_ID" ] || exit 0

MSG=$(cat "$COMMIT_MSG_FILE")

# Already tagged
if moth prefix "$MSG" >/dev/null 2>&1; then
    exit 0
fi

printf '[%s] %s\n' "$ISSUE_ID" "$MSG" > "$COMMIT_MSG_FILE"
)
` + Marker + ` end
`

// Script is the full hook file written when no hook exists.
const Script = shebang + section

// ErrForeignHook is returned when a hook exists that moth did not write.
var ErrForeignHook = errors.New("prepare-commit-msg hook exists and was not installed by moth")

// Outcome describes what Install or Uninstall did.
type Outcome string

const (
	Installed        Outcome = "installed"
	AlreadyInstalled Outcome = "already installed"
	Replaced         Outcome = "replaced existing hook"
	Appended         Outcome = "appended to existing hook"
	Removed          Outcome = "removed"
	SectionRemoved   Outcome = "removed moth section"
	NotInstalled     Outcome = "not installed"
)

// HookPath returns the hook file path inside gitDir.
func HookPath(gitDir string) string {
	return filepath.Join(gitDir, "hooks", HookName)
}

// Install writes the hook into gitDir/hooks. An existing moth hook is left
// alone unless force is set. A foreign hook is replaced with force or
// extended with appendMode; otherwise ErrForeignHook is returned.
func Install(gitDir string, force, appendMode bool) (Outcome, string, error) {
	path := HookPath(gitDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", path, fmt.Errorf("creating hooks directory: %w", err)
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", path, fmt.Errorf("reading %s: %w", path, err)
	}

	outcome := Installed
	content := Script
	switch {
	case os.IsNotExist(err):
	case strings.Contains(string(existing), Marker) && !force:
		return AlreadyInstalled, path, nil
	case strings.Contains(string(existing), Marker):
		outcome = Replaced
		if appendMode {
			content = strings.TrimRight(stripSection(string(existing)), "\n") + "\n\n" + section
			outcome = Appended
		}
	case appendMode:
		content = strings.TrimRight(string(existing), "\n") + "\n\n" + section
		outcome = Appended
	case force:
		outcome = Replaced
	default:
		return "", path, fmt.Errorf("%w: %s (use --force to overwrite or --append to append)", ErrForeignHook, path)
	}

	if err := writeExecutable(path, content); err != nil {
		return "", path, err
	}
	return outcome, path, nil
}

// Uninstall removes moth's hook. A hook holding only moth's script is
// deleted; otherwise just the marker section is stripped.
func Uninstall(gitDir string) (Outcome, string, error) {
	path := HookPath(gitDir)
	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NotInstalled, path, nil
	}
	if err != nil {
		return "", path, fmt.Errorf("reading %s: %w", path, err)
	}

	content := string(existing)
	if !strings.Contains(content, Marker) {
		return "", path, fmt.Errorf("%w: %s (remove it manually if needed)", ErrForeignHook, path)
	}

	if strings.TrimSpace(content) == strings.TrimSpace(Script) {
		if err := os.Remove(path); err != nil {
			return "", path, fmt.Errorf("removing %s: %w", path, err)
		}
		return Removed, path, nil
	}

	if err := writeExecutable(path, stripSection(content)); err != nil {
		return "", path, err
	}
	return SectionRemoved, path, nil
}

// stripSection removes every line from a marker line through the next
// marker line, inclusive.
func stripSection(content string) string {
	var kept []string
	inSection := false
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, Marker) {
			inSection = !inSection
			continue
		}
		if !inSection {
			kept = append(kept, line)
		}
	}
	return strings.TrimRight(strings.Join(kept, "\n"), "\n") + "\n"
}

func writeExecutable(path, content string) error {
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("making %s executable: %w", path, err)
	}
	return nil
}

// ExtractIssueID returns the ID from a message starting with "[<id>]".
// Leading whitespace is ignored.
func ExtractIssueID(message string) (string, bool) {
	msg := strings.TrimLeft(message, " \t\r\n")
	if !strings.HasPrefix(msg, "[") {
		return "", false
	}
	end := strings.IndexByte(msg, ']')
	if end < 0 {
		return "", false
	}
	id := msg[1:end]
	if !idgen.IsValid(id) {
		return "", false
	}
	return id, true
}
