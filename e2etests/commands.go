package e2etests

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// knownCommands is the registry of all moth commands that should be tested.
// Subcommands use space-separated format (e.g., "hook install").
var knownCommands = map[string]bool{
	"init":           true,
	"new":            true,
	"ls":             true,
	"show":           true,
	"start":          true,
	"done":           true,
	"mv":             true,
	"edit":           true,
	"rm":             true,
	"severity":       true,
	"priority":       true,
	"compact":        true,
	"doctor":         true,
	"hook install":   true,
	"hook uninstall": true,
	"report":         true,
	"guide":          true,
	"version":        true,
}

// ignoredCommands are commands discovered via --help that we intentionally skip.
var ignoredCommands = map[string]bool{
	"help":       true,
	"completion": true,
}

// commandLinePattern matches "  <command>  <description>" in help output.
var commandLinePattern = regexp.MustCompile(`^\s{2}(\S+)\s{2,}`)

// validCommandPattern matches valid command names (alphanumeric, hyphens, underscores).
var validCommandPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// DiscoverCommands runs moth --help and subcommand helps to find all available commands.
// Returns all discovered commands, ignored commands, and commands not in the knownCommands registry.
func DiscoverCommands(r *Runner) (all []string, ignored []string, unknown []string, err error) {
	discovered := make(map[string]bool)

	result := r.Run("", "--help")
	if result.ExitCode != 0 {
		return nil, nil, nil, fmt.Errorf("moth --help failed: %s", result.Stderr)
	}

	for _, cmd := range parseCommandsFromHelp(result.Stdout) {
		if ignoredCommands[cmd] {
			ignored = append(ignored, cmd)
			continue
		}

		subResult := r.Run("", cmd, "--help")
		if subResult.ExitCode != 0 {
			return nil, nil, nil, fmt.Errorf("moth %s --help failed: %s", cmd, subResult.Stderr)
		}
		subs := parseCommandsFromHelp(subResult.Stdout)
		if len(subs) == 0 {
			discovered[cmd] = true
			continue
		}
		for _, sub := range subs {
			discovered[cmd+" "+sub] = true
		}
	}

	for cmd := range discovered {
		all = append(all, cmd)
		if !knownCommands[cmd] {
			unknown = append(unknown, cmd)
		}
	}
	sort.Strings(all)
	sort.Strings(ignored)
	sort.Strings(unknown)

	return all, ignored, unknown, nil
}

// parseCommandsFromHelp extracts command names from the "Available
// Commands:" section of cobra help output. Other indented blocks, such as
// the position list in priority's help, are not commands.
func parseCommandsFromHelp(helpOutput string) []string {
	var commands []string
	inCommandSection := false

	for _, line := range strings.Split(helpOutput, "\n") {
		if strings.HasPrefix(line, "Available Commands:") {
			inCommandSection = true
			continue
		}
		if !inCommandSection {
			continue
		}
		if strings.TrimSpace(line) == "" {
			break
		}

		matches := commandLinePattern.FindStringSubmatch(line)
		if len(matches) > 1 && validCommandPattern.MatchString(matches[1]) {
			commands = append(commands, matches[1])
		}
	}

	return commands
}
