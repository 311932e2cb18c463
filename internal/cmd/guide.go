package cmd

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

//go:embed guide.md
var agentGuide string

// GuideFileName is the file the agent guide is written to.
const GuideFileName = "CLAUDE.md"

// guideHeading marks a file that already contains the guide.
const guideHeading = "# Moth Agent Guide"

// writeGuide writes the agent guide into dir and returns a description of
// what happened.
func writeGuide(dir string, force, appendMode bool) (string, error) {
	path := filepath.Join(dir, GuideFileName)
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	exists := err == nil

	content := agentGuide
	msg := "Created " + GuideFileName + " with moth agent guide"
	switch {
	case !exists:
	case appendMode && strings.Contains(string(existing), guideHeading):
		return GuideFileName + " already contains moth agent guide", nil
	case appendMode:
		content = strings.TrimRight(string(existing), "\n") + "\n\n---\n\n" + agentGuide
		msg = "Appended moth agent guide to " + GuideFileName
	case force:
		msg = "Replaced " + GuideFileName + " with moth agent guide"
	default:
		return "", errors.New(GuideFileName + " already exists. Use --force to overwrite or --append to add to it")
	}

	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return msg, nil
}

// newGuideCmd creates the guide command.
func newGuideCmd(provider *AppProvider) *cobra.Command {
	var (
		force      bool
		appendMode bool
	)

	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Write the moth agent guide to CLAUDE.md",
		Long: `Write a short guide for coding agents describing how this project uses
moth. The guide goes to CLAUDE.md in the project root.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			if force && appendMode {
				return errors.New("cannot specify both --force and --append")
			}

			msg, err := writeGuide(app.Paths.ProjectRoot, force, appendMode)
			if err != nil {
				return err
			}
			if app.JSON {
				return writeJSON(app, map[string]string{
					"path":    filepath.Join(app.Paths.ProjectRoot, GuideFileName),
					"message": msg,
				})
			}
			fmt.Fprintln(app.Out, msg)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing CLAUDE.md")
	cmd.Flags().BoolVar(&appendMode, "append", false, "Append to an existing CLAUDE.md")

	return cmd
}
