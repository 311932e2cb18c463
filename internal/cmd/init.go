package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"moth/internal/config"
	"moth/internal/issuestorage/filesystem"

	"github.com/spf13/cobra"
)

// newInitCmd creates the init command.
// Note: init doesn't use the provider's App since it creates the .moth directory.
func newInitCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize .moth/ directory",
		Long: `Create .moth/ in the current directory with a default config.yml and one
directory per status.

The location can be changed with --path or the MOTH_DIR environment
variable; either may name the project root or the .moth directory itself.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := provider.MothPath
			if base == "" {
				base = os.Getenv(config.EnvDir)
			}
			return runInit(cmd.Context(), provider.out(), base, provider.JSONOutput)
		},
	}

	return cmd
}

func runInit(ctx context.Context, out io.Writer, basePath string, jsonOut bool) error {
	if basePath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		basePath = cwd
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	mothDir := absPath
	if filepath.Base(mothDir) != config.DirName {
		mothDir = filepath.Join(absPath, config.DirName)
	}

	if _, err := os.Stat(mothDir); err == nil {
		return fmt.Errorf("moth already initialized in %s", mothDir)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking %s: %w", mothDir, err)
	}

	if err := os.MkdirAll(mothDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", mothDir, err)
	}

	cfg := config.Default()
	paths := config.PathsFor(mothDir)
	if err := config.Write(paths.ConfigFile, cfg); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	store := filesystem.New(mothDir, cfg.StatusDefs())
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	if jsonOut {
		return json.NewEncoder(out).Encode(map[string]string{"path": mothDir})
	}
	fmt.Fprintf(out, "Initialized moth in %s\n", mothDir)
	return nil
}
