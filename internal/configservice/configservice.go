// Package configservice provides path resolution for moth projects and the
// git repositories around them.
package configservice

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"moth/internal/config"
)

// ErrNoProject is returned when no .moth directory can be located.
var ErrNoProject = errors.New("no .moth directory found (run 'moth init')")

// ResolvePaths resolves the project paths.
// Discovery order: MOTH_DIR env var > walk up from start (with git worktree fallback).
func ResolvePaths(start string) (config.Paths, error) {
	if envDir := os.Getenv(config.EnvDir); envDir != "" {
		normalized, err := normalizeBasePath(envDir)
		if err != nil {
			return config.Paths{}, err
		}
		return ResolveFromBase(normalized)
	}

	configDir, err := FindRoot(start)
	if err != nil {
		return config.Paths{}, err
	}
	return config.PathsFor(configDir), nil
}

// ResolveFromBase resolves Paths from a known .moth directory path.
func ResolveFromBase(basePath string) (config.Paths, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.Paths{}, fmt.Errorf("%w: %s does not exist", ErrNoProject, basePath)
		}
		return config.Paths{}, fmt.Errorf("cannot access moth directory %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return config.Paths{}, fmt.Errorf("moth path is not a directory: %s", basePath)
	}

	paths := config.PathsFor(basePath)
	if _, err := os.Stat(paths.ConfigFile); err != nil {
		return config.Paths{}, fmt.Errorf("%w: %s has no %s", ErrNoProject, basePath, config.FileName)
	}
	return paths, nil
}

// normalizeBasePath accepts either a .moth directory or the project root
// that contains one.
func normalizeBasePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	if filepath.Base(absPath) != config.DirName {
		absPath = filepath.Join(absPath, config.DirName)
	}
	return absPath, nil
}

// FindRoot walks from start toward the filesystem root looking for a .moth
// directory holding config.yml and returns the .moth path. When start is
// inside a git worktree without its own .moth, the main repository root is
// searched as well.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir, found, err := findConfigUpward(abs)
	if err != nil {
		return "", err
	}
	if found {
		return configDir, nil
	}

	if worktreeRoot, wtErr := findGitWorktreeRoot(abs); wtErr == nil && worktreeRoot != "" {
		configDir, found, err = findConfigUpward(worktreeRoot)
		if err != nil {
			return "", err
		}
		if found {
			return configDir, nil
		}
	}
	return "", ErrNoProject
}

func findConfigUpward(start string) (string, bool, error) {
	dir := start
	for {
		configDir := filepath.Join(dir, config.DirName)
		configFile := filepath.Join(configDir, config.FileName)
		if info, err := os.Stat(configFile); err == nil && !info.IsDir() {
			return configDir, true, nil
		} else if err != nil && !errors.Is(err, os.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return "", false, fmt.Errorf("checking config: %w", err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// FindGitRoot returns the git repository root for the given directory.
// Returns "" if not in a git repo. Uses file walk-up instead of subprocess for speed.
func FindGitRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	for {
		gitPath := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			// .git can be a directory (normal repo) or a file (worktree)
			if info.IsDir() || info.Mode().IsRegular() {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// GitDir returns the git directory that holds hooks for the repository
// containing startDir. For a worktree this is the main repository's .git
// directory, since hooks are shared. Returns "" if not in a git repo.
func GitDir(startDir string) (string, error) {
	gitRoot, err := FindGitRoot(startDir)
	if err != nil || gitRoot == "" {
		return "", err
	}

	gitPath := filepath.Join(gitRoot, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return gitPath, nil
	}

	worktreeGitDir, err := readGitdirFile(gitRoot, gitPath)
	if err != nil || worktreeGitDir == "" {
		return "", err
	}
	if common := readCommondir(worktreeGitDir); common != "" {
		return common, nil
	}
	return worktreeGitDir, nil
}

// findGitWorktreeRoot detects if startDir is in a git worktree and returns
// the main repository root. Returns "" if not in a worktree.
func findGitWorktreeRoot(startDir string) (string, error) {
	gitRoot, err := FindGitRoot(startDir)
	if err != nil || gitRoot == "" {
		return "", err
	}

	gitPath := filepath.Join(gitRoot, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return "", err
	}
	// If .git is a directory, this is a normal repo, not a worktree
	if info.IsDir() {
		return "", nil
	}

	worktreeGitDir, err := readGitdirFile(gitRoot, gitPath)
	if err != nil || worktreeGitDir == "" {
		return "", err
	}

	if common := readCommondir(worktreeGitDir); common != "" {
		return filepath.Dir(common), nil
	}

	// No commondir file; infer from .git/worktrees/<name>.
	if strings.Contains(worktreeGitDir, string(filepath.Separator)+"worktrees"+string(filepath.Separator)) {
		mainGitDir := filepath.Dir(filepath.Dir(worktreeGitDir))
		return filepath.Dir(mainGitDir), nil
	}
	return "", nil
}

// readGitdirFile parses a worktree's .git file ("gitdir: <path>").
func readGitdirFile(gitRoot, gitPath string) (string, error) {
	content, err := os.ReadFile(gitPath)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(content))
	if !strings.HasPrefix(line, "gitdir: ") {
		return "", nil // unexpected format
	}
	dir := strings.TrimPrefix(line, "gitdir: ")
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(gitRoot, dir)
	}
	return filepath.Clean(dir), nil
}

// readCommondir resolves the commondir file of a worktree git dir, which
// points at the main .git directory (usually "../..").
func readCommondir(worktreeGitDir string) string {
	content, err := os.ReadFile(filepath.Join(worktreeGitDir, "commondir"))
	if err != nil {
		return ""
	}
	commondir := strings.TrimSpace(string(content))
	if !filepath.IsAbs(commondir) {
		commondir = filepath.Join(worktreeGitDir, commondir)
	}
	return filepath.Clean(commondir)
}
