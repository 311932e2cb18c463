// Package filesystem implements the IssueStore interface using the local filesystem.
// Each issue is an .md file in .moth/<status-dir>/, with its metadata
// encoded in the filename.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"moth/internal/idgen"
	"moth/internal/issuestorage"
)

// MaxIDRetries is the number of random IDs Create tries before giving up.
const MaxIDRetries = 100

const (
	lockFileName    = ".lock"
	currentFileName = ".current"
)

// FilesystemStorage implements issuestorage.IssueStore on a .moth directory.
type FilesystemStorage struct {
	root        string // path to the .moth directory
	statuses    []issuestorage.StatusDef
	idLength    int
	autoCompact bool
	logger      *zap.Logger
	newID       func(length int) (string, error)
}

// Option configures a FilesystemStorage instance.
type Option func(*FilesystemStorage)

// WithIDLength sets the length of generated IDs.
func WithIDLength(n int) Option {
	return func(fs *FilesystemStorage) {
		fs.idLength = n
	}
}

// WithAutoCompact makes Reorder compact the status afterwards unless the
// caller overrides it through ReorderOpts.
func WithAutoCompact(on bool) Option {
	return func(fs *FilesystemStorage) {
		fs.autoCompact = on
	}
}

// WithLogger sets the logger used for skipped files and renames.
func WithLogger(l *zap.Logger) Option {
	return func(fs *FilesystemStorage) {
		if l != nil {
			fs.logger = l
		}
	}
}

// WithIDGenerator replaces the random ID source used by Create.
func WithIDGenerator(gen func(length int) (string, error)) Option {
	return func(fs *FilesystemStorage) {
		if gen != nil {
			fs.newID = gen
		}
	}
}

// New creates a FilesystemStorage rooted at the given .moth directory.
// Statuses are used in the order given; the first is where Create puts
// new issues.
func New(root string, statuses []issuestorage.StatusDef, opts ...Option) *FilesystemStorage {
	fs := &FilesystemStorage{
		root:     root,
		statuses: append([]issuestorage.StatusDef(nil), statuses...),
		idLength: idgen.DefaultLength,
		logger:   zap.NewNop(),
		newID:    idgen.RandomID,
	}
	for _, opt := range opts {
		opt(fs)
	}
	return fs
}

// Root returns the .moth directory the store operates on.
func (fs *FilesystemStorage) Root() string {
	return fs.root
}

// Statuses returns the configured statuses in order.
func (fs *FilesystemStorage) Statuses() []issuestorage.StatusDef {
	return append([]issuestorage.StatusDef(nil), fs.statuses...)
}

// Init initializes the storage by creating the required directories.
func (fs *FilesystemStorage) Init(ctx context.Context) error {
	if err := os.MkdirAll(fs.root, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", fs.root, err)
	}
	for _, def := range fs.statuses {
		dir := fs.statusDir(def)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// CheckLayout verifies that every status directory exists.
func (fs *FilesystemStorage) CheckLayout(ctx context.Context) error {
	for _, def := range fs.statuses {
		dir := fs.statusDir(def)
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: status directory %s is missing (run 'moth init')", issuestorage.ErrNotFound, dir)
		}
		if err != nil {
			return fmt.Errorf("checking %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", issuestorage.ErrConflict, dir)
		}
	}
	return nil
}

func (fs *FilesystemStorage) statusDef(name string) (issuestorage.StatusDef, bool) {
	for _, def := range fs.statuses {
		if def.Name == name {
			return def, true
		}
	}
	return issuestorage.StatusDef{}, false
}

func (fs *FilesystemStorage) statusDir(def issuestorage.StatusDef) string {
	return filepath.Join(fs.root, def.Dir)
}

// canonicalPath computes where the issue's file belongs given its fields.
func (fs *FilesystemStorage) canonicalPath(issue *issuestorage.Issue) (string, error) {
	def, ok := fs.statusDef(issue.Status)
	if !ok {
		return "", fmt.Errorf("%w: unknown status '%s'", issuestorage.ErrConflict, issue.Status)
	}
	return filepath.Join(fs.statusDir(def), issue.Filename()), nil
}

// sourcePath locates the issue's file on disk. The canonical path wins;
// the last observed path is used when the canonical one is absent, which
// is the case for files still carrying a legacy hyphen-joined slug.
func (fs *FilesystemStorage) sourcePath(issue *issuestorage.Issue) (string, error) {
	path, err := fs.canonicalPath(issue)
	if err != nil {
		return "", err
	}
	if issue.Path != "" && issue.Path != path {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return issue.Path, nil
		}
	}
	return path, nil
}

// rename moves the issue's file to the canonical path for next and, on
// success, copies next into issue.
func (fs *FilesystemStorage) rename(issue *issuestorage.Issue, next issuestorage.Issue) error {
	oldPath, err := fs.sourcePath(issue)
	if err != nil {
		return err
	}
	newPath, err := fs.canonicalPath(&next)
	if err != nil {
		return err
	}
	if oldPath != newPath {
		if err := os.Rename(oldPath, newPath); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: renaming %s: %w", issuestorage.ErrNotFound, oldPath, err)
			}
			return fmt.Errorf("renaming %s: %w", oldPath, err)
		}
		fs.logger.Debug("renamed issue file",
			zap.String("id", next.ID),
			zap.String("from", oldPath),
			zap.String("to", newPath))
	}
	next.Path = newPath
	*issue = next
	return nil
}

// List returns the issues in a status in listing order.
func (fs *FilesystemStorage) List(ctx context.Context, status string) ([]*issuestorage.Issue, error) {
	def, ok := fs.statusDef(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status '%s'", issuestorage.ErrNotFound, status)
	}
	return fs.listStatus(def)
}

func (fs *FilesystemStorage) listStatus(def issuestorage.StatusDef) ([]*issuestorage.Issue, error) {
	dir := fs.statusDir(def)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: status directory %s is missing (run 'moth init'): %w", issuestorage.ErrNotFound, dir, err)
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	issues := make([]*issuestorage.Issue, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, issuestorage.Extension) {
			continue
		}
		issue, err := issuestorage.DecodeFilename(name)
		if err != nil {
			fs.logger.Warn("skipping issue file",
				zap.String("status", def.Name),
				zap.String("path", filepath.Join(dir, name)),
				zap.Error(err))
			continue
		}
		issue.Status = def.Name
		issue.Path = filepath.Join(dir, name)
		issues = append(issues, issue)
	}

	issuestorage.SortIssues(issues)
	return issues, nil
}

// All returns every issue, status by status in configuration order.
func (fs *FilesystemStorage) All(ctx context.Context) ([]*issuestorage.Issue, error) {
	var all []*issuestorage.Issue
	for _, def := range fs.statuses {
		issues, err := fs.listStatus(def)
		if err != nil {
			return nil, err
		}
		all = append(all, issues...)
	}
	return all, nil
}

// Find returns the single issue whose ID starts with partialID.
func (fs *FilesystemStorage) Find(ctx context.Context, partialID string) (*issuestorage.Issue, error) {
	if partialID == "" {
		return nil, fmt.Errorf("%w: issue ID must not be empty", issuestorage.ErrInvalidInput)
	}
	all, err := fs.All(ctx)
	if err != nil {
		return nil, err
	}

	var matches []*issuestorage.Issue
	for _, issue := range all {
		if strings.HasPrefix(issue.ID, partialID) {
			matches = append(matches, issue)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no issue matching '%s'", issuestorage.ErrNotFound, partialID)
	case 1:
		return matches[0], nil
	}

	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	sort.Strings(ids)
	return nil, &issuestorage.AmbiguousError{Prefix: partialID, Matches: ids}
}

// Create allocates a fresh ID and writes an empty issue file into the
// first status. Creates are serialized through an flock on .moth/.lock.
func (fs *FilesystemStorage) Create(ctx context.Context, title string, severity issuestorage.Severity) (*issuestorage.Issue, error) {
	slug := issuestorage.Slugify(title)
	if slug == "" {
		return nil, fmt.Errorf("%w: title %q is empty after normalization", issuestorage.ErrInvalidInput, title)
	}
	if len(fs.statuses) == 0 {
		return nil, fmt.Errorf("%w: no statuses configured", issuestorage.ErrConflict)
	}
	first := fs.statuses[0]

	lock := flock.New(filepath.Join(fs.root, lockFileName))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquiring create lock: %w", err)
	}
	defer lock.Unlock()

	all, err := fs.All(ctx)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(all))
	for _, issue := range all {
		taken[issue.ID] = true
	}

	for attempt := 0; attempt < MaxIDRetries; attempt++ {
		id, err := fs.newID(fs.idLength)
		if err != nil {
			return nil, fmt.Errorf("generating random ID: %w", err)
		}
		if taken[id] {
			continue
		}

		issue := &issuestorage.Issue{
			ID:       id,
			Severity: severity,
			Slug:     slug,
			Status:   first.Name,
		}
		path := filepath.Join(fs.statusDir(first), issue.Filename())

		// O_EXCL fails if file exists - collision detection
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if os.IsExist(err) {
			taken[id] = true
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("closing %s: %w", path, err)
		}

		issue.Path = path
		fs.logger.Debug("created issue", zap.String("id", id), zap.String("path", path))
		return issue, nil
	}
	return nil, fmt.Errorf("%w: no unique ID after %d attempts at length %d", issuestorage.ErrExhausted, MaxIDRetries, fs.idLength)
}

// Move renames the issue into another status.
func (fs *FilesystemStorage) Move(ctx context.Context, issue *issuestorage.Issue, status string) error {
	def, ok := fs.statusDef(status)
	if !ok {
		return fmt.Errorf("%w: unknown status '%s'", issuestorage.ErrConflict, status)
	}
	next := *issue
	next.Status = def.Name
	if !def.Orderable {
		next.Order = 0
	}
	return fs.rename(issue, next)
}

// SetSeverity renames the issue with a new severity.
func (fs *FilesystemStorage) SetSeverity(ctx context.Context, issue *issuestorage.Issue, severity issuestorage.Severity) error {
	next := *issue
	next.Severity = severity
	return fs.rename(issue, next)
}

// Delete removes the issue file and forgets it as the current issue.
func (fs *FilesystemStorage) Delete(ctx context.Context, issue *issuestorage.Issue) error {
	path, err := fs.sourcePath(issue)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: issue file %s", issuestorage.ErrNotFound, path)
		}
		return fmt.Errorf("removing %s: %w", path, err)
	}
	fs.logger.Debug("deleted issue", zap.String("id", issue.ID), zap.String("path", path))

	if id, err := fs.readCurrent(); err == nil && id == issue.ID {
		return fs.ClearCurrent(ctx)
	}
	return nil
}

// Content returns the markdown body of the issue.
func (fs *FilesystemStorage) Content(ctx context.Context, issue *issuestorage.Issue) ([]byte, error) {
	path, err := fs.sourcePath(issue)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: issue file %s", issuestorage.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func (fs *FilesystemStorage) currentPath() string {
	return filepath.Join(fs.root, currentFileName)
}

// readCurrent returns the raw ID stored in .current, or ErrNotFound.
func (fs *FilesystemStorage) readCurrent() (string, error) {
	data, err := os.ReadFile(fs.currentPath())
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: no current issue", issuestorage.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", fs.currentPath(), err)
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", fmt.Errorf("%w: no current issue", issuestorage.ErrNotFound)
	}
	return id, nil
}

// Current returns the issue recorded in .moth/.current.
func (fs *FilesystemStorage) Current(ctx context.Context) (*issuestorage.Issue, error) {
	id, err := fs.readCurrent()
	if err != nil {
		return nil, err
	}
	all, err := fs.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, issue := range all {
		if issue.ID == id {
			return issue, nil
		}
	}
	return nil, fmt.Errorf("%w: current issue %s no longer exists", issuestorage.ErrNotFound, id)
}

// SetCurrent records id in .moth/.current.
func (fs *FilesystemStorage) SetCurrent(ctx context.Context, id string) error {
	if !idgen.IsValid(id) {
		return fmt.Errorf("%w: invalid issue ID %q", issuestorage.ErrInvalidInput, id)
	}
	if err := atomic.WriteFile(fs.currentPath(), strings.NewReader(id+"\n")); err != nil {
		return fmt.Errorf("writing %s: %w", fs.currentPath(), err)
	}
	return nil
}

// ClearCurrent removes .moth/.current if present.
func (fs *FilesystemStorage) ClearCurrent(ctx context.Context) error {
	err := os.Remove(fs.currentPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", fs.currentPath(), err)
	}
	return nil
}
