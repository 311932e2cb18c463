package issuestorage_test

import (
	"context"
	"path/filepath"
	"testing"

	"moth/internal/issuestorage"
	"moth/internal/issuestorage/filesystem"
)

// TestFilesystemContract runs the storage contract tests against FilesystemStorage.
func TestFilesystemContract(t *testing.T) {
	factory := func() issuestorage.IssueStore {
		dir := filepath.Join(t.TempDir(), ".moth")
		fs := filesystem.New(dir, issuestorage.ContractStatuses)
		if err := fs.Init(context.Background()); err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		return fs
	}
	issuestorage.RunContractTests(t, factory)
}
