package testutil

import (
	"context"
	"testing"

	"moth/internal/issuestorage"
	"moth/internal/issuestorage/filesystem"
)

func setupTestStorage(t *testing.T) issuestorage.IssueStore {
	t.Helper()
	dir := t.TempDir()
	store := filesystem.New(dir, issuestorage.ContractStatuses)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}
	return store
}

func TestNewIssueGenerator(t *testing.T) {
	store := setupTestStorage(t)
	gen := NewIssueGenerator(store)

	if gen == nil {
		t.Fatal("NewIssueGenerator returned nil")
	}
	if gen.storage != store {
		t.Error("generator storage not set correctly")
	}
	if len(gen.IDs()) != 0 {
		t.Error("new generator should have no IDs")
	}
}

func TestIssueGenerator_GenerateBacklog(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)
	gen := NewIssueGenerator(store)

	issues, err := gen.GenerateBacklog(ctx, 10)
	if err != nil {
		t.Fatalf("GenerateBacklog failed: %v", err)
	}
	if len(issues) != 10 || len(gen.IDs()) != 10 {
		t.Fatalf("expected 10 issues, got %d (tracked %d)", len(issues), len(gen.IDs()))
	}

	first := store.Statuses()[0].Name
	listed, err := store.List(ctx, first)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 10 {
		t.Errorf("expected 10 issues in %s, got %d", first, len(listed))
	}
	for _, issue := range listed {
		if issue.HasOrder() {
			t.Errorf("backlog issue %s should be unranked", issue.ID)
		}
	}
}

func TestIssueGenerator_GenerateRanked(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)
	gen := NewIssueGenerator(store)

	issues, err := gen.GenerateRanked(ctx, 3, 2, 5)
	if err != nil {
		t.Fatalf("GenerateRanked failed: %v", err)
	}

	want := []int{2, 7, 12}
	for i, issue := range issues {
		got, err := store.Find(ctx, issue.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Order != want[i] {
			t.Errorf("issue %d order = %d, want %d", i, got.Order, want[i])
		}
	}

	if _, err := gen.GenerateRanked(ctx, 1, 0, 1); err == nil {
		t.Error("expected error for start 0")
	}
}

func TestIssueGenerator_GenerateAcrossStatuses(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)
	gen := NewIssueGenerator(store)

	byStatus, err := gen.GenerateAcrossStatuses(ctx, 2)
	if err != nil {
		t.Fatalf("GenerateAcrossStatuses failed: %v", err)
	}

	for _, def := range store.Statuses() {
		listed, err := store.List(ctx, def.Name)
		if err != nil {
			t.Fatal(err)
		}
		if len(listed) != 2 || len(byStatus[def.Name]) != 2 {
			t.Errorf("status %s: listed %d, generated %d; want 2", def.Name, len(listed), len(byStatus[def.Name]))
		}
	}
}

func TestIssueGenerator_Cleanup(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)
	gen := NewIssueGenerator(store)

	if _, err := gen.GenerateAcrossStatuses(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := gen.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty store after cleanup, got %d issues", len(all))
	}
	if len(gen.IDs()) != 0 {
		t.Error("generator should forget cleaned up IDs")
	}
}
