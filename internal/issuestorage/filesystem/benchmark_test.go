package filesystem

import (
	"context"
	"fmt"
	"testing"

	"moth/internal/issuestorage"
	"moth/testutil"
)

func setupBenchmarkStorage(b *testing.B) *FilesystemStorage {
	b.Helper()
	s := New(b.TempDir(), issuestorage.ContractStatuses)
	if err := s.Init(context.Background()); err != nil {
		b.Fatal(err)
	}
	return s
}

// BenchmarkCreate measures the time to create a new issue, including the
// directory scan for taken IDs.
func BenchmarkCreate(b *testing.B) {
	s := setupBenchmarkStorage(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Create(ctx, fmt.Sprintf("Benchmark issue %d", i), issuestorage.SeverityMed); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFind measures prefix lookup across all statuses.
func BenchmarkFind(b *testing.B) {
	s := setupBenchmarkStorage(b)
	ctx := context.Background()

	issue, err := s.Create(ctx, "Benchmark issue", issuestorage.SeverityMed)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Find(ctx, issue.ID); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkList1000 measures listing a status holding 1000 issues, half
// of them ranked.
func BenchmarkList1000(b *testing.B) {
	s := setupBenchmarkStorage(b)
	ctx := context.Background()

	gen := testutil.NewIssueGenerator(s)
	if _, err := gen.GenerateBacklog(ctx, 500); err != nil {
		b.Fatal(err)
	}
	if _, err := gen.GenerateRanked(ctx, 500, 1, 2); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		issues, err := s.List(ctx, "ready")
		if err != nil {
			b.Fatal(err)
		}
		if len(issues) != 1000 {
			b.Fatalf("expected 1000 issues, got %d", len(issues))
		}
	}
}

// BenchmarkCompact measures renumbering 200 sparse orders.
func BenchmarkCompact(b *testing.B) {
	s := setupBenchmarkStorage(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		gen := testutil.NewIssueGenerator(s)
		if _, err := gen.GenerateRanked(ctx, 200, 2, 3); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		if _, err := s.Compact(ctx, "ready"); err != nil {
			b.Fatal(err)
		}
		b.StopTimer()
		if err := gen.Cleanup(ctx); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
	}
}
