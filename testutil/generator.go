// Package testutil provides test utilities for moth storage testing.
package testutil

import (
	"context"
	"fmt"
	"math/rand"

	"moth/internal/issuestorage"
)

// IssueGenerator creates test issues in bulk.
type IssueGenerator struct {
	storage issuestorage.IssueStore
	issues  []*issuestorage.Issue
}

// NewIssueGenerator creates a new generator with the given storage.
func NewIssueGenerator(s issuestorage.IssueStore) *IssueGenerator {
	return &IssueGenerator{
		storage: s,
		issues:  make([]*issuestorage.Issue, 0),
	}
}

// IDs returns all issue IDs created by this generator.
func (g *IssueGenerator) IDs() []string {
	ids := make([]string, len(g.issues))
	for i, issue := range g.issues {
		ids[i] = issue.ID
	}
	return ids
}

// Cleanup deletes all issues created by this generator.
func (g *IssueGenerator) Cleanup(ctx context.Context) error {
	for i := len(g.issues) - 1; i >= 0; i-- {
		issue, err := g.storage.Find(ctx, g.issues[i].ID)
		if err != nil {
			return fmt.Errorf("cleanup issue %s: %w", g.issues[i].ID, err)
		}
		if err := g.storage.Delete(ctx, issue); err != nil {
			return fmt.Errorf("cleanup issue %s: %w", issue.ID, err)
		}
	}
	g.issues = g.issues[:0]
	return nil
}

func (g *IssueGenerator) create(ctx context.Context, title string, sev issuestorage.Severity) (*issuestorage.Issue, error) {
	issue, err := g.storage.Create(ctx, title, sev)
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", title, err)
	}
	g.issues = append(g.issues, issue)
	return issue, nil
}

// GenerateBacklog creates n unranked issues in the first status with
// random severities.
func (g *IssueGenerator) GenerateBacklog(ctx context.Context, n int) ([]*issuestorage.Issue, error) {
	out := make([]*issuestorage.Issue, 0, n)
	for i := 0; i < n; i++ {
		sev := issuestorage.Severities[rand.Intn(len(issuestorage.Severities))]
		issue, err := g.create(ctx, fmt.Sprintf("Backlog issue %d", i), sev)
		if err != nil {
			return nil, err
		}
		out = append(out, issue)
	}
	return out, nil
}

// GenerateRanked creates n issues in the first status ranked start,
// start+step, start+2*step and so on. A step above one leaves gaps for
// compaction to close.
func (g *IssueGenerator) GenerateRanked(ctx context.Context, n, start, step int) ([]*issuestorage.Issue, error) {
	if start < 1 || step < 1 {
		return nil, fmt.Errorf("%w: start and step must be at least 1", issuestorage.ErrInvalidInput)
	}
	out := make([]*issuestorage.Issue, 0, n)
	for i := 0; i < n; i++ {
		issue, err := g.create(ctx, fmt.Sprintf("Ranked issue %d", i), issuestorage.SeverityMed)
		if err != nil {
			return nil, err
		}
		pos := issuestorage.At(start + i*step)
		if err := g.storage.Reorder(ctx, issue, pos, issuestorage.ReorderOpts{}); err != nil {
			return nil, fmt.Errorf("rank %s at %s: %w", issue.ID, pos, err)
		}
		out = append(out, issue)
	}
	return out, nil
}

// GenerateAcrossStatuses creates perStatus issues in every configured
// status and returns them keyed by status name.
func (g *IssueGenerator) GenerateAcrossStatuses(ctx context.Context, perStatus int) (map[string][]*issuestorage.Issue, error) {
	out := make(map[string][]*issuestorage.Issue)
	for _, def := range g.storage.Statuses() {
		for i := 0; i < perStatus; i++ {
			issue, err := g.create(ctx, fmt.Sprintf("%s issue %d", def.Name, i), issuestorage.SeverityMed)
			if err != nil {
				return nil, err
			}
			if issue.Status != def.Name {
				if err := g.storage.Move(ctx, issue, def.Name); err != nil {
					return nil, fmt.Errorf("move %s to %s: %w", issue.ID, def.Name, err)
				}
			}
			out[def.Name] = append(out[def.Name], issue)
		}
	}
	return out, nil
}
