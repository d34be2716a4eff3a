package search

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/kbmd/internal/store"
	"github.com/pdiddy/kbmd/pkg/types"
)

func testIndex(t *testing.T) (*Index, *store.Store) {
	t.Helper()
	s := store.New(filepath.Join(t.TempDir(), ".kbmd"))
	if err := s.Scaffold(); err != nil {
		t.Fatal(err)
	}
	idx, err := Open(s, 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx, s
}

func addDataset(t *testing.T, s *store.Store, slug, description string, tags []string) {
	t.Helper()
	err := s.CreateDataset(&types.Dataset{
		Name:         "Dataset " + slug,
		Slug:         slug,
		Path:         "/scratch/lab/" + slug,
		Description:  description,
		Size:         "1 GB",
		FileType:     "NetCDF",
		DataSource:   "test",
		LastModified: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DateAdded:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Tags:         tags,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func addProject(t *testing.T, s *store.Store, slug, description string, tags []string) {
	t.Helper()
	err := s.CreateProject(&types.Project{
		Name:                  "Project " + slug,
		Slug:                  slug,
		Path:                  "/projects/lab/" + slug,
		Description:           description,
		Objectives:            "Objectives of " + slug,
		Status:                types.StatusActive,
		DateStarted:           types.NewDate(2025, time.September, 1),
		DateAdded:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PrincipalInvestigator: "Dr. Vasquez",
		Tags:                  tags,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestReindexCountsAllRecords(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	addDataset(t, s, "radar-obs", "Doppler radar observations", []string{"radar"})
	addDataset(t, s, "buoy-obs", "Moored buoy time series", []string{"ocean"})
	addProject(t, s, "storm-tracking", "Tracking convective storms with radar", []string{"radar"})

	n, err := idx.Reindex(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Reindex returned %d, want 3", n)
	}

	count, err := idx.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}
}

func TestReindexReplacesStaleRows(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	addDataset(t, s, "radar-obs", "Doppler radar observations", nil)
	if _, err := idx.Reindex(ctx); err != nil {
		t.Fatal(err)
	}

	addDataset(t, s, "buoy-obs", "Moored buoy time series", nil)
	n, err := idx.Reindex(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Reindex returned %d, want 2", n)
	}
	count, err := idx.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2 after reindex", count)
	}
}

func TestFullTextQuery(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	addDataset(t, s, "radar-obs", "Doppler radar observations", []string{"radar"})
	addDataset(t, s, "buoy-obs", "Moored buoy time series", []string{"ocean"})
	addProject(t, s, "storm-tracking", "Tracking convective storms with radar", []string{"radar"})
	if _, err := idx.Reindex(ctx); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Query(ctx, QueryOptions{Query: "radar"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	for _, r := range results {
		if r.Slug == "buoy-obs" {
			t.Errorf("unexpected hit: %+v", r)
		}
	}
}

func TestKindFilter(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	addDataset(t, s, "radar-obs", "Doppler radar observations", nil)
	addProject(t, s, "storm-tracking", "Tracking convective storms with radar", nil)
	if _, err := idx.Reindex(ctx); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Query(ctx, QueryOptions{Query: "radar", Kind: KindProject})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Slug != "storm-tracking" {
		t.Errorf("unexpected results: %+v", results)
	}
	if results[0].Kind != KindProject {
		t.Errorf("Kind = %q, want %q", results[0].Kind, KindProject)
	}
}

func TestTagFilterWithoutQuery(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	addDataset(t, s, "radar-obs", "Doppler radar observations", []string{"radar", "weather"})
	addDataset(t, s, "buoy-obs", "Moored buoy time series", []string{"ocean"})
	addProject(t, s, "storm-tracking", "Tracking convective storms", []string{"radar"})
	if _, err := idx.Reindex(ctx); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Query(ctx, QueryOptions{Tag: "radar"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	// Structured-only queries sort by kind, then slug.
	if results[0].Slug != "radar-obs" || results[1].Slug != "storm-tracking" {
		t.Errorf("unexpected order: %+v", results)
	}
	if results[0].Tags[0] != "radar" {
		t.Errorf("tags not round-tripped: %+v", results[0].Tags)
	}
}

func TestMaxResultsLimit(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	for _, slug := range []string{"a-obs", "b-obs", "c-obs"} {
		addDataset(t, s, slug, "shared description term", nil)
	}
	if _, err := idx.Reindex(ctx); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Query(ctx, QueryOptions{Query: "shared", MaxResults: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	if !(QueryOptions{}).IsEmpty() {
		t.Error("zero options should be empty")
	}
	if (QueryOptions{Tag: "radar"}).IsEmpty() {
		t.Error("tag filter should not be empty")
	}
	if (QueryOptions{Query: "radar"}).IsEmpty() {
		t.Error("query should not be empty")
	}
}

func TestQueryFailsOnCorruptTagsRow(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	addDataset(t, s, "radar-obs", "Doppler radar observations", []string{"radar"})
	if _, err := idx.Reindex(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.db.ExecContext(ctx,
		`UPDATE records SET tags = 'not json' WHERE slug = 'radar-obs'`); err != nil {
		t.Fatal(err)
	}

	_, err := idx.Query(ctx, QueryOptions{Kind: KindDataset})
	if err == nil {
		t.Fatal("expected error for corrupt tags column")
	}
	if !strings.Contains(err.Error(), "decoding tags for dataset/radar-obs") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	addDataset(t, s, "radar-obs", "Doppler radar observations", nil)
	if _, err := idx.Reindex(ctx); err != nil {
		t.Fatal(err)
	}
	idx.Close()

	// Reopening an existing database must not recreate the schema.
	reopened, err := Open(s, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Count = %d, want 1 after reopen", count)
	}
}
