package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/kbmd/internal/store"
	"github.com/pdiddy/kbmd/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(filepath.Join(t.TempDir(), ".kbmd"))
	if err := s.Scaffold(); err != nil {
		t.Fatal(err)
	}
	return s
}

func addDataset(t *testing.T, s *store.Store, slug, path, description string) {
	t.Helper()
	err := s.CreateDataset(&types.Dataset{
		Name:         "Dataset " + slug,
		Slug:         slug,
		Path:         path,
		Description:  description,
		Size:         "1 GB",
		FileType:     "CSV",
		DataSource:   "test",
		LastModified: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DateAdded:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func addProject(t *testing.T, s *store.Store, slug, path string, tags []string) {
	t.Helper()
	err := s.CreateProject(&types.Project{
		Name:                  "Project " + slug,
		Slug:                  slug,
		Path:                  path,
		Description:           "Description of " + slug,
		Objectives:            "Objectives",
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

func rebuild(t *testing.T, s *store.Store) {
	t.Helper()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	if err := NewBuilder(s).Rebuild(now); err != nil {
		t.Fatal(err)
	}
}

func categoryKeys(idx *types.Index) []string {
	keys := make([]string, 0, len(idx.Entries))
	for _, c := range idx.Entries {
		keys = append(keys, c.Category)
	}
	return keys
}

func findCategory(t *testing.T, idx *types.Index, key string) types.IndexCategory {
	t.Helper()
	for _, c := range idx.Entries {
		if c.Category == key {
			return c
		}
	}
	t.Fatalf("category %q not found in %v", key, categoryKeys(idx))
	return types.IndexCategory{}
}

// --- filesystem index ---

func TestFilesystemGrouping(t *testing.T) {
	s := testStore(t)
	addDataset(t, s, "obs", "/scratch/labA/data", "Observations")
	addProject(t, s, "storms", "/scratch/labB/proj", nil)
	addDataset(t, s, "archive", "/cold/archive/2020", "Archived data")
	addDataset(t, s, "lonely", "/only-one-segment", "Single segment path")

	rebuild(t, s)

	idx, err := s.LoadIndex(FilesystemIndex)
	if err != nil {
		t.Fatal(err)
	}

	scratch := findCategory(t, idx, "/scratch")
	if len(scratch.Entries) != 2 {
		t.Fatalf("expected 2 entries under /scratch, got %d", len(scratch.Entries))
	}
	if scratch.Entries[0].Link != "../datasets/obs.md" {
		t.Errorf("dataset link = %q", scratch.Entries[0].Link)
	}
	if scratch.Entries[1].Link != "../projects/storms.md" {
		t.Errorf("project link = %q", scratch.Entries[1].Link)
	}

	root := findCategory(t, idx, "/")
	if len(root.Entries) != 1 || root.Entries[0].Name != "Dataset lonely" {
		t.Errorf("single-segment path not grouped under /: %+v", root.Entries)
	}
}

func TestFilesystemCategoriesSorted(t *testing.T) {
	s := testStore(t)
	// Insertion order deliberately unsorted.
	addDataset(t, s, "z", "/zfs/pool/z", "Z data")
	addDataset(t, s, "a", "/archive/a", "A data")
	addDataset(t, s, "m", "/mnt/m/data", "M data")

	rebuild(t, s)

	idx, err := s.LoadIndex(FilesystemIndex)
	if err != nil {
		t.Fatal(err)
	}
	keys := categoryKeys(idx)
	want := []string{"/archive", "/mnt", "/zfs"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q (all: %v)", i, keys[i], want[i], keys)
		}
	}
}

func TestFilesystemEntriesInSlugOrder(t *testing.T) {
	s := testStore(t)
	addDataset(t, s, "zebra", "/scratch/a/z", "Z")
	addDataset(t, s, "alpha", "/scratch/b/a", "A")

	rebuild(t, s)

	idx, err := s.LoadIndex(FilesystemIndex)
	if err != nil {
		t.Fatal(err)
	}
	scratch := findCategory(t, idx, "/scratch")
	if scratch.Entries[0].Name != "Dataset alpha" || scratch.Entries[1].Name != "Dataset zebra" {
		t.Errorf("entries not in slug order: %+v", scratch.Entries)
	}
}

// --- topic index ---

func TestTopicFanOut(t *testing.T) {
	s := testStore(t)
	addProject(t, s, "multi", "/projects/x/multi", []string{"b", "a"})
	addProject(t, s, "bare", "/projects/x/bare", nil)

	rebuild(t, s)

	idx, err := s.LoadIndex(TopicIndex)
	if err != nil {
		t.Fatal(err)
	}

	keys := categoryKeys(idx)
	want := []string{"Untagged", "a", "b"}
	if len(keys) != len(want) {
		t.Fatalf("categories = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	for _, tag := range []string{"a", "b"} {
		c := findCategory(t, idx, tag)
		if len(c.Entries) != 1 || c.Entries[0].Name != "Project multi" {
			t.Errorf("tag %q: %+v", tag, c.Entries)
		}
	}
	untagged := findCategory(t, idx, "Untagged")
	if len(untagged.Entries) != 1 || untagged.Entries[0].Name != "Project bare" {
		t.Errorf("untagged: %+v", untagged.Entries)
	}
}

func TestTopicIndexIgnoresDatasets(t *testing.T) {
	s := testStore(t)
	addDataset(t, s, "obs", "/scratch/lab/obs", "Observations")

	rebuild(t, s)

	idx, err := s.LoadIndex(TopicIndex)
	if err != nil {
		t.Fatal(err)
	}
	if len(idx.Entries) != 0 {
		t.Errorf("expected no topic categories, got %v", categoryKeys(idx))
	}
}

// --- description truncation ---

func TestTruncateDescription(t *testing.T) {
	at100 := strings.Repeat("x", 100)
	at101 := strings.Repeat("x", 101)

	if got := truncateDescription(at100); got != at100 {
		t.Errorf("100-char description modified: %d chars", len(got))
	}
	if got := truncateDescription(at101); got != at100+"..." {
		t.Errorf("101-char description: got %d chars, want 103", len(got))
	}
}

func TestIndexEntryDescriptionTruncated(t *testing.T) {
	s := testStore(t)
	long := strings.Repeat("d", 150)
	addDataset(t, s, "verbose", "/scratch/lab/verbose", long)

	rebuild(t, s)

	idx, err := s.LoadIndex(FilesystemIndex)
	if err != nil {
		t.Fatal(err)
	}
	entry := findCategory(t, idx, "/scratch").Entries[0]
	want := strings.Repeat("d", 100) + "..."
	if entry.Description != want {
		t.Errorf("description not truncated: %d chars", len(entry.Description))
	}
}

// --- grouping key derivation ---

func TestFilesystemRoot(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/scratch/lab/data", "/scratch"},
		{"/scratch/labB/proj", "/scratch"},
		{"/only-one-segment", "/"},
		{"/", "/"},
		{"", "/"},
		{"/a/b", "/a"},
	}
	for _, tt := range tests {
		if got := filesystemRoot(tt.path); got != tt.want {
			t.Errorf("filesystemRoot(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// --- rebuild semantics ---

func TestRebuildReplacesPreviousIndex(t *testing.T) {
	s := testStore(t)
	addDataset(t, s, "obs", "/scratch/lab/obs", "Observations")
	rebuild(t, s)

	// Remove the only record; the rebuilt index must not retain it.
	if err := os.Remove(filepath.Join(s.DataDir(store.Datasets), "obs.json")); err != nil {
		t.Fatal(err)
	}
	rebuild(t, s)

	idx, err := s.LoadIndex(FilesystemIndex)
	if err != nil {
		t.Fatal(err)
	}
	if len(idx.Entries) != 0 {
		t.Errorf("stale entries survived rebuild: %v", categoryKeys(idx))
	}
}

func TestRebuildDeterministic(t *testing.T) {
	s := testStore(t)
	addDataset(t, s, "b", "/scratch/lab/b", "B")
	addDataset(t, s, "a", "/scratch/lab/a", "A")
	addProject(t, s, "p", "/projects/lab/p", []string{"tag"})

	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	if err := NewBuilder(s).Rebuild(now); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(filepath.Join(s.DataDir(store.Indices), FilesystemIndex+".json"))
	if err != nil {
		t.Fatal(err)
	}

	if err := NewBuilder(s).Rebuild(now); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(filepath.Join(s.DataDir(store.Indices), FilesystemIndex+".json"))
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Error("rebuild with identical inputs produced different index bytes")
	}
}

func TestRebuildFailFast(t *testing.T) {
	s := testStore(t)
	path := filepath.Join(s.DataDir(store.Datasets), "broken.json")
	if err := os.WriteFile(path, []byte(`{"name": "no other fields"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	err := NewBuilder(s).Rebuild(time.Now())
	if err == nil {
		t.Fatal("expected rebuild to fail on invalid record")
	}

	// Neither index may be written on failure.
	for _, name := range []string{FilesystemIndex, TopicIndex} {
		indexPath := filepath.Join(s.DataDir(store.Indices), name+".json")
		if _, statErr := os.Stat(indexPath); statErr == nil {
			t.Errorf("index %s written despite failed rebuild", name)
		}
	}
}
