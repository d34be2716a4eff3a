// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package build orchestrates a knowledgebase build: both indices are
// rebuilt from the current records, then every partition is rendered to
// markdown. The whole build is one linear pass; any failure aborts it
// immediately, leaving already-written output on disk.
package build

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/pdiddy/kbmd/internal/index"
	"github.com/pdiddy/kbmd/internal/render"
	"github.com/pdiddy/kbmd/internal/store"
)

// Summary holds per-partition document counts from a build run.
type Summary struct {
	Datasets int
	Projects int
	Indices  int
}

// Total returns the number of documents generated, excluding the root
// README.
func (s Summary) Total() int {
	return s.Datasets + s.Projects + s.Indices
}

// Runner executes builds against one knowledgebase.
type Runner struct {
	store *store.Store

	// Now supplies the generation timestamp for index records and
	// rendered pages. Defaults to time.Now.
	Now func() time.Time
}

// NewRunner returns a Runner over the given store.
func NewRunner(s *store.Store) *Runner {
	return &Runner{store: s, Now: time.Now}
}

// Run rebuilds the indices, then renders datasets, projects, indices,
// and the root README in that order, writing progress lines to w. Zero
// records in a partition is a success, not an error.
func (r *Runner) Run(w io.Writer) (Summary, error) {
	var summary Summary

	fmt.Fprintln(w, "Building knowledgebase...")

	if err := index.NewBuilder(r.store).Rebuild(r.Now()); err != nil {
		return summary, fmt.Errorf("updating indices: %w", err)
	}

	renderer, err := render.New(r.store)
	if err != nil {
		return summary, err
	}
	renderer.Now = r.Now

	if summary.Datasets, err = renderer.Datasets(); err != nil {
		return summary, err
	}
	fmt.Fprintf(w, "Generated %d dataset pages\n", summary.Datasets)

	if summary.Projects, err = renderer.Projects(); err != nil {
		return summary, err
	}
	fmt.Fprintf(w, "Generated %d project pages\n", summary.Projects)

	if summary.Indices, err = renderer.Indices(); err != nil {
		return summary, err
	}
	fmt.Fprintf(w, "Generated %d index pages\n", summary.Indices)

	if err := renderer.Root(filepath.Base(r.store.WorkDir())); err != nil {
		return summary, err
	}
	fmt.Fprintln(w, "Generated main README.md")

	return summary, nil
}
