// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns knowledgebase records into markdown documents.
// Each entity kind has one template, looked up by a fixed name; records
// are bound to templates through an explicit, enumerated variable map
// per kind so that a missing binding fails at render time rather than
// surfacing as silent template output.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/pdiddy/kbmd/internal/store"
	"github.com/pdiddy/kbmd/pkg/types"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	dayLayout       = "2006-01-02"
)

// Renderer renders every record of a knowledgebase to its generated
// markdown file. Rendering is pure with respect to its inputs except
// for the generation timestamp taken from Now.
type Renderer struct {
	store     *store.Store
	templates map[string]*template.Template

	// Now supplies the generation timestamp. Defaults to time.Now;
	// tests substitute a fixed clock.
	Now func() time.Time
}

// New loads all required templates from the store's template directory.
// A missing template for any kind fails here, before anything is
// written.
func New(s *store.Store) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(Kinds()))
	for _, kind := range Kinds() {
		path := filepath.Join(s.TemplatesDir(), kind+".tmpl")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &store.NotFoundError{Kind: "template", Name: kind}
			}
			return nil, fmt.Errorf("reading template %s: %w", path, err)
		}
		tmpl, err := template.New(kind).Option("missingkey=error").Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", kind, err)
		}
		templates[kind] = tmpl
	}
	return &Renderer{store: s, templates: templates, Now: time.Now}, nil
}

// Datasets renders every dataset record and returns the number of
// documents written. Zero datasets is a valid, successful outcome.
func (r *Renderer) Datasets() (int, error) {
	datasets, err := r.store.LoadAllDatasets()
	if err != nil {
		return 0, err
	}
	generated := r.Now().Format(timestampLayout)
	for _, d := range datasets {
		if err := r.write(store.Datasets, d.Slug, DatasetTemplate, datasetVars(d, generated)); err != nil {
			return 0, err
		}
	}
	return len(datasets), nil
}

// Projects renders every project record and returns the number of
// documents written.
func (r *Renderer) Projects() (int, error) {
	projects, err := r.store.LoadAllProjects()
	if err != nil {
		return 0, err
	}
	generated := r.Now().Format(timestampLayout)
	for _, p := range projects {
		if err := r.write(store.Projects, p.Slug, ProjectTemplate, projectVars(p, generated)); err != nil {
			return 0, err
		}
	}
	return len(projects), nil
}

// Indices renders every index record and returns the number of
// documents written.
func (r *Renderer) Indices() (int, error) {
	names, err := r.store.List(store.Indices)
	if err != nil {
		return 0, err
	}
	now := r.Now()
	for _, name := range names {
		idx, err := r.store.LoadIndex(name)
		if err != nil {
			return 0, err
		}
		if err := r.write(store.Indices, name, IndexTemplate, indexVars(idx, now)); err != nil {
			return 0, err
		}
	}
	return len(names), nil
}

// Root renders the top-level README. The knowledgebase name comes from
// the config record when present, falling back to fallbackName (the
// working directory's base name in the CLI). Only an absent config
// record falls back; a config that exists but fails to parse or
// validate aborts the render.
func (r *Renderer) Root(fallbackName string) error {
	name := fallbackName
	cfg, err := r.store.LoadConfig()
	if err != nil {
		var nferr *store.NotFoundError
		if !errors.As(err, &nferr) {
			return err
		}
	} else if cfg.Name != "" {
		name = cfg.Name
	}

	vars := map[string]any{
		"project_name":   name,
		"generated_date": r.Now().Format(timestampLayout),
	}

	out, err := r.render(RootTemplate, vars)
	if err != nil {
		return err
	}
	path := filepath.Join(r.store.GeneratedRoot(), "README.md")
	if err := os.MkdirAll(r.store.GeneratedRoot(), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", r.store.GeneratedRoot(), err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// write renders one record and writes it to the partition's generated
// directory as <id>.md.
func (r *Renderer) write(p store.Partition, id, kind string, vars map[string]any) error {
	out, err := r.render(kind, vars)
	if err != nil {
		return err
	}
	dir := r.store.GeneratedDir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, id+".md")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (r *Renderer) render(kind string, vars map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates[kind].Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("rendering %s template: %w", kind, err)
	}
	return buf.Bytes(), nil
}

// datasetVars enumerates the template variables for a dataset page.
func datasetVars(d *types.Dataset, generated string) map[string]any {
	var sizeBytes, fileCount any
	if d.SizeBytes != nil {
		sizeBytes = *d.SizeBytes
	}
	if d.FileCount != nil {
		fileCount = *d.FileCount
	}
	return map[string]any{
		"name":             d.Name,
		"slug":             d.Slug,
		"path":             d.Path,
		"description":      d.Description,
		"size":             d.Size,
		"size_bytes":       sizeBytes,
		"file_type":        d.FileType,
		"file_count":       fileCount,
		"compression":      d.Compression,
		"data_source":      d.DataSource,
		"last_modified":    d.LastModified.Format(timestampLayout),
		"date_added":       d.DateAdded.Format(timestampLayout),
		"related_projects": d.RelatedProjects,
		"access_notes":     d.AccessNotes,
		"tags":             d.Tags,
		"generated_date":   generated,
	}
}

// projectVars enumerates the template variables for a project page.
func projectVars(p *types.Project, generated string) map[string]any {
	completed := ""
	if p.DateCompleted != nil {
		completed = p.DateCompleted.Format(dayLayout)
	}
	return map[string]any{
		"name":                   p.Name,
		"slug":                   p.Slug,
		"path":                   p.Path,
		"description":            p.Description,
		"objectives":             p.Objectives,
		"status":                 string(p.Status),
		"date_started":           p.DateStarted.Format(dayLayout),
		"date_completed":         completed,
		"date_added":             p.DateAdded.Format(timestampLayout),
		"principal_investigator": p.PrincipalInvestigator,
		"collaborators":          p.Collaborators,
		"datasets":               p.Datasets,
		"scripts":                p.Scripts,
		"results_path":           p.ResultsPath,
		"results_description":    p.ResultsDescription,
		"publications":           p.Publications,
		"tags":                   p.Tags,
		"generated_date":         generated,
	}
}

// indexVars enumerates the template variables for an index page. The
// displayed last_updated date is the render time, not the value stored
// in the record.
func indexVars(idx *types.Index, now time.Time) map[string]any {
	return map[string]any{
		"title":          idx.Title,
		"description":    idx.Description,
		"entries":        idx.Entries,
		"last_updated":   now.Format(dayLayout),
		"generated_date": now.Format(timestampLayout),
	}
}
