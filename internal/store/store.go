// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store is the directory-backed persistence layer for a kbmd
// knowledgebase. One JSON file per record, partitioned by entity kind
// under <root>/.kbmd/data/. Enumeration is always sorted by slug so
// that every pass over the store is deterministic.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/kbmd/pkg/types"
)

const (
	kbDirName    = ".kbmd"
	dataDirName  = "data"
	genDirName   = "generated"
	tmplDirName  = "templates"
	configFile   = "config.json"
	recordSuffix = ".json"
)

// Partition identifies one record kind within the store.
type Partition string

const (
	Datasets Partition = "datasets"
	Projects Partition = "projects"
	Indices  Partition = "indices"
)

// kind returns the singular entity-kind name for error messages.
func (p Partition) kind() string {
	if p == Indices {
		return "index"
	}
	return strings.TrimSuffix(string(p), "s")
}

// Store reads and writes knowledgebase records under a single .kbmd
// directory. It assumes single-writer, single-run usage: no locking,
// no transactions.
type Store struct {
	root string
}

// New returns a Store rooted at the given .kbmd directory.
func New(kbDir string) *Store {
	return &Store{root: kbDir}
}

// Find locates the nearest .kbmd directory by walking up from startDir.
func Find(startDir string) (*Store, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", startDir, err)
	}
	for {
		kbDir := filepath.Join(dir, kbDirName)
		if info, err := os.Stat(kbDir); err == nil && info.IsDir() {
			return New(kbDir), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no %s directory found: run 'kbmd init' first", kbDirName)
		}
		dir = parent
	}
}

// Root returns the .kbmd directory the store is rooted at.
func (s *Store) Root() string { return s.root }

// WorkDir returns the directory containing the .kbmd directory, i.e.
// the knowledgebase's working tree.
func (s *Store) WorkDir() string { return filepath.Dir(s.root) }

// DataDir returns the record directory for a partition.
func (s *Store) DataDir(p Partition) string {
	return filepath.Join(s.root, dataDirName, string(p))
}

// GeneratedDir returns the rendered-output directory for a partition.
func (s *Store) GeneratedDir(p Partition) string {
	return filepath.Join(s.root, genDirName, string(p))
}

// GeneratedRoot returns the top-level rendered-output directory.
func (s *Store) GeneratedRoot() string {
	return filepath.Join(s.root, genDirName)
}

// TemplatesDir returns the template directory.
func (s *Store) TemplatesDir() string {
	return filepath.Join(s.root, tmplDirName)
}

// Scaffold creates the full directory layout under the store root. It
// is idempotent; existing directories are left alone.
func (s *Store) Scaffold() error {
	dirs := []string{
		s.DataDir(Datasets),
		s.DataDir(Projects),
		s.DataDir(Indices),
		s.GeneratedDir(Datasets),
		s.GeneratedDir(Projects),
		s.GeneratedDir(Indices),
		s.TemplatesDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// List returns the identifiers of all records in a partition, sorted
// lexicographically. A missing partition directory lists as empty.
func (s *Store) List(p Partition) ([]string, error) {
	entries, err := os.ReadDir(s.DataDir(p))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s partition: %w", p, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), recordSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}

// Exists reports whether a record with the given identifier is present
// in a partition.
func (s *Store) Exists(p Partition, id string) bool {
	_, err := os.Stat(s.recordPath(p, id))
	return err == nil
}

func (s *Store) recordPath(p Partition, id string) string {
	return filepath.Join(s.DataDir(p), id+recordSuffix)
}

// validator is implemented by every record type.
type validator interface {
	Validate() error
}

// loadRecord reads, decodes, and validates one record file. Decode and
// validation failures both surface as *ValidationError.
func (s *Store) loadRecord(p Partition, id string, v validator) error {
	path := s.recordPath(p, id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Kind: p.kind(), Name: id}
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &ValidationError{Path: path, Err: err}
	}
	if err := v.Validate(); err != nil {
		return &ValidationError{Path: path, Err: err}
	}
	return nil
}

// saveRecord writes one record file with 2-space indentation,
// creating or replacing it.
func (s *Store) saveRecord(p Partition, id string, v any) error {
	if err := os.MkdirAll(s.DataDir(p), 0o755); err != nil {
		return fmt.Errorf("creating %s partition: %w", p, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", p, id, err)
	}
	path := s.recordPath(p, id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadDataset reads one dataset record by slug.
func (s *Store) LoadDataset(slug string) (*types.Dataset, error) {
	var d types.Dataset
	if err := s.loadRecord(Datasets, slug, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadProject reads one project record by slug.
func (s *Store) LoadProject(slug string) (*types.Project, error) {
	var p types.Project
	if err := s.loadRecord(Projects, slug, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadIndex reads one index record by name.
func (s *Store) LoadIndex(name string) (*types.Index, error) {
	var idx types.Index
	if err := s.loadRecord(Indices, name, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// LoadAllDatasets reads every dataset record, sorted by slug. Any
// invalid record aborts the whole enumeration.
func (s *Store) LoadAllDatasets() ([]*types.Dataset, error) {
	slugs, err := s.List(Datasets)
	if err != nil {
		return nil, err
	}
	datasets := make([]*types.Dataset, 0, len(slugs))
	for _, slug := range slugs {
		d, err := s.LoadDataset(slug)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, d)
	}
	return datasets, nil
}

// LoadAllProjects reads every project record, sorted by slug. Any
// invalid record aborts the whole enumeration.
func (s *Store) LoadAllProjects() ([]*types.Project, error) {
	slugs, err := s.List(Projects)
	if err != nil {
		return nil, err
	}
	projects := make([]*types.Project, 0, len(slugs))
	for _, slug := range slugs {
		p, err := s.LoadProject(slug)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// CreateDataset persists a new dataset record. A slug collision is
// rejected with ErrExists.
func (s *Store) CreateDataset(d *types.Dataset) error {
	if err := d.Validate(); err != nil {
		return &ValidationError{Path: s.recordPath(Datasets, d.Slug), Err: err}
	}
	if s.Exists(Datasets, d.Slug) {
		return fmt.Errorf("dataset %q: %w", d.Slug, ErrExists)
	}
	return s.saveRecord(Datasets, d.Slug, d)
}

// CreateProject persists a new project record. A slug collision is
// rejected with ErrExists.
func (s *Store) CreateProject(p *types.Project) error {
	if err := p.Validate(); err != nil {
		return &ValidationError{Path: s.recordPath(Projects, p.Slug), Err: err}
	}
	if s.Exists(Projects, p.Slug) {
		return fmt.Errorf("project %q: %w", p.Slug, ErrExists)
	}
	return s.saveRecord(Projects, p.Slug, p)
}

// SaveIndex writes an index record, replacing any previous content.
func (s *Store) SaveIndex(name string, idx *types.Index) error {
	return s.saveRecord(Indices, name, idx)
}

// ConfigPath returns the location of the per-knowledgebase config record.
func (s *Store) ConfigPath() string {
	return filepath.Join(s.root, configFile)
}

// LoadConfig reads the per-knowledgebase config record. A missing file
// is a *NotFoundError; callers that can fall back should check for it.
func (s *Store) LoadConfig() (*types.KnowledgebaseConfig, error) {
	path := s.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Kind: "config", Name: path}
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg types.KnowledgebaseConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ValidationError{Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ValidationError{Path: path, Err: err}
	}
	return &cfg, nil
}

// SaveConfig writes the per-knowledgebase config record.
func (s *Store) SaveConfig(cfg *types.KnowledgebaseConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.ConfigPath(), err)
	}
	return nil
}
