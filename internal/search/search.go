// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search maintains a SQLite full-text index over the dataset
// and project records of a knowledgebase. The index is derived state:
// it is rebuilt wholesale from the record store and can be deleted at
// any time without data loss.
package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/kbmd/internal/store"
)

const (
	indexDirName      = "index"
	dbFile            = "kbmd.db"
	defaultMaxResults = 20
)

// Record kinds stored in the search index.
const (
	KindDataset = "dataset"
	KindProject = "project"
)

// Index is the SQLite-backed search index of one knowledgebase.
type Index struct {
	db         *sql.DB
	kb         *store.Store
	maxResults int
}

// Open opens or creates the search database at <kbdir>/index/kbmd.db,
// creating the schema if it does not exist.
func Open(kb *store.Store, maxResults int) (*Index, error) {
	dbDir := filepath.Join(kb.Root(), indexDirName)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	idx := &Index{db: db, kb: kb, maxResults: maxResults}
	if err := idx.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return idx, nil
}

// Close releases the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}

func (i *Index) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			kind TEXT NOT NULL,
			slug TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			path TEXT NOT NULL,
			tags TEXT NOT NULL,
			PRIMARY KEY (kind, slug)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind)`,
	}
	for _, stmt := range statements {
		if _, err := i.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := i.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE records_fts USING fts5(name, description, tags, content=records, content_rowid=rowid)`,
			`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
				INSERT INTO records_fts(rowid, name, description, tags) VALUES (new.rowid, new.name, new.description, new.tags);
			END`,
			`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, name, description, tags) VALUES('delete', old.rowid, old.name, old.description, old.tags);
			END`,
			`CREATE TRIGGER records_au AFTER UPDATE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, name, description, tags) VALUES('delete', old.rowid, old.name, old.description, old.tags);
				INSERT INTO records_fts(rowid, name, description, tags) VALUES (new.rowid, new.name, new.description, new.tags);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := i.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Reindex drops every row and repopulates the index from the record
// store. Returns the number of records indexed.
func (i *Index) Reindex(ctx context.Context) (int, error) {
	datasets, err := i.kb.LoadAllDatasets()
	if err != nil {
		return 0, err
	}
	projects, err := i.kb.LoadAllProjects()
	if err != nil {
		return 0, err
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return 0, fmt.Errorf("clearing index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (kind, slug, name, description, path, tags)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, d := range datasets {
		tagsJSON, _ := json.Marshal(d.Tags)
		if _, err := stmt.ExecContext(ctx, KindDataset, d.Slug, d.Name, d.Description, d.Path, string(tagsJSON)); err != nil {
			return 0, fmt.Errorf("indexing dataset %s: %w", d.Slug, err)
		}
		count++
	}
	for _, p := range projects {
		tagsJSON, _ := json.Marshal(p.Tags)
		if _, err := stmt.ExecContext(ctx, KindProject, p.Slug, p.Name, p.Description, p.Path, string(tagsJSON)); err != nil {
			return 0, fmt.Errorf("indexing project %s: %w", p.Slug, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// Count returns the number of indexed records.
func (i *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// QueryOptions holds parameters for search queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string.
	Query string

	// Kind filters by record kind: "dataset" or "project".
	Kind string

	// Tag filters to records carrying the given tag.
	Tag string

	// MaxResults limits result count. Zero uses the index default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Kind == "" && q.Tag == ""
}

// Result is one search hit.
type Result struct {
	Kind        string   `json:"kind"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Path        string   `json:"path"`
	Tags        []string `json:"tags"`
}

// Query searches the index with optional full-text search and
// structured filters. Full-text queries are ranked by relevance;
// structured-only queries are sorted by kind, then slug.
func (i *Index) Query(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = i.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT r.kind, r.slug, r.name, r.description, r.path, r.tags
			FROM records_fts
			JOIN records r ON r.rowid = records_fts.rowid
			WHERE records_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT r.kind, r.slug, r.name, r.description, r.path, r.tags
			FROM records r
			WHERE 1=1`)
	}

	if opts.Kind != "" {
		qb.WriteString(` AND r.kind = ?`)
		args = append(args, opts.Kind)
	}

	if opts.Tag != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(r.tags) WHERE value = ?)`)
		args = append(args, opts.Tag)
	}

	if useFTS {
		qb.WriteString(` ORDER BY records_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.kind, r.slug`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := i.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying search index: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r        Result
			tagsJSON string
		)
		if err := rows.Scan(&r.Kind, &r.Slug, &r.Name, &r.Description, &r.Path, &tagsJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &r.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags for %s/%s: %w", r.Kind, r.Slug, err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
