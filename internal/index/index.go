// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index recomputes the two derived indices of a knowledgebase
// from the current set of dataset and project records. Each rebuild is
// a full replacement: the previous index content is discarded, never
// merged or diffed against.
package index

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/kbmd/internal/store"
	"github.com/pdiddy/kbmd/pkg/types"
)

// Well-known index names. Each maps to data/indices/<name>.json and a
// rendered generated/indices/<name>.md.
const (
	FilesystemIndex = "by-filesystem"
	TopicIndex      = "by-topic"
)

// untaggedTopic groups projects with no tags in the topic index.
const untaggedTopic = "Untagged"

// maxDescription is the cutoff beyond which an entry description is
// truncated with an ellipsis marker.
const maxDescription = 100

// Builder rebuilds the derived indices of one knowledgebase.
type Builder struct {
	store *store.Store
}

// NewBuilder returns a Builder over the given store.
func NewBuilder(s *store.Store) *Builder {
	return &Builder{store: s}
}

// Rebuild recomputes both indices and writes them back to the store,
// replacing whatever previously existed. Records are enumerated sorted
// by slug, so entry order within each category is deterministic. Any
// record that fails validation aborts the rebuild before either index
// is written.
func (b *Builder) Rebuild(now time.Time) error {
	datasets, err := b.store.LoadAllDatasets()
	if err != nil {
		return fmt.Errorf("scanning datasets: %w", err)
	}
	projects, err := b.store.LoadAllProjects()
	if err != nil {
		return fmt.Errorf("scanning projects: %w", err)
	}

	fsIndex := buildFilesystemIndex(datasets, projects, now)
	topicIndex := buildTopicIndex(projects, now)

	if err := b.store.SaveIndex(FilesystemIndex, fsIndex); err != nil {
		return err
	}
	return b.store.SaveIndex(TopicIndex, topicIndex)
}

// buildFilesystemIndex groups datasets and projects by the root of the
// filesystem path they describe. Datasets are listed before projects
// within each category, mirroring the scan order.
func buildFilesystemIndex(datasets []*types.Dataset, projects []*types.Project, now time.Time) *types.Index {
	groups := make(map[string][]types.IndexEntry)

	for _, d := range datasets {
		root := filesystemRoot(d.Path)
		groups[root] = append(groups[root], types.IndexEntry{
			Name:        d.Name,
			Link:        fmt.Sprintf("../datasets/%s.md", d.Slug),
			Description: truncateDescription(d.Description),
		})
	}
	for _, p := range projects {
		root := filesystemRoot(p.Path)
		groups[root] = append(groups[root], types.IndexEntry{
			Name:        p.Name,
			Link:        fmt.Sprintf("../projects/%s.md", p.Slug),
			Description: truncateDescription(p.Description),
		})
	}

	return &types.Index{
		Title:       "Browse by Filesystem Location",
		Description: "Datasets and projects organized by their location on different filesystems",
		Entries:     categorize(groups),
		LastUpdated: now,
	}
}

// buildTopicIndex groups projects by tag. A project with N tags appears
// under all N topics; a project with none appears under "Untagged".
func buildTopicIndex(projects []*types.Project, now time.Time) *types.Index {
	groups := make(map[string][]types.IndexEntry)

	for _, p := range projects {
		topics := p.Tags
		if len(topics) == 0 {
			topics = []string{untaggedTopic}
		}
		entry := types.IndexEntry{
			Name:        p.Name,
			Link:        fmt.Sprintf("../projects/%s.md", p.Slug),
			Description: truncateDescription(p.Description),
		}
		for _, topic := range topics {
			groups[topic] = append(groups[topic], entry)
		}
	}

	return &types.Index{
		Title:       "Browse by Research Topic",
		Description: "Projects organized by research topic and domain",
		Entries:     categorize(groups),
		LastUpdated: now,
	}
}

// categorize converts grouped entries into categories sorted
// lexicographically by key.
func categorize(groups map[string][]types.IndexEntry) []types.IndexCategory {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	categories := make([]types.IndexCategory, 0, len(keys))
	for _, key := range keys {
		categories = append(categories, types.IndexCategory{
			Category: key,
			Entries:  groups[key],
		})
	}
	return categories
}

// filesystemRoot derives the grouping key for a record's path: the
// first named segment of a path with at least two segments (so
// "/scratch/lab/data" groups under "/scratch"), or "/" for a path with
// a single segment.
func filesystemRoot(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/"
	}
	segments := strings.Split(trimmed, "/")
	if len(segments) < 2 {
		return "/"
	}
	return "/" + segments[0]
}

// truncateDescription cuts descriptions longer than 100 characters and
// appends an ellipsis marker. Exactly 100 characters is left untouched.
func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDescription {
		return s
	}
	return string(runes[:maxDescription]) + "..."
}
