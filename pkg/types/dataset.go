// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the record shapes persisted by a kbmd
// knowledgebase: datasets, projects, derived indices, and the
// per-knowledgebase configuration. Records serialize to JSON with
// field names matching their wire form exactly; every type
// round-trips losslessly through serialization.
package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RelatedProject is a lightweight reference from a dataset to a project.
type RelatedProject struct {
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks required fields.
func (r RelatedProject) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Slug, validation.Required),
	)
}

// Dataset describes one dataset tracked by the knowledgebase. The slug
// doubles as the record's storage identifier: the record lives at
// data/datasets/<slug>.json and its rendered page at
// generated/datasets/<slug>.md.
type Dataset struct {
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`

	// Size is the human-readable size (e.g. "2.5 GB"); SizeBytes is
	// the exact byte count when known.
	Size        string `json:"size" yaml:"size"`
	SizeBytes   *int64 `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	FileType    string `json:"file_type" yaml:"file_type"`
	FileCount   *int   `json:"file_count,omitempty" yaml:"file_count,omitempty"`
	Compression string `json:"compression,omitempty" yaml:"compression,omitempty"`

	DataSource   string    `json:"data_source" yaml:"data_source"`
	LastModified time.Time `json:"last_modified" yaml:"last_modified"`
	DateAdded    time.Time `json:"date_added" yaml:"date_added"`

	RelatedProjects []RelatedProject `json:"related_projects" yaml:"related_projects"`

	AccessNotes string   `json:"access_notes,omitempty" yaml:"access_notes,omitempty"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// Validate checks required fields and nested references.
func (d Dataset) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Slug, validation.Required),
		validation.Field(&d.Path, validation.Required),
		validation.Field(&d.Description, validation.Required),
		validation.Field(&d.Size, validation.Required),
		validation.Field(&d.FileType, validation.Required),
		validation.Field(&d.DataSource, validation.Required),
		validation.Field(&d.LastModified, validation.Required),
		validation.Field(&d.RelatedProjects),
	)
}
