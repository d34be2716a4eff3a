// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// IndexEntry is one line of an index page: a named link to a rendered
// record, with an optional short description.
type IndexEntry struct {
	Name        string `json:"name" yaml:"name"`
	Link        string `json:"link" yaml:"link"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Validate checks required fields.
func (e IndexEntry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required),
		validation.Field(&e.Link, validation.Required),
	)
}

// IndexCategory groups index entries under one category label.
type IndexCategory struct {
	Category string       `json:"category" yaml:"category"`
	Entries  []IndexEntry `json:"entries" yaml:"entries"`
}

// Validate checks the label and nested entries.
func (c IndexCategory) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Category, validation.Required),
		validation.Field(&c.Entries),
	)
}

// Index is a derived document grouping dataset and project entries by a
// computed key. Indices are fully regenerated on every build; the
// previous content is replaced, never merged.
type Index struct {
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Entries     []IndexCategory `json:"entries" yaml:"entries"`
	LastUpdated time.Time       `json:"last_updated" yaml:"last_updated"`
}

// Validate checks required fields and nested categories.
func (i Index) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.Required),
		validation.Field(&i.Description, validation.Required),
		validation.Field(&i.Entries),
	)
}
