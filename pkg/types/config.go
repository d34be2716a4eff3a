// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// KnowledgebaseConfig is the per-knowledgebase configuration stored at
// the knowledgebase root as config.json. The feature flags are
// advisory: no build step currently branches on them.
type KnowledgebaseConfig struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Created     time.Time `json:"created" yaml:"created"`
	GitRepoPath string    `json:"git_repo_path" yaml:"git_repo_path"`

	CustomTemplates bool `json:"custom_templates" yaml:"custom_templates"`

	AutoUpdateIndices       bool `json:"auto_update_indices" yaml:"auto_update_indices"`
	GenerateCrossReferences bool `json:"generate_cross_references" yaml:"generate_cross_references"`
}

// NewKnowledgebaseConfig returns a config with default flag values:
// stock templates, indices rebuilt on every build, cross-references on.
func NewKnowledgebaseConfig(name, description, gitRepoPath string) KnowledgebaseConfig {
	return KnowledgebaseConfig{
		Name:                    name,
		Description:             description,
		Created:                 time.Now(),
		GitRepoPath:             gitRepoPath,
		AutoUpdateIndices:       true,
		GenerateCrossReferences: true,
	}
}

// Validate checks required fields.
func (c KnowledgebaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Description, validation.Required),
		validation.Field(&c.GitRepoPath, validation.Required),
	)
}
