// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/kbmd/internal/store"
	"github.com/pdiddy/kbmd/pkg/types"
)

// ExportFile is the flattened view of a knowledgebase written by
// 'kbmd export': every dataset and project record in one document.
type ExportFile struct {
	Datasets []*types.Dataset `json:"datasets" yaml:"datasets"`
	Projects []*types.Project `json:"projects" yaml:"projects"`
}

// ExportYAML writes all records to <kbdir>/export.yaml.
func ExportYAML(s *store.Store) (string, error) {
	export, err := collectExport(s)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(export)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.Root(), "export.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ExportJSON writes all records to <kbdir>/export.json.
func ExportJSON(s *store.Store) (string, error) {
	export, err := collectExport(s)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.Root(), "export.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func collectExport(s *store.Store) (*ExportFile, error) {
	datasets, err := s.LoadAllDatasets()
	if err != nil {
		return nil, err
	}
	projects, err := s.LoadAllProjects()
	if err != nil {
		return nil, err
	}
	return &ExportFile{Datasets: datasets, Projects: projects}, nil
}
