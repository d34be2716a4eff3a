// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

// Template kinds, one per entity kind. The template for a kind lives at
// <kbdir>/templates/<kind>.tmpl.
const (
	DatasetTemplate = "dataset"
	ProjectTemplate = "project"
	IndexTemplate   = "index"
	RootTemplate    = "root"
)

// Kinds lists every required template kind.
func Kinds() []string {
	return []string{DatasetTemplate, ProjectTemplate, IndexTemplate, RootTemplate}
}

//go:embed defaults/*.tmpl
var defaultTemplates embed.FS

// WriteDefaults copies the stock templates into dir. Existing files are
// overwritten; 'kbmd init' seeds a fresh template directory with these.
func WriteDefaults(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, kind := range Kinds() {
		data, err := defaultTemplates.ReadFile("defaults/" + kind + ".tmpl")
		if err != nil {
			return fmt.Errorf("reading stock template %s: %w", kind, err)
		}
		path := filepath.Join(dir, kind+".tmpl")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
