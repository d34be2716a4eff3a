// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kbmd/internal/build"
	"github.com/pdiddy/kbmd/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all records to a single YAML or JSON document",
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := store.Find(".")
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")

	var path string
	switch format {
	case "yaml", "":
		path, err = build.ExportYAML(s)
	case "json":
		path, err = build.ExportJSON(s)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Println("Exported to", path)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(exportCmd)
}
