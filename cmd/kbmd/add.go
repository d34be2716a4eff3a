// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kbmd/internal/slug"
	"github.com/pdiddy/kbmd/internal/store"
	"github.com/pdiddy/kbmd/pkg/types"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new dataset or project to the knowledgebase",
	Long: `Add registers a new entry in the knowledgebase. The entry's fields are
given as flags; the slug is derived from the name and must not collide
with an existing entry of the same kind.`,
}

// --- dataset subcommand ---

var addDatasetCmd = &cobra.Command{
	Use:   "dataset <path>",
	Short: "Add a dataset entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddDataset,
}

func runAddDataset(cmd *cobra.Command, args []string) error {
	s, err := store.Find(".")
	if err != nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = filepath.Base(path)
	}
	description, _ := cmd.Flags().GetString("description")
	size, _ := cmd.Flags().GetString("size")
	fileType, _ := cmd.Flags().GetString("file-type")
	dataSource, _ := cmd.Flags().GetString("source")
	compression, _ := cmd.Flags().GetString("compression")
	accessNotes, _ := cmd.Flags().GetString("access-notes")
	tags, _ := cmd.Flags().GetStringSlice("tag")

	d := types.Dataset{
		Name:        name,
		Slug:        slug.Make(name),
		Path:        path,
		Description: description,
		Size:        size,
		FileType:    fileType,
		Compression: compression,
		DataSource:  dataSource,
		DateAdded:   time.Now(),
		AccessNotes: accessNotes,
		Tags:        tags,
	}

	if cmd.Flags().Changed("file-count") {
		n, _ := cmd.Flags().GetInt("file-count")
		d.FileCount = &n
	}
	if cmd.Flags().Changed("size-bytes") {
		n, _ := cmd.Flags().GetInt64("size-bytes")
		d.SizeBytes = &n
	}

	if info, err := os.Stat(path); err == nil {
		d.LastModified = info.ModTime()
	} else {
		fmt.Fprintf(os.Stderr, "warning: path %s does not exist\n", path)
		d.LastModified = time.Now()
	}

	if err := s.CreateDataset(&d); err != nil {
		return err
	}

	fmt.Printf("Dataset %q added as %s\n", d.Name, d.Slug)
	return nil
}

// --- project subcommand ---

var addProjectCmd = &cobra.Command{
	Use:   "project <path>",
	Short: "Add a project entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddProject,
}

func runAddProject(cmd *cobra.Command, args []string) error {
	s, err := store.Find(".")
	if err != nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = filepath.Base(path)
	}
	description, _ := cmd.Flags().GetString("description")
	objectives, _ := cmd.Flags().GetString("objectives")
	statusStr, _ := cmd.Flags().GetString("status")
	pi, _ := cmd.Flags().GetString("pi")
	resultsPath, _ := cmd.Flags().GetString("results-path")
	resultsDescription, _ := cmd.Flags().GetString("results-description")
	tags, _ := cmd.Flags().GetStringSlice("tag")

	startStr, _ := cmd.Flags().GetString("start-date")
	dateStarted, err := types.ParseDate(startStr)
	if err != nil {
		return err
	}

	p := types.Project{
		Name:                  name,
		Slug:                  slug.Make(name),
		Path:                  path,
		Description:           description,
		Objectives:            objectives,
		Status:                types.ProjectStatus(statusStr),
		DateStarted:           dateStarted,
		DateAdded:             time.Now(),
		PrincipalInvestigator: pi,
		ResultsPath:           resultsPath,
		ResultsDescription:    resultsDescription,
		Tags:                  tags,
	}

	if completedStr, _ := cmd.Flags().GetString("completed-date"); completedStr != "" {
		completed, err := types.ParseDate(completedStr)
		if err != nil {
			return err
		}
		p.DateCompleted = &completed
	}

	if err := s.CreateProject(&p); err != nil {
		return err
	}

	fmt.Printf("Project %q added as %s\n", p.Name, p.Slug)
	return nil
}

func init() {
	addDatasetCmd.Flags().String("name", "", "dataset name (default: path base name)")
	addDatasetCmd.Flags().String("description", "", "dataset description (required)")
	addDatasetCmd.Flags().String("size", "", "human-readable size, e.g. '2.5 GB' (required)")
	addDatasetCmd.Flags().Int64("size-bytes", 0, "exact size in bytes")
	addDatasetCmd.Flags().String("file-type", "", "primary file format, e.g. 'CSV' (required)")
	addDatasetCmd.Flags().Int("file-count", 0, "number of files")
	addDatasetCmd.Flags().String("compression", "", "compression format")
	addDatasetCmd.Flags().String("source", "", "where the data came from (required)")
	addDatasetCmd.Flags().String("access-notes", "", "access notes")
	addDatasetCmd.Flags().StringSlice("tag", nil, "tag (repeatable)")

	addProjectCmd.Flags().String("name", "", "project name (default: path base name)")
	addProjectCmd.Flags().String("description", "", "project description (required)")
	addProjectCmd.Flags().String("objectives", "", "project objectives (required)")
	addProjectCmd.Flags().String("status", "active", "status: active, completed, on_hold, archived")
	addProjectCmd.Flags().String("start-date", "", "start date, YYYY-MM-DD (required)")
	addProjectCmd.Flags().String("completed-date", "", "completion date, YYYY-MM-DD")
	addProjectCmd.Flags().String("pi", "", "principal investigator (required)")
	addProjectCmd.Flags().String("results-path", "", "results location")
	addProjectCmd.Flags().String("results-description", "", "results description")
	addProjectCmd.Flags().StringSlice("tag", nil, "tag (repeatable)")

	for _, name := range []string{"description", "size", "file-type", "source"} {
		cobra.CheckErr(addDatasetCmd.MarkFlagRequired(name))
	}
	for _, name := range []string{"description", "objectives", "start-date", "pi"} {
		cobra.CheckErr(addProjectCmd.MarkFlagRequired(name))
	}

	addCmd.AddCommand(addDatasetCmd)
	addCmd.AddCommand(addProjectCmd)

	rootCmd.AddCommand(addCmd)
}
