// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the tool configuration and registered knowledgebases",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadToolConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Configuration schema version: %s\n", cfg.SchemaVersion)
	fmt.Printf("Configuration path: %s\n", cfg.ConfigPath)

	if len(cfg.KBs) == 0 {
		fmt.Println("No knowledgebases configured.")
		return nil
	}

	names := make([]string, 0, len(cfg.KBs))
	for name := range cfg.KBs {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Knowledgebases:")
	for _, name := range names {
		fmt.Printf("  - %s: %s\n", name, cfg.KBs[name])
	}
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
