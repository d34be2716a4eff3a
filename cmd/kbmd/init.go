// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kbmd/internal/config"
	"github.com/pdiddy/kbmd/internal/render"
	"github.com/pdiddy/kbmd/internal/store"
	"github.com/pdiddy/kbmd/pkg/types"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a knowledgebase in the current git-managed directory",
	Long: `Init creates a .kbmd directory in the current working directory with
the data, generated, and templates layout, seeds the stock templates,
writes the knowledgebase config, and registers the knowledgebase in the
tool config. The current directory must be a git repository.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	if info, err := os.Stat(filepath.Join(cwd, ".git")); err != nil || !info.IsDir() {
		return fmt.Errorf("current directory is not a git repository")
	}

	kbDir := filepath.Join(cwd, ".kbmd")
	if _, err := os.Stat(kbDir); err == nil {
		return fmt.Errorf(".kbmd directory already exists in %s", cwd)
	}

	s := store.New(kbDir)
	if err := s.Scaffold(); err != nil {
		return err
	}
	if err := render.WriteDefaults(s.TemplatesDir()); err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = filepath.Base(cwd)
	}
	description, _ := cmd.Flags().GetString("description")
	if description == "" {
		description = fmt.Sprintf("Research knowledgebase for %s", name)
	}

	kbCfg := types.NewKnowledgebaseConfig(name, description, cwd)
	if err := s.SaveConfig(&kbCfg); err != nil {
		return err
	}

	toolCfg, err := loadToolConfig()
	if err != nil {
		return err
	}
	toolCfg.Register(name, cwd)
	if err := config.Save(toolCfg); err != nil {
		return err
	}

	fmt.Printf("Initialized knowledgebase %q in %s\n", name, kbDir)
	return nil
}

func init() {
	initCmd.Flags().String("name", "", "knowledgebase name (default: current directory name)")
	initCmd.Flags().String("description", "", "knowledgebase description")

	rootCmd.AddCommand(initCmd)
}
