// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the kbmd CLI, which maintains a
// folder-based knowledgebase of research datasets and projects and
// renders it into interlinked markdown documents.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/kbmd/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the kbmd CLI.
var rootCmd = &cobra.Command{
	Use:   "kbmd",
	Short: "Manage knowledgebase markdown files",
	Long: `kbmd maintains a folder-based knowledgebase of research datasets and
projects. Records live as JSON under .kbmd/data/; 'kbmd build' derives
cross-reference indices and renders everything to markdown under
.kbmd/generated/.

Initialize a knowledgebase with 'kbmd init', register entries with
'kbmd add', and rebuild the generated documents with 'kbmd build'.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "tool config file (default: ~/.kbmd_config.json)")
}

func initConfig() {
	viper.SetEnvPrefix("KBMD")
	viper.AutomaticEnv()

	viper.SetDefault("schema_version", config.DefaultSchemaVersion)
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetDefault("config_path", filepath.Join(home, config.DefaultFileName))
	}

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.Set("config_path", cfgFile)
	}
}

// configOptions resolves the tool config location and schema version
// from flags and KBMD_* environment overrides.
func configOptions() config.Options {
	return config.Options{
		Path:          viper.GetString("config_path"),
		SchemaVersion: viper.GetString("schema_version"),
	}
}

// loadToolConfig loads the tool-level config with the default schema table.
func loadToolConfig() (*config.Config, error) {
	return config.Load(configOptions(), config.DefaultSchemaTable())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
