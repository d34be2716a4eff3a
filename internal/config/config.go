// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config reads and writes the tool-level kbmd configuration:
// the schema version, the config file location, and the set of
// registered knowledgebases. This is distinct from the per-knowledgebase
// config.json record, which lives with the knowledgebase itself.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSchemaVersion is the config schema written by this release.
const DefaultSchemaVersion = "001"

// DefaultFileName is the config file name under the user's home
// directory when no override is given.
const DefaultFileName = ".kbmd_config.json"

// Config is the tool-level configuration.
type Config struct {
	SchemaVersion string `json:"schema_version"`
	ConfigPath    string `json:"config_path"`

	// KBs maps knowledgebase name to the directory containing its
	// .kbmd tree.
	KBs map[string]string `json:"kbs"`
}

// Register records a knowledgebase under the given name, replacing any
// previous registration of that name.
func (c *Config) Register(name, path string) {
	if c.KBs == nil {
		c.KBs = make(map[string]string)
	}
	c.KBs[name] = path
}

// SchemaTable maps a schema version tag to the constructor for that
// version's default config. It is built once at startup and passed
// explicitly to Load; there is no ambient registry.
type SchemaTable map[string]func(path string) *Config

// DefaultSchemaTable returns the table of schema versions this build
// understands.
func DefaultSchemaTable() SchemaTable {
	return SchemaTable{
		"001": newConfig001,
	}
}

func newConfig001(path string) *Config {
	return &Config{
		SchemaVersion: "001",
		ConfigPath:    path,
		KBs:           make(map[string]string),
	}
}

// Options selects which config file and schema version to load. The
// CLI resolves these from flags and KBMD_* environment overrides;
// zero values fall back to the defaults.
type Options struct {
	Path          string
	SchemaVersion string
}

func (o Options) withDefaults() (Options, error) {
	if o.SchemaVersion == "" {
		o.SchemaVersion = DefaultSchemaVersion
	}
	if o.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return o, fmt.Errorf("resolving home directory: %w", err)
		}
		o.Path = filepath.Join(home, DefaultFileName)
	}
	return o, nil
}

// Load reads the tool config. When the file does not exist, a default
// config for the requested schema version is written and returned, with
// a note on stderr. An unknown schema version is an error.
func Load(opts Options, table SchemaTable) (*Config, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	ctor, ok := table[opts.SchemaVersion]
	if !ok {
		return nil, fmt.Errorf("unsupported schema version %q", opts.SchemaVersion)
	}

	data, err := os.ReadFile(opts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "config file not found at %s, writing schema %s defaults\n",
				opts.Path, opts.SchemaVersion)
			cfg := ctor(opts.Path)
			if err := Save(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", opts.Path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", opts.Path, err)
	}
	cfg.ConfigPath = opts.Path
	return &cfg, nil
}

// Save writes the config to its ConfigPath with 2-space indentation,
// creating parent directories as needed.
func Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.ConfigPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(cfg.ConfigPath, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", cfg.ConfigPath, err)
	}
	return nil
}
