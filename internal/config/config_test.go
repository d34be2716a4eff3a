package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		Path:          filepath.Join(t.TempDir(), "kbmd", "config.json"),
		SchemaVersion: DefaultSchemaVersion,
	}
}

func TestLoadWritesDefaultsWhenMissing(t *testing.T) {
	opts := testOptions(t)

	cfg, err := Load(opts, DefaultSchemaTable())
	require.NoError(t, err)
	assert.Equal(t, DefaultSchemaVersion, cfg.SchemaVersion)
	assert.Equal(t, opts.Path, cfg.ConfigPath)
	assert.Empty(t, cfg.KBs)

	// The defaults must have been persisted.
	_, err = os.Stat(opts.Path)
	require.NoError(t, err)
}

func TestLoadRoundTrip(t *testing.T) {
	opts := testOptions(t)

	cfg, err := Load(opts, DefaultSchemaTable())
	require.NoError(t, err)
	cfg.Register("climate-lab", "/home/lab/climate")
	cfg.Register("ocean-obs", "/data/ocean")
	require.NoError(t, Save(cfg))

	loaded, err := Load(opts, DefaultSchemaTable())
	require.NoError(t, err)
	assert.Equal(t, cfg.SchemaVersion, loaded.SchemaVersion)
	assert.Equal(t, map[string]string{
		"climate-lab": "/home/lab/climate",
		"ocean-obs":   "/data/ocean",
	}, loaded.KBs)
}

func TestLoadRejectsUnknownSchemaVersion(t *testing.T) {
	opts := testOptions(t)
	opts.SchemaVersion = "999"

	_, err := Load(opts, DefaultSchemaTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported schema version "999"`)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	opts := testOptions(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(opts.Path), 0o755))
	require.NoError(t, os.WriteFile(opts.Path, []byte("not json"), 0o644))

	_, err := Load(opts, DefaultSchemaTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestRegisterReplacesExisting(t *testing.T) {
	var cfg Config
	cfg.Register("lab", "/old/path")
	cfg.Register("lab", "/new/path")

	assert.Equal(t, map[string]string{"lab": "/new/path"}, cfg.KBs)
}

func TestSchemaVersionDefaultsWhenUnset(t *testing.T) {
	opts := Options{Path: filepath.Join(t.TempDir(), "config.json")}

	cfg, err := Load(opts, DefaultSchemaTable())
	require.NoError(t, err)
	assert.Equal(t, DefaultSchemaVersion, cfg.SchemaVersion)
}
