package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
max_upload_mb: 4
kml:
  separate_folders: true
export:
  timezone: UTC
preview:
  width: 256
defaults:
  sort_property: name
  convert_linestrings: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MaxUploadMB)
	assert.True(t, cfg.KML.SeparateFolders)
	assert.Equal(t, "name", cfg.Defaults.SortProperty)
	assert.True(t, cfg.Defaults.ConvertLineStrings)
	assert.False(t, cfg.Defaults.SortDescending)
	assert.Equal(t, 256, cfg.Preview.Width)
	assert.Equal(t, 512, cfg.Preview.Height)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "max_upload_mb: [oops"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "export:\n  timezone: Nowhere/Atlantis\n"))
	assert.Error(t, err)
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
