package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
output_dir = "/music"
filename_template = "{artist}/{album}/{track}. {title}.flac"
metadata_padding = 8192
workers = 4
track_workers = 2
atomic_writes = true
log_level = "debug"
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/music", cfg.OutputDir)
	assert.Equal(t, "{artist}/{album}/{track}. {title}.flac", cfg.FilenameTemplate)
	assert.Equal(t, uint32(8192), cfg.MetadataPadding)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 2, cfg.TrackWorkers)
	assert.True(t, cfg.AtomicWrites)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigPartial(t *testing.T) {
	path := writeConfig(t, `output_dir = "/rips"`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/rips", cfg.OutputDir)
	assert.Equal(t, uint32(defaultMetadataPadding), cfg.MetadataPadding)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.AtomicWrites)
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, `output_dir = [not toml`)
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := map[string]string{
		"bad log level":     `log_level = "loud"`,
		"negative workers":  `workers = -1`,
		"negative trackers": `track_workers = -2`,
		"oversize padding":  `metadata_padding = 16777216`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
