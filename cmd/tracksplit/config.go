package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the CLI's TOML configuration.
type Config struct {
	OutputDir        string `toml:"output_dir"`
	FilenameTemplate string `toml:"filename_template"`
	MetadataPadding  uint32 `toml:"metadata_padding"`
	Workers          int    `toml:"workers"`
	TrackWorkers     int    `toml:"track_workers"`
	AtomicWrites     bool   `toml:"atomic_writes"`
	LogLevel         string `toml:"log_level"`
}

const (
	defaultMetadataPadding = 2048
	defaultLogLevel        = "info"
)

func defaultConfig() Config {
	return Config{
		OutputDir:       ".",
		MetadataPadding: defaultMetadataPadding,
		LogLevel:        defaultLogLevel,
	}
}

// defaultConfigPath is consulted when no --config flag is given.
func defaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "tracksplit", "config.toml")
}

// loadConfig reads the TOML config at path, or the default location
// when path is empty. A missing file yields the defaults; a malformed
// one is an error.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		path = defaultConfigPath()
		if path == "" {
			return defaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return defaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch level := strings.ToLower(c.LogLevel); level {
	case "":
		c.LogLevel = defaultLogLevel
	case "debug", "info":
		c.LogLevel = level
	default:
		return fmt.Errorf("log_level must be debug or info, got %q", c.LogLevel)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.TrackWorkers < 0 {
		return fmt.Errorf("track_workers must be >= 0, got %d", c.TrackWorkers)
	}
	// A metadata block length field is 24 bits.
	if c.MetadataPadding > 0x00FFFFFF {
		return fmt.Errorf("metadata_padding must fit in 24 bits, got %d", c.MetadataPadding)
	}
	return nil
}
