// Package config handles configuration loading and shared settings.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/woozymasta/geotweak/internal/loader"
	"github.com/woozymasta/geotweak/internal/preview"
	"github.com/woozymasta/geotweak/internal/transform"

	"gopkg.in/yaml.v3"
)

// DefaultMaxUploadMB caps uploads when the configuration does not.
const DefaultMaxUploadMB = 32

// Config represents the root configuration file structure.
type Config struct {
	Export      Export            `yaml:"export"`
	KML         loader.Options    `yaml:"kml"`
	Defaults    transform.Options `yaml:"defaults"`
	Preview     preview.Options   `yaml:"preview"`
	MaxUploadMB int               `yaml:"max_upload_mb"`
}

// Export configures downloads.
type Export struct {
	// Timezone of the filename timestamp, an IANA name or "Local".
	Timezone string `yaml:"timezone"`
	// Indent pretty-prints exported files when set.
	Indent string `yaml:"indent,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxUploadMB: DefaultMaxUploadMB,
		Export:      Export{Timezone: "Local"},
		Preview:     preview.DefaultOptions(),
	}
}

// Load reads the YAML configuration file from path on top of the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = DefaultMaxUploadMB
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location resolves the export timezone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Export.Timezone {
	case "", "Local":
		return time.Local, nil
	default:
		loc, err := time.LoadLocation(c.Export.Timezone)
		if err != nil {
			return nil, fmt.Errorf("export timezone: %w", err)
		}
		return loc, nil
	}
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
