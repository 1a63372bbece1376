// Package config loads the storyboard TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Storage describes the durable slot.
type Storage struct {
	Path       string `toml:"path"`
	SlotKey    string `toml:"slot_key"`
	QuotaBytes int64  `toml:"quota_bytes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// PDF contains the external renderer endpoint and the page layout sent to it.
type PDF struct {
	RendererURL    string  `toml:"renderer_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	MarginMM       int     `toml:"margin_mm"`
	Format         string  `toml:"format"`
	Orientation    string  `toml:"orientation"`
	ImageQuality   float64 `toml:"image_quality"`
	Scale          int     `toml:"scale"`
}

type Config struct {
	Storage Storage `toml:"storage"`
	Logging Logging `toml:"logging"`
	PDF     PDF     `toml:"pdf"`
}

const defaultConfigPath = "~/.config/storyboard/config.toml"

// Load reads the configuration at path, or at the default location when path
// is empty. A missing file is not an error; defaults are used instead. The
// returned bool reports whether a file was read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	resolved := path
	if resolved == "" {
		resolved = defaultConfigPath
	}
	resolved, err := expandPath(resolved)
	if err != nil {
		return nil, false, err
	}

	exists := true
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, false, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return &cfg, exists, nil
}

func (c *Config) normalize() error {
	c.Storage.Path = strings.TrimSpace(c.Storage.Path)
	if c.Storage.Path == "" {
		c.Storage.Path = defaultStoragePath
	}
	expanded, err := expandPath(c.Storage.Path)
	if err != nil {
		return fmt.Errorf("storage path: %w", err)
	}
	c.Storage.Path = expanded

	c.Storage.SlotKey = strings.TrimSpace(c.Storage.SlotKey)
	if c.Storage.SlotKey == "" {
		c.Storage.SlotKey = defaultSlotKey
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.PDF.Format = strings.ToLower(strings.TrimSpace(c.PDF.Format))
	c.PDF.Orientation = strings.ToLower(strings.TrimSpace(c.PDF.Orientation))
	c.PDF.RendererURL = strings.TrimRight(strings.TrimSpace(c.PDF.RendererURL), "/")
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Storage.QuotaBytes < 0 {
		return errors.New("storage.quota_bytes must be >= 0")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.PDF.TimeoutSeconds <= 0 {
		return errors.New("pdf.timeout_seconds must be positive")
	}
	if c.PDF.MarginMM < 0 {
		return errors.New("pdf.margin_mm must be >= 0")
	}
	if c.PDF.ImageQuality <= 0 || c.PDF.ImageQuality > 1 {
		return errors.New("pdf.image_quality must be in (0, 1]")
	}
	if c.PDF.Scale <= 0 {
		return errors.New("pdf.scale must be positive")
	}
	switch c.PDF.Orientation {
	case "portrait", "landscape":
	default:
		return fmt.Errorf("pdf.orientation: unsupported value %q", c.PDF.Orientation)
	}
	return nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
