// Package config loads viewer settings from geomap.yml / geomap.toml and
// command-line flags. Flags that were set explicitly win over the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a configuration value that is out of range.
var ErrInvalid = errors.New("invalid config")

// FileNames are tried in order in each search directory.
var FileNames = []string{"geomap.yml", "geomap.yaml", "geomap.toml"}

type Config struct {
	// Watch reloads loaded files in place when they change on disk.
	Watch bool `yaml:"watch" toml:"watch"`
	// DebounceMS collapses bursts of writes to one reload.
	DebounceMS int `yaml:"debounce_ms" toml:"debounce_ms"`
	// Concurrency bounds how many files are parsed at once.
	Concurrency int `yaml:"concurrency" toml:"concurrency"`
	// SidebarWidth is the width of the file and dataset panels in cells.
	SidebarWidth int `yaml:"sidebar_width" toml:"sidebar_width"`

	Log LogConfig `yaml:"log" toml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	File   string `yaml:"file" toml:"file"`
	Format string `yaml:"format" toml:"format"` // "text" (default) or "json"
}

func Default() Config {
	return Config{
		Watch:        true,
		DebounceMS:   200,
		Concurrency:  4,
		SidebarWidth: 28,
		Log:          LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path on top of Default. The format follows the extension.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// an empty file decodes to io.EOF; keep the defaults
		if err := dec.Decode(&cfg); err != nil && len(bytes.TrimSpace(data)) > 0 {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the first config file in dir, then in the user config dir.
// It returns "" and no error when there is none.
func Find(dir string) (string, error) {
	dirs := []string{dir}
	if ucd, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(ucd, "geomap"))
	}
	for _, d := range dirs {
		for _, name := range FileNames {
			p := filepath.Join(d, name)
			info, err := os.Stat(p)
			if err == nil && !info.IsDir() {
				return p, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", err
			}
		}
	}
	return "", nil
}

func (c Config) Validate() error {
	if c.DebounceMS < 0 {
		return fmt.Errorf("%w: debounce_ms must not be negative, got %d", ErrInvalid, c.DebounceMS)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalid, c.Concurrency)
	}
	if c.SidebarWidth < 12 {
		return fmt.Errorf("%w: sidebar_width must be at least 12, got %d", ErrInvalid, c.SidebarWidth)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalid, c.Log.Format)
	}
	return nil
}
