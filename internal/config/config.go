// Package config loads palette-mcp settings from defaults, an optional config
// file (YAML, TOML or JSON), a .env file and PALETTE_MCP_* environment
// variables, in that order.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/palette-tools-mcp/internal/quantize"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config holds all runtime settings.
type Config struct {
	Namespace string        `yaml:"namespace" toml:"namespace" json:"namespace"`
	MaxSaved  int           `yaml:"max_saved" toml:"max_saved" json:"max_saved"`
	LogLevel  string        `yaml:"log_level" toml:"log_level" json:"log_level"`
	Store     StoreConfig   `yaml:"store" toml:"store" json:"store"`
	Extract   ExtractConfig `yaml:"extract" toml:"extract" json:"extract"`
	Fetch     FetchConfig   `yaml:"fetch" toml:"fetch" json:"fetch"`
}

// StoreConfig selects the saved-palette backend.
type StoreConfig struct {
	Driver string `yaml:"driver" toml:"driver" json:"driver"`
	Path   string `yaml:"path" toml:"path" json:"path"`
	DSN    string `yaml:"dsn" toml:"dsn" json:"dsn"`
}

// ExtractConfig holds extraction defaults.
type ExtractConfig struct {
	Count        int `yaml:"count" toml:"count" json:"count"`
	Step         int `yaml:"step" toml:"step" json:"step"`
	MaxDimension int `yaml:"max_dimension" toml:"max_dimension" json:"max_dimension"`
}

// FetchConfig controls URL loading. Timeout is a Go duration string.
type FetchConfig struct {
	Timeout  string `yaml:"timeout" toml:"timeout" json:"timeout"`
	MaxBytes int64  `yaml:"max_bytes" toml:"max_bytes" json:"max_bytes"`
}

// TimeoutDuration parses Timeout. Callers should run Validate first.
func (f FetchConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(f.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Namespace: "color-palette-studio.v1.palettes",
		MaxSaved:  100,
		LogLevel:  "info",
		Store: StoreConfig{
			Driver: DriverMemory,
		},
		Extract: ExtractConfig{
			Count:        6,
			Step:         6,
			MaxDimension: 800,
		},
		Fetch: FetchConfig{
			Timeout:  "10s",
			MaxBytes: 32 << 20,
		},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if decodeErr := dec.Decode(&cfg); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
			return cfg, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if decodeErr := dec.Decode(&cfg); decodeErr != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if decodeErr := dec.Decode(&cfg); decodeErr != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Validate checks value ranges and normalizes case-insensitive fields.
func (c *Config) Validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	if strings.TrimSpace(c.Namespace) == "" {
		return fmt.Errorf("namespace cannot be empty")
	}
	if c.MaxSaved < 1 {
		return fmt.Errorf("max_saved must be at least 1, got %d", c.MaxSaved)
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the file driver")
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q (valid: memory, file, postgres)", c.Store.Driver)
	}
	if c.Extract.Count < 1 || c.Extract.Count > quantize.MaxCount {
		return fmt.Errorf("extract.count must be between 1 and %d, got %d", quantize.MaxCount, c.Extract.Count)
	}
	if c.Extract.Step < 1 {
		return fmt.Errorf("extract.step must be at least 1, got %d", c.Extract.Step)
	}
	if c.Extract.MaxDimension < 1 {
		return fmt.Errorf("extract.max_dimension must be at least 1, got %d", c.Extract.MaxDimension)
	}
	if d, err := time.ParseDuration(c.Fetch.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("fetch.timeout must be a positive duration, got %q", c.Fetch.Timeout)
	}
	if c.Fetch.MaxBytes < 1 {
		return fmt.Errorf("fetch.max_bytes must be at least 1, got %d", c.Fetch.MaxBytes)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
