// Package config provides unified configuration for the chartmark tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/chartmark/chartmark/internal/vega"
)

// Config holds the configuration shared by the chartmark binaries.
type Config struct {
	// DataDir is the base directory for local data files
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Marker holds the visual constants written into augmented specs
	Marker vega.MarkerStyle `json:"marker" yaml:"marker"`

	// Export configuration
	Export ExportConfig `json:"export" yaml:"export"`
}

// ExportConfig selects and configures the snapshot export backend.
type ExportConfig struct {
	// Type is "local" or "s3"
	Type string `json:"type" yaml:"type"`

	// Path is the local export directory (local backend)
	Path string `json:"path" yaml:"path"`

	// S3 configuration (s3 backend)
	S3 S3Config `json:"s3" yaml:"s3"`
}

// S3Config holds S3 export settings.
type S3Config struct {
	// Bucket is the S3 bucket name
	Bucket string `json:"bucket" yaml:"bucket"`

	// Region is the AWS region
	Region string `json:"region" yaml:"region"`

	// Endpoint is the S3 endpoint (for S3-compatible storage)
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// UsePathStyle enables path-style addressing (required for MinIO)
	UsePathStyle bool `json:"use_path_style" yaml:"use_path_style"`
}

// DefaultConfig returns the default configuration for local development.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data/chartmark",
		Marker:  vega.DefaultMarkerStyle(),
		Export: ExportConfig{
			Type: "local",
			Path: "",
		},
	}
}

// Resolve resolves relative paths and sets defaults based on DataDir.
func (c *Config) Resolve() {
	if c.DataDir == "" {
		c.DataDir = "./data/chartmark"
	}
	if c.Export.Path == "" {
		c.Export.Path = filepath.Join(c.DataDir, "exports")
	}
}

// StorePath returns the path to the annotation catalog database.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "annotations.db")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Export.Type != "local" && c.Export.Type != "s3" {
		return fmt.Errorf("invalid export type: %s (must be local or s3)", c.Export.Type)
	}

	if c.Export.Type == "s3" && c.Export.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when export type is s3")
	}

	if c.Marker.MarkerSize <= 0 {
		return fmt.Errorf("marker.marker_size must be positive, got %v", c.Marker.MarkerSize)
	}
	if c.Marker.TimelineHeight <= 0 {
		return fmt.Errorf("marker.timeline_height must be positive, got %v", c.Marker.TimelineHeight)
	}

	return nil
}

// Load builds the effective configuration: defaults, then the optional
// config file, then environment overrides (after loading an optional
// .env file), then path resolution.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	_ = godotenv.Load()
	LoadFromEnv(cfg)
	cfg.Resolve()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the CHARTMARK_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("CHARTMARK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	// Export configuration
	if v := os.Getenv("CHARTMARK_EXPORT_TYPE"); v != "" {
		cfg.Export.Type = v
	}
	if v := os.Getenv("CHARTMARK_EXPORT_PATH"); v != "" {
		cfg.Export.Path = v
	}
	if v := os.Getenv("CHARTMARK_S3_BUCKET"); v != "" {
		cfg.Export.S3.Bucket = v
	}
	if v := os.Getenv("CHARTMARK_S3_REGION"); v != "" {
		cfg.Export.S3.Region = v
	}
	if v := os.Getenv("CHARTMARK_S3_ENDPOINT"); v != "" {
		cfg.Export.S3.Endpoint = v
	}

	// Marker style overrides
	if v := os.Getenv("CHARTMARK_MARKER_COLOR"); v != "" {
		cfg.Marker.MarkerColor = v
	}
	if v := os.Getenv("CHARTMARK_MARKER_SHAPE"); v != "" {
		cfg.Marker.MarkerShape = v
	}
	if v := os.Getenv("CHARTMARK_MARKER_SIZE"); v != "" {
		fmt.Sscanf(v, "%f", &cfg.Marker.MarkerSize)
	}
	if v := os.Getenv("CHARTMARK_TIMELINE_HEIGHT"); v != "" {
		fmt.Sscanf(v, "%f", &cfg.Marker.TimelineHeight)
	}
}

// EnsureDirectories creates all required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DataDir,
	}
	if c.Export.Type == "local" {
		dirs = append(dirs, c.Export.Path)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
