package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lehigh-university-libraries/collager/internal/canvas"
	"gopkg.in/yaml.v3"
)

// Config describes the collage canvas and where its images come from.
// Each image directory carries its own trailing separator.
type Config struct {
	Width            int      `json:"width" yaml:"width" toml:"width"`
	Height           int      `json:"height" yaml:"height" toml:"height"`
	ImageDirectories []string `json:"imageDirectories" yaml:"imageDirectories" toml:"imageDirectories"`
	Background       string   `json:"background,omitempty" yaml:"background,omitempty" toml:"background,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Width:      1280,
		Height:     800,
		Background: canvas.DefaultBackground,
	}
}

// Load reads path (JSON, YAML or TOML by extension) over the defaults and
// applies environment overrides. An empty path uses defaults and the
// environment only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format: %s (supported: .json, .yaml, .toml)", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("COLLAGE_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid COLLAGE_WIDTH: %w", err)
		}
		cfg.Width = n
	}
	if v := os.Getenv("COLLAGE_HEIGHT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid COLLAGE_HEIGHT: %w", err)
		}
		cfg.Height = n
	}
	if v := os.Getenv("COLLAGE_IMAGE_DIRS"); v != "" {
		cfg.ImageDirectories = filepath.SplitList(v)
	}
	if v := os.Getenv("COLLAGE_BACKGROUND"); v != "" {
		cfg.Background = v
	}
	return nil
}

// Validate checks the canvas dimensions and background colour.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if _, err := canvas.ParseColor(c.Background); err != nil {
		return err
	}
	return nil
}

// HasDirectory reports whether dir is one of the configured directories.
func (c *Config) HasDirectory(dir string) bool {
	for _, d := range c.ImageDirectories {
		if d == dir {
			return true
		}
	}
	return false
}
