package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration, loaded from YAML with defaults for
// every field. An empty path yields the defaults.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	LogFile    string `yaml:"log_file"`

	DataDir           string `yaml:"data_dir"`
	SnapshotFile      string `yaml:"snapshot_file"`
	CompressSnapshots bool   `yaml:"compress_snapshots"`

	DefaultGridWidth  int `yaml:"default_grid_width"`
	DefaultGridHeight int `yaml:"default_grid_height"`
	MinGridSize       int `yaml:"min_grid_size"`
	MaxGridSize       int `yaml:"max_grid_size"`

	// FeetPerCell converts token sight radii (feet) into grid cells.
	FeetPerCell int `yaml:"feet_per_cell"`

	SaveDebounce time.Duration `yaml:"save_debounce"`
	SaveInterval time.Duration `yaml:"save_interval"`
}

func defaults() Config {
	return Config{
		ListenAddr:        ":8080",
		LogFile:           "server.log",
		DataDir:           "data",
		SnapshotFile:      "gameState.json",
		CompressSnapshots: false,
		DefaultGridWidth:  40,
		DefaultGridHeight: 30,
		MinGridSize:       5,
		MaxGridSize:       500,
		FeetPerCell:       5,
		SaveDebounce:      5 * time.Second,
		SaveInterval:      5 * time.Minute,
	}
}

func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.MinGridSize < 1 {
		return fmt.Errorf("min_grid_size must be at least 1, got %d", c.MinGridSize)
	}
	if c.MaxGridSize < c.MinGridSize {
		return fmt.Errorf("max_grid_size %d is below min_grid_size %d", c.MaxGridSize, c.MinGridSize)
	}
	if c.DefaultGridWidth < c.MinGridSize || c.DefaultGridWidth > c.MaxGridSize ||
		c.DefaultGridHeight < c.MinGridSize || c.DefaultGridHeight > c.MaxGridSize {
		return fmt.Errorf("default grid %dx%d outside allowed range [%d, %d]",
			c.DefaultGridWidth, c.DefaultGridHeight, c.MinGridSize, c.MaxGridSize)
	}
	if c.FeetPerCell < 1 {
		return fmt.Errorf("feet_per_cell must be at least 1, got %d", c.FeetPerCell)
	}
	if c.SaveDebounce <= 0 {
		return fmt.Errorf("save_debounce must be positive, got %s", c.SaveDebounce)
	}
	if c.SaveInterval <= 0 {
		return fmt.Errorf("save_interval must be positive, got %s", c.SaveInterval)
	}
	return nil
}
