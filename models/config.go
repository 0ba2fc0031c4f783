// Package models defines data structures for configuration and parsing.
package models

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL     = "http://www.1001tracklists.com/"
	DefaultWorkerCount = 4
	DefaultConfigFile  = "tracklist-parser.yaml"
	DefaultDBName      = "tracklist-parser.db"
)

// Config holds runtime configuration. Values are layered: defaults, then the
// YAML file, then environment (.env included), then CLI flags.
type Config struct {
	BaseURL     string `yaml:"base_url"`
	WorkerCount int    `yaml:"workers"`
	DBPath      string `yaml:"db_path"`
	Format      string `yaml:"format"`
}

// FetchConfig holds the per-run options of a batch fetch.
type FetchConfig struct {
	Paths       []string
	WorkerCount int
	RunID       string
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		WorkerCount: DefaultWorkerCount,
		Format:      "json",
	}
}

// LoadConfig reads path (if it exists) over the defaults and applies
// TRACKLIST_* environment overrides. A missing file is not an error unless
// required is set.
func LoadConfig(path string, required bool) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TRACKLIST_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("TRACKLIST_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("TRACKLIST_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid TRACKLIST_WORKERS %q", v)
		}
		c.WorkerCount = n
	}
	return nil
}
