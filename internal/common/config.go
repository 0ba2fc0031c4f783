package common

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dtnitsch/tracklist-parser/models"
	"github.com/urfave/cli/v2"
)

// NewLogger builds the JSON stderr logger shared by all commands.
// --quiet wins over --verbose.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig resolves the runtime config: defaults, then the YAML file, then
// environment, then any flag the user actually set.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	path := c.String("config")
	config, err := models.LoadConfig(path, c.IsSet("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("base-url") {
		config.BaseURL = c.String("base-url")
	}
	if c.IsSet("db") {
		config.DBPath = c.String("db")
	}
	if c.IsSet("format") {
		config.Format = c.String("format")
	}
	if c.IsSet("workers") {
		config.WorkerCount = c.Int("workers")
	}

	if config.WorkerCount < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", config.WorkerCount)
	}
	return config, nil
}
