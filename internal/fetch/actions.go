package fetch

import (
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/tracklist-parser/internal/common"
	"github.com/dtnitsch/tracklist-parser/models"
	"github.com/dtnitsch/tracklist-parser/pkg/db"
	"github.com/dtnitsch/tracklist-parser/pkg/render"
	"github.com/dtnitsch/tracklist-parser/pkg/tracklist"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func FetchAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	startTime := time.Now()

	config, err := common.LoadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	// Open database for attempt history
	database, err := db.Open(config.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return cli.Exit(err.Error(), 2)
	}
	defer database.Close()

	fetchConfig := &models.FetchConfig{
		Paths:       []string{},
		WorkerCount: config.WorkerCount,
	}

	if c.Bool("failed-only") {
		if c.IsSet("paths") || c.Args().Present() {
			return cli.Exit("Error: Cannot combine --failed-only with explicit paths", 1)
		}

		runID := c.String("run")
		if runID == "" {
			runID, err = database.LastRunID()
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			if runID == "" {
				fmt.Fprintln(c.App.ErrWriter, "No previous run found")
				return nil
			}
		}

		failed, err := database.FailedPaths(runID)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		if len(failed) == 0 {
			fmt.Fprintf(c.App.ErrWriter, "Run %s has no failed paths to retry\n", runID)
			return nil
		}
		fetchConfig.Paths = failed
		fmt.Fprintf(c.App.ErrWriter, "Retrying %d failed paths from run %s\n", len(failed), runID)
	}

	if c.IsSet("paths") {
		fetchConfig.Paths = append(fetchConfig.Paths, strings.Split(c.String("paths"), ",")...)
	}
	fetchConfig.Paths = append(fetchConfig.Paths, c.Args().Slice()...)

	if len(fetchConfig.Paths) == 0 {
		var sb strings.Builder
		sb.WriteString("Error: No paths provided\n\n")
		sb.WriteString("Usage:\n")
		sb.WriteString("  tracklist-parser fetch --paths \"abc123/some-mix.html,def456/other-mix.html\"\n")
		sb.WriteString("  tracklist-parser fetch --failed-only              # Retry failures of the last run\n")
		sb.WriteString("  tracklist-parser fetch --failed-only --run <id>   # Retry failures of a given run")
		return cli.Exit(sb.String(), 1)
	}

	// Sanitize and validate all paths before processing (fail fast)
	sanitized, invalid := common.SanitizeAndValidatePaths(fetchConfig.Paths, config.BaseURL)
	if len(invalid) > 0 {
		var sb strings.Builder
		fmt.Fprintf(&sb, "Error: %d path(s) are malformed (even after cleanup):\n", len(invalid))
		for _, bad := range invalid {
			fmt.Fprintf(&sb, "  - %s\n", bad)
		}
		sb.WriteString("\nNote: paths are auto-cleaned (whitespace trimmed, punctuation removed, site URL stripped)")
		return cli.Exit(sb.String(), 1)
	}
	fetchConfig.Paths = sanitized

	runUUID, err := uuid.NewV7()
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to generate run id: %v", err), 2)
	}
	fetchConfig.RunID = runUUID.String()

	client := tracklist.NewClient(config.BaseURL)
	if err := database.CreateRun(fetchConfig.RunID, client.Fetcher().BaseURL(), len(fetchConfig.Paths)); err != nil {
		logger.Error("failed to create run", "error", err)
		return cli.Exit(err.Error(), 2)
	}

	results := run(c.Context, logger, fetchConfig, client)
	recordAttempts(logger, database, fetchConfig.RunID, results)

	finalOutput := buildOutput(fetchConfig.RunID, results, c.Bool("tracks"))
	finalOutput.Stats.TotalTimeSeconds = time.Since(startTime).Seconds()

	format := render.FormatJSON
	if strings.EqualFold(config.Format, render.FormatYAML) {
		format = render.FormatYAML
	}
	if err := render.Marshal(c.App.Writer, finalOutput, format); err != nil {
		logger.Error("failed to marshal final output", "error", err)
		return cli.Exit(err.Error(), 2)
	}

	if code := exitCode(finalOutput.Stats); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}
