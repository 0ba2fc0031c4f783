package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/dtnitsch/tracklist-parser/internal/common"
	"github.com/dtnitsch/tracklist-parser/pkg/db"
	"github.com/dtnitsch/tracklist-parser/pkg/render"
	"github.com/dtnitsch/tracklist-parser/pkg/tracklist"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

// GetAction fetches and renders a single tracklist.
func GetAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	if !c.Args().Present() {
		return cli.Exit("Error: No path provided\n\nUsage:\n  tracklist-parser get <path>", 1)
	}

	config, err := common.LoadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	raw := c.Args().First()
	paths, invalid := common.SanitizeAndValidatePaths([]string{raw}, config.BaseURL)
	if len(invalid) > 0 {
		return cli.Exit(fmt.Sprintf("Error: path %q is malformed (even after cleanup)", raw), 1)
	}
	path := paths[0]

	client := tracklist.NewClient(config.BaseURL)
	job := Job{Path: path}

	var result Result
	fetch := func(ctx context.Context) error {
		result = process(ctx, logger, client, job)
		return nil
	}

	if showSpinner(c) {
		err = spinner.New().
			Title("Fetching " + client.Fetcher().TracklistURL(path) + " ...").
			Context(c.Context).
			ActionWithErr(fetch).
			Run()
	} else {
		err = fetch(c.Context)
	}
	if err != nil {
		return err
	}

	if !c.Bool("no-history") {
		recordSingle(logger, config.DBPath, client.Fetcher().BaseURL(), result)
	}

	if result.Failed() {
		return cli.Exit(fmt.Sprintf("%s: %v", result.ErrorType, result.Error), 1)
	}

	return writeOutput(c.App.Writer, c.String("out"), func(w io.Writer) error {
		return render.Tracklist(w, result.Tracklist, config.Format)
	})
}

func showSpinner(c *cli.Context) bool {
	if c.Bool("quiet") {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// recordSingle stores a one-path run. History is best effort for get.
func recordSingle(logger *slog.Logger, dbPath, baseURL string, result Result) {
	database, err := db.Open(dbPath)
	if err != nil {
		logger.Warn("failed to open database", "error", err)
		return
	}
	defer database.Close()

	runUUID, err := uuid.NewV7()
	if err != nil {
		logger.Warn("failed to generate run id", "error", err)
		return
	}
	runID := runUUID.String()

	if err := database.CreateRun(runID, baseURL, 1); err != nil {
		logger.Warn("failed to create run", "error", err)
		return
	}
	recordAttempts(logger, database, runID, []Result{result})
}

// writeOutput runs write against stdout, or against a new file at path. A
// failed close of that file is returned.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()
	return write(f)
}
