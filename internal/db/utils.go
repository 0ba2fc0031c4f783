package db

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dtnitsch/tracklist-parser/internal/common"
	dbpkg "github.com/dtnitsch/tracklist-parser/pkg/db"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

// openDatabase opens the history database named by config, env or --db.
func openDatabase(c *cli.Context) (*dbpkg.DB, error) {
	config, err := common.LoadConfig(c)
	if err != nil {
		return nil, err
	}
	database, err := dbpkg.Open(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// GetRunIDOrLatest returns the run ID from args, or the latest run if not provided
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (string, error) {
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}

	runID, err := database.LastRunID()
	if err != nil {
		return "", err
	}
	if runID == "" {
		return "", fmt.Errorf("no runs found. Run 'tracklist-parser fetch --paths \"...\"' first")
	}
	return runID, nil
}

func statusLabel(a dbpkg.Attempt) string {
	if a.Success {
		return "ok"
	}
	if a.ErrorType != "" {
		return a.ErrorType
	}
	return "failed"
}

// writeAttempts prints one line per attempt; times are relative to now.
func writeAttempts(w io.Writer, attempts []dbpkg.Attempt, now time.Time) {
	fmt.Fprintf(w, "%-6s %-16s %-6s %-16s %-7s %s\n", "ID", "When", "Code", "Status", "Tracks", "Path")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, a := range attempts {
		code := "-"
		if a.StatusCode != 0 {
			code = fmt.Sprintf("%d", a.StatusCode)
		}
		fmt.Fprintf(w, "%-6d %-16s %-6s %-16s %-7d %s\n",
			a.AttemptID,
			humanize.RelTime(a.AttemptedAt, now, "ago", "from now"),
			code,
			statusLabel(a),
			a.TrackCount,
			a.Path,
		)
	}
}
