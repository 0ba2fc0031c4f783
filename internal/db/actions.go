package db

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

// HistoryAction lists recorded fetch attempts, newest first.
func HistoryAction(c *cli.Context) error {
	out := c.App.Writer
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	attempts, err := database.ListAttempts(c.Int("limit"), c.Bool("failed"))
	if err != nil {
		return err
	}

	if len(attempts) == 0 {
		fmt.Fprintln(out, "No attempts recorded")
		return nil
	}

	writeAttempts(out, attempts, time.Now())
	fmt.Fprintf(out, "\nTotal: %d attempts\n", len(attempts))
	if c.Bool("failed") {
		fmt.Fprintln(out, "\nTip: Use 'tracklist-parser fetch --failed-only' to retry the last run's failures")
	}
	return nil
}

// RunAction shows the attempts of one run (the latest when no id is given).
func RunAction(c *cli.Context) error {
	out := c.App.Writer
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	attempts, err := database.RunAttempts(runID)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		fmt.Fprintf(out, "Run %s has no attempts\n", runID)
		return nil
	}

	failed := 0
	for _, a := range attempts {
		if !a.Success {
			failed++
		}
	}

	fmt.Fprintf(out, "Run %s: %d/%d paths successful\n\n", runID, len(attempts)-failed, len(attempts))
	writeAttempts(out, attempts, time.Now())
	if failed > 0 {
		fmt.Fprintf(out, "\nRetry failures: tracklist-parser fetch --failed-only --run %s\n", runID)
	}
	return nil
}
