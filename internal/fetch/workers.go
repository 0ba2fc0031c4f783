package fetch

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dtnitsch/tracklist-parser/internal/common"
	"github.com/dtnitsch/tracklist-parser/models"
	"github.com/dtnitsch/tracklist-parser/pkg/db"
	"github.com/dtnitsch/tracklist-parser/pkg/mapreduce"
	"github.com/dtnitsch/tracklist-parser/pkg/tracklist"
	"golang.org/x/sync/errgroup"
)

const topN = 10

// run processes every path with at most config.WorkerCount calls in flight.
// Results come back in input order. A failing path never stops the others;
// only ctx cancellation does, and then the remaining paths fail with the
// context error.
func run(ctx context.Context, logger *slog.Logger, config *models.FetchConfig, client *tracklist.Client) []Result {
	logger.Info("Starting concurrent fetch phase", "path_count", len(config.Paths), "workers", config.WorkerCount, "run_id", config.RunID)

	results := make([]Result, len(config.Paths))

	var g errgroup.Group
	g.SetLimit(config.WorkerCount)
	for i, path := range config.Paths {
		job := Job{Index: i, Path: path}
		g.Go(func() error {
			results[job.Index] = process(ctx, logger, client, job)
			return nil
		})
	}
	_ = g.Wait() // workers report failures through their Result
	logger.Info("All fetch workers finished")

	return results
}

func process(ctx context.Context, logger *slog.Logger, client *tracklist.Client, job Job) Result {
	result := Result{
		Path: job.Path,
		URL:  client.Fetcher().TracklistURL(job.Path),
	}

	logger.Debug("Fetching tracklist", "job", job.Index, "path", job.Path, "url", result.URL)
	tl, html, err := client.GetTracklistWithHTML(ctx, job.Path)
	if html != "" {
		result.ContentHash = common.ContentHash([]byte(html))
	}
	if err != nil {
		result.Error = err
		result.ErrorType = models.ErrorType(err)
		result.StatusCode = models.StatusCode(err)
		if result.StatusCode == 0 && html != "" {
			result.StatusCode = http.StatusOK
		}
		logger.Error("Error processing tracklist", "job", job.Index, "path", job.Path, "error_type", result.ErrorType, "error", err)
		return result
	}

	result.Tracklist = tl
	result.StatusCode = http.StatusOK
	logger.Info("Tracklist extracted", "job", job.Index, "path", job.Path, "tracks", tl.TrackCount)
	return result
}

// attemptFromResult converts a result into its history row.
func attemptFromResult(runID string, r Result) db.Attempt {
	a := db.Attempt{
		RunID:       runID,
		Path:        r.Path,
		URL:         r.URL,
		StatusCode:  r.StatusCode,
		ErrorType:   r.ErrorType,
		ContentHash: r.ContentHash,
		Success:     !r.Failed(),
	}
	if r.Error != nil {
		a.ErrorMessage = r.Error.Error()
	}
	if r.Tracklist != nil {
		a.TrackCount = r.Tracklist.TrackCount
	}
	return a
}

// recordAttempts writes every result to the history. SQLite serializes
// writers anyway, so this runs after the workers are done.
func recordAttempts(logger *slog.Logger, database *db.DB, runID string, results []Result) {
	for _, r := range results {
		if _, err := database.RecordAttempt(attemptFromResult(runID, r)); err != nil {
			logger.Warn("Failed to record attempt", "path", r.Path, "error", err)
		}
	}
}

// buildOutput assembles the run summary. includeTracks embeds each extracted
// tracklist in its result.
func buildOutput(runID string, results []Result, includeTracks bool) *FinalOutput {
	out := &FinalOutput{
		RunID:   runID,
		Results: make([]ResultOutput, 0, len(results)),
		Stats:   Stats{TotalPaths: len(results)},
	}

	var artists, labels []map[string]int
	for _, r := range results {
		ro := ResultOutput{Path: r.Path, URL: r.URL, StatusCode: r.StatusCode}
		if r.Failed() {
			out.Stats.Failed++
			ro.Status = StatusFailed
			ro.Error = r.Error.Error()
			ro.ErrorType = r.ErrorType
		} else {
			out.Stats.Successful++
			ro.Status = StatusSuccess
			ro.TrackCount = r.Tracklist.TrackCount
			out.Stats.TotalTracks += r.Tracklist.TrackCount
			if includeTracks {
				ro.Tracklist = r.Tracklist
			}

			counts := mapreduce.Map(r.Tracklist)
			artists = append(artists, counts.Artists)
			labels = append(labels, counts.Labels)
		}
		out.Results = append(out.Results, ro)
	}

	out.Stats.TopArtists = mapreduce.TopN(mapreduce.Reduce(artists), topN)
	out.Stats.TopLabels = mapreduce.TopN(mapreduce.Reduce(labels), topN)

	switch {
	case out.Stats.Failed == 0:
		out.Status = StatusSuccess
	case out.Stats.Successful == 0:
		out.Status = StatusFailed
	default:
		out.Status = StatusPartialFailure
	}
	return out
}

// exitCode maps run stats to the process exit status: 2 when every path
// failed, 1 when some did.
func exitCode(stats Stats) int {
	if stats.TotalPaths > 0 && stats.Failed == stats.TotalPaths {
		return 2
	}
	if stats.Failed > 0 {
		return 1
	}
	return 0
}
