package fetch

import (
	"github.com/dtnitsch/tracklist-parser/models"
)

type Job struct {
	Index int
	Path  string
}

// Result holds the outcome of a processed job.
type Result struct {
	Path        string
	URL         string
	Tracklist   *models.Tracklist
	Error       error
	ErrorType   string
	StatusCode  int
	ContentHash string
}

// Failed reports whether the pipeline call for this path failed.
func (r Result) Failed() bool {
	return r.Error != nil
}

// ResultOutput is the structured output for a single path.
type ResultOutput struct {
	Path       string            `json:"path" yaml:"path"`
	URL        string            `json:"url" yaml:"url"`
	Status     string            `json:"status" yaml:"status"`
	StatusCode int               `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType  string            `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	TrackCount int               `json:"track_count" yaml:"track_count"`
	Tracklist  *models.Tracklist `json:"tracklist,omitempty" yaml:"tracklist,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	RunID   string         `json:"run_id" yaml:"run_id"`
	Status  string         `json:"status" yaml:"status"`
	Results []ResultOutput `json:"results" yaml:"results"`
	Stats   Stats          `json:"stats" yaml:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalPaths       int      `json:"total_paths" yaml:"total_paths"`
	Successful       int      `json:"successful" yaml:"successful"`
	Failed           int      `json:"failed" yaml:"failed"`
	TotalTracks      int      `json:"total_tracks" yaml:"total_tracks"`
	TotalTimeSeconds float64  `json:"total_time_seconds" yaml:"total_time_seconds"`
	TopArtists       []string `json:"top_artists,omitempty" yaml:"top_artists,omitempty"`
	TopLabels        []string `json:"top_labels,omitempty" yaml:"top_labels,omitempty"`
}

const (
	StatusSuccess        = "success"
	StatusFailed         = "failed"
	StatusPartialFailure = "partial_failure"
)
