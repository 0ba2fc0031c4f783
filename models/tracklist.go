package models

import (
	"strings"
	"time"

	"github.com/sosodev/duration"
)

// PlaylistInfo holds the playlist-level microdata of a tracklist page.
type PlaylistInfo struct {
	Name          string   `json:"name,omitempty" yaml:"name,omitempty"`
	DatePublished string   `json:"datePublished,omitempty" yaml:"datePublished,omitempty"`
	NumTracks     string   `json:"numTracks,omitempty" yaml:"numTracks,omitempty"`
	Genres        []string `json:"genres" yaml:"genres"`
	Authors       []string `json:"authors" yaml:"authors"`
}

// NewPlaylistInfo returns an info record with empty, non-nil genre and author lists.
func NewPlaylistInfo() PlaylistInfo {
	return PlaylistInfo{
		Genres:  []string{},
		Authors: []string{},
	}
}

// Track is a single entry of a tracklist.
type Track struct {
	ByArtist   string `json:"byArtist,omitempty" yaml:"byArtist,omitempty"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Duration   string `json:"duration,omitempty" yaml:"duration,omitempty"` // ISO-8601, e.g. PT4M51S
	Publisher  string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Position   int    `json:"position" yaml:"position"`
}

// Tracklist is the result of extracting one page.
type Tracklist struct {
	PlaylistInfo `yaml:",inline"`
	TrackCount   int     `json:"trackCount" yaml:"trackCount"`
	Tracks       []Track `json:"tracks" yaml:"tracks"`
}

// DurationSeconds converts the ISO-8601 duration text to whole seconds,
// truncating fractions. Empty, negative or unparseable durations report false.
func (t Track) DurationSeconds() (int, bool) {
	text := strings.TrimSpace(t.Duration)
	if text == "" || text == "P" || text == "PT" {
		return 0, false
	}

	d, err := duration.Parse(text)
	if err != nil || d.Negative {
		return 0, false
	}
	return int(d.ToTimeDuration() / time.Second), true
}
