package mapreduce

import (
	"strings"

	"github.com/dtnitsch/tracklist-parser/models"
)

// Counts holds per-tracklist frequencies.
type Counts struct {
	Artists map[string]int
	Labels  map[string]int
}

// unidentified artist/title placeholders used by the site.
var placeholders = map[string]struct{}{
	"id":  {},
	"?":   {},
	"n/a": {},
}

func isPlaceholder(s string) bool {
	_, ok := placeholders[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Map counts artists and labels for a single tracklist.
func Map(tl *models.Tracklist) Counts {
	counts := Counts{
		Artists: make(map[string]int),
		Labels:  make(map[string]int),
	}
	if tl == nil {
		return counts
	}

	for _, t := range tl.Tracks {
		if artist := strings.TrimSpace(t.ByArtist); artist != "" && !isPlaceholder(artist) {
			counts.Artists[artist]++
		}
		if label := strings.TrimSpace(t.Publisher); label != "" && !isPlaceholder(label) {
			counts.Labels[label]++
		}
	}
	return counts
}

// Reduce aggregates a slice of frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for key, count := range counts {
			finalResults[key] += count
		}
	}

	return finalResults
}
