package parser

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/tracklist-parser/models"
)

const (
	landmarkSelector = "#middleDiv"
	trackMarkerAttr  = "itemprop"
	trackMarkerValue = "tracks"

	// identifierOffset skips the "/track/" prefix of a track url.
	identifierOffset = len("/track/")
	// NoIdentifier is used when no digits follow the prefix.
	NoIdentifier = "@"
)

// Path from #middleDiv to the playlist container, each hop being the first
// descendant with that tag name.
var playlistPath = []string{"table", "tr", "td", "div"}

// Parser extracts tracklists from page markup. It keeps no state between
// calls and is safe for concurrent use.
type Parser struct{}

// ParseTracklist extracts the playlist metadata and the ordered tracks from
// a tracklist page. On error no partial result is returned.
func (p *Parser) ParseTracklist(markup string) (*models.Tracklist, error) {
	if markup == "" {
		return nil, models.ErrEmptyMarkup
	}

	// The metadata sits in a part of the page the HTML5 algorithm handles
	// well, so use the forgiving tree for it.
	lenient, err := ParseMarkup(markup, ModeLenient)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	container, err := findPlaylistContainer(lenient.Selection, models.StepMetadata)
	if err != nil {
		return nil, err
	}
	info := extractPlaylistInfo(container)

	// The track table needs its rows as direct children of <table>, which
	// the HTML5 algorithm breaks by inserting <tbody>.
	literal, err := ParseMarkup(markup, ModeLiteral)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	container, err = findPlaylistContainer(literal.Selection, models.StepTracks)
	if err != nil {
		return nil, err
	}
	table := container.Find("table").First()
	if table.Length() == 0 {
		return nil, &models.LandmarkError{Step: models.StepTracks, Missing: "table"}
	}
	tracks, err := extractTracks(table)
	if err != nil {
		return nil, err
	}

	return &models.Tracklist{
		PlaylistInfo: info,
		TrackCount:   len(tracks),
		Tracks:       tracks,
	}, nil
}

// findPlaylistContainer follows #middleDiv > table > tr > td > div using
// first-descendant hops. step only labels the error.
func findPlaylistContainer(doc *goquery.Selection, step models.Step) (*goquery.Selection, error) {
	sel := doc.Find(landmarkSelector).First()
	if sel.Length() == 0 {
		return nil, &models.LandmarkError{Step: step, Missing: landmarkSelector}
	}
	for _, tag := range playlistPath {
		sel = sel.Find(tag).First()
		if sel.Length() == 0 {
			return nil, &models.LandmarkError{Step: step, Missing: tag}
		}
	}
	return sel, nil
}

type propSetter[T any] func(*T, string)

var playlistProps = map[string]propSetter[models.PlaylistInfo]{
	"name":          func(i *models.PlaylistInfo, v string) { i.Name = v },
	"datePublished": func(i *models.PlaylistInfo, v string) { i.DatePublished = v },
	"numTracks":     func(i *models.PlaylistInfo, v string) { i.NumTracks = v },
	"genre":         func(i *models.PlaylistInfo, v string) { i.Genres = append(i.Genres, v) },
	"author":        func(i *models.PlaylistInfo, v string) { i.Authors = append(i.Authors, v) },
}

var trackProps = map[string]propSetter[models.Track]{
	"byArtist":  func(t *models.Track, v string) { t.ByArtist = v },
	"name":      func(t *models.Track, v string) { t.Name = v },
	"duration":  func(t *models.Track, v string) { t.Duration = v },
	"publisher": func(t *models.Track, v string) { t.Publisher = v },
	"url": func(t *models.Track, v string) {
		t.URL = v
		t.Identifier = TrackIdentifier(v)
	},
}

// decodeMeta applies every <meta itemprop content> child of sel to target.
// Unknown properties and metas missing either attribute are ignored.
func decodeMeta[T any](sel *goquery.Selection, props map[string]propSetter[T], target *T) {
	sel.ChildrenFiltered("meta").Each(func(_ int, meta *goquery.Selection) {
		prop, ok := meta.Attr("itemprop")
		if !ok {
			return
		}
		set, known := props[prop]
		if !known {
			return
		}
		content, ok := meta.Attr("content")
		if !ok {
			return
		}
		set(target, content)
	})
}

func extractPlaylistInfo(container *goquery.Selection) models.PlaylistInfo {
	info := models.NewPlaylistInfo()
	decodeMeta(container, playlistProps, &info)
	return info
}

// extractTracks walks table > tr > td > div over direct children only and
// decodes every div marked itemprop="tracks". Other elements are skipped.
func extractTracks(table *goquery.Selection) ([]models.Track, error) {
	tracks := []models.Track{}

	var walkErr error
	table.ChildrenFiltered("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		tr.ChildrenFiltered("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
			td.ChildrenFiltered("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
				if !isTrackContainer(div) {
					return true
				}
				track, err := decodeTrack(div)
				if err != nil {
					walkErr = err
					return false
				}
				track.Position = len(tracks) + 1
				tracks = append(tracks, track)
				return true
			})
			return walkErr == nil
		})
		return walkErr == nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return tracks, nil
}

func isTrackContainer(sel *goquery.Selection) bool {
	value, ok := sel.Attr(trackMarkerAttr)
	return ok && value == trackMarkerValue
}

// decodeTrack re-parses the container on its own so that nothing from the
// surrounding page can leak into it.
func decodeTrack(container *goquery.Selection) (models.Track, error) {
	var track models.Track

	fragment, err := goquery.OuterHtml(container)
	if err != nil {
		return track, fmt.Errorf("failed to render track container: %w", err)
	}
	doc, err := ParseMarkup(fragment, ModeLiteral)
	if err != nil {
		return track, fmt.Errorf("failed to parse track container: %w", err)
	}

	decodeMeta(doc.Find("div").First(), trackProps, &track)
	return track, nil
}

// TrackIdentifier returns the run of ASCII digits starting right after the
// "/track/" prefix of url, or NoIdentifier when there is none.
func TrackIdentifier(url string) string {
	end := identifierOffset
	for end < len(url) && url[end] >= '0' && url[end] <= '9' {
		end++
	}
	if end <= identifierOffset {
		return NoIdentifier
	}
	return url[identifierOffset:end]
}
