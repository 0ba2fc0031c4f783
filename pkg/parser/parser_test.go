package parser

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dtnitsch/tracklist-parser/models"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

func TestParseTracklist_PlaylistInfo(t *testing.T) {
	p := &Parser{}
	result, err := p.ParseTracklist(loadFixture(t, "tracklist.html"))
	if err != nil {
		t.Fatalf("ParseTracklist() failed: %v", err)
	}

	if result.Name != "Four Tet & Jamie xx @ BBC Radio 1 Essential Mix" {
		t.Errorf("Name = %q", result.Name)
	}
	if result.DatePublished != "2015-03-28" {
		t.Errorf("DatePublished = %q, want %q", result.DatePublished, "2015-03-28")
	}
	if result.NumTracks != "3" {
		t.Errorf("NumTracks = %q, want %q", result.NumTracks, "3")
	}

	wantGenres := []string{"House", "Techno", "House"}
	if !reflect.DeepEqual(result.Genres, wantGenres) {
		t.Errorf("Genres = %v, want %v", result.Genres, wantGenres)
	}
	wantAuthors := []string{"Four Tet", "Jamie xx"}
	if !reflect.DeepEqual(result.Authors, wantAuthors) {
		t.Errorf("Authors = %v, want %v", result.Authors, wantAuthors)
	}
}

func TestParseTracklist_Tracks(t *testing.T) {
	p := &Parser{}
	result, err := p.ParseTracklist(loadFixture(t, "tracklist.html"))
	if err != nil {
		t.Fatalf("ParseTracklist() failed: %v", err)
	}

	want := []models.Track{
		{
			ByArtist:   "Jamie XX",
			Name:       "Gosh",
			Duration:   "PT4M51S",
			Publisher:  "YOUNG TURKS",
			URL:        "/track/246355_jamie-xx-gosh/index.html",
			Identifier: "246355",
			Position:   1,
		},
		{
			ByArtist:   "Four Tet",
			Name:       "Morning Side",
			Duration:   "PT1H2M3S",
			Publisher:  "TEXT",
			URL:        "/track/123456_four-tet-morning-side/index.html",
			Identifier: "123456",
			Position:   2,
		},
		{
			ByArtist:   "ID",
			Name:       "ID",
			URL:        "/track/id-unreleased/index.html",
			Identifier: "@",
			Position:   3,
		},
	}

	if !reflect.DeepEqual(result.Tracks, want) {
		t.Fatalf("Tracks =\n%+v\nwant\n%+v", result.Tracks, want)
	}
	if result.TrackCount != len(result.Tracks) {
		t.Errorf("TrackCount = %d, want %d", result.TrackCount, len(result.Tracks))
	}
}

func TestParseTracklist_PositionsHaveNoGaps(t *testing.T) {
	p := &Parser{}
	result, err := p.ParseTracklist(loadFixture(t, "tracklist.html"))
	if err != nil {
		t.Fatalf("ParseTracklist() failed: %v", err)
	}

	for i, track := range result.Tracks {
		if track.Position != i+1 {
			t.Errorf("Tracks[%d].Position = %d, want %d", i, track.Position, i+1)
		}
	}
	last := result.Tracks[len(result.Tracks)-1].Position
	if last != result.TrackCount {
		t.Errorf("last position = %d, TrackCount = %d", last, result.TrackCount)
	}
}

func TestParseTracklist_Deterministic(t *testing.T) {
	p := &Parser{}
	html := loadFixture(t, "tracklist.html")

	first, err := p.ParseTracklist(html)
	if err != nil {
		t.Fatalf("first ParseTracklist() failed: %v", err)
	}
	second, err := p.ParseTracklist(html)
	if err != nil {
		t.Fatalf("second ParseTracklist() failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between runs:\n%+v\n%+v", first, second)
	}
}

func TestParseTracklist_EmptyMarkup(t *testing.T) {
	p := &Parser{}
	result, err := p.ParseTracklist("")
	if !errors.Is(err, models.ErrEmptyMarkup) {
		t.Fatalf("ParseTracklist(\"\") error = %v, want ErrEmptyMarkup", err)
	}
	if result != nil {
		t.Errorf("ParseTracklist(\"\") result = %+v, want nil", result)
	}
}

func TestParseTracklist_MissingLandmark(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantStep models.Step
	}{
		{
			name:     "no middleDiv",
			html:     `<html><body><div id="content"><table><tr><td><div></div></td></tr></table></div></body></html>`,
			wantStep: models.StepMetadata,
		},
		{
			name:     "middleDiv without table",
			html:     `<div id="middleDiv"><p>Nothing here</p></div>`,
			wantStep: models.StepMetadata,
		},
		{
			name:     "no track table",
			html:     loadFixture(t, "no_track_table.html"),
			wantStep: models.StepTracks,
		},
	}

	p := &Parser{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.ParseTracklist(tt.html)
			var landmarkErr *models.LandmarkError
			if !errors.As(err, &landmarkErr) {
				t.Fatalf("error = %v, want *models.LandmarkError", err)
			}
			if landmarkErr.Step != tt.wantStep {
				t.Errorf("Step = %q, want %q", landmarkErr.Step, tt.wantStep)
			}
			if result != nil {
				t.Errorf("result = %+v, want nil on error", result)
			}
		})
	}
}

func TestParseTracklist_SkipsUnmarkedElements(t *testing.T) {
	html := `<div id="middleDiv"><table><tr><td><div>
		<meta itemprop="name" content="Mix">
		<table>
			<tr><td>
				<div itemprop="track"><meta itemprop="name" content="wrong value"></div>
				<div><meta itemprop="name" content="no marker"></div>
				<div itemprop="tracks"><meta itemprop="name" content="First"></div>
				<span itemprop="tracks"><meta itemprop="name" content="not a div"></span>
			</td></tr>
			<tr><th>header</th></tr>
			<tr><td><div itemprop="tracks"><meta itemprop="name" content="Second"></div></td></tr>
		</table>
	</div></td></tr></table></div>`

	p := &Parser{}
	result, err := p.ParseTracklist(html)
	if err != nil {
		t.Fatalf("ParseTracklist() failed: %v", err)
	}

	var names []string
	for _, track := range result.Tracks {
		names = append(names, track.Name)
	}
	if want := []string{"First", "Second"}; !reflect.DeepEqual(names, want) {
		t.Errorf("track names = %v, want %v", names, want)
	}
	if result.Tracks[1].Position != 2 {
		t.Errorf("second track position = %d, want 2", result.Tracks[1].Position)
	}
}

func TestParseTracklist_AbsentFieldsStayEmpty(t *testing.T) {
	html := `<div id="middleDiv"><table><tr><td><div>
		<meta itemprop="numTracks" content="0">
		<table></table>
	</div></td></tr></table></div>`

	p := &Parser{}
	result, err := p.ParseTracklist(html)
	if err != nil {
		t.Fatalf("ParseTracklist() failed: %v", err)
	}

	if result.Name != "" || result.DatePublished != "" {
		t.Errorf("expected absent fields to stay empty, got %+v", result.PlaylistInfo)
	}
	if result.Genres == nil || len(result.Genres) != 0 {
		t.Errorf("Genres = %#v, want empty non-nil slice", result.Genres)
	}
	if result.Authors == nil || len(result.Authors) != 0 {
		t.Errorf("Authors = %#v, want empty non-nil slice", result.Authors)
	}
	if result.TrackCount != 0 || len(result.Tracks) != 0 {
		t.Errorf("expected no tracks, got %d", result.TrackCount)
	}
}

func TestParseTracklist_LastValueWins(t *testing.T) {
	html := `<div id="middleDiv"><table><tr><td><div>
		<meta itemprop="name" content="Old">
		<meta itemprop="name" content="New">
		<meta itemprop="author" content="A">
		<meta itemprop="author" content="B">
		<meta itemprop="author" content="C">
		<table></table>
	</div></td></tr></table></div>`

	p := &Parser{}
	result, err := p.ParseTracklist(html)
	if err != nil {
		t.Fatalf("ParseTracklist() failed: %v", err)
	}
	if result.Name != "New" {
		t.Errorf("Name = %q, want %q", result.Name, "New")
	}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(result.Authors, want) {
		t.Errorf("Authors = %v, want %v", result.Authors, want)
	}
}

func TestTrackIdentifier(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"/track/246355_jamie-xx-gosh/index.html", "246355"},
		{"/track/7/index.html", "7"},
		{"/track/999", "999"},
		{"/track/id-unknown/index.html", "@"},
		{"/track/_246355/index.html", "@"},
		{"/track/", "@"},
		{"/tr", "@"},
		{"", "@"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := TrackIdentifier(tt.url); got != tt.want {
				t.Errorf("TrackIdentifier(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseMarkup_Modes(t *testing.T) {
	html := `<table><tr><td>cell</td></tr></table>`

	lenient, err := ParseMarkup(html, ModeLenient)
	if err != nil {
		t.Fatalf("ParseMarkup(lenient) failed: %v", err)
	}
	if got := lenient.Find("table").ChildrenFiltered("tr").Length(); got != 0 {
		t.Errorf("lenient: table has %d direct tr children, want 0 (tbody inserted)", got)
	}
	if got := lenient.Find("body").Length(); got != 1 {
		t.Errorf("lenient: body count = %d, want 1", got)
	}

	literal, err := ParseMarkup(html, ModeLiteral)
	if err != nil {
		t.Fatalf("ParseMarkup(literal) failed: %v", err)
	}
	if got := literal.Find("table").ChildrenFiltered("tr").Length(); got != 1 {
		t.Errorf("literal: table has %d direct tr children, want 1", got)
	}
	if got := literal.Find("body").Length(); got != 0 {
		t.Errorf("literal: body count = %d, want 0", got)
	}

	if _, err := ParseMarkup(html, Mode(42)); err == nil {
		t.Error("ParseMarkup with unknown mode should fail")
	}
}

func TestParseLiteral_Recovery(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		selector string
		want     string
	}{
		{
			name:     "unclosed span closed by parent end tag",
			html:     `<div id="a"><span>one</div><div id="b">two</div>`,
			selector: "#b",
			want:     "two",
		},
		{
			name:     "stray end tag ignored",
			html:     `<div id="a"></span><p id="b">kept</p></div>`,
			selector: "#a > #b",
			want:     "kept",
		},
		{
			name:     "void element takes no children",
			html:     `<div id="a"><meta itemprop="x"><p id="b">sibling</p></div>`,
			selector: "#a > #b",
			want:     "sibling",
		},
		{
			name:     "unclosed elements at EOF",
			html:     `<div id="a"><div id="b">open`,
			selector: "#a > #b",
			want:     "open",
		},
		{
			name:     "script content is raw text",
			html:     `<script>document.write("<div id='b'>fake</div>")</script><div id="b">real</div>`,
			selector: "#b",
			want:     "real",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseMarkup(tt.html, ModeLiteral)
			if err != nil {
				t.Fatalf("ParseMarkup() failed: %v", err)
			}
			sel := doc.Find(tt.selector)
			if sel.Length() != 1 {
				t.Fatalf("selector %q matched %d elements, want 1", tt.selector, sel.Length())
			}
			if got := strings.TrimSpace(sel.Text()); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTracklist_ConcurrentUse(t *testing.T) {
	p := &Parser{}
	html := loadFixture(t, "tracklist.html")

	want, err := p.ParseTracklist(html)
	if err != nil {
		t.Fatalf("ParseTracklist() failed: %v", err)
	}

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			got, err := p.ParseTracklist(html)
			if err == nil && !reflect.DeepEqual(got, want) {
				err = errors.New("concurrent result differs")
			}
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-errs; err != nil {
			t.Error(err)
		}
	}
}
