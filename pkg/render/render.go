// Package render turns an extracted tracklist into the output formats the
// CLI offers. None of this is needed by the extraction pipeline itself.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dtnitsch/tracklist-parser/models"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
	FormatM3U   = "m3u"
	FormatTable = "table"
)

// Formats lists every supported format, for flag help.
var Formats = []string{FormatJSON, FormatYAML, FormatCSV, FormatM3U, FormatTable}

// Tracklist writes tl to w in the given format.
func Tracklist(w io.Writer, tl *models.Tracklist, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return Marshal(w, tl, FormatJSON)
	case FormatYAML:
		return Marshal(w, tl, FormatYAML)
	case FormatCSV:
		return writeCSV(w, tl)
	case FormatM3U:
		_, err := io.WriteString(w, m3u(tl))
		return err
	case FormatTable:
		_, err := io.WriteString(w, tableView(tl)+"\n")
		return err
	default:
		return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Marshal writes any value as indented JSON or YAML.
func Marshal(w io.Writer, v any, format string) error {
	var data []byte
	var err error
	switch strings.ToLower(format) {
	case FormatYAML:
		data, err = yaml.Marshal(v)
	case FormatJSON, "":
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("format %q is not supported here (want json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

var csvHeader = []string{"position", "identifier", "byArtist", "name", "duration", "publisher", "url"}

func writeCSV(w io.Writer, tl *models.Tracklist) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tl.Tracks {
		row := []string{strconv.Itoa(t.Position), t.Identifier, t.ByArtist, t.Name, t.Duration, t.Publisher, t.URL}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// m3u renders an extended M3U listing. Entries point at the track pages since
// there are no local files; unknown durations are written as -1.
func m3u(tl *models.Tracklist) string {
	var sb strings.Builder
	sb.WriteString("#EXTM3U\n")
	if tl.Name != "" {
		fmt.Fprintf(&sb, "#PLAYLIST:%s\n", tl.Name)
	}
	for _, t := range tl.Tracks {
		seconds, ok := t.DurationSeconds()
		if !ok {
			seconds = -1
		}
		fmt.Fprintf(&sb, "#EXTINF:%d,%s\n", seconds, trackTitle(t))
		sb.WriteString(t.URL)
		sb.WriteString("\n")
	}
	return sb.String()
}

func trackTitle(t models.Track) string {
	switch {
	case t.ByArtist != "" && t.Name != "":
		return t.ByArtist + " - " + t.Name
	case t.Name != "":
		return t.Name
	default:
		return t.ByArtist
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

func tableView(tl *models.Tracklist) string {
	rows := make([][]string, 0, len(tl.Tracks))
	for _, t := range tl.Tracks {
		rows = append(rows, []string{
			strconv.Itoa(t.Position),
			t.ByArtist,
			t.Name,
			t.Publisher,
			t.Duration,
			t.Identifier,
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Artist", "Title", "Label", "Duration", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	var sb strings.Builder
	if tl.Name != "" {
		sb.WriteString(titleStyle.Render(tl.Name))
		sb.WriteString("\n")
	}
	var details []string
	if tl.DatePublished != "" {
		details = append(details, tl.DatePublished)
	}
	if len(tl.Authors) > 0 {
		details = append(details, "by "+strings.Join(tl.Authors, ", "))
	}
	if len(tl.Genres) > 0 {
		details = append(details, strings.Join(tl.Genres, " / "))
	}
	if len(details) > 0 {
		sb.WriteString(faintStyle.Render(strings.Join(details, " · ")))
		sb.WriteString("\n")
	}
	sb.WriteString(tbl.String())
	return sb.String()
}
