package parse

import (
	"fmt"
	"os"

	"github.com/dtnitsch/tracklist-parser/internal/common"
	"github.com/dtnitsch/tracklist-parser/models"
	"github.com/dtnitsch/tracklist-parser/pkg/render"
	"github.com/dtnitsch/tracklist-parser/pkg/tracklist"
	"github.com/urfave/cli/v2"
)

// ParseAction runs the extractor on a saved page. No network, no history.
func ParseAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	file := c.String("file")
	if file == "" {
		file = c.Args().First()
	}
	if file == "" {
		return cli.Exit("Error: No file provided\n\nUsage:\n  tracklist-parser parse --file page.html", 1)
	}

	config, err := common.LoadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	client := tracklist.NewClient(config.BaseURL)
	tl, err := client.ParseTracklist(string(data))
	if err != nil {
		logger.Error("Error parsing tracklist", "file", file, "error", err)
		return cli.Exit(fmt.Sprintf("%s: %v", models.ErrorType(err), err), 1)
	}
	logger.Debug("Tracklist extracted", "file", file, "tracks", tl.TrackCount)

	return render.Tracklist(c.App.Writer, tl, config.Format)
}
