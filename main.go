package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dtnitsch/tracklist-parser/internal/db"
	"github.com/dtnitsch/tracklist-parser/internal/fetch"
	"github.com/dtnitsch/tracklist-parser/internal/parse"
	"github.com/dtnitsch/tracklist-parser/models"
	"github.com/dtnitsch/tracklist-parser/pkg/render"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	globalFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   models.DefaultConfigFile,
			Usage:   "YAML config file (optional unless set explicitly)",
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "site root the tracklist paths are resolved against",
			EnvVars: []string{"TRACKLIST_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "db",
			Usage:   "history database path (default: next to the binary)",
			EnvVars: []string{"TRACKLIST_DB"},
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only log errors",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log debug output",
		},
	}

	formatFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "output format: " + strings.Join(render.Formats, ", "),
		}
	}

	return &cli.App{
		Name:  "tracklist-parser",
		Usage: "Extract DJ-mix tracklists from 1001tracklists pages.",
		Flags: globalFlags,
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Fetch one tracklist and print it",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write output to a file instead of stdout"},
					&cli.BoolFlag{Name: "no-history", Usage: "do not record the attempt"},
				},
				Action: fetch.GetAction,
			},
			{
				Name:      "fetch",
				Usage:     "Fetch many tracklists concurrently and print a run summary",
				ArgsUsage: "[path...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "paths", Aliases: []string{"p"}, Usage: "comma-separated tracklist paths or page URLs"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "concurrent fetches", EnvVars: []string{"TRACKLIST_WORKERS"}},
					&cli.BoolFlag{Name: "failed-only", Usage: "retry the failed paths of a previous run"},
					&cli.StringFlag{Name: "run", Usage: "run id for --failed-only (default: latest run)"},
					&cli.BoolFlag{Name: "tracks", Usage: "include the extracted tracklists in the output"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "summary format: json, yaml"},
				},
				Action: fetch.FetchAction,
			},
			{
				Name:      "parse",
				Usage:     "Extract a tracklist from a saved HTML page",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{Name: "file", Usage: "HTML file to parse"},
				},
				Action: parse.ParseAction,
			},
			{
				Name:  "history",
				Usage: "List recorded fetch attempts",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "max attempts to show (0 = all)"},
					&cli.BoolFlag{Name: "failed", Usage: "only failed attempts"},
				},
				Action: db.HistoryAction,
			},
			{
				Name:      "run",
				Usage:     "Show the attempts of one fetch run",
				ArgsUsage: "[run-id]",
				Action:    db.RunAction,
			},
		},
	}
}
