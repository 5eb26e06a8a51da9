// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by every command so any invocation can point at an
// alternate configuration file.
func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles configuration and database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize configuration, database and output directories",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the resolved configuration",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SetupShow,
			},
		},
	}
}

// scanCommand runs the duplicate scan pipeline.
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan the library export for duplicate tracks",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "library",
				Aliases: []string{"l"},
				Usage:   "Path to the exported library XML",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format (text, json, csv, markdown, html)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report file path",
			},
			&cli.BoolFlag{
				Name:  "stdout",
				Usage: "Print the report instead of writing files",
			},
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "Skip recording the scan in history",
			},
		},
		Action: r.Scan,
	}
}

// evaluateCommand scores duplicate groups against the filesystem.
func evaluateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "evaluate",
		Aliases: []string{"eval"},
		Usage:   "Score duplicate group members and pick a keeper per group",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "report",
				Usage: "Report to evaluate (defaults to the last scan)",
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "Directory for evaluation artifacts",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the HTML evaluation in a browser",
			},
			&cli.BoolFlag{
				Name:  "skip-allowlist",
				Usage: "Evaluate allowlisted groups too",
			},
		},
		Action: r.Evaluate,
	}
}

// similarCommand finds near-duplicates by fuzzy identity match.
func similarCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "similar",
		Aliases: []string{"sim"},
		Usage:   "Find near-duplicate tracks whose exact keys differ",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "library",
				Aliases: []string{"l"},
				Usage:   "Path to the exported library XML",
			},
			&cli.FloatFlag{
				Name:  "threshold",
				Usage: "Similarity threshold between 0 and 1",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Similar,
	}
}

// allowlistCommand manages intentional duplicate groups.
func allowlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "allowlist",
		Aliases: []string{"allow"},
		Usage:   "Manage groups excluded from evaluation",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "List allowlist entries with their indexes",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.AllowlistShow,
			},
			{
				Name:  "add",
				Usage: "Add a group of track IDs to the allowlist",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "kind",
						Usage:    "Key kind (metadata or location)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "ids",
						Usage:    "Comma-separated member track IDs",
						Required: true,
					},
				},
				Action: r.AllowlistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove the entry at an index",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:     "index",
						Usage:    "Entry index from 'allowlist show'",
						Required: true,
					},
				},
				Action: r.AllowlistRemove,
			},
		},
	}
}

// reviewCommand launches the interactive group review TUI.
func reviewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "review",
		Aliases: []string{"ui"},
		Usage:   "Interactively review duplicate groups and build the allowlist",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "report",
				Usage: "Report to review (defaults to the last scan)",
			},
		},
		Action: r.Review,
	}
}

// historyCommand inspects recorded scans.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect recorded scans",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded scans, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of scans to return",
						Value: 20,
					},
					&cli.StringFlag{
						Name:    "library",
						Aliases: []string{"l"},
						Usage:   "Only scans of this library path",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one recorded scan with its stored groups",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.HistoryShow,
			},
			{
				Name:  "clear",
				Usage: "Delete a recorded scan, or all of them",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Permanently remove every recorded scan",
					},
				},
				Action: r.HistoryClear,
			},
		},
	}
}

// serveCommand hosts the duplicate report viewer.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the duplicate report over HTTP",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Address to bind",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the report in a browser",
			},
		},
		Action: r.Serve,
	}
}

// cacheCommand manages the parsed-library cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the parsed-library cache",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the cache entry for a library export",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "library",
						Aliases: []string{"l"},
						Usage:   "Path to the exported library XML",
					},
				},
				Action: r.CacheShow,
			},
			{
				Name:  "evict",
				Usage: "Drop the cache entry for a library export",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "library",
						Aliases: []string{"l"},
						Usage:   "Path to the exported library XML",
					},
				},
				Action: r.CacheEvict,
			},
			{
				Name:  "clear",
				Usage: "Drop every cached library",
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.CacheClear,
			},
		},
	}
}
