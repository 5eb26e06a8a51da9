package main

import (
	"context"

	"github.com/desertthunder/dupx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Similar finds near-duplicate track pairs by fuzzy identity match.
func (r *Runner) Similar(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	libraryPath := cmd.String("library")
	if libraryPath == "" {
		libraryPath = r.config.Library.Path
	}
	threshold := cmd.Float("threshold")
	if threshold == 0 {
		threshold = r.config.Scan.FuzzyThreshold
	}
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	r.logger.Info("finding similar tracks", "library", libraryPath, "threshold", threshold)

	lib, err := r.library.Load(ctx, libraryPath)
	if err != nil {
		return err
	}

	r.writePlain("📥 Loaded %d tracks (%d skipped)\n", len(lib.Tracks), lib.Skipped)
	r.writePlain("🔍 Comparing track identities at threshold %.2f...\n", threshold)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			// Per-track comparison updates carry a total; matches do not.
			if update.Phase == tasks.CompareTracks && update.Total == 0 {
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	pairs, err := r.engine.Similar(ctx, progressCh, lib, threshold)
	close(progressCh)

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(pairs, pretty)
	}

	r.writePlain("\n")
	r.writePlainHeader("Similar Tracks")
	if len(pairs) == 0 {
		r.writePlain("No pairs at or above %.2f.\n", threshold)
		return nil
	}

	r.writePlain("Found %d pair(s):\n\n", len(pairs))
	for i, pair := range pairs {
		r.writePlain("%d. score %.2f\n", i+1, pair.Score)
		r.writePlain("   %d. %s - %s\n", pair.A.ID, pair.A.Artist, pair.A.Title)
		r.writePlain("   %d. %s - %s\n", pair.B.ID, pair.B.Artist, pair.B.Title)
	}
	return nil
}
