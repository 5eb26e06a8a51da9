package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/dupx/internal/formatter"
	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
	"github.com/urfave/cli/v3"
)

// historyRow is the JSON projection of a recorded scan.
type historyRow struct {
	ID             string    `json:"id"`
	Sequence       int       `json:"sequence"`
	LibraryPath    string    `json:"library_path"`
	TrackCount     int       `json:"track_count"`
	SkippedCount   int       `json:"skipped_count"`
	MetadataGroups int       `json:"metadata_groups"`
	LocationGroups int       `json:"location_groups"`
	DurationMS     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

func newHistoryRow(scan *models.ScanRecord) historyRow {
	return historyRow{
		ID:             scan.ID(),
		Sequence:       scan.Sequence(),
		LibraryPath:    scan.LibraryPath(),
		TrackCount:     scan.TrackCount(),
		SkippedCount:   scan.SkippedCount(),
		MetadataGroups: scan.MetadataGroups(),
		LocationGroups: scan.LocationGroups(),
		DurationMS:     scan.DurationMS(),
		CreatedAt:      scan.CreatedAt(),
	}
}

// HistoryList lists recorded scans, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	criteria := map[string]any{}
	if limit := cmd.Int("limit"); limit > 0 {
		criteria["limit"] = limit
	}
	if lib := cmd.String("library"); lib != "" {
		criteria["library_path"] = lib
	}

	scans, err := r.scans.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		rows := make([]historyRow, 0, len(scans))
		for _, scan := range scans {
			rows = append(rows, newHistoryRow(scan))
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	if len(scans) == 0 {
		r.writePlain("No scans recorded yet. Run 'dupx scan' first.\n")
		return nil
	}

	r.writePlainHeader("Scan History")
	for _, scan := range scans {
		r.writePlain("#%d  %s\n", scan.Sequence(), scan.CreatedAt().Format("2006-01-02 15:04:05"))
		r.writePlain("    ID: %s\n", scan.ID())
		r.writePlain("    Library: %s\n", scan.LibraryPath())
		r.writePlain("    Tracks: %d (%d skipped)\n", scan.TrackCount(), scan.SkippedCount())
		r.writePlain("    Groups: %d metadata, %d location\n", scan.MetadataGroups(), scan.LocationGroups())
		r.writePlain("    Took: %dms\n\n", scan.DurationMS())
	}
	return nil
}

// HistoryShow prints one recorded scan with its stored groups.
//
// The stored groups rebuild the original report, so the listing matches what
// the scan printed when it ran.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	id := cmd.StringArg("id")

	var scan *models.ScanRecord
	var err error
	if id == "" || id == "latest" {
		scan, err = r.scans.Latest()
	} else {
		scan, err = r.scans.Get(id)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotFound, err)
	}

	groups, err := r.scans.GetGroups(scan.ID())
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Scan #%d", scan.Sequence()))
	r.writePlain("ID: %s\n", scan.ID())
	r.writePlain("Recorded: %s\n", scan.CreatedAt().Format(time.RFC3339))
	r.writePlain("Took: %dms\n\n", scan.DurationMS())

	meta, loc := splitGroups(groups)
	report := &models.Report{
		LibraryPath:    scan.LibraryPath(),
		TrackCount:     scan.TrackCount(),
		SkippedCount:   scan.SkippedCount(),
		MetadataGroups: meta,
		LocationGroups: loc,
	}

	data, err := formatter.ReportToText(report)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// HistoryClear deletes one recorded scan, or purges all of them.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	if cmd.Bool("all") {
		removed, err := r.scans.Purge()
		if err != nil {
			return err
		}
		r.writePlain("✓ Removed %d scan(s) and their stored groups\n", removed)
		return nil
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: pass a scan ID or --all", shared.ErrMissingArgument)
	}

	if err := r.scans.Delete(id); err != nil {
		return err
	}

	r.writePlain("✓ Scan %s deleted\n", id)
	return nil
}

// splitGroups partitions stored groups by key kind, preserving stored order.
func splitGroups(groups []models.DuplicateGroup) (meta, loc []models.DuplicateGroup) {
	for _, g := range groups {
		if g.Kind == models.KeyLocation {
			loc = append(loc, g)
		} else {
			meta = append(meta, g)
		}
	}
	return meta, loc
}
