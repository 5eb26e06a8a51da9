package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/dupx/internal/formatter"
	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Scan runs the duplicate scan pipeline end to end.
//
// The machine-readable report.json always lands in the output directory so
// evaluate, review and serve can find it; the display format is written
// alongside when it differs.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	libraryPath := cmd.String("library")
	if libraryPath == "" {
		libraryPath = r.config.Library.Path
	}
	format := cmd.String("format")
	if format == "" {
		format = r.config.Output.Format
	}
	outputPath := cmd.String("output")
	useStdout := cmd.Bool("stdout")

	persist := !cmd.Bool("no-save")
	if persist {
		if err := r.ensureDatabase(); err != nil {
			r.logger.Warn("scan history disabled", "error", err)
			persist = false
		}
	}

	r.logger.Info("starting scan", "library", libraryPath, "format", format)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.LoadLibrary:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.BuildKeys:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.GroupTracks:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Scan(ctx, progressCh, libraryPath)
	close(progressCh)

	if err != nil {
		return err
	}

	report := result.Report

	r.writePlain("\n")
	r.writePlainHeader("Scan Complete")
	r.writePlain("Library: %s\n", report.LibraryPath)
	r.writePlain("Tracks: %d (%d skipped)\n", report.TrackCount, report.SkippedCount)
	r.writePlain("Metadata groups: %d\n", len(report.MetadataGroups))
	r.writePlain("Location groups: %d\n", len(report.LocationGroups))
	r.writePlain("Elapsed: %s\n", result.Elapsed.Round(time.Millisecond))

	if persist {
		scan := models.NewScanRecord(0, report.LibraryPath, report.TrackCount, report.SkippedCount,
			len(report.MetadataGroups), len(report.LocationGroups), result.Elapsed.Milliseconds())
		if err := r.scans.Create(scan); err != nil {
			r.logger.Warn("failed to record scan", "error", err)
		} else if err := r.scans.SaveGroups(scan.ID(), report.Groups()); err != nil {
			r.logger.Warn("failed to record groups", "error", err)
		} else {
			r.logger.Info("scan recorded", "id", scan.ID())
		}
	}

	if useStdout {
		data, err := renderReport(report, format)
		if err != nil {
			return err
		}
		return r.writePlain("\n%s", data)
	}

	if err := os.MkdirAll(r.config.Output.Dir, 0755); err != nil {
		r.logger.Warn("failed to create output directory", "error", err)
	}

	jsonPath := filepath.Join(r.config.Output.Dir, formatter.DefaultReportName("json"))
	exportPath, err := formatter.WriteReportExport(report, "json", jsonPath)
	if err != nil {
		return err
	}

	if format != "json" || outputPath != "" {
		if outputPath == "" {
			outputPath = filepath.Join(r.config.Output.Dir, formatter.DefaultReportName(format))
		}
		if exportPath, err = formatter.WriteReportExport(report, format, outputPath); err != nil {
			return err
		}
	}

	r.writePlain("\n✓ Report written to %s\n", exportPath)
	if report.GroupCount() > 0 {
		r.writePlain("Run 'dupx review' to mark intentional duplicates, or 'dupx evaluate' to pick keepers.\n")
	}
	return nil
}

// renderReport produces the report bytes for one display format.
func renderReport(report *models.Report, format string) ([]byte, error) {
	switch format {
	case "csv":
		return formatter.ReportToCSV(report)
	case "markdown":
		return formatter.ReportToMarkdown(report)
	case "html":
		return formatter.RenderReportHTML(report)
	case "json":
		return formatter.ReportToJSON(report)
	default:
		return formatter.ReportToText(report)
	}
}
