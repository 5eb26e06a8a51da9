package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/desertthunder/dupx/internal/allowlist"
	"github.com/desertthunder/dupx/internal/formatter"
	"github.com/desertthunder/dupx/internal/shared"
	"github.com/desertthunder/dupx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Evaluate scores every group in the report and writes the verdict artifacts.
func (r *Runner) Evaluate(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	reportPath := r.reportPath(cmd)
	outputDir := cmd.String("output-dir")
	if outputDir == "" {
		outputDir = r.config.Output.Dir
	}

	report, err := formatter.ReadReport(reportPath)
	if err != nil {
		return err
	}

	if report.GroupCount() == 0 {
		r.writePlain("No duplicate groups in %s, nothing to evaluate.\n", reportPath)
		return nil
	}

	lib, err := r.library.Load(ctx, report.LibraryPath)
	if err != nil {
		return err
	}

	opts := tasks.EvaluateOpts{
		NumWorkers: r.config.Scan.ProbeWorkers,
		ProbeRate:  float64(r.config.Scan.ProbeRate),
	}
	if !cmd.Bool("skip-allowlist") {
		allow, err := allowlist.Load(r.allowlistPath())
		if err != nil {
			return err
		}
		opts.Exclude = allow
	}

	r.logger.Info("evaluating report", "report", reportPath, "groups", report.GroupCount(), "workers", opts.NumWorkers)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.ProbeFiles:
				if update.Step == 0 {
					r.writePlain("🔍 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.ScoreGroups:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	eval, err := r.engine.Evaluate(ctx, progressCh, report, lib, opts)
	close(progressCh)

	if err != nil {
		return err
	}
	eval.ReportPath = reportPath

	r.writePlain("\n")
	r.writePlainHeader("Evaluation Complete")
	r.writePlain("Groups: %d evaluated, %d allowlisted\n", eval.GroupCount, eval.Allowlisted)
	r.writePlain("Verdicts: %d keep, %d remove\n", eval.KeepCount, eval.RemoveCount)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		r.logger.Warn("failed to create output directory", "error", err)
	}

	jsonPath, err := formatter.WriteEvaluationExport(eval, "json", filepath.Join(outputDir, "evaluation.json"))
	if err != nil {
		return err
	}
	textPath, err := formatter.WriteEvaluationExport(eval, "text", filepath.Join(outputDir, "evaluation.txt"))
	if err != nil {
		return err
	}
	htmlPath, err := formatter.WriteEvaluationHTML(eval, filepath.Join(outputDir, "evaluation.html"))
	if err != nil {
		return err
	}

	r.writePlain("\n✓ Evaluation written to %s\n", jsonPath)
	r.writePlain("  Text: %s\n", textPath)
	r.writePlain("  HTML: %s\n", htmlPath)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(htmlPath); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlain("⚠ Could not open browser. Open %s manually.\n", htmlPath)
		}
	}

	return nil
}
