package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dupx/internal/shared"
	"github.com/desertthunder/dupx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Review launches the interactive terminal UI for marking intentional duplicates.
func (r *Runner) Review(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	reportPath := r.reportPath(cmd)
	allowPath := r.allowlistPath()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/dupx-review.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, reportPath, allowPath)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
