package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nicktu12/list-refresher/internal/shared"
	"github.com/nicktu12/list-refresher/internal/tasks"
	"github.com/nicktu12/list-refresher/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for playlist refresh.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/listr-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine := r.engine
	if repo, closeDB, err := r.openRunRepository(); err != nil {
		r.logger.Warnf("run history unavailable, continuing without recording: %v", err)
	} else {
		defer closeDB()
		engine = tasks.NewRefreshEngine(r.spotify, repo)
	}

	opts := tasks.RefreshOpts{RateLimit: r.config.Refresh.RateLimit}

	model := ui.NewModel(ctx, r.spotify, engine, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
