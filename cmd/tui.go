package cmd

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/session"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timesheet"
	"github.com/twiced-technology-gmbh/taskdeck/internal/tui"
	"github.com/twiced-technology-gmbh/taskdeck/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	stores := tui.Stores{
		Tasks:    task.OpenStore(cfg.TasksPath()),
		Sessions: session.Open(cfg.Dir()),
	}
	sheet, err := timesheet.Open(cfg.Dir())
	if err != nil {
		// The board stays usable; only time booking is lost.
		slog.Warn("timesheet unavailable, timer will not persist", "err", err)
	} else {
		defer sheet.Close() //nolint:errcheck // best-effort close on exit
		stores.Timesheet = sheet
	}

	model := tui.NewBoard(cfg, stores)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	w, err := watcher.New(model.WatchPaths(), func() {
		p.Send(tui.ReloadMsg{})
	}, watcher.Ignore(boardIgnores...))
	if err != nil {
		slog.Debug("live refresh disabled", "err", err)
		return
	}
	defer w.Close()
	w.Run(ctx, func(err error) { slog.Debug("file watcher", "err", err) })
}
