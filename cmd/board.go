package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/filelock"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/session"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timesheet"
	"github.com/twiced-technology-gmbh/taskdeck/internal/watcher"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary"},
	Short:   "Show board summary",
	Long: `Displays a summary of the board: task counts per status, overdue and due-soon
counts, and the priority and assignee distribution.

With --kanban the tasks of the current view are shown in status columns instead.
Use --watch to re-render whenever task files change on disk. Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the board on file changes")
	boardCmd.Flags().Bool("kanban", false, "show the current view as status columns")
}

func runBoard(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kanban, _ := cmd.Flags().GetBool("kanban")

	if err := renderBoard(cfg, kanban); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}
	return watchBoard(cfg, kanban)
}

func renderBoard(cfg *config.Config, kanban bool) error {
	_, tasks, err := loadTasks(cfg)
	if err != nil {
		return err
	}
	now := time.Now()

	if kanban {
		_, v, err := loadView(cfg)
		if err != nil {
			return err
		}
		v.Layout = board.LayoutKanban
		ctx := renderContext(cfg, v)
		return outputKanban(cfg, v.Apply(tasks, cfg, now), ctx)
	}

	summary := board.Summary(cfg, tasks, now)
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, summary)
	default:
		output.OverviewTable(os.Stdout, summary)
	}
	return nil
}

// boardIgnores are files the engine itself rewrites; changes to them never
// alter what the board shows.
var boardIgnores = []string{session.FileName, timesheet.FileName, filelock.FileName, board.LogFileName}

func watchBoard(cfg *config.Config, kanban bool) error {
	watchPaths := []string{cfg.TasksPath(), cfg.Dir()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(watchPaths, func() {
		clearScreen()
		freshCfg, loadErr := config.Load(cfg.Dir())
		if loadErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: reloading config: %v\n", loadErr)
			freshCfg = cfg
		}
		if renderErr := renderBoard(freshCfg, kanban); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering board: %v\n", renderErr)
		}
	}, watcher.Ignore(boardIgnores...))
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
