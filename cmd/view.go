package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/session"
)

var viewCmd = &cobra.Command{
	Use:   "view [table|split]",
	Short: "Show or change the persisted view",
	Long: `Shows the persisted view state (filters, sort, mode, selection) or changes it.

The view is shared by list, export, bulk and the TUI. With a mode argument the
list switches between one table and one table per assignee. Including more than
one assignee in the filter switches to split automatically.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().String("layout", "", "board layout (list, kanban)")
	viewCmd.Flags().String("completed", "", "completed tasks (inline, hide, only)")
	viewCmd.Flags().String("when", "", "due-date window (all, today, thisWeek, thisMonth, overdue)")
	viewCmd.Flags().String("search", "", "search text matched against name, assignee and client")
	viewCmd.Flags().String("focus", "", "quick status focus (all, todo, in-progress, blocked, completed, overdue, due-soon)")
	viewCmd.Flags().Bool("reset", false, "discard the persisted view and start from board defaults")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if err := withBoardLock(cfg.Dir(), session.Open(cfg.Dir()).Reset); err != nil {
			return err
		}
	}

	return mutateView(cfg, func(v *board.View) error {
		if len(args) == 1 {
			m, err := board.ParseViewMode(args[0])
			if err != nil {
				return err
			}
			v.SetMode(m)
		}
		return applyViewFlags(cmd, v)
	})
}

func applyViewFlags(cmd *cobra.Command, v *board.View) error {
	if s, _ := cmd.Flags().GetString("layout"); s != "" {
		l, err := board.ParseLayout(s)
		if err != nil {
			return err
		}
		v.Layout = l
	}
	if s, _ := cmd.Flags().GetString("completed"); s != "" {
		c, err := board.ParseCompletedDisplay(s)
		if err != nil {
			return err
		}
		v.Completed = c
	}
	if s, _ := cmd.Flags().GetString("when"); s != "" {
		w, err := board.ParseWindow(s)
		if err != nil {
			return err
		}
		v.Window = w
	}
	if cmd.Flags().Changed("search") {
		v.Search, _ = cmd.Flags().GetString("search")
	}
	if s, _ := cmd.Flags().GetString("focus"); s != "" {
		f, err := board.ParseFocus(s)
		if err != nil {
			return err
		}
		v.Focus = f
	}
	return nil
}

// loadView opens the board's view session.
func loadView(cfg *config.Config) (*session.Store, *board.View, error) {
	store := session.Open(cfg.Dir())
	v, err := store.Load(cfg.Defaults)
	if err != nil {
		return nil, nil, err
	}
	return store, v, nil
}

// mutateView loads the view, applies fn and saves it under the board lock,
// then prints the result.
func mutateView(cfg *config.Config, fn func(v *board.View) error) error {
	var v *board.View
	err := withBoardLock(cfg.Dir(), func() error {
		store, loaded, err := loadView(cfg)
		if err != nil {
			return err
		}
		if err := fn(loaded); err != nil {
			return err
		}
		if err := store.Save(loaded); err != nil {
			return fmt.Errorf("saving view: %w", err)
		}
		v = loaded
		return nil
	})
	if err != nil {
		return err
	}
	return printView(v)
}

func printView(v *board.View) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, v)
	}
	output.ViewState(os.Stdout, v)
	return nil
}
