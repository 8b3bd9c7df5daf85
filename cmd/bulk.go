package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk complete|todo|priority PRIORITY",
	Short: "Apply one change to every selected task",
	Long: `Applies a change to the tasks selected with the select command. Each task is
written in full; a failing task does not stop the others. The selection is cleared
afterwards, whatever the outcome. Prompts for confirmation in interactive mode.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // op and optional priority
	RunE: runBulk,
}

func init() {
	bulkCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(bulkCmd)
}

var errEmptySelection = clierr.New(clierr.EmptySelection, "no tasks selected (see taskdeck select)")

func runBulk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var op board.BulkOp
	switch args[0] {
	case "complete", "done":
		op = board.MarkComplete()
	case "todo", "reopen":
		op = board.MarkTodo()
	case "priority":
		if len(args) != 2 { //nolint:mnd // op and priority
			return clierr.New(clierr.InvalidInput, "bulk priority needs a priority value")
		}
		if err := task.ValidatePriority(args[1], cfg.Priorities); err != nil {
			return err
		}
		op = board.SetPriority(args[1])
	default:
		return clierr.Newf(clierr.InvalidInput, "unknown bulk operation %q (want complete, todo or priority)", args[0])
	}

	_, v, err := loadView(cfg)
	if err != nil {
		return err
	}
	if len(v.Selection.IDs) == 0 {
		return errEmptySelection
	}

	yes, _ := cmd.Flags().GetBool("yes")
	ok, err := confirm(fmt.Sprintf("Apply %s to %d tasks?", op, len(v.Selection.IDs)), yes)
	if err != nil || !ok {
		return err
	}

	var res board.BulkResult
	var bulkErr error
	err = withBoardLock(cfg.Dir(), func() error {
		// Reload under the lock so a concurrent select or filter is not lost.
		views, cur, loadErr := loadView(cfg)
		if loadErr != nil {
			return loadErr
		}
		if len(cur.Selection.IDs) == 0 {
			return errEmptySelection
		}
		store, tasks, loadErr := loadTasks(cfg)
		if loadErr != nil {
			return loadErr
		}
		res, bulkErr = board.BulkMutate(&cur.Selection, tasks, op, store, time.Now())
		return views.Save(cur)
	})
	if err != nil {
		return err
	}

	for _, t := range res.Updated() {
		logActivity(cfg, "bulk", t.ID, op.String())
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, res); err != nil {
			return err
		}
	} else {
		for _, item := range res.Items {
			switch {
			case item.Skipped:
				fmt.Fprintf(os.Stderr, "Warning: task #%d is not on the board, skipped\n", item.ID)
			case !item.OK:
				fmt.Fprintf(os.Stderr, "Error: task #%d: %s\n", item.ID, item.Error)
			}
		}
		output.Messagef(os.Stdout, "%s: updated %d/%d tasks", op, len(res.Updated()), len(res.Items))
	}

	if bulkErr != nil {
		slog.Debug("bulk mutation incomplete", "op", op.String(), "err", bulkErr)
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
