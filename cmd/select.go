package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
)

var selectCmd = &cobra.Command{
	Use:   "select [ID]",
	Short: "Click tasks of the persisted view into the selection",
	Long: `Applies a row click to the persisted view. In multi-select mode a click toggles
the task; with --shift it adds every visible task between the last selected one and
ID. Outside multi-select a click expands or collapses a task's subtasks.

--all selects every visible task (or clears the selection when all are selected)
and turns multi-select on. The selection feeds the bulk command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSelect,
}

func init() {
	selectCmd.Flags().Bool("shift", false, "extend the selection from the last selected task")
	selectCmd.Flags().Bool("all", false, "select all visible tasks, or none if all are selected")
	selectCmd.Flags().Bool("clear", false, "clear the selection and leave multi-select")
	selectCmd.Flags().String("multi", "", "turn multi-select on or off")
	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	shift, _ := cmd.Flags().GetBool("shift")
	all, _ := cmd.Flags().GetBool("all")
	clearSel, _ := cmd.Flags().GetBool("clear")
	multi, _ := cmd.Flags().GetString("multi")

	var id int
	if len(args) == 1 {
		var err error
		if id, err = parseTaskID(args[0]); err != nil {
			return err
		}
	} else if shift {
		return clierr.New(clierr.InvalidInput, "--shift needs a task ID")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, tasks, err := loadTasks(cfg)
	if err != nil {
		return err
	}

	return mutateView(cfg, func(v *board.View) error {
		sel := &v.Selection
		switch multi {
		case "":
		case "on", "true":
			sel.SetMultiSelect(true)
		case "off", "false":
			sel.SetMultiSelect(false)
		default:
			return clierr.Newf(clierr.InvalidInput, "invalid --multi value %q (want on or off)", multi)
		}
		if clearSel {
			sel.Clear()
		}

		order := v.Apply(tasks, cfg, time.Now()).Order
		if all {
			sel.SelectAll(order)
		}
		if id == 0 {
			return nil
		}

		var hasSubtasks, found bool
		for _, t := range tasks {
			if t.ID == id {
				found = true
				hasSubtasks = t.HasSubtasks()
			}
		}
		if !found {
			return clierr.Newf(clierr.TaskNotFound, "task #%d not found", id).
				WithDetails(map[string]any{"id": id})
		}
		sel.Click(id, board.ClickEvent{Shift: shift}, order, hasSubtasks)
		if !sel.MultiSelect && !shift && !hasSubtasks {
			fmt.Fprintln(os.Stderr, "Hint: turn on multi-select with --multi on to select single tasks")
		}
		return nil
	})
}
