package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
)

var sortCmd = &cobra.Command{
	Use:   "sort [COLUMN|clear]",
	Short: "Click a column header of the persisted view",
	Long: `Sorting by a column behaves like clicking its header: the first click sorts
ascending, the second descending, the third returns to the default order (completed
last, then overdue, then due soon, then by due date).

Columns: task, assignee, client, list, status, priority, dueDate.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSort,
}

func init() {
	sortCmd.Flags().String("order", "", "set the direction directly (asc, desc) instead of cycling")
	rootCmd.AddCommand(sortCmd)
}

func runSort(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		_, v, err := loadView(cfg)
		if err != nil {
			return err
		}
		return printView(v)
	}

	if args[0] == "clear" || args[0] == "default" {
		return mutateView(cfg, func(v *board.View) error {
			v.Sort = board.SortSpec{}
			return nil
		})
	}

	col, err := board.ParseColumn(args[0])
	if err != nil {
		return err
	}
	order, _ := cmd.Flags().GetString("order")
	var dir board.Direction
	if order != "" {
		if dir, err = board.ParseDirection(order); err != nil {
			return err
		}
	}
	return mutateView(cfg, func(v *board.View) error {
		if dir == "" {
			v.ClickSort(col)
		} else {
			v.Sort = board.SortSpec{Column: col, Direction: dir}
		}
		return nil
	})
}
