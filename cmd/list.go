package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks through the current view",
	Long: `Lists tasks through the persisted view: filters, search, time window,
completed visibility, focus and sort. Flags override the view for this call only;
use "taskdeck view" to change it permanently.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("mode", "", "view mode for this call (table, split)")
	listCmd.Flags().String("layout", "", "board layout for this call (list, kanban)")
	listCmd.Flags().String("completed", "", "completed tasks (inline, hide, only)")
	listCmd.Flags().String("when", "", "due-date window (all, today, thisWeek, thisMonth, overdue)")
	listCmd.Flags().StringP("search", "s", "", "search text matched against name, assignee and client")
	listCmd.Flags().String("focus", "", "quick status focus (all, todo, in-progress, blocked, completed, overdue, due-soon)")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results (table mode)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, tasks, err := loadTasks(cfg)
	if err != nil {
		return err
	}
	_, v, err := loadView(cfg)
	if err != nil {
		return err
	}
	if s, _ := cmd.Flags().GetString("mode"); s != "" {
		m, err := board.ParseViewMode(s)
		if err != nil {
			return err
		}
		v.SetMode(m)
	}
	if err := applyViewFlags(cmd, v); err != nil {
		return err
	}

	now := time.Now()
	result := v.Apply(tasks, cfg, now)
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(result.Tasks) > limit {
		result.Tasks = result.Tasks[:limit]
		result.Grouped = board.GroupForView(result.Tasks, v.Mode)
	}

	ctx := renderContext(cfg, v)
	ctx.Now = now
	if v.Layout == board.LayoutKanban {
		return outputKanban(cfg, result, ctx)
	}
	return outputGrouped(result, ctx)
}

func outputGrouped(result board.Result, ctx output.Context) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, result)
	case output.FormatCompact:
		output.GroupedCompact(os.Stdout, result.Grouped, ctx)
	default:
		output.GroupedTasks(os.Stdout, result.Grouped, ctx)
	}
	return nil
}

func outputKanban(cfg *config.Config, result board.Result, ctx output.Context) error {
	cols := board.KanbanColumns(result.Tasks, cfg.BoardStatuses())
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, cols)
	case output.FormatCompact:
		output.KanbanCompact(os.Stdout, cols, ctx)
	default:
		output.KanbanTable(os.Stdout, cols, ctx)
	}
	return nil
}
