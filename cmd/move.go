package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

var moveCmd = &cobra.Command{
	Use:   "move ID[,ID,...] [STATUS]",
	Short: "Move a task to a different status",
	Long: `Changes the status of a task. Provide the new status directly,
or use --next/--prev to move along the configured status order.
Moving into completed stamps the completion time; moving out clears it.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runMove,
}

func init() {
	moveCmd.Flags().Bool("next", false, "move to next status")
	moveCmd.Flags().Bool("prev", false, "move to previous status")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := task.OpenStore(cfg.TasksPath())

	return withBoardLock(cfg.Dir(), func() error {
		if len(ids) == 1 {
			return moveSingleTask(cfg, store, ids[0], cmd, args)
		}
		return runBatch(ids, func(id int) error {
			_, _, err := executeMove(cfg, store, id, cmd, args)
			return err
		})
	})
}

// moveResult wraps a task with a changed flag for JSON output.
type moveResult struct {
	*task.Task
	Changed bool `json:"changed"`
}

// moveSingleTask handles a single task move with full output.
func moveSingleTask(cfg *config.Config, store *task.Store, id int, cmd *cobra.Command, args []string) error {
	t, oldStatus, err := executeMove(cfg, store, id, cmd, args)
	if err != nil {
		return err
	}

	// Idempotent: status didn't change.
	if oldStatus == "" {
		return outputMoveResult(t, false)
	}

	if outputFormat() == output.FormatJSON {
		return outputMoveResult(t, true)
	}

	output.Messagef(os.Stdout, "Moved task #%d: %s -> %s", id, oldStatus, t.Status)
	return nil
}

// executeMove returns (task, oldStatus, error). When the task already has the
// target status nothing is written and oldStatus is empty.
func executeMove(cfg *config.Config, store *task.Store, id int, cmd *cobra.Command, args []string) (*task.Task, string, error) {
	cur, err := store.Load(id)
	if err != nil {
		return nil, "", err
	}

	newStatus, err := resolveTargetStatus(cmd, args, cur, cfg)
	if err != nil {
		return nil, "", err
	}
	if cur.Status == newStatus {
		return cur, "", nil
	}

	t := cur.Clone()
	task.SetStatus(t, newStatus, time.Now())
	if err := store.UpdateTask(t); err != nil {
		return nil, "", err
	}

	logActivity(cfg, "move", id, cur.Status+" -> "+newStatus)
	return t, cur.Status, nil
}

func resolveTargetStatus(cmd *cobra.Command, args []string, t *task.Task, cfg *config.Config) (string, error) {
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")
	names := cfg.BoardStatuses()
	idx := config.IndexOf(names, t.Status)

	switch {
	case len(args) == 2: //nolint:mnd // positional arg
		status := args[1]
		if err := task.ValidateStatus(status, names); err != nil {
			return "", err
		}
		return status, nil
	case next:
		if idx < 0 || idx >= len(names)-1 {
			return "", boundaryError(t, "last")
		}
		return names[idx+1], nil
	case prev:
		if idx <= 0 {
			return "", boundaryError(t, "first")
		}
		return names[idx-1], nil
	default:
		return "", clierr.New(clierr.InvalidInput, "provide a target status or use --next/--prev")
	}
}

func boundaryError(t *task.Task, edge string) error {
	return clierr.Newf(clierr.InvalidStatus, "task #%d is already at the %s status (%s)", t.ID, edge, t.Status).
		WithDetails(map[string]any{"id": t.ID, "status": t.Status})
}

func outputMoveResult(t *task.Task, changed bool) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, moveResult{Task: t, Changed: changed})
	}
	if !changed {
		output.Messagef(os.Stdout, "Task #%d is already at %s", t.ID, t.Status)
	}
	return nil
}
