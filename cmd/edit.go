package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID[,ID,...]",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("name", "", "new name")
	editCmd.Flags().String("status", "", "new status")
	editCmd.Flags().String("priority", "", "new priority")
	editCmd.Flags().String("assignee", "", "new assignee")
	editCmd.Flags().Bool("clear-assignee", false, "unassign the task")
	editCmd.Flags().String("due", "", "new due date (YYYY-MM-DD or RFC 3339)")
	editCmd.Flags().Bool("clear-due", false, "clear due date")
	editCmd.Flags().String("project", "", "new project ID")
	editCmd.Flags().Bool("clear-project", false, "detach the task from its project")
	editCmd.Flags().String("list", "", "new task list ID")
	editCmd.Flags().StringArray("add-subtask", nil, "append a subtask line (repeatable)")
	editCmd.Flags().Bool("clear-subtasks", false, "remove all subtasks")
	editCmd.Flags().String("body", "", "new body text (replaces entire body)")
	editCmd.Flags().StringP("append-body", "a", "", "append text to task body")
	editCmd.Flags().BoolP("timestamp", "t", false, "prefix a timestamp line when appending")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
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
			return editSingleTask(cfg, store, ids[0], cmd)
		}
		return runBatch(ids, func(id int) error {
			_, err := executeEdit(cfg, store, id, cmd)
			return err
		})
	})
}

// editSingleTask handles a single task edit with full output.
func editSingleTask(cfg *config.Config, store *task.Store, id int, cmd *cobra.Command) error {
	t, err := executeEdit(cfg, store, id, cmd)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Updated task #%d: %s", t.ID, t.Name)
	return nil
}

// executeEdit loads the task, applies the flags to a copy and writes the copy
// back as a full replacement.
func executeEdit(cfg *config.Config, store *task.Store, id int, cmd *cobra.Command) (*task.Task, error) {
	cur, err := store.Load(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := cur.Clone()
	changed, err := applyEditFlags(cmd, t, cfg, now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, clierr.New(clierr.NoChanges, "no changes specified")
	}
	if err := task.Validate(t); err != nil {
		return nil, err
	}

	t.Updated = now
	if err := store.UpdateTask(t); err != nil {
		return nil, err
	}

	logActivity(cfg, "edit", t.ID, t.Name)
	if t.Status != cur.Status {
		logActivity(cfg, "move", t.ID, cur.Status+" -> "+t.Status)
	}
	return t, nil
}

func applyEditFlags(cmd *cobra.Command, t *task.Task, cfg *config.Config, now time.Time) (bool, error) {
	changed := false
	for _, fn := range []func(*cobra.Command, *task.Task, *config.Config, time.Time) (bool, error){
		applyFieldFlags,
		applyClearFlags,
		applyBodyFlags,
	} {
		c, err := fn(cmd, t, cfg, now)
		if err != nil {
			return false, err
		}
		changed = changed || c
	}
	return changed, nil
}

func applyFieldFlags(cmd *cobra.Command, t *task.Task, cfg *config.Config, now time.Time) (bool, error) {
	changed := false

	if v, _ := cmd.Flags().GetString("name"); v != "" {
		t.Name = v
		changed = true
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		if err := task.ValidateStatus(v, cfg.BoardStatuses()); err != nil {
			return false, err
		}
		task.SetStatus(t, v, now)
		changed = true
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		if err := task.ValidatePriority(v, cfg.Priorities); err != nil {
			return false, err
		}
		t.Priority = v
		changed = true
	}
	if v, _ := cmd.Flags().GetString("assignee"); v != "" {
		t.Assignee = v
		changed = true
	}
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		if err := task.ValidateDueDate(v); err != nil {
			return false, err
		}
		t.DueDate = v
		changed = true
	}
	if v, _ := cmd.Flags().GetString("project"); v != "" {
		if err := task.ValidateProject(v, cfg.ProjectIDs()); err != nil {
			return false, err
		}
		t.ProjectID = v
		changed = true
	}
	if v, _ := cmd.Flags().GetString("list"); v != "" {
		if err := task.ValidateTaskList(v, cfg.TaskListIDs()); err != nil {
			return false, err
		}
		t.TaskListID = v
		changed = true
	}
	if v, _ := cmd.Flags().GetStringArray("add-subtask"); len(v) > 0 {
		t.Subtasks = append(t.Subtasks, v...)
		changed = true
	}
	return changed, nil
}

func applyClearFlags(cmd *cobra.Command, t *task.Task, _ *config.Config, _ time.Time) (bool, error) {
	changed := false
	for _, c := range []struct {
		clear, set string
		apply      func()
	}{
		{"clear-assignee", "assignee", func() { t.Assignee = "" }},
		{"clear-due", "due", func() { t.DueDate = "" }},
		{"clear-project", "project", func() { t.ProjectID = "" }},
		{"clear-subtasks", "add-subtask", func() { t.Subtasks = nil }},
	} {
		on, _ := cmd.Flags().GetBool(c.clear)
		if !on {
			continue
		}
		if cmd.Flags().Changed(c.set) {
			return false, clierr.Newf(clierr.InvalidInput, "cannot use --%s and --%s together", c.set, c.clear)
		}
		c.apply()
		changed = true
	}
	return changed, nil
}

func applyBodyFlags(cmd *cobra.Command, t *task.Task, _ *config.Config, now time.Time) (bool, error) {
	bodySet := cmd.Flags().Changed("body")
	appendSet := cmd.Flags().Changed("append-body")
	switch {
	case bodySet && appendSet:
		return false, clierr.New(clierr.InvalidInput, "cannot use --body and --append-body together")
	case bodySet:
		t.Body, _ = cmd.Flags().GetString("body")
		return true, nil
	case appendSet:
		v, _ := cmd.Flags().GetString("append-body")
		ts, _ := cmd.Flags().GetBool("timestamp")
		t.Body = appendBody(t.Body, v, ts, now)
		return true, nil
	}
	return false, nil
}

// appendBody appends text to the existing body, optionally prefixed with a timestamp line.
func appendBody(existing, text string, addTimestamp bool, now time.Time) string {
	var b strings.Builder

	if existing != "" {
		b.WriteString(strings.TrimRight(existing, "\n"))
		b.WriteString("\n\n")
	}

	if addTimestamp {
		b.WriteString(now.Format("[[2006-01-02]] Mon 15:04"))
		b.WriteByte('\n')
	}

	b.WriteString(text)

	return b.String()
}
