package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create [NAME]",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Creates a new task file with the given name and optional fields.

The name can be provided as a positional argument or via --name.
Body/description can be provided via --body or --description.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("name", "", "task name (alternative to positional argument)")
	createCmd.Flags().String("status", "", "task status (default from config)")
	createCmd.Flags().String("priority", "", "task priority (default from config)")
	createCmd.Flags().String("assignee", "", "task assignee")
	createCmd.Flags().String("due", "", "due date (YYYY-MM-DD or RFC 3339)")
	createCmd.Flags().String("project", "", "project ID (determines the client)")
	createCmd.Flags().String("list", "", "task list ID (default from config)")
	createCmd.Flags().StringArray("subtask", nil, "subtask line (repeatable)")
	createCmd.Flags().String("body", "", "task body/description (markdown)")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "title":
			name = "name"
		case "description":
			name = "body"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	name, err := resolveCreateName(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var t *task.Task
	// The lock keeps concurrent creates from reading the same next_id.
	err = withBoardLock(cfg.Dir(), func() error {
		if cfg, err = config.Load(cfg.Dir()); err != nil {
			return err
		}
		now := time.Now()
		t = &task.Task{
			ID:         cfg.NextID,
			Name:       name,
			Status:     cfg.Defaults.Status,
			Priority:   cfg.Defaults.Priority,
			TaskListID: cfg.Defaults.TaskList,
			Created:    now,
			Updated:    now,
		}
		if err := applyCreateFlags(cmd, t, cfg); err != nil {
			return err
		}
		if t.Status == task.StatusCompleted {
			task.SetStatus(t, t.Status, now)
		}
		if err := task.Validate(t); err != nil {
			return err
		}
		if err := task.OpenStore(cfg.TasksPath()).Create(t); err != nil {
			return err
		}
		cfg.NextID++
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logActivity(cfg, "create", t.ID, t.Name)
	return outputCreateResult(cfg, t)
}

func outputCreateResult(cfg *config.Config, t *task.Task) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Created task #%d: %s", t.ID, t.Name)
	output.Messagef(os.Stdout, "  File: %s", t.File)
	output.Messagef(os.Stdout, "  Status: %s | Priority: %s", t.Status, t.Priority)
	if t.Assignee != "" {
		output.Messagef(os.Stdout, "  Assignee: %s", t.Assignee)
	}
	if t.ProjectID != "" {
		output.Messagef(os.Stdout, "  Client: %s", cfg.ClientName(t.ProjectID))
	}
	return nil
}

// resolveCreateName returns the task name from either the positional arg or --name.
func resolveCreateName(cmd *cobra.Command, args []string) (string, error) {
	flagName, _ := cmd.Flags().GetString("name")
	hasPositional := len(args) > 0
	hasFlag := flagName != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"name provided both as argument and --name flag; use one or the other")
	case hasPositional:
		return args[0], nil
	case hasFlag:
		return flagName, nil
	default:
		return "", errors.New("name is required: provide it as an argument or with --name")
	}
}

func applyCreateFlags(cmd *cobra.Command, t *task.Task, cfg *config.Config) error {
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		if err := task.ValidateStatus(v, cfg.BoardStatuses()); err != nil {
			return err
		}
		t.Status = v
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		if err := task.ValidatePriority(v, cfg.Priorities); err != nil {
			return err
		}
		t.Priority = v
	}
	if v, _ := cmd.Flags().GetString("assignee"); v != "" {
		t.Assignee = v
	}
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		if err := task.ValidateDueDate(v); err != nil {
			return err
		}
		t.DueDate = v
	}
	if v, _ := cmd.Flags().GetString("project"); v != "" {
		if err := task.ValidateProject(v, cfg.ProjectIDs()); err != nil {
			return err
		}
		t.ProjectID = v
	}
	if v, _ := cmd.Flags().GetString("list"); v != "" {
		if err := task.ValidateTaskList(v, cfg.TaskListIDs()); err != nil {
			return err
		}
		t.TaskListID = v
	}
	if v, _ := cmd.Flags().GetStringArray("subtask"); len(v) > 0 {
		t.Subtasks = v
	}
	if v, _ := cmd.Flags().GetString("body"); v != "" {
		t.Body = v
	}
	return nil
}
