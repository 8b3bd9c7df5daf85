package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify board configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

var configAddProjectCmd = &cobra.Command{
	Use:   "add-project ID NAME",
	Short: "Add a project and the client it belongs to",
	Args:  cobra.ExactArgs(2), //nolint:mnd // id and name
	RunE:  runConfigAddProject,
}

var configAddListCmd = &cobra.Command{
	Use:   "add-list ID NAME",
	Short: "Add a task list",
	Args:  cobra.ExactArgs(2), //nolint:mnd // id and name
	RunE:  runConfigAddList,
}

func init() {
	configAddProjectCmd.Flags().String("client", "", "client name (defaults to the project name)")
	configCmd.AddCommand(configGetCmd, configSetCmd, configAddProjectCmd, configAddListCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	accessors := baseConfigAccessors()
	addViewDefaultAccessors(accessors)
	return accessors
}

func baseConfigAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"board.name": {
			get:      func(c *config.Config) any { return c.Board.Name },
			set:      func(c *config.Config, v string) error { c.Board.Name = v; return nil },
			writable: true,
		},
		"board.description": {
			get:      func(c *config.Config) any { return c.Board.Description },
			set:      func(c *config.Config, v string) error { c.Board.Description = v; return nil },
			writable: true,
		},
		"statuses": {
			get: func(c *config.Config) any { return c.StatusNames() },
		},
		"priorities": {
			get: func(c *config.Config) any { return c.Priorities },
		},
		"projects": {
			get: func(c *config.Config) any {
				out := make([]string, 0, len(c.Projects))
				for _, p := range c.Projects {
					out = append(out, p.ID+"="+c.ClientName(p.ID))
				}
				return out
			},
		},
		"task_lists": {
			get: func(c *config.Config) any { return c.TaskListIDs() },
		},
		"defaults.status": {
			get: func(c *config.Config) any { return c.Defaults.Status },
			set: oneOf("default status",
				func(c *config.Config) []string { return c.BoardStatuses() },
				func(c *config.Config, v string) { c.Defaults.Status = v }),
			writable: true,
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: oneOf("default priority",
				func(c *config.Config) []string { return c.Priorities },
				func(c *config.Config, v string) { c.Defaults.Priority = v }),
			writable: true,
		},
		"defaults.task_list": {
			get: func(c *config.Config) any { return c.Defaults.TaskList },
			set: oneOf("default task list",
				func(c *config.Config) []string { return c.TaskListIDs() },
				func(c *config.Config, v string) { c.Defaults.TaskList = v }),
			writable: true,
		},
		"tasks_dir": {
			get: func(c *config.Config) any { return c.TasksDir },
		},
		"next_id": {
			get: func(c *config.Config) any { return c.NextID },
		},
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
	}
}

// addViewDefaultAccessors registers the keys that seed a fresh view session.
func addViewDefaultAccessors(accessors map[string]configAccessor) {
	accessors["defaults.view_mode"] = configAccessor{
		get:      func(c *config.Config) any { return c.Defaults.ViewMode },
		set:      parsed(board.ParseViewMode, func(c *config.Config, v board.ViewMode) { c.Defaults.ViewMode = string(v) }),
		writable: true,
	}
	accessors["defaults.completed_display"] = configAccessor{
		get: func(c *config.Config) any { return c.Defaults.CompletedDisplay },
		set: parsed(board.ParseCompletedDisplay, func(c *config.Config, v board.CompletedDisplay) {
			c.Defaults.CompletedDisplay = string(v)
		}),
		writable: true,
	}
	accessors["defaults.time_window"] = configAccessor{
		get:      func(c *config.Config) any { return c.Defaults.TimeWindow },
		set:      parsed(board.ParseWindow, func(c *config.Config, v board.Window) { c.Defaults.TimeWindow = string(v) }),
		writable: true,
	}
	accessors["defaults.layout"] = configAccessor{
		get:      func(c *config.Config) any { return c.Defaults.Layout },
		set:      parsed(board.ParseLayout, func(c *config.Config, v board.Layout) { c.Defaults.Layout = string(v) }),
		writable: true,
	}
}

// oneOf builds a setter that accepts only values listed by allowed.
func oneOf(label string, allowed func(*config.Config) []string, apply func(*config.Config, string)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		if config.IndexOf(allowed(c), v) < 0 {
			return clierr.Newf(clierr.InvalidInput,
				"invalid %s %q; allowed: %s", label, v, strings.Join(allowed(c), ", "))
		}
		apply(c, v)
		return nil
	}
}

// parsed builds a setter from one of the board value parsers.
func parsed[T any](parse func(string) (T, error), apply func(*config.Config, T)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		x, err := parse(v)
		if err != nil {
			return err
		}
		apply(c, x)
		return nil
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"board.name",
		"board.description",
		"tasks_dir",
		"statuses",
		"priorities",
		"projects",
		"task_lists",
		"defaults.status",
		"defaults.priority",
		"defaults.task_list",
		"defaults.view_mode",
		"defaults.completed_display",
		"defaults.time_window",
		"defaults.layout",
		"next_id",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-28s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	cfg, err := saveConfigChange(func(c *config.Config) error { return acc.set(c, value) })
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func runConfigAddProject(cmd *cobra.Command, args []string) error {
	id, name := args[0], args[1]
	client, _ := cmd.Flags().GetString("client")
	p := config.ProjectConfig{ID: id, Name: name, Client: client}

	_, err := saveConfigChange(func(c *config.Config) error {
		if c.ProjectByID(id) != nil {
			return clierr.Newf(clierr.InvalidProject, "project %q already exists", id)
		}
		c.Projects = append(c.Projects, p)
		return nil
	})
	if err != nil {
		return err
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, p)
	}
	output.Messagef(os.Stdout, "Added project %s (%s)", id, name)
	return nil
}

func runConfigAddList(_ *cobra.Command, args []string) error {
	l := config.TaskListConfig{ID: args[0], Name: args[1]}
	_, err := saveConfigChange(func(c *config.Config) error {
		if config.IndexOf(c.TaskListIDs(), l.ID) >= 0 {
			return clierr.Newf(clierr.InvalidTaskList, "task list %q already exists", l.ID)
		}
		c.TaskLists = append(c.TaskLists, l)
		return nil
	})
	if err != nil {
		return err
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, l)
	}
	output.Messagef(os.Stdout, "Added task list %s (%s)", l.ID, l.Name)
	return nil
}

// saveConfigChange applies fn to a freshly loaded config under the board
// lock, validates the result and writes it back.
func saveConfigChange(fn func(*config.Config) error) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	err = withBoardLock(cfg.Dir(), func() error {
		if cfg, err = config.Load(cfg.Dir()); err != nil {
			return err
		}
		if err := fn(cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return clierr.New(clierr.InvalidInput, err.Error())
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		return nil
	})
	return cfg, err
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		if len(v) == 0 {
			return "--"
		}
		return strings.Join(v, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
