package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no taskdeck board found (run 'taskdeck init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Accepted values for the view defaults.
var (
	viewModes        = []string{"table", "split"}
	completedModes   = []string{"hide", "only", "inline"}
	timeWindows      = []string{"all", "today", "thisWeek", "thisMonth", "overdue"}
	layouts          = []string{"list", "kanban"}
	reservedStatuses = []string{ArchivedStatus}
)

// Config represents the board configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Board      BoardConfig      `yaml:"board"`
	TasksDir   string           `yaml:"tasks_dir"`
	Statuses   []StatusConfig   `yaml:"statuses"`
	Priorities []string         `yaml:"priorities"`
	Projects   []ProjectConfig  `yaml:"projects,omitempty"`
	TaskLists  []TaskListConfig `yaml:"task_lists"`
	Defaults   DefaultsConfig   `yaml:"defaults"`
	NextID     int              `yaml:"next_id"`

	// dir is the absolute path to the board directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// DefaultsConfig holds default values for new tasks and new view sessions.
type DefaultsConfig struct {
	Status           string `yaml:"status"`
	Priority         string `yaml:"priority"`
	TaskList         string `yaml:"task_list"`
	ViewMode         string `yaml:"view_mode"`
	CompletedDisplay string `yaml:"completed_display"`
	TimeWindow       string `yaml:"time_window"`
	Layout           string `yaml:"layout"`
}

// StatusConfig defines a status column.
type StatusConfig struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// UnmarshalYAML allows StatusConfig to be parsed from either a plain string
// ("todo") or a mapping ({name: todo, color: "252"}).
func (s *StatusConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.Name = value.Value
		return nil
	}
	type plain StatusConfig
	return value.Decode((*plain)(s))
}

// ProjectConfig maps a project to the client it is billed to.
type ProjectConfig struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Client string `yaml:"client,omitempty" json:"client,omitempty"`
}

// TaskListConfig names a task list.
type TaskListConfig struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Dir returns the absolute path to the board directory.
func (c *Config) Dir() string {
	return c.dir
}

// TasksPath returns the absolute path to the tasks directory.
func (c *Config) TasksPath() string {
	return filepath.Join(c.dir, c.TasksDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:    CurrentVersion,
		Board:      BoardConfig{Name: name},
		TasksDir:   DefaultTasksDir,
		Statuses:   append([]StatusConfig{}, DefaultStatuses...),
		Priorities: append([]string{}, DefaultPriorities...),
		TaskLists:  append([]TaskListConfig{}, DefaultTaskLists...),
		Defaults:   defaultDefaults(),
		NextID:     1,
	}
}

func defaultDefaults() DefaultsConfig {
	return DefaultsConfig{
		Status:           DefaultStatus,
		Priority:         DefaultPriority,
		TaskList:         DefaultTaskList,
		ViewMode:         DefaultViewMode,
		CompletedDisplay: DefaultCompletedDisplay,
		TimeWindow:       DefaultTimeWindow,
		Layout:           DefaultLayout,
	}
}

// SetDir sets the board directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// StatusNames returns the ordered list of status name strings.
func (c *Config) StatusNames() []string {
	names := make([]string, len(c.Statuses))
	for i, s := range c.Statuses {
		names[i] = s.Name
	}
	return names
}

// StatusColor returns the configured color for a status, or "".
func (c *Config) StatusColor(status string) string {
	for _, s := range c.Statuses {
		if s.Name == status {
			return s.Color
		}
	}
	return ""
}

// ClientName returns the client of the given project, or "" when the
// project is unknown or has no client.
func (c *Config) ClientName(projectID string) string {
	if p := c.ProjectByID(projectID); p != nil {
		return p.Client
	}
	return ""
}

// ProjectByID returns the project with the given ID, or nil.
func (c *Config) ProjectByID(id string) *ProjectConfig {
	if id == "" {
		return nil
	}
	for i := range c.Projects {
		if c.Projects[i].ID == id {
			return &c.Projects[i]
		}
	}
	return nil
}

// ProjectIDs returns configured project IDs in order.
func (c *Config) ProjectIDs() []string {
	ids := make([]string, len(c.Projects))
	for i, p := range c.Projects {
		ids[i] = p.ID
	}
	return ids
}

// ClientNames returns the distinct client names in project order.
func (c *Config) ClientNames() []string {
	seen := make(map[string]bool, len(c.Projects))
	var names []string
	for _, p := range c.Projects {
		if p.Client == "" || seen[p.Client] {
			continue
		}
		seen[p.Client] = true
		names = append(names, p.Client)
	}
	return names
}

// TaskListIDs returns configured task list IDs in order.
func (c *Config) TaskListIDs() []string {
	ids := make([]string, len(c.TaskLists))
	for i, l := range c.TaskLists {
		ids[i] = l.ID
	}
	return ids
}

// TaskListName returns the display name of a task list, falling back to the ID.
func (c *Config) TaskListName(id string) string {
	for _, l := range c.TaskLists {
		if l.ID == id {
			return l.Name
		}
	}
	return id
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	if c.TasksDir == "" {
		return fmt.Errorf("%w: tasks_dir is required", ErrInvalid)
	}
	names := c.StatusNames()
	if len(names) < 2 { //nolint:mnd // a board needs at least an open and a done status
		return fmt.Errorf("%w: at least 2 statuses are required", ErrInvalid)
	}
	if hasDuplicates(names) {
		return fmt.Errorf("%w: statuses contain duplicates", ErrInvalid)
	}
	if !contains(names, CompletedStatus) {
		return fmt.Errorf("%w: statuses must include %q", ErrInvalid, CompletedStatus)
	}
	if len(c.Priorities) < 1 {
		return fmt.Errorf("%w: at least 1 priority is required", ErrInvalid)
	}
	if hasDuplicates(c.Priorities) {
		return fmt.Errorf("%w: priorities contain duplicates", ErrInvalid)
	}
	if !contains(names, c.Defaults.Status) || contains(reservedStatuses, c.Defaults.Status) {
		return fmt.Errorf("%w: default status %q not in statuses list", ErrInvalid, c.Defaults.Status)
	}
	if !contains(c.Priorities, c.Defaults.Priority) {
		return fmt.Errorf("%w: default priority %q not in priorities list", ErrInvalid, c.Defaults.Priority)
	}
	if err := c.validateProjects(); err != nil {
		return err
	}
	if err := c.validateTaskLists(); err != nil {
		return err
	}
	if err := c.validateViewDefaults(); err != nil {
		return err
	}
	if c.NextID < 1 {
		return fmt.Errorf("%w: next_id must be >= 1", ErrInvalid)
	}
	return nil
}

func (c *Config) validateProjects() error {
	seen := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if p.ID == "" {
			return fmt.Errorf("%w: project id is required", ErrInvalid)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate project id %q", ErrInvalid, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func (c *Config) validateTaskLists() error {
	ids := c.TaskListIDs()
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: task list id is required", ErrInvalid)
		}
	}
	if hasDuplicates(ids) {
		return fmt.Errorf("%w: task_lists contain duplicate ids", ErrInvalid)
	}
	if !contains(ids, c.Defaults.TaskList) {
		return fmt.Errorf("%w: default task list %q not in task_lists", ErrInvalid, c.Defaults.TaskList)
	}
	return nil
}

func (c *Config) validateViewDefaults() error {
	checks := []struct {
		key, value string
		allowed    []string
	}{
		{"defaults.view_mode", c.Defaults.ViewMode, viewModes},
		{"defaults.completed_display", c.Defaults.CompletedDisplay, completedModes},
		{"defaults.time_window", c.Defaults.TimeWindow, timeWindows},
		{"defaults.layout", c.Defaults.Layout, layouts},
	}
	for _, chk := range checks {
		if !contains(chk.allowed, chk.value) {
			return fmt.Errorf("%w: %s %q not one of %v", ErrInvalid, chk.key, chk.value, chk.allowed)
		}
	}
	return nil
}

// Init creates a new board in the given directory with default settings.
// It creates the board directory, tasks subdirectory, and config file.
func Init(dir, name string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := os.MkdirAll(cfg.TasksPath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating tasks directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given board directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a board directory
// containing config.yml. Returns the absolute path to the board directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the board directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no taskdeck board found (run 'taskdeck init' to create one)")
		}
		dir = parent
	}
}

// IsArchivedStatus returns true if the given status is the archived status.
func (c *Config) IsArchivedStatus(s string) bool {
	return s == ArchivedStatus && contains(c.StatusNames(), ArchivedStatus)
}

// BoardStatuses returns the statuses that should appear as board columns,
// excluding the archived status.
func (c *Config) BoardStatuses() []string {
	names := c.StatusNames()
	result := make([]string, 0, len(names))
	for _, s := range names {
		if s != ArchivedStatus {
			result = append(result, s)
		}
	}
	return result
}

// StatusIndex returns the index of a status in the configured order, or -1.
func (c *Config) StatusIndex(status string) int {
	return IndexOf(c.StatusNames(), status)
}

func contains(slice []string, item string) bool {
	return IndexOf(slice, item) >= 0
}

// IndexOf returns the index of item in slice, or -1 if not found.
func IndexOf(slice []string, item string) int {
	for i, s := range slice {
		if s == item {
			return i
		}
	}
	return -1
}

func hasDuplicates(slice []string) bool {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}
