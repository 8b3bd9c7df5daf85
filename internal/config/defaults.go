// Package config handles taskdeck board configuration.
package config

const (
	// DefaultDir is the default board directory name.
	DefaultDir = "taskdeck"
	// DefaultTasksDir is the default tasks subdirectory name.
	DefaultTasksDir = "tasks"
	// DefaultStatus is the default status for new tasks.
	DefaultStatus = "todo"
	// DefaultPriority is the default priority for new tasks.
	DefaultPriority = "medium"
	// DefaultTaskList is the list a task belongs to when it names none.
	DefaultTaskList = "inbox"
	// DefaultViewMode is the initial list view mode.
	DefaultViewMode = "table"
	// DefaultCompletedDisplay is the initial completed-task visibility.
	DefaultCompletedDisplay = "inline"
	// DefaultTimeWindow is the initial due-date window.
	DefaultTimeWindow = "all"
	// DefaultLayout is the initial board layout.
	DefaultLayout = "list"

	// ConfigFileName is the name of the config file within the board directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2

	// CompletedStatus is the status that marks a task done.
	CompletedStatus = "completed"
	// ArchivedStatus is the reserved status name for soft-deleted tasks.
	ArchivedStatus = "archived"
)

// Default slice values for a new board (slices cannot be const).
var (
	DefaultStatuses = []StatusConfig{
		{Name: "todo"},
		{Name: "in-progress"},
		{Name: "blocked"},
		{Name: CompletedStatus},
		{Name: ArchivedStatus},
	}

	DefaultPriorities = []string{
		"low",
		"medium",
		"high",
	}

	DefaultTaskLists = []TaskListConfig{
		{ID: DefaultTaskList, Name: "Inbox"},
	}
)
