package board

import (
	"strings"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// UnassignedLabel keys the split-view group of tasks without an assignee.
const UnassignedLabel = "Unassigned"

// ViewMode is the list view shape.
type ViewMode string

// View modes.
const (
	ViewTable ViewMode = "table"
	ViewSplit ViewMode = "split"
)

// ParseViewMode validates a view mode name.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewTable:
		return ViewTable, nil
	case ViewSplit:
		return ViewSplit, nil
	}
	return "", clierr.Newf(clierr.InvalidViewMode, "invalid view mode %q (want table or split)", s).
		WithDetails(map[string]any{"input": s})
}

// Group is one assignee section of the split view.
type Group struct {
	Assignee string       `json:"assignee"`
	Tasks    []*task.Task `json:"tasks"`
}

// Grouped is the shaped output of the view grouper. Table mode fills Tasks;
// split mode fills Groups.
type Grouped struct {
	Mode   ViewMode     `json:"mode"`
	Tasks  []*task.Task `json:"tasks,omitempty"`
	Groups []Group      `json:"groups,omitempty"`
}

// GroupForView shapes an ordered task list for the given mode. Split groups
// appear in first-appearance order and keep the input order within a group.
func GroupForView(tasks []*task.Task, mode ViewMode) Grouped {
	if mode != ViewSplit {
		return Grouped{Mode: ViewTable, Tasks: tasks}
	}

	index := make(map[string]int)
	var groups []Group
	for _, t := range tasks {
		key := AssigneeLabel(t.Assignee)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Assignee: key})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return Grouped{Mode: ViewSplit, Groups: groups}
}

// AssigneeLabel returns the display label of an assignee.
func AssigneeLabel(assignee string) string {
	if assignee == "" {
		return UnassignedLabel
	}
	return assignee
}

// AutoSwitch returns the view mode after a filter change: table switches to
// split once more than one assignee is included. It never switches back.
func AutoSwitch(mode ViewMode, f *Filters) ViewMode {
	if mode == ViewTable && len(f.Assignee.Included) > 1 {
		return ViewSplit
	}
	return mode
}

// StatusColumn is one column of the kanban layout.
type StatusColumn struct {
	Status string       `json:"status"`
	Tasks  []*task.Task `json:"tasks"`
}

// KanbanColumns buckets tasks into one column per status, in the given
// status order. Tasks in statuses outside the list are left out.
func KanbanColumns(tasks []*task.Task, statuses []string) []StatusColumn {
	cols := make([]StatusColumn, len(statuses))
	index := make(map[string]int, len(statuses))
	for i, s := range statuses {
		cols[i] = StatusColumn{Status: s, Tasks: []*task.Task{}}
		index[s] = i
	}
	for _, t := range tasks {
		if i, ok := index[t.Status]; ok {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	return cols
}
