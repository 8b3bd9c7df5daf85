package board

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// Load reads every task of the board, leaving out archived ones.
// Uses lenient parsing: malformed task files are skipped and returned as warnings.
func Load(cfg *config.Config, store *task.Store) ([]*task.Task, []task.ReadWarning, error) {
	all, warnings, err := store.ReadAllLenient()
	if err != nil {
		return nil, nil, err
	}
	live := make([]*task.Task, 0, len(all))
	for _, t := range all {
		if cfg.IsArchivedStatus(t.Status) {
			continue
		}
		live = append(live, t)
	}
	return live, warnings, nil
}

// StatusSummary holds metrics for a single status column.
type StatusSummary struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	Overdue int    `json:"overdue"`
	DueSoon int    `json:"due_soon"`
}

// PriorityCount holds a count for a priority level.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// AssigneeCount holds a count for an assignee.
type AssigneeCount struct {
	Assignee string `json:"assignee"`
	Count    int    `json:"count"`
}

// Overview is the aggregate board overview.
type Overview struct {
	BoardName  string          `json:"board_name"`
	TotalTasks int             `json:"total_tasks"`
	Overdue    int             `json:"overdue"`
	DueSoon    int             `json:"due_soon"`
	Statuses   []StatusSummary `json:"statuses"`
	Priorities []PriorityCount `json:"priorities"`
	Assignees  []AssigneeCount `json:"assignees"`
}

// Summary computes a board summary from tasks.
// It uses BoardStatuses() to exclude the archived column from display.
func Summary(cfg *config.Config, tasks []*task.Task, now time.Time) Overview {
	displayStatuses := cfg.BoardStatuses()
	statusMap := make(map[string]*StatusSummary, len(displayStatuses))
	for _, s := range displayStatuses {
		statusMap[s] = &StatusSummary{Status: s}
	}

	prioMap := make(map[string]int, len(cfg.Priorities))
	assigneeMap := make(map[string]int)
	var assigneeOrder []string
	ov := Overview{BoardName: cfg.Board.Name, TotalTasks: len(tasks)}

	for _, t := range tasks {
		overdue := IsOverdue(t.DueDate, t.Status, now)
		dueSoon := !t.IsCompleted() && IsDueSoon(t.DueDate, now)
		if overdue {
			ov.Overdue++
		}
		if dueSoon {
			ov.DueSoon++
		}
		if ss, ok := statusMap[t.Status]; ok {
			ss.Count++
			if overdue {
				ss.Overdue++
			}
			if dueSoon {
				ss.DueSoon++
			}
		}
		prioMap[t.Priority]++
		label := AssigneeLabel(t.Assignee)
		if _, ok := assigneeMap[label]; !ok {
			assigneeOrder = append(assigneeOrder, label)
		}
		assigneeMap[label]++
	}

	ov.Statuses = make([]StatusSummary, 0, len(displayStatuses))
	for _, s := range displayStatuses {
		ov.Statuses = append(ov.Statuses, *statusMap[s])
	}

	ov.Priorities = make([]PriorityCount, 0, len(cfg.Priorities))
	for _, p := range cfg.Priorities {
		ov.Priorities = append(ov.Priorities, PriorityCount{Priority: p, Count: prioMap[p]})
	}

	ov.Assignees = make([]AssigneeCount, 0, len(assigneeOrder))
	for _, a := range assigneeOrder {
		ov.Assignees = append(ov.Assignees, AssigneeCount{Assignee: a, Count: assigneeMap[a]})
	}

	return ov
}

// DistinctValues returns the values of dimension d present in tasks, in
// first-appearance order. Absent values are left out, except for assignee
// where they appear as "".
func DistinctValues(tasks []*task.Task, d Dimension, dir Directory) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tasks {
		var v string
		switch d {
		case DimAssignee:
			v = t.Assignee
		case DimClient:
			v = dir.ClientName(t.ProjectID)
		case DimStatus:
			v = t.Status
		case DimPriority:
			v = t.Priority
		case DimList:
			v = ListID(t)
		}
		if v == "" && d != DimAssignee {
			continue
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// KnownValues lists the configured values of a dimension followed by any
// other values the tasks carry. It feeds filter pickers and select-all.
func KnownValues(cfg *config.Config, tasks []*task.Task, d Dimension) []string {
	var values []string
	switch d {
	case DimClient:
		values = cfg.ClientNames()
	case DimStatus:
		values = cfg.BoardStatuses()
	case DimPriority:
		values = slices.Clone(cfg.Priorities)
	case DimList:
		values = cfg.TaskListIDs()
	}
	for _, v := range DistinctValues(tasks, d, cfg) {
		if !slices.Contains(values, v) {
			values = append(values, v)
		}
	}
	return values
}

// ParseIDs splits a comma-separated ID string into deduplicated int IDs.
func ParseIDs(arg string) ([]int, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[int]bool, len(parts))
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, task.ValidateTaskID(p)
		}
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	if len(ids) == 0 {
		return nil, clierr.New(clierr.InvalidTaskID, "no valid task IDs provided")
	}
	return ids, nil
}
