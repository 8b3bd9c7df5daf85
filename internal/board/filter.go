// Package board is the task view engine: filtering, sorting, grouping,
// selection and bulk mutation over task collections.
package board

import (
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/date"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// DueSoonDays is the look-ahead of the due-soon predicate.
const DueSoonDays = 3

// Directory resolves the reference data tasks point at.
type Directory interface {
	// ClientName returns the client of a project, or "" when unknown.
	ClientName(projectID string) string
	// TaskListName returns the display name of a task list.
	TaskListName(id string) string
}

// Window restricts tasks by due date.
type Window string

// Time windows.
const (
	WindowAll       Window = "all"
	WindowToday     Window = "today"
	WindowThisWeek  Window = "thisWeek"
	WindowThisMonth Window = "thisMonth"
	WindowOverdue   Window = "overdue"
)

// Windows returns all time windows in cycle order.
func Windows() []Window {
	return []Window{WindowAll, WindowToday, WindowThisWeek, WindowThisMonth, WindowOverdue}
}

// ParseWindow validates a time window name.
func ParseWindow(s string) (Window, error) {
	for _, w := range Windows() {
		if strings.EqualFold(string(w), s) {
			return w, nil
		}
	}
	return "", clierr.Newf(clierr.InvalidWindow, "invalid time window %q", s).
		WithDetails(map[string]any{"input": s, "allowed": Windows()})
}

// CompletedDisplay controls the visibility of completed tasks.
type CompletedDisplay string

// Completed visibility settings.
const (
	CompletedHide   CompletedDisplay = "hide"
	CompletedOnly   CompletedDisplay = "only"
	CompletedInline CompletedDisplay = "inline"
)

// CompletedDisplays returns all settings in cycle order.
func CompletedDisplays() []CompletedDisplay {
	return []CompletedDisplay{CompletedInline, CompletedHide, CompletedOnly}
}

// ParseCompletedDisplay validates a completed visibility setting.
func ParseCompletedDisplay(s string) (CompletedDisplay, error) {
	for _, c := range CompletedDisplays() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", clierr.Newf(clierr.InvalidCompleted, "invalid completed display %q (want hide, only or inline)", s).
		WithDetails(map[string]any{"input": s})
}

// Layout is the presentation the view feeds.
type Layout string

// Layouts. Completed visibility does not apply to the kanban layout, whose
// completed column always shows.
const (
	LayoutList   Layout = "list"
	LayoutKanban Layout = "kanban"
)

// ParseLayout validates a layout name.
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(s)) {
	case LayoutList:
		return LayoutList, nil
	case LayoutKanban:
		return LayoutKanban, nil
	}
	return "", clierr.Newf(clierr.InvalidViewMode, "invalid layout %q (want list or kanban)", s).
		WithDetails(map[string]any{"input": s})
}

// Focus is a quick status filter layered on top of the dimension filters.
type Focus string

// Focus values.
const (
	FocusAll        Focus = "all"
	FocusTodo       Focus = Focus(task.StatusTodo)
	FocusInProgress Focus = Focus(task.StatusInProgress)
	FocusBlocked    Focus = Focus(task.StatusBlocked)
	FocusCompleted  Focus = Focus(task.StatusCompleted)
	FocusOverdue    Focus = "overdue"
	FocusDueSoon    Focus = "due-soon"
)

// Focuses returns all focus values.
func Focuses() []Focus {
	return []Focus{FocusAll, FocusTodo, FocusInProgress, FocusBlocked, FocusCompleted, FocusOverdue, FocusDueSoon}
}

// ParseFocus validates a focus value.
func ParseFocus(s string) (Focus, error) {
	for _, f := range Focuses() {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", clierr.Newf(clierr.InvalidFocus, "invalid focus %q", s).
		WithDetails(map[string]any{"input": s, "allowed": Focuses()})
}

// Query is everything a filter pass evaluates.
type Query struct {
	Filters   Filters
	Search    string
	Window    Window
	Completed CompletedDisplay
	Layout    Layout
	Focus     Focus
}

// Filter returns the tasks that pass q, in input order.
func Filter(tasks []*task.Task, q Query, dir Directory, now time.Time) []*task.Task {
	result := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if Evaluate(t, q, dir, now) {
			result = append(result, t)
		}
	}
	return result
}

// Evaluate reports whether t passes every predicate of q.
func Evaluate(t *task.Task, q Query, dir Directory, now time.Time) bool {
	client := dir.ClientName(t.ProjectID)

	if !matchesSearch(t, client, q.Search) {
		return false
	}
	if !matchesWindow(t, q.Window, now) {
		return false
	}
	if q.Layout != LayoutKanban && !matchesCompleted(t, q.Completed) {
		return false
	}
	if !matchesFocus(t, q.Focus, now) {
		return false
	}
	return matchesDimensions(t, client, &q.Filters)
}

func matchesDimensions(t *task.Task, client string, f *Filters) bool {
	if !f.Assignee.Matches(t.Assignee) {
		return false
	}
	if !f.Client.MatchesOptional(client) {
		return false
	}
	if !f.Status.Matches(t.Status) {
		return false
	}
	if !f.Priority.MatchesOptional(t.Priority) {
		return false
	}
	return f.List.Matches(ListID(t))
}

// ListID returns the task's list, defaulting to the inbox.
func ListID(t *task.Task) string {
	if t.TaskListID == "" {
		return config.DefaultTaskList
	}
	return t.TaskListID
}

// matchesSearch performs case-insensitive substring matching across name,
// assignee, and client.
func matchesSearch(t *task.Task, client, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Name), q) ||
		strings.Contains(strings.ToLower(t.Assignee), q) ||
		strings.Contains(strings.ToLower(client), q)
}

func matchesWindow(t *task.Task, w Window, now time.Time) bool {
	if w == "" || w == WindowAll {
		return true
	}
	due, ok := date.ParseDue(t.DueDate)
	if !ok {
		return false
	}
	switch w {
	case WindowToday:
		return date.SameDay(due, now)
	case WindowThisWeek:
		return date.SameWeek(due, now)
	case WindowThisMonth:
		return date.SameMonth(due, now)
	case WindowOverdue:
		return IsOverdue(t.DueDate, t.Status, now)
	}
	return true
}

func matchesCompleted(t *task.Task, c CompletedDisplay) bool {
	switch c {
	case CompletedHide:
		return !t.IsCompleted()
	case CompletedOnly:
		return t.IsCompleted()
	}
	return true
}

func matchesFocus(t *task.Task, f Focus, now time.Time) bool {
	switch f {
	case "", FocusAll:
		return true
	case FocusOverdue:
		return IsOverdue(t.DueDate, t.Status, now)
	case FocusDueSoon:
		return !t.IsCompleted() && IsDueSoon(t.DueDate, now)
	}
	return t.Status == string(f)
}

// IsOverdue reports whether a task with the given due date and status is
// past due: the due instant is before the start of today and the task is not
// completed. Tasks due today are never overdue.
func IsOverdue(dueDate, status string, now time.Time) bool {
	if status == task.StatusCompleted {
		return false
	}
	due, ok := date.ParseDue(dueDate)
	if !ok {
		return false
	}
	return due.Before(date.StartOfDay(now))
}

// IsDueSoon reports whether the due date lies within DueSoonDays of the
// start of today, inclusive on both ends. Status is not considered.
func IsDueSoon(dueDate string, now time.Time) bool {
	due, ok := date.ParseDue(dueDate)
	if !ok {
		return false
	}
	start := date.StartOfDay(now)
	end := start.AddDate(0, 0, DueSoonDays)
	return !due.Before(start) && !due.After(end)
}
