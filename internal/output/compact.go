package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task, ctx Context) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t, ctx))
	}
}

// GroupedCompact renders a grouper result in compact format. Split groups
// are introduced by an "== assignee" line.
func GroupedCompact(w io.Writer, g board.Grouped, ctx Context) {
	if g.Mode != board.ViewSplit {
		TaskCompact(w, g.Tasks, ctx)
		return
	}
	if len(g.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, grp := range g.Groups {
		fmt.Fprintf(w, "== %s (%d)\n", grp.Assignee, len(grp.Tasks))
		for _, t := range grp.Tasks {
			fmt.Fprintln(w, formatTaskLine(t, ctx))
		}
	}
}

// KanbanCompact renders kanban columns in compact format.
func KanbanCompact(w io.Writer, cols []board.StatusColumn, ctx Context) {
	for _, col := range cols {
		fmt.Fprintf(w, "== %s (%d)\n", col.Status, len(col.Tasks))
		for _, t := range col.Tasks {
			fmt.Fprintln(w, formatTaskLine(t, ctx))
		}
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, ctx Context) {
	line := formatTaskLine(t, ctx)
	if t.TimeTracked > 0 {
		line += " tracked:" + FormatSeconds(t.TimeTracked)
	}
	fmt.Fprintln(w, line)

	ts := "  created:" + t.Created.Format("2006-01-02") +
		" updated:" + t.Updated.Format("2006-01-02")
	if t.CompletedAt != nil {
		ts += " completed:" + t.CompletedAt.Format("2006-01-02")
	}
	fmt.Fprintln(w, ts)

	for _, s := range t.Subtasks {
		fmt.Fprintln(w, "  - "+s)
	}
	if t.Body != "" {
		for _, bodyLine := range strings.Split(t.Body, "\n") {
			fmt.Fprintln(w, "  "+bodyLine)
		}
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks)\n", s.BoardName, s.TotalTasks)

	for _, ss := range s.Statuses {
		line := "  " + ss.Status + ": " + strconv.Itoa(ss.Count)
		var annotations []string
		if ss.Overdue > 0 {
			annotations = append(annotations, strconv.Itoa(ss.Overdue)+" overdue")
		}
		if ss.DueSoon > 0 {
			annotations = append(annotations, strconv.Itoa(ss.DueSoon)+" due soon")
		}
		if len(annotations) > 0 {
			line += " (" + strings.Join(annotations, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}

	if len(s.Priorities) > 0 {
		parts := make([]string, 0, len(s.Priorities))
		for _, pc := range s.Priorities {
			parts = append(parts, pc.Priority+"="+strconv.Itoa(pc.Count))
		}
		fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task, ctx Context) string {
	prio := t.Priority
	if prio == "" {
		prio = "-"
	}
	line := "#" + strconv.Itoa(t.ID) + " [" + t.Status + "/" + prio + "] " + t.Name
	if ctx.selected(t.ID) {
		line = "* " + line
	}
	if t.Assignee != "" {
		line += " @" + t.Assignee
	}
	if client := ctx.Dir.ClientName(t.ProjectID); client != "" {
		line += " (" + client + ")"
	}
	if t.TaskListID != "" {
		line += " list:" + t.TaskListID
	}
	if t.DueDate != "" {
		line += " due:" + t.DueDate
		if board.IsOverdue(t.DueDate, t.Status, ctx.Now) {
			line += "!"
		}
	}
	return line
}
