package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timer"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timesheet"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Status colors aligned with TUI column-header palette.
	statusStyles = map[string]lipgloss.Style{
		"todo":        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		"in-progress": lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"blocked":     lipgloss.NewStyle().Foreground(lipgloss.Color("166")),
		"completed":   lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		"archived":    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}

	// Priority colors matching TUI priority palette.
	priorityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dueSoonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	clientStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Bold(true)
)

// DisableColor strips all styling from table output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
	overdueStyle = lipgloss.NewStyle()
	dueSoonStyle = lipgloss.NewStyle()
	clientStyle = lipgloss.NewStyle()
	selectedStyle = lipgloss.NewStyle()
	plainMarkdown = true
}

// Context carries what task rendering needs beyond the tasks themselves.
type Context struct {
	Dir board.Directory
	Now time.Time
	// Selected marks rows of a multi-selection. May be nil.
	Selected func(id int) bool
}

func (c Context) selected(id int) bool {
	return c.Selected != nil && c.Selected(id)
}

const (
	maxNameW   = 48
	maxClientW = 20
)

type columnWidths struct {
	id, name, assignee, client, list, status, prio int
}

func measure(tasks []*task.Task, ctx Context) columnWidths {
	const pad = 2
	w := columnWidths{id: 5, name: 6, assignee: 10, client: 8, list: 6, status: 8, prio: 10}
	for _, t := range tasks {
		w.id = max(w.id, len(strconv.Itoa(t.ID))+pad+2)
		w.name = max(w.name, min(len(t.Name), maxNameW)+pad)
		w.assignee = max(w.assignee, len(board.AssigneeLabel(t.Assignee))+pad)
		w.client = max(w.client, min(len(ctx.Dir.ClientName(t.ProjectID)), maxClientW)+pad)
		w.list = max(w.list, len(ctx.Dir.TaskListName(board.ListID(t)))+pad)
		w.status = max(w.status, len(t.Status)+pad)
		w.prio = max(w.prio, len(t.Priority)+pad)
	}
	return w
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task, ctx Context) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	widths := measure(tasks, ctx)
	writeHeader(w, widths)
	for _, t := range tasks {
		writeRow(w, t, widths, ctx)
	}
}

// SplitTable renders the split view: one table section per assignee.
func SplitTable(w io.Writer, g board.Grouped, ctx Context) {
	if len(g.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	var all []*task.Task
	for _, grp := range g.Groups {
		all = append(all, grp.Tasks...)
	}
	widths := measure(all, ctx)

	for i, grp := range g.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d)", grp.Assignee, len(grp.Tasks))
		fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(title))
		writeHeader(w, widths)
		for _, t := range grp.Tasks {
			writeRow(w, t, widths, ctx)
		}
	}
}

// GroupedTasks renders a grouper result in its own mode.
func GroupedTasks(w io.Writer, g board.Grouped, ctx Context) {
	if g.Mode == board.ViewSplit {
		SplitTable(w, g, ctx)
		return
	}
	TaskTable(w, g.Tasks, ctx)
}

func writeHeader(w io.Writer, c columnWidths) {
	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %-*s %s",
		c.id, "ID", c.name, "TASK", c.assignee, "ASSIGNEE", c.client, "CLIENT",
		c.list, "LIST", c.status, "STATUS", c.prio, "PRIORITY", "DUE")
	fmt.Fprintln(w, headerStyle.Render(header))
}

func writeRow(w io.Writer, t *task.Task, c columnWidths, ctx Context) {
	id := "  #" + strconv.Itoa(t.ID)
	if ctx.selected(t.ID) {
		id = selectedStyle.Render("* #" + strconv.Itoa(t.ID))
	}
	name := t.Name
	if len(name) > maxNameW {
		name = name[:maxNameW-3] + "..."
	}
	assignee := t.Assignee
	if assignee == "" {
		assignee = dimStyle.Render(board.UnassignedLabel)
	}
	client := ctx.Dir.ClientName(t.ProjectID)
	if len(client) > maxClientW {
		client = client[:maxClientW-3] + "..."
	}

	row := fmt.Sprintf("%s %s %s %s %s %s %s %s",
		padRight(id, c.id),
		padRight(name, c.name),
		padRight(assignee, c.assignee),
		padRight(styledOrDash(client, clientStyle), c.client),
		padRight(ctx.Dir.TaskListName(board.ListID(t)), c.list),
		padRight(styledValue(t.Status, statusStyles), c.status),
		padRight(styledOrDash(t.Priority, styleFor(priorityStyles, t.Priority)), c.prio),
		dueDisplay(t, ctx.Now))
	fmt.Fprintln(w, strings.TrimRight(row, " "))
}

// dueDisplay renders a due date highlighted when overdue or due soon.
func dueDisplay(t *task.Task, now time.Time) string {
	switch {
	case t.DueDate == "":
		return dimStyle.Render("--")
	case board.IsOverdue(t.DueDate, t.Status, now):
		return overdueStyle.Render(t.DueDate + " !")
	case !t.IsCompleted() && board.IsDueSoon(t.DueDate, now):
		return dueSoonStyle.Render(t.DueDate)
	}
	return t.DueDate
}

// KanbanTable renders kanban columns as stacked status sections.
func KanbanTable(w io.Writer, cols []board.StatusColumn, ctx Context) {
	for i, col := range cols {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d)", col.Status, len(col.Tasks))
		fmt.Fprintln(w, styleFor(statusStyles, col.Status).Render(title))
		if len(col.Tasks) == 0 {
			fmt.Fprintln(w, "  "+dimStyle.Render("--"))
			continue
		}
		for _, t := range col.Tasks {
			line := "  #" + strconv.Itoa(t.ID) + " " + t.Name
			if t.Assignee != "" {
				line += " @" + t.Assignee
			}
			if t.DueDate != "" {
				line += " " + dueDisplay(t, ctx.Now)
			}
			fmt.Fprintln(w, line)
		}
	}
}

// TaskDetail renders a single task with full detail.
func TaskDetail(w io.Writer, t *task.Task, ctx Context) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Name)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Status", styledValue(t.Status, statusStyles))
	printField(w, "Priority", styledOrDash(t.Priority, styleFor(priorityStyles, t.Priority)))
	printField(w, "Assignee", stringOrDash(t.Assignee))
	printField(w, "Project", stringOrDash(t.ProjectID))
	printField(w, "Client", stringOrDash(ctx.Dir.ClientName(t.ProjectID)))
	printField(w, "List", ctx.Dir.TaskListName(board.ListID(t)))
	if t.DueDate != "" {
		printField(w, "Due", dueDisplay(t, ctx.Now))
	} else {
		printField(w, "Due", dimStyle.Render("--"))
	}
	if t.TimeTracked > 0 {
		printField(w, "Tracked", FormatSeconds(t.TimeTracked))
	}
	printField(w, "Created", t.Created.Format("2006-01-02 15:04"))
	printField(w, "Updated", t.Updated.Format("2006-01-02 15:04"))
	if t.CompletedAt != nil {
		printField(w, "Completed", t.CompletedAt.Format("2006-01-02 15:04"))
		printField(w, "Lead time", FormatDuration(t.CompletedAt.Sub(t.Created)))
	}

	if len(t.Subtasks) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Subtasks"))
		for _, s := range t.Subtasks {
			fmt.Fprintln(w, "  - "+s)
		}
	}

	if body := RenderMarkdown(t.Body, 0); body != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, body)
	}
}

// OverviewTable renders a board summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(s.BoardName))
	fmt.Fprintf(w, "Total: %d tasks, %d overdue, %d due soon\n\n", s.TotalTasks, s.Overdue, s.DueSoon)

	const colW = 16
	header := fmt.Sprintf("%-*s %6s %8s %9s", colW, "STATUS", "COUNT", "OVERDUE", "DUE SOON")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, ss := range s.Statuses {
		fmt.Fprintf(w, "%s %6d %8d %9d\n",
			padRight(styledValue(ss.Status, statusStyles), colW),
			ss.Count, ss.Overdue, ss.DueSoon)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", colW, "PRIORITY", "COUNT")))
	for _, pc := range s.Priorities {
		fmt.Fprintf(w, "%s %6d\n", padRight(styledValue(pc.Priority, priorityStyles), colW), pc.Count)
	}

	if len(s.Assignees) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", colW, "ASSIGNEE", "COUNT")))
		for _, ac := range s.Assignees {
			fmt.Fprintf(w, "%-*s %6d\n", colW, ac.Assignee, ac.Count)
		}
	}
}

// ViewState renders the active view settings.
func ViewState(w io.Writer, v *board.View) {
	printField(w, "Mode", string(v.Mode))
	printField(w, "Layout", string(v.Layout))
	printField(w, "Window", string(v.Window))
	printField(w, "Completed", string(v.Completed))
	printField(w, "Focus", string(v.Focus))
	printField(w, "Search", stringOrDash(v.Search))
	if v.Sort.IsSet() {
		printField(w, "Sort", string(v.Sort.Column)+" "+string(v.Sort.Direction))
	} else {
		printField(w, "Sort", dimStyle.Render("default"))
	}
	for _, d := range board.Dimensions() {
		printField(w, strings.ToUpper(string(d[:1]))+string(d[1:]), criteriaDisplay(v.Filters.Get(d)))
	}
	sel := dimStyle.Render("off")
	if v.Selection.MultiSelect {
		sel = strconv.Itoa(len(v.Selection.IDs)) + " selected"
	}
	printField(w, "Selection", sel)
}

func criteriaDisplay(c *board.Criteria) string {
	if c.Unconstrained() {
		return dimStyle.Render("any") + " " + dimStyle.Render("("+string(c.CurrentMode())+")")
	}
	var parts []string
	for _, v := range c.Included {
		parts = append(parts, "+"+labelOrUnassigned(v))
	}
	for _, v := range c.Excluded {
		parts = append(parts, "-"+labelOrUnassigned(v))
	}
	return strings.Join(parts, " ") + " " + dimStyle.Render("("+string(c.CurrentMode())+")")
}

func labelOrUnassigned(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}

// TimerStatus renders the timer state with the running task's name.
func TimerStatus(w io.Writer, st TimerView) {
	switch st.State {
	case timer.Idle:
		fmt.Fprintln(w, dimStyle.Render("No timer running."))
		return
	case timer.PendingSwitch:
		fmt.Fprintf(w, "Switch pending: #%d -> #%d (confirm or cancel)\n", st.Pending.FromTaskID, st.Pending.ToTaskID)
	}
	s := st.Session
	state := "running"
	if s.Paused() {
		state = "paused"
	}
	fmt.Fprintf(w, "Timer %s on #%d %s: %s\n", state, s.TaskID, st.TaskName, FormatSeconds(st.Elapsed))
}

// TimerView is the renderable timer state.
type TimerView struct {
	State    timer.State    `json:"state"`
	Session  *timer.Session `json:"session,omitempty"`
	Pending  *timer.Switch  `json:"pending,omitempty"`
	TaskName string         `json:"task_name,omitempty"`
	Elapsed  int64          `json:"elapsed_seconds"`
}

// TimeEntriesTable renders recorded time entries with a total.
func TimeEntriesTable(w io.Writer, recs []timesheet.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(os.Stderr, "No time entries found.")
		return
	}
	header := fmt.Sprintf("%-6s %-10s %-17s %-17s %s", "TASK", "PROJECT", "STARTED", "STOPPED", "DURATION")
	fmt.Fprintln(w, headerStyle.Render(header))
	var total int64
	for _, r := range recs {
		total += r.Seconds
		fmt.Fprintf(w, "%-6s %s %-17s %-17s %s\n",
			"#"+strconv.Itoa(r.TaskID),
			padRight(stringOrDash(r.ProjectID), 10), //nolint:mnd // column width
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.StoppedAt.Local().Format("2006-01-02 15:04"),
			FormatSeconds(r.Seconds))
	}
	fmt.Fprintln(w, dimStyle.Render("Total: "+FormatSeconds(total)))
}

// TimeTotalsTable renders booked seconds per task, highest first.
func TimeTotalsTable(w io.Writer, totals map[int]int64) {
	if len(totals) == 0 {
		fmt.Fprintln(os.Stderr, "No time entries found.")
		return
	}
	ids := make([]int, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if totals[ids[i]] != totals[ids[j]] {
			return totals[ids[i]] > totals[ids[j]]
		}
		return ids[i] < ids[j]
	})
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-6s %s", "TASK", "BOOKED")))
	for _, id := range ids {
		fmt.Fprintf(w, "%-6s %s\n", "#"+strconv.Itoa(id), FormatSeconds(totals[id]))
	}
}

// LogTable renders activity log entries.
func LogTable(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	for _, e := range entries {
		id := dimStyle.Render("--")
		if e.TaskID > 0 {
			id = "#" + strconv.Itoa(e.TaskID)
		}
		fmt.Fprintf(w, "%s  %-8s %s %s\n",
			dimStyle.Render(e.Timestamp.Local().Format("2006-01-02 15:04")),
			e.Action, padRight(id, 5), e.Detail) //nolint:mnd // column width
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// FormatDuration renders a duration as human-readable "Xd Yh" or "Xh Ym".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	}
	minutes := int(d.Minutes()) % 60 //nolint:mnd // 60 minutes per hour
	return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
}

// FormatSeconds renders tracked seconds as a clock "H:MM:SS".
func FormatSeconds(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60) //nolint:mnd // clock arithmetic
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

func styledOrDash(s string, st lipgloss.Style) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return st.Render(s)
}

func styleFor(styles map[string]lipgloss.Style, key string) lipgloss.Style {
	if st, ok := styles[key]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
