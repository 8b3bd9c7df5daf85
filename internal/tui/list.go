package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timer"
)

// headerCell is the clickable extent of a sortable column header.
type headerCell struct {
	col   board.Column
	x     int
	width int
}

type listLine struct {
	text string
	id   int
}

var columnTitles = map[board.Column]string{
	board.ColTask:     "TASK",
	board.ColAssignee: "ASSIGNEE",
	board.ColClient:   "CLIENT",
	board.ColList:     "LIST",
	board.ColStatus:   "STATUS",
	board.ColPriority: "PRIORITY",
	board.ColDueDate:  "DUE",
}

// gutter holds the cursor, selection and timer markers.
const gutter = 8

func (b *Board) listWidths() map[board.Column]int {
	w := map[board.Column]int{
		board.ColTask:     12,
		board.ColAssignee: 10,
		board.ColClient:   8,
		board.ColList:     6,
		board.ColStatus:   8,
		board.ColPriority: 10,
		board.ColDueDate:  12,
	}
	const pad = 2
	for _, t := range b.result.Tasks {
		w[board.ColTask] = max(w[board.ColTask], min(len(t.Name), 40)+pad) //nolint:mnd // max name width
		w[board.ColAssignee] = max(w[board.ColAssignee], len(board.AssigneeLabel(t.Assignee))+pad)
		w[board.ColClient] = max(w[board.ColClient], min(len(b.cfg.ClientName(t.ProjectID)), 20)+pad) //nolint:mnd // max client width
		w[board.ColList] = max(w[board.ColList], len(b.cfg.TaskListName(board.ListID(t)))+pad)
		w[board.ColStatus] = max(w[board.ColStatus], len(t.Status)+pad)
	}
	return w
}

func (b *Board) viewList() string {
	widths := b.listWidths()

	// Header with sort indicators; cells are remembered for mouse clicks.
	b.header = b.header[:0]
	var hdr strings.Builder
	hdr.WriteString(strings.Repeat(" ", gutter))
	x := gutter
	for _, col := range board.Columns() {
		title := columnTitles[col]
		if b.state.Sort.Column == col {
			if b.state.Sort.Direction == board.Desc {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		cw := max(widths[col], lipgloss.Width(title)+1)
		widths[col] = cw
		hdr.WriteString(padRight(title, cw))
		b.header = append(b.header, headerCell{col: col, x: x, width: cw})
		x += cw
	}

	var lines []listLine
	if b.result.Grouped.Mode == board.ViewSplit {
		for _, g := range b.result.Grouped.Groups {
			lines = append(lines, listLine{text: groupStyle.Render(fmt.Sprintf("%s (%d)", g.Assignee, len(g.Tasks)))})
			for _, t := range g.Tasks {
				lines = append(lines, b.taskLines(t, widths)...)
			}
		}
	} else {
		for _, t := range b.result.Tasks {
			lines = append(lines, b.taskLines(t, widths)...)
		}
	}
	if len(lines) == 0 {
		lines = append(lines, listLine{text: dimStyle.Render("  No tasks match the current view.")})
	}

	// Window the lines around the cursor.
	avail := max(b.height-b.chromeHeight()-1, 1)
	cursorLine := b.cursorLine(lines)
	switch {
	case cursorLine < b.lineOff:
		b.lineOff = cursorLine
	case cursorLine >= b.lineOff+avail:
		b.lineOff = cursorLine - avail + 1
	}
	b.lineOff = min(b.lineOff, max(len(lines)-avail, 0))
	end := min(b.lineOff+avail, len(lines))
	visible := lines[b.lineOff:end]

	b.rowIDs = b.rowIDs[:0]
	rendered := make([]string, 0, avail+1)
	rendered = append(rendered, headerStyle.Render(truncate(hdr.String(), b.width)))
	for _, l := range visible {
		b.rowIDs = append(b.rowIDs, l.id)
		rendered = append(rendered, l.text)
	}
	for len(rendered) < avail+1 {
		rendered = append(rendered, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(rendered, "\n"), "", b.renderStatusBar())
}

// cursorLine returns the index of the line holding the cursor task.
func (b *Board) cursorLine(lines []listLine) int {
	if b.cursor >= len(b.result.Order) {
		return 0
	}
	id := b.result.Order[b.cursor]
	for i, l := range lines {
		if l.id == id {
			return i
		}
	}
	return 0
}

// taskLines renders a task row plus its subtasks when expanded.
func (b *Board) taskLines(t *task.Task, widths map[board.Column]int) []listLine {
	sel := &b.state.Selection
	var g strings.Builder
	if b.cursor < len(b.result.Order) && b.result.Order[b.cursor] == t.ID {
		g.WriteString("› ")
	} else {
		g.WriteString("  ")
	}
	switch {
	case sel.MultiSelect && sel.Has(t.ID):
		g.WriteString("[x] ")
	case sel.MultiSelect:
		g.WriteString("[ ] ")
	case t.HasSubtasks() && sel.IsExpanded(t.ID):
		g.WriteString(" ▾  ")
	case t.HasSubtasks():
		g.WriteString(" ▸  ")
	default:
		g.WriteString("    ")
	}
	if s := b.timer.Session(); s != nil && s.TaskID == t.ID {
		g.WriteString(timerStyle.Render("●"))
	}

	cells := map[board.Column]string{
		board.ColTask:     truncate(t.Name, widths[board.ColTask]-1),
		board.ColAssignee: board.AssigneeLabel(t.Assignee),
		board.ColClient:   orDash(b.cfg.ClientName(t.ProjectID)),
		board.ColList:     b.cfg.TaskListName(board.ListID(t)),
		board.ColStatus:   statusStyle(t.Status).Render(t.Status),
		board.ColPriority: priorityStyle(t.Priority).Render(orDash(t.Priority)),
		board.ColDueDate:  b.dueLabel(t),
	}
	if t.Assignee == "" {
		cells[board.ColAssignee] = dimStyle.Render(board.UnassignedLabel)
	}

	var row strings.Builder
	row.WriteString(padRight(g.String(), gutter))
	for _, col := range board.Columns() {
		row.WriteString(padRight(cells[col], widths[col]))
	}

	text := truncate(strings.TrimRight(row.String(), " "), b.width)
	if sel.Has(t.ID) {
		text = selectedRowStyle.Render(text)
	}
	lines := []listLine{{text: text, id: t.ID}}
	if t.HasSubtasks() && sel.IsExpanded(t.ID) {
		for _, s := range t.Subtasks {
			lines = append(lines, listLine{text: dimStyle.Render(strings.Repeat(" ", gutter+2) + "- " + s), id: t.ID})
		}
	}
	return lines
}

func (b *Board) dueLabel(t *task.Task) string {
	now := b.now()
	switch {
	case t.DueDate == "":
		return dimStyle.Render("--")
	case board.IsOverdue(t.DueDate, t.Status, now):
		return overdueStyle.Render(t.DueDate)
	case !t.IsCompleted() && board.IsDueSoon(t.DueDate, now):
		return dueSoonStyle.Render(t.DueDate)
	}
	return t.DueDate
}

// chromeHeight returns the number of lines consumed by non-task elements below
// the task area: blank line + status bar (+ error line when an error is shown).
func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil {
		h += errorChrome
	}
	if b.view == viewSearch {
		h++
	}
	return h
}

func (b *Board) renderStatusBar() string {
	var parts []string
	parts = append(parts, b.cfg.Board.Name)
	parts = append(parts, fmt.Sprintf("%d/%d tasks", len(b.result.Tasks), len(b.tasks)))
	parts = append(parts, string(b.state.Mode)+" "+string(b.state.Layout))
	parts = append(parts, "completed:"+string(b.state.Completed))
	if b.state.Window != board.WindowAll {
		parts = append(parts, "due:"+string(b.state.Window))
	}
	if n := b.state.Filters.ActiveCount(); n > 0 {
		parts = append(parts, "filters:"+strconv.Itoa(n))
	}
	if b.state.Search != "" && b.view != viewSearch {
		parts = append(parts, "search:"+b.state.Search)
	}
	if b.state.Selection.MultiSelect {
		parts = append(parts, strconv.Itoa(len(b.state.Selection.IDs))+" selected")
	}
	if s := b.timer.Session(); s != nil {
		label := fmt.Sprintf("● #%d %s", s.TaskID, output.FormatSeconds(b.timer.Elapsed()))
		if s.Paused() {
			label += " (paused)"
		}
		if b.timer.State() == timer.PendingSwitch {
			label += " (switch pending)"
		}
		parts = append(parts, timerStyle.Render(label))
	}

	status := " " + strings.Join(parts, " | ")
	hints := " /:search f:filter v:split tab:kanban c:completed w:window 1-7:sort m:multi a:all t:timer s:stop C/T/H/M/L:bulk d:del q:quit"
	if b.notice != "" {
		hints = " " + b.notice
	}

	var out []string
	if b.view == viewSearch {
		out = append(out, b.search.View())
	}
	if b.err != nil {
		out = append(out, errorStyle.Render(truncate("Error: "+b.err.Error(), b.width)))
	}
	out = append(out, statusBarStyle.Render(truncate(status, b.width)))
	out = append(out, statusBarStyle.Render(truncate(hints, b.width)))
	return strings.Join(out, "\n")
}

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}
