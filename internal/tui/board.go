// Package tui implements a terminal UI for taskdeck boards.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/session"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timer"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timesheet"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewSearch
	viewFilter
	viewConfirmDelete
	viewConfirmSwitch
)

// Key and layout constants.
const (
	keyEsc = "esc"

	boardChrome  = 3           // blank line, status line and key hints below the task area
	errorChrome  = 1           // extra line when error toast is displayed
	tickInterval = time.Second // timer readout refresh
)

// Board is the top-level bubbletea model.
type Board struct {
	cfg      *config.Config
	store    *task.Store
	sessions *session.Store
	sheet    *timesheet.Store
	timer    *timer.Manager

	state  *board.View
	tasks  []*task.Task
	result board.Result

	// List layout.
	cursor  int // index into result.Order
	lineOff int
	rowIDs  []int // task id per rendered list line, 0 for none
	header  []headerCell

	// Kanban layout.
	columns   []column
	activeCol int
	activeRow int

	view   view
	width  int
	height int
	err    error
	notice string
	now    func() time.Time

	search     textinput.Model
	prevSearch string
	picker     filterPicker

	deleteID   int
	deleteName string
}

// Stores bundles the persistence the board works against. Sessions and
// Timesheet may be nil, which disables view and timer persistence.
type Stores struct {
	Tasks     *task.Store
	Sessions  *session.Store
	Timesheet *timesheet.Store
}

// NewBoard creates a new Board model from a config.
func NewBoard(cfg *config.Config, st Stores) *Board {
	b := &Board{
		cfg:      cfg,
		store:    st.Tasks,
		sessions: st.Sessions,
		sheet:    st.Timesheet,
		now:      time.Now,
	}
	b.timer = timer.New(timer.WithClock(func() time.Time { return b.now() }))

	b.state = board.NewViewFromDefaults(cfg.Defaults)
	if b.sessions != nil {
		v, err := b.sessions.Load(cfg.Defaults)
		if err != nil {
			b.err = err
		} else {
			b.state = v
		}
	}
	if b.sheet != nil {
		snap, err := b.sheet.LoadState()
		if err != nil {
			b.err = err
		}
		b.timer.Restore(snap)
	}

	b.search = textinput.New()
	b.search.Prompt = "/ "
	b.search.Placeholder = "search name, assignee, client"
	b.search.CharLimit = 100

	b.loadTasks()
	return b
}

// SetNow overrides the clock function used for due dates and the timer (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
	b.refresh()
}

// State returns the view state driving the board.
func (b *Board) State() *board.View {
	return b.state
}

// Timer returns the board's timer.
func (b *Board) Timer() *timer.Manager {
	return b.timer
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.search.Width = max(msg.Width-4, 10) //nolint:mnd // prompt and padding
		return b, nil
	case ReloadMsg:
		b.loadTasks()
		return b, nil
	case TickMsg:
		return b, tickCmd()
	case errMsg:
		b.err = msg.err
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewConfirmDelete:
		return b.viewDeleteConfirm()
	case viewConfirmSwitch:
		return b.viewSwitchConfirm()
	case viewFilter:
		return b.viewFilterPicker()
	default:
		if b.state.Layout == board.LayoutKanban {
			return b.viewKanban()
		}
		return b.viewList()
	}
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys.
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return b, tea.Quit
	}

	switch b.view {
	case viewBoard:
		return b.handleBoardKey(msg)
	case viewSearch:
		return b.handleSearchKey(msg)
	case viewFilter:
		return b.handlePickerKey(msg)
	case viewConfirmDelete:
		return b.handleDeleteKey(msg)
	case viewConfirmSwitch:
		return b.handleSwitchKey(msg)
	}

	return b, nil
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b.notice = ""
	k := msg.String()

	if col, ok := sortKeys[k]; ok {
		b.state.ClickSort(col)
		b.viewChanged()
		return b, nil
	}

	switch k {
	case "q", keyEsc:
		return b, tea.Quit
	case "j", "down":
		b.moveCursor(1)
	case "k", "up":
		b.moveCursor(-1)
	case "h", "left":
		if b.state.Layout == board.LayoutKanban && b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case "l", "right":
		if b.state.Layout == board.LayoutKanban && b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case "tab":
		if b.state.Layout == board.LayoutKanban {
			b.state.Layout = board.LayoutList
		} else {
			b.state.Layout = board.LayoutKanban
		}
		b.viewChanged()
	case "v":
		b.state.ToggleMode()
		b.viewChanged()
	case "c":
		b.state.CycleCompleted()
		b.viewChanged()
	case "w":
		b.state.CycleWindow()
		b.viewChanged()
	case "/":
		b.prevSearch = b.state.Search
		b.search.SetValue(b.state.Search)
		b.search.CursorEnd()
		b.view = viewSearch
		return b, b.search.Focus()
	case "f":
		b.openPicker()
	case "m":
		b.state.Selection.SetMultiSelect(!b.state.Selection.MultiSelect)
		b.viewChanged()
	case " ", "enter":
		b.clickCursor(false)
	case "S":
		b.clickCursor(true)
	case "a":
		b.state.Selection.SelectAll(b.result.Order)
		b.viewChanged()
	case "x":
		b.state.Selection.Clear()
		b.viewChanged()
	case "C":
		b.bulk(board.MarkComplete())
	case "T":
		b.bulk(board.MarkTodo())
	case "H":
		b.bulk(board.SetPriority(task.PriorityHigh))
	case "M":
		b.bulk(board.SetPriority(task.PriorityMedium))
	case "L":
		b.bulk(board.SetPriority(task.PriorityLow))
	case "t":
		b.startTimer()
	case "s":
		b.stopTimer()
	case "p":
		b.togglePause()
	case "d", "D":
		b.handleDeleteStart()
	}
	return b, nil
}

// sortKeys maps the number row to header clicks in column order.
var sortKeys = func() map[string]board.Column {
	m := make(map[string]board.Column)
	for i, c := range board.Columns() {
		m[fmt.Sprint(i+1)] = c
	}
	return m
}()

func (b *Board) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		b.search.Blur()
		b.view = viewBoard
		b.viewChanged()
		return b, nil
	case keyEsc:
		b.search.Blur()
		b.state.Search = b.prevSearch
		b.view = viewBoard
		b.refresh()
		return b, nil
	}
	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	b.state.Search = b.search.Value()
	b.refresh()
	return b, cmd
}

// handleMouse maps clicks on the list header to sort clicks and clicks on
// rows to selection clicks, honoring shift.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return b, nil
	}
	if b.view != viewBoard {
		return b, nil
	}
	if b.state.Layout == board.LayoutKanban {
		return b.handleKanbanMouse(msg)
	}

	if msg.Y == 0 {
		for _, cell := range b.header {
			if msg.X >= cell.x && msg.X < cell.x+cell.width {
				b.state.ClickSort(cell.col)
				b.viewChanged()
				break
			}
		}
		return b, nil
	}

	line := msg.Y - 1
	if line < 0 || line >= len(b.rowIDs) || b.rowIDs[line] == 0 {
		return b, nil
	}
	id := b.rowIDs[line]
	for i, oid := range b.result.Order {
		if oid == id {
			b.cursor = i
			break
		}
	}
	b.click(id, msg.Shift)
	return b, nil
}

func (b *Board) moveCursor(delta int) {
	if b.state.Layout == board.LayoutKanban {
		col := b.currentColumn()
		if col == nil {
			return
		}
		next := b.activeRow + delta
		if next >= 0 && next < len(col.tasks) {
			b.activeRow = next
			b.ensureVisible()
		}
		return
	}
	next := b.cursor + delta
	if next >= 0 && next < len(b.result.Order) {
		b.cursor = next
	}
}

func (b *Board) clickCursor(shift bool) {
	if t := b.selectedTask(); t != nil {
		b.click(t.ID, shift)
	}
}

func (b *Board) click(id int, shift bool) {
	t := b.taskByID(id)
	if t == nil {
		return
	}
	b.state.Selection.Click(id, board.ClickEvent{Shift: shift}, b.result.Order, t.HasSubtasks())
	b.viewChanged()
}

func (b *Board) bulk(op board.BulkOp) {
	if len(b.state.Selection.IDs) == 0 {
		b.notice = "No tasks selected (m: multi-select)"
		return
	}
	res, err := board.BulkMutate(&b.state.Selection, b.tasks, op, b.store, b.now())
	if err != nil {
		b.err = err
	}
	updated := res.Updated()
	for _, t := range updated {
		board.LogMutation(b.cfg.Dir(), "bulk", t.ID, op.String())
	}
	b.notice = fmt.Sprintf("%s: %d updated", op, len(updated))
	b.saveView()
	b.loadTasks()
}

func (b *Board) startTimer() {
	t := b.selectedTask()
	if t == nil {
		return
	}
	out := b.timer.Start(t.ID, t.ProjectID)
	b.timerChanged(out)
	if out.State == timer.PendingSwitch {
		b.view = viewConfirmSwitch
	}
}

func (b *Board) stopTimer() {
	entry, ok := b.timer.Stop()
	if !ok {
		b.notice = "No timer running"
		return
	}
	b.timerChanged(timer.Outcome{State: timer.Idle, Stopped: &entry})
}

func (b *Board) togglePause() {
	if !b.timer.Pause() {
		b.timer.Resume()
	}
	b.saveTimer()
}

func (b *Board) handleSwitchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		b.timerChanged(b.timer.Confirm())
		b.view = viewBoard
	case "n", "N", keyEsc, "q":
		b.timerChanged(b.timer.Cancel())
		b.view = viewBoard
	}
	return b, nil
}

// timerChanged books a stopped entry, if any, and persists the timer.
func (b *Board) timerChanged(out timer.Outcome) {
	if out.Stopped != nil {
		b.notice = fmt.Sprintf("Stopped #%d after %s", out.Stopped.TaskID, output.FormatSeconds(out.Stopped.Seconds))
	}
	if b.sheet == nil {
		return
	}
	st, err := b.sheet.Settle(out, b.timer.Snapshot(), b.store, b.now())
	switch {
	case err != nil:
		b.err = err
	case st.BookErr != nil:
		b.err = st.BookErr
	}
	if out.Stopped != nil {
		b.loadTasks()
	}
}

func (b *Board) saveTimer() {
	if b.sheet == nil {
		return
	}
	if err := b.sheet.SaveState(b.timer.Snapshot()); err != nil {
		b.err = err
	}
}

func (b *Board) handleDeleteStart() {
	if t := b.selectedTask(); t != nil {
		b.deleteID = t.ID
		b.deleteName = t.Name
		b.view = viewConfirmDelete
	}
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return b.executeDelete()
	case "n", "N", keyEsc, "q":
		b.view = viewBoard
	}
	return b, nil
}

func (b *Board) executeDelete() (tea.Model, tea.Cmd) {
	t := b.taskByID(b.deleteID)
	if t == nil {
		b.err = fmt.Errorf("task #%d is gone", b.deleteID)
		b.view = viewBoard
		return b, nil
	}

	repl := t.Clone()
	repl.Status = config.ArchivedStatus
	repl.Updated = b.now()
	if err := b.store.UpdateTask(repl); err != nil {
		b.err = fmt.Errorf("archiving task #%d: %w", b.deleteID, err)
	} else {
		board.LogMutation(b.cfg.Dir(), "delete", b.deleteID, b.deleteName)
	}

	b.view = viewBoard
	b.loadTasks()
	return b, nil
}

// loadTasks reads all live tasks and recomputes the view.
func (b *Board) loadTasks() {
	tasks, _, err := board.Load(b.cfg, b.store)
	if err != nil {
		b.err = err
		return
	}
	b.err = nil
	b.tasks = tasks
	b.refresh()
}

// refresh reapplies the view state to the loaded tasks.
func (b *Board) refresh() {
	b.result = b.state.Apply(b.tasks, b.cfg, b.now())
	b.buildColumns()
	if b.cursor >= len(b.result.Order) {
		b.cursor = max(len(b.result.Order)-1, 0)
	}
}

// viewChanged recomputes and persists the view state.
func (b *Board) viewChanged() {
	b.refresh()
	b.saveView()
}

func (b *Board) saveView() {
	if b.sessions == nil {
		return
	}
	if err := b.sessions.Save(b.state); err != nil {
		b.err = err
	}
}

func (b *Board) taskByID(id int) *task.Task {
	for _, t := range b.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (b *Board) selectedTask() *task.Task {
	if b.state.Layout == board.LayoutKanban {
		col := b.currentColumn()
		if col == nil || b.activeRow < 0 || b.activeRow >= len(col.tasks) {
			return nil
		}
		return col.tasks[b.activeRow]
	}
	if b.cursor < 0 || b.cursor >= len(b.result.Order) {
		return nil
	}
	return b.taskByID(b.result.Order[b.cursor])
}

// WatchPaths returns the paths that should be watched for file changes.
func (b *Board) WatchPaths() []string {
	paths := []string{b.cfg.TasksPath()}
	if b.cfg.Dir() != b.cfg.TasksPath() {
		paths = append(paths, b.cfg.Dir())
	}
	return paths
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

type errMsg struct{ err error }

// TickMsg is sent periodically to refresh the timer readout.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}
