package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/session"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timer"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timesheet"
)

var t0 = time.Date(2026, 3, 11, 12, 0, 0, 0, time.Local)

type fixtureBoard struct {
	*Board
	tasks    *task.Store
	sessions *session.Store
	clock    time.Time
}

func newTestBoard(t *testing.T, sheet *timesheet.Store) *fixtureBoard {
	t.Helper()
	cfg := config.NewDefault("test")
	cfg.SetDir(t.TempDir())
	cfg.Projects = []config.ProjectConfig{{ID: "p1", Name: "Website", Client: "Acme"}}

	fsys := afero.NewMemMapFs()
	store := task.NewStore(fsys, "/board/tasks")
	for _, tk := range []*task.Task{
		{ID: 1, Name: "Write report", Assignee: "alice", Status: task.StatusTodo, Priority: task.PriorityHigh, DueDate: "2026-03-10", ProjectID: "p1"},
		{ID: 2, Name: "Fix bug", Assignee: "bob", Status: task.StatusInProgress, Priority: task.PriorityMedium, DueDate: "2026-03-12"},
		{ID: 3, Name: "Plan sprint", Status: task.StatusTodo, Priority: task.PriorityLow, Subtasks: []string{"agenda", "invite"}},
		{ID: 4, Name: "Call Acme", Assignee: "alice", Status: task.StatusBlocked, ProjectID: "p1"},
	} {
		require.NoError(t, store.Create(tk))
	}
	sessions := session.NewStore(fsys, "/board")

	fb := &fixtureBoard{tasks: store, sessions: sessions, clock: t0}
	fb.Board = NewBoard(cfg, Stores{Tasks: store, Sessions: sessions, Timesheet: sheet})
	fb.SetNow(func() time.Time { return fb.clock })
	fb.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	fb.View()
	return fb
}

func (fb *fixtureBoard) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		fb.Update(msg)
		fb.View()
	}
}

func (fb *fixtureBoard) clickAt(x, y int, shift bool) {
	fb.Update(tea.MouseMsg{X: x, Y: y, Shift: shift, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	fb.View()
}

func (fb *fixtureBoard) stored(t *testing.T, id int) *task.Task {
	t.Helper()
	tk, err := fb.tasks.Load(id)
	require.NoError(t, err)
	return tk
}

func TestViewBeforeResize(t *testing.T) {
	b := NewBoard(config.NewDefault("test"), Stores{Tasks: task.NewStore(afero.NewMemMapFs(), "/tasks")})
	assert.Equal(t, "Loading...", b.View())
}

func TestDefaultOrderPutsOverdueFirst(t *testing.T) {
	fb := newTestBoard(t, nil)
	require.Len(t, fb.result.Order, 4)
	assert.Equal(t, 1, fb.result.Order[0])
	assert.Contains(t, fb.View(), "Write report")
	assert.Contains(t, fb.View(), "Unassigned")
}

func TestFilterPickerAutoSwitchesToSplit(t *testing.T) {
	fb := newTestBoard(t, nil)

	fb.press("f")
	require.Equal(t, viewFilter, fb.view)
	assert.Equal(t, []string{"alice", "bob", ""}, fb.picker.values)
	assert.Contains(t, fb.View(), "Unassigned")

	fb.press(" ")
	assert.Equal(t, board.ViewTable, fb.State().Mode)
	fb.press("j", " ")
	assert.Equal(t, board.ViewSplit, fb.State().Mode)
	assert.Equal(t, []string{"alice", "bob"}, fb.State().Filters.Assignee.Included)
	assert.Len(t, fb.result.Tasks, 3)

	// Removing a value again leaves split mode in place.
	fb.press(" ")
	assert.Equal(t, board.ViewSplit, fb.State().Mode)

	fb.press("esc")
	assert.Equal(t, viewBoard, fb.view)
	assert.Contains(t, fb.View(), "alice (2)")

	saved, err := fb.sessions.Load(config.NewDefault("test").Defaults)
	require.NoError(t, err)
	assert.Equal(t, board.ViewSplit, saved.Mode)
}

func TestFilterPickerExcludeMode(t *testing.T) {
	fb := newTestBoard(t, nil)

	fb.press("f", "tab", "tab") // status
	require.Equal(t, board.DimStatus, fb.picker.dimension())
	fb.press("m", " ")
	assert.Equal(t, []string{task.StatusTodo}, fb.State().Filters.Status.Excluded)
	for _, tk := range fb.result.Tasks {
		assert.NotEqual(t, task.StatusTodo, tk.Status)
	}

	fb.press("c")
	assert.Zero(t, fb.State().Filters.ActiveCount())
}

func TestSortKeysCycle(t *testing.T) {
	fb := newTestBoard(t, nil)

	fb.press("6") // priority
	assert.Equal(t, board.ColPriority, fb.State().Sort.Column)
	assert.Equal(t, board.Asc, fb.State().Sort.Direction)
	assert.Contains(t, fb.View(), "PRIORITY ▲")

	fb.press("6")
	assert.Equal(t, board.Desc, fb.State().Sort.Direction)
	assert.Equal(t, 1, fb.result.Order[0])

	fb.press("6")
	assert.False(t, fb.State().Sort.IsSet())
}

func TestHeaderClickSorts(t *testing.T) {
	fb := newTestBoard(t, nil)

	var cell headerCell
	for _, c := range fb.header {
		if c.col == board.ColAssignee {
			cell = c
		}
	}
	require.NotZero(t, cell.x)

	fb.clickAt(cell.x+1, 0, false)
	assert.Equal(t, board.ColAssignee, fb.State().Sort.Column)
}

func TestShiftClickSelectsRange(t *testing.T) {
	fb := newTestBoard(t, nil)
	order := append([]int(nil), fb.result.Order...)

	fb.press("m")
	fb.clickAt(10, 1, false)
	fb.clickAt(10, 3, true)
	assert.ElementsMatch(t, order[:3], fb.State().Selection.IDs)

	fb.press("x")
	assert.Empty(t, fb.State().Selection.IDs)
	assert.False(t, fb.State().Selection.MultiSelect)
}

func TestKeyboardShiftClick(t *testing.T) {
	fb := newTestBoard(t, nil)
	order := append([]int(nil), fb.result.Order...)

	fb.press("m", " ", "j", "j", "j", "S")
	assert.ElementsMatch(t, order, fb.State().Selection.IDs)
}

func TestClickExpandsSubtasks(t *testing.T) {
	fb := newTestBoard(t, nil)
	for i, id := range fb.result.Order {
		if id == 3 {
			fb.cursor = i
		}
	}

	fb.press("enter")
	assert.True(t, fb.State().Selection.IsExpanded(3))
	assert.Contains(t, fb.View(), "- agenda")
	assert.Empty(t, fb.State().Selection.IDs)
}

func TestSelectAllAndBulkComplete(t *testing.T) {
	fb := newTestBoard(t, nil)

	fb.press("a")
	assert.True(t, fb.State().Selection.MultiSelect)
	assert.Len(t, fb.State().Selection.IDs, 4)

	fb.press("C")
	assert.Empty(t, fb.State().Selection.IDs)
	assert.False(t, fb.State().Selection.MultiSelect)
	for id := 1; id <= 4; id++ {
		tk := fb.stored(t, id)
		assert.Equal(t, task.StatusCompleted, tk.Status)
		assert.NotNil(t, tk.CompletedAt)
	}
	assert.Contains(t, fb.notice, "4 updated")
}

func TestBulkWithoutSelection(t *testing.T) {
	fb := newTestBoard(t, nil)
	fb.press("H")
	assert.Contains(t, fb.notice, "No tasks selected")
}

func TestBulkSetPriority(t *testing.T) {
	fb := newTestBoard(t, nil)
	fb.press("m", " ", "j", " ", "L")

	low := 0
	for id := 1; id <= 4; id++ {
		if fb.stored(t, id).Priority == task.PriorityLow {
			low++
		}
	}
	assert.GreaterOrEqual(t, low, 2)
}

func TestSearchLiveAndCancel(t *testing.T) {
	fb := newTestBoard(t, nil)

	fb.press("/", "b", "u", "g")
	require.Equal(t, viewSearch, fb.view)
	require.Len(t, fb.result.Tasks, 1)
	assert.Equal(t, "Fix bug", fb.result.Tasks[0].Name)

	fb.press("esc")
	assert.Equal(t, viewBoard, fb.view)
	assert.Empty(t, fb.State().Search)
	assert.Len(t, fb.result.Tasks, 4)

	fb.press("/", "a", "c", "m", "e", "enter")
	assert.Equal(t, "acme", fb.State().Search)
	assert.Len(t, fb.result.Tasks, 2) // client match plus name match
}

func TestCompletedCycle(t *testing.T) {
	fb := newTestBoard(t, nil)
	fb.press("a", "C")

	fb.press("c")
	assert.Equal(t, board.CompletedHide, fb.State().Completed)
	assert.Empty(t, fb.result.Tasks)

	// Kanban ignores completed visibility.
	fb.press("tab")
	assert.Equal(t, board.LayoutKanban, fb.State().Layout)
	assert.Len(t, fb.result.Tasks, 4)
	assert.Contains(t, fb.View(), "completed (4)")
}

func TestKanbanNavigationAndMouse(t *testing.T) {
	fb := newTestBoard(t, nil)
	fb.press("tab")
	require.NotEmpty(t, fb.columns)
	assert.Equal(t, task.StatusTodo, fb.columns[0].status)

	fb.press("l")
	assert.Equal(t, 1, fb.activeCol)
	require.NotNil(t, fb.selectedTask())
	assert.Equal(t, 2, fb.selectedTask().ID)

	fb.press("m")
	fb.clickAt(1, 2, false)
	assert.Equal(t, 0, fb.activeCol)
	assert.Len(t, fb.State().Selection.IDs, 1)
}

func TestTimerSwitchConfirmBooksTime(t *testing.T) {
	sheet, err := timesheet.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sheet.Close() })

	fb := newTestBoard(t, sheet)
	first := fb.result.Order[0]
	second := fb.result.Order[1]

	fb.press("t")
	assert.Equal(t, timer.Running, fb.Timer().State())

	fb.clock = t0.Add(90 * time.Second)
	fb.press("j", "t")
	require.Equal(t, viewConfirmSwitch, fb.view)
	assert.Equal(t, timer.PendingSwitch, fb.Timer().State())
	assert.Contains(t, fb.View(), "Switch timer?")

	fb.press("y")
	assert.Equal(t, viewBoard, fb.view)
	require.NotNil(t, fb.Timer().Session())
	assert.Equal(t, second, fb.Timer().Session().TaskID)
	assert.Equal(t, int64(90), fb.stored(t, first).TimeTracked)

	recs, err := sheet.ByTask(first)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(90), recs[0].Seconds)

	snap, err := sheet.LoadState()
	require.NoError(t, err)
	require.NotNil(t, snap.Session)
	assert.Equal(t, second, snap.Session.TaskID)
}

func TestTimerSwitchCancelKeepsRunning(t *testing.T) {
	fb := newTestBoard(t, nil)
	first := fb.result.Order[0]

	fb.press("t", "j", "t", "n")
	assert.Equal(t, viewBoard, fb.view)
	assert.Equal(t, timer.Running, fb.Timer().State())
	assert.Equal(t, first, fb.Timer().Session().TaskID)

	fb.press("s")
	assert.Equal(t, timer.Idle, fb.Timer().State())
	fb.press("s")
	assert.Equal(t, "No timer running", fb.notice)
}

func TestDeleteArchivesTask(t *testing.T) {
	fb := newTestBoard(t, nil)
	id := fb.result.Order[0]

	fb.press("d")
	require.Equal(t, viewConfirmDelete, fb.view)
	assert.Contains(t, fb.View(), "Delete task?")

	fb.press("y")
	assert.Equal(t, viewBoard, fb.view)
	assert.Equal(t, config.ArchivedStatus, fb.stored(t, id).Status)
	assert.Len(t, fb.result.Tasks, 3)
	assert.Nil(t, fb.taskByID(id))
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	fb := newTestBoard(t, nil)
	require.NoError(t, fb.tasks.Create(&task.Task{ID: 9, Name: "New from CLI", Status: task.StatusTodo}))

	fb.Update(ReloadMsg{})
	assert.Len(t, fb.result.Tasks, 5)
}
