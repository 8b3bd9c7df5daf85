package board

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

func TestGroupForView(t *testing.T) {
	tasks := fixture()

	table := GroupForView(tasks, ViewTable)
	assert.Equal(t, ViewTable, table.Mode)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(table.Tasks))
	assert.Nil(t, table.Groups)

	split := GroupForView(tasks, ViewSplit)
	require.Len(t, split.Groups, 3)
	assert.Equal(t, "alice", split.Groups[0].Assignee)
	assert.Equal(t, []int{1, 4}, ids(split.Groups[0].Tasks))
	assert.Equal(t, "bob", split.Groups[1].Assignee)
	assert.Equal(t, []int{2, 5}, ids(split.Groups[1].Tasks))
	assert.Equal(t, UnassignedLabel, split.Groups[2].Assignee)
}

func TestAutoSwitchNeverReverts(t *testing.T) {
	v := NewView()
	v.ToggleFilter(DimAssignee, "alice")
	assert.Equal(t, ViewTable, v.Mode)

	v.ToggleFilter(DimAssignee, "bob")
	assert.Equal(t, ViewSplit, v.Mode)

	v.ToggleFilter(DimAssignee, "bob")
	assert.Equal(t, ViewSplit, v.Mode)

	v.ClearFilters()
	assert.Equal(t, ViewSplit, v.Mode)

	v.SetMode(ViewTable)
	assert.Equal(t, ViewTable, v.Mode)
}

func TestAutoSwitchIgnoresExcludedAssignees(t *testing.T) {
	v := NewView()
	v.SetFilterMode(DimAssignee, ModeExclude)
	v.ToggleFilter(DimAssignee, "alice")
	v.ToggleFilter(DimAssignee, "bob")
	assert.Equal(t, ViewTable, v.Mode)
}

func TestKanbanColumns(t *testing.T) {
	cfg := testConfig()
	cols := KanbanColumns(fixture(), cfg.BoardStatuses())
	require.Len(t, cols, len(cfg.BoardStatuses()))
	byStatus := make(map[string][]int)
	for _, c := range cols {
		byStatus[c.Status] = ids(c.Tasks)
	}
	assert.Equal(t, []int{1, 4}, byStatus[task.StatusTodo])
	assert.Equal(t, []int{3}, byStatus[task.StatusCompleted])
	assert.NotContains(t, byStatus, config.ArchivedStatus)
}

func TestViewApplySplitOrder(t *testing.T) {
	v := NewView()
	v.SetMode(ViewSplit)
	v.Completed = CompletedHide

	res := v.Apply(fixture(), testConfig(), now)
	// Default sort gives 1,2,4,5; groups are alice(1,4) and bob(2,5).
	assert.Equal(t, []int{1, 2, 4, 5}, ids(res.Tasks))
	assert.Equal(t, []int{1, 4, 2, 5}, res.Order)
}

func TestNewViewFromDefaults(t *testing.T) {
	v := NewViewFromDefaults(config.DefaultsConfig{
		ViewMode:         "split",
		CompletedDisplay: "hide",
		TimeWindow:       "bogus",
		Layout:           "kanban",
	})
	assert.Equal(t, ViewSplit, v.Mode)
	assert.Equal(t, CompletedHide, v.Completed)
	assert.Equal(t, WindowAll, v.Window)
	assert.Equal(t, LayoutKanban, v.Layout)
}

func TestViewCycles(t *testing.T) {
	v := NewView()
	v.CycleCompleted()
	assert.Equal(t, CompletedHide, v.Completed)
	v.CycleCompleted()
	v.CycleCompleted()
	assert.Equal(t, CompletedInline, v.Completed)

	v.CycleWindow()
	assert.Equal(t, WindowToday, v.Window)
}

func TestSelectionClick(t *testing.T) {
	order := []int{1, 2, 3, 4, 5}

	var s Selection
	s.Click(2, ClickEvent{}, order, true)
	assert.Empty(t, s.IDs, "plain click outside multi-select does not select")
	assert.True(t, s.IsExpanded(2))
	s.Click(2, ClickEvent{}, order, true)
	assert.False(t, s.IsExpanded(2))

	s.SetMultiSelect(true)
	s.Click(2, ClickEvent{}, order, false)
	assert.Equal(t, []int{2}, s.IDs)

	s.Click(4, ClickEvent{Shift: true}, order, false)
	assert.Equal(t, []int{2, 3, 4}, s.IDs)

	s.Click(3, ClickEvent{}, order, false)
	assert.Equal(t, []int{2, 4}, s.IDs)
}

func TestSelectionShiftBackwards(t *testing.T) {
	s := Selection{IDs: []int{4}, MultiSelect: true}
	s.Click(2, ClickEvent{Shift: true}, []int{1, 2, 3, 4, 5}, false)
	assert.Equal(t, []int{4, 2, 3}, s.IDs)
}

func TestSelectionShiftWithHiddenAnchorToggles(t *testing.T) {
	s := Selection{IDs: []int{9}, MultiSelect: true}
	s.Click(2, ClickEvent{Shift: true}, []int{1, 2, 3}, false)
	assert.Equal(t, []int{9, 2}, s.IDs)
}

func TestSelectionSelectAll(t *testing.T) {
	order := []int{1, 2, 3}
	var s Selection

	s.SelectAll(order)
	assert.True(t, s.MultiSelect)
	assert.Equal(t, order, s.IDs)

	s.SelectAll(order)
	assert.Empty(t, s.IDs)
	assert.True(t, s.MultiSelect)

	s.Toggle(2)
	s.SelectAll(order)
	assert.Equal(t, order, s.IDs)

	s.SetMultiSelect(false)
	assert.Empty(t, s.IDs)
	assert.False(t, s.MultiSelect)
}

type recordingUpdater struct {
	calls []*task.Task
	fail  map[int]bool
}

func (r *recordingUpdater) UpdateTask(t *task.Task) error {
	if r.fail[t.ID] {
		return errors.New("disk full")
	}
	r.calls = append(r.calls, t)
	return nil
}

func TestBulkMutateComplete(t *testing.T) {
	tasks := fixture()
	sel := Selection{IDs: []int{2, 4}, MultiSelect: true}
	u := &recordingUpdater{}

	res, err := BulkMutate(&sel, tasks, MarkComplete(), u, now)
	require.NoError(t, err)
	require.Len(t, u.calls, 2)
	for _, repl := range u.calls {
		assert.Equal(t, task.StatusCompleted, repl.Status)
		require.NotNil(t, repl.CompletedAt)
		assert.True(t, repl.CompletedAt.Equal(now))
	}
	assert.Equal(t, task.StatusInProgress, tasks[1].Status, "input tasks are not modified")
	assert.Len(t, res.Updated(), 2)
	assert.Empty(t, sel.IDs)
	assert.False(t, sel.MultiSelect)
}

func TestBulkMutateTodoClearsCompletedAt(t *testing.T) {
	tasks := fixture()
	stamp := now.Add(-1)
	tasks[2].CompletedAt = &stamp
	sel := Selection{IDs: []int{3}, MultiSelect: true}
	u := &recordingUpdater{}

	_, err := BulkMutate(&sel, tasks, MarkTodo(), u, now)
	require.NoError(t, err)
	require.Len(t, u.calls, 1)
	assert.Equal(t, task.StatusTodo, u.calls[0].Status)
	assert.Nil(t, u.calls[0].CompletedAt)
}

func TestBulkMutatePriorityContinuesPastFailures(t *testing.T) {
	sel := Selection{IDs: []int{1, 2, 42, 5}, MultiSelect: true}
	u := &recordingUpdater{fail: map[int]bool{2: true}}

	res, err := BulkMutate(&sel, fixture(), SetPriority(task.PriorityHigh), u, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task #2")

	require.Len(t, res.Items, 4)
	assert.True(t, res.Items[0].OK)
	assert.Equal(t, "disk full", res.Items[1].Error)
	assert.True(t, res.Items[2].Skipped)
	assert.True(t, res.Items[3].OK)
	assert.Equal(t, []int{1, 5}, ids(u.calls))
	assert.Empty(t, sel.IDs)
}

func TestWriteCSV(t *testing.T) {
	tasks := fixture()
	tasks[1].Name = "Fix bug, urgently"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tasks[:4], testConfig()))

	want := "Task Name,Assignee,Status,Priority,Due Date,Client\n" +
		"Write report,alice,todo,high,2026-03-10,Acme\n" +
		"\"Fix bug, urgently\",bob,in-progress,medium,2026-03-12,\n" +
		"Plan sprint,Unassigned,completed,low,2026-03-09,\n" +
		"Call Acme,alice,todo,,,\n"
	assert.Equal(t, want, buf.String())
}
