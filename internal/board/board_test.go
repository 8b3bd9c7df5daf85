package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// now is a Wednesday; its week runs Mon 2026-03-09 to Sun 2026-03-15.
var now = time.Date(2026, 3, 11, 12, 0, 0, 0, time.Local)

func testConfig() *config.Config {
	cfg := config.NewDefault("test")
	cfg.Projects = []config.ProjectConfig{{ID: "p1", Name: "Website", Client: "Acme"}}
	cfg.TaskLists = append(cfg.TaskLists, config.TaskListConfig{ID: "work", Name: "Work"})
	return cfg
}

// fixture:
//
//	1 overdue, 2 due soon, 3 completed, 4 undated in the work list, 5 next month.
func fixture() []*task.Task {
	return []*task.Task{
		{ID: 1, Name: "Write report", Assignee: "alice", Status: task.StatusTodo, Priority: task.PriorityHigh, DueDate: "2026-03-10", ProjectID: "p1"},
		{ID: 2, Name: "Fix bug", Assignee: "bob", Status: task.StatusInProgress, Priority: task.PriorityMedium, DueDate: "2026-03-12"},
		{ID: 3, Name: "Plan sprint", Status: task.StatusCompleted, Priority: task.PriorityLow, DueDate: "2026-03-09"},
		{ID: 4, Name: "Call Acme", Assignee: "alice", Status: task.StatusTodo, TaskListID: "work"},
		{ID: 5, Name: "Review", Assignee: "bob", Status: task.StatusBlocked, Priority: task.PriorityLow, DueDate: "2026-04-20"},
	}
}

func ids(tasks []*task.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestSummary(t *testing.T) {
	cfg := testConfig()
	ov := Summary(cfg, fixture(), now)

	assert.Equal(t, "test", ov.BoardName)
	assert.Equal(t, 5, ov.TotalTasks)
	assert.Equal(t, 1, ov.Overdue)
	assert.Equal(t, 1, ov.DueSoon)

	require.Len(t, ov.Statuses, len(cfg.BoardStatuses()))
	counts := make(map[string]int)
	for _, s := range ov.Statuses {
		counts[s.Status] = s.Count
	}
	assert.Equal(t, 2, counts[task.StatusTodo])
	assert.Equal(t, 1, counts[task.StatusCompleted])
	assert.NotContains(t, counts, config.ArchivedStatus)

	assert.Equal(t, []AssigneeCount{
		{Assignee: "alice", Count: 2},
		{Assignee: "bob", Count: 2},
		{Assignee: UnassignedLabel, Count: 1},
	}, ov.Assignees)
}

func TestDistinctValues(t *testing.T) {
	cfg := testConfig()
	tasks := fixture()

	assert.Equal(t, []string{"alice", "bob", ""}, DistinctValues(tasks, DimAssignee, cfg))
	assert.Equal(t, []string{"Acme"}, DistinctValues(tasks, DimClient, cfg))
	assert.Equal(t, []string{"high", "medium", "low"}, DistinctValues(tasks, DimPriority, cfg))
	assert.Equal(t, []string{"inbox", "work"}, DistinctValues(tasks, DimList, cfg))
}

func TestKnownValues(t *testing.T) {
	cfg := testConfig()
	tasks := fixture()
	tasks[4].Priority = "urgent"

	assert.Equal(t, []string{"low", "medium", "high", "urgent"}, KnownValues(cfg, tasks, DimPriority))
	assert.Equal(t, []string{"inbox", "work"}, KnownValues(cfg, tasks, DimList))
	assert.Equal(t, cfg.BoardStatuses(), KnownValues(cfg, tasks, DimStatus))
	assert.Equal(t, []string{"alice", "bob", ""}, KnownValues(cfg, tasks, DimAssignee))
}

func TestParseIDs(t *testing.T) {
	got, err := ParseIDs("3, 1,3,,2")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, got)

	_, err = ParseIDs("1,x")
	assert.Error(t, err)

	_, err = ParseIDs(" , ")
	assert.Error(t, err)
}

func TestActivityLog(t *testing.T) {
	dir := t.TempDir()

	entries, err := ReadLog(dir, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	LogMutation(dir, "create", 1, "Write report")
	LogMutation(dir, "bulk", 0, "complete")
	LogMutation(dir, "delete", 2, "Fix bug")

	entries, err = ReadLog(dir, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "create", entries[0].Action)

	entries, err = ReadLog(dir, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "bulk", entries[0].Action)
	assert.Equal(t, 2, entries[1].TaskID)
}
