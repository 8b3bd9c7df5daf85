package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

func init() {
	DisableColor()
}

func testContext() Context {
	cfg := config.NewDefault("test")
	cfg.Projects = []config.ProjectConfig{{ID: "p1", Name: "Website", Client: "Acme"}}
	return Context{Dir: cfg, Now: time.Date(2026, 3, 11, 12, 0, 0, 0, time.Local)}
}

func tasks() []*task.Task {
	return []*task.Task{
		{ID: 1, Name: "Write report", Assignee: "alice", Status: "todo", Priority: "high", DueDate: "2026-03-10", ProjectID: "p1"},
		{ID: 2, Name: "Fix bug", Status: "in-progress"},
	}
}

func TestDetect(t *testing.T) {
	t.Setenv(EnvVar, "")
	assert.Equal(t, FormatJSON, Detect(true, false, false))
	assert.Equal(t, FormatCompact, Detect(false, true, true))
	assert.Equal(t, FormatTable, Detect(false, false, false))

	t.Setenv(EnvVar, "json")
	assert.Equal(t, FormatJSON, Detect(false, false, false))
	assert.Equal(t, FormatTable, Detect(false, true, false))

	t.Setenv(EnvVar, "oneline")
	assert.Equal(t, FormatCompact, Detect(false, false, false))
	assert.Equal(t, FormatAuto, ParseFormat("yaml"))
}

func TestTaskTable(t *testing.T) {
	ctx := testContext()
	ctx.Selected = func(id int) bool { return id == 2 }

	var buf bytes.Buffer
	TaskTable(&buf, tasks(), ctx)
	out := buf.String()

	assert.Contains(t, out, "ASSIGNEE")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Unassigned")
	assert.Contains(t, out, "2026-03-10 !")
	assert.Contains(t, out, "* #2")
}

func TestSplitTable(t *testing.T) {
	var buf bytes.Buffer
	SplitTable(&buf, board.GroupForView(tasks(), board.ViewSplit), testContext())
	out := buf.String()
	assert.Contains(t, out, "alice (1)")
	assert.Contains(t, out, "Unassigned (1)")
}

func TestTaskCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskCompact(&buf, tasks(), testContext())
	assert.Equal(t,
		"#1 [todo/high] Write report @alice (Acme) due:2026-03-10!\n"+
			"#2 [in-progress/-] Fix bug\n",
		buf.String())
}

func TestKanbanCompact(t *testing.T) {
	var buf bytes.Buffer
	cols := board.KanbanColumns(tasks(), []string{"todo", "in-progress", "completed"})
	KanbanCompact(&buf, cols, testContext())
	assert.Contains(t, buf.String(), "== completed (0)\n")
}

func TestTaskDetailPlainBody(t *testing.T) {
	tk := tasks()[0]
	tk.Body = "# Notes\n\nCall back."
	tk.Subtasks = []string{"draft", "review"}

	var buf bytes.Buffer
	TaskDetail(&buf, tk, testContext())
	out := buf.String()
	assert.Contains(t, out, "Task #1: Write report")
	assert.Contains(t, out, "  - review")
	assert.Contains(t, out, "# Notes")
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "0:00:00", FormatSeconds(-5))
	assert.Equal(t, "1:01:05", FormatSeconds(3665))
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	code := JSONError(&buf, clierr.New(clierr.TimerIdle, "no timer running"))
	assert.Equal(t, 1, code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "TIMER_IDLE", resp.Code)
	assert.Nil(t, resp.Details)

	buf.Reset()
	code = JSONError(&buf, fmt.Errorf("opening timesheet: %w", errors.New("disk full")))
	assert.Equal(t, 2, code)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, clierr.InternalError, resp.Code)
	assert.Equal(t, "opening timesheet: disk full", resp.Error)
}

func TestNewBatchResult(t *testing.T) {
	assert.Equal(t, BatchResult{ID: 3, OK: true}, NewBatchResult(3, nil))

	r := NewBatchResult(4, fmt.Errorf("loading: %w", clierr.New(clierr.TaskNotFound, "task #4 not found")))
	assert.False(t, r.OK)
	assert.Equal(t, clierr.TaskNotFound, r.Code)
	assert.Equal(t, "task #4 not found", r.Error)
}

func TestTimeTotalsTableOrdersByBookedTime(t *testing.T) {
	var buf bytes.Buffer
	TimeTotalsTable(&buf, map[int]int64{2: 60, 7: 3600, 3: 60})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "#7")
	assert.Contains(t, lines[1], "1:00:00")
	assert.Contains(t, lines[2], "#2")
	assert.Contains(t, lines[3], "#3")
}
