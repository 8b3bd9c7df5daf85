package board

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/date"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// Column is a sortable table column.
type Column string

// Sortable columns.
const (
	ColAssignee Column = "assignee"
	ColTask     Column = "task"
	ColList     Column = "list"
	ColClient   Column = "client"
	ColStatus   Column = "status"
	ColPriority Column = "priority"
	ColDueDate  Column = "dueDate"
)

// Columns returns the sortable columns in table order.
func Columns() []Column {
	return []Column{ColTask, ColAssignee, ColClient, ColList, ColStatus, ColPriority, ColDueDate}
}

// ParseColumn validates a column name. "due" and "name" are accepted aliases.
func ParseColumn(s string) (Column, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "due", "duedate", "due-date":
		return ColDueDate, nil
	case "name", "title":
		return ColTask, nil
	}
	for _, c := range Columns() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", clierr.Newf(clierr.InvalidSortColumn, "invalid sort column %q", s).
		WithDetails(map[string]any{"input": s, "allowed": Columns()})
}

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection validates a sort direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", clierr.Newf(clierr.InvalidInput, "invalid sort direction %q (want asc or desc)", s).
		WithDetails(map[string]any{"input": s})
}

// SortSpec is the active column sort. A zero Column means the default policy.
type SortSpec struct {
	Column    Column    `yaml:"column,omitempty" json:"column,omitempty"`
	Direction Direction `yaml:"direction,omitempty" json:"direction,omitempty"`
}

// IsSet reports whether an explicit column sort is active.
func (s SortSpec) IsSet() bool {
	return s.Column != ""
}

// Click returns the sort order after clicking a column header. The same column
// cycles asc, desc, then back to the default policy; a new column starts asc.
func (s SortSpec) Click(col Column) SortSpec {
	if s.Column != col {
		return SortSpec{Column: col, Direction: Asc}
	}
	if s.Direction == Desc {
		return SortSpec{}
	}
	return SortSpec{Column: col, Direction: Desc}
}

var priorityRank = map[string]int{
	task.PriorityHigh:   3,
	task.PriorityMedium: 2,
	task.PriorityLow:    1,
}

// NoClientLabel is the client sort key of tasks without a client.
const NoClientLabel = "N/A"

// PriorityRank returns the sort rank of a priority. Unknown or empty
// priorities rank 0.
func PriorityRank(p string) int {
	return priorityRank[p]
}

// Sort returns a sorted copy of tasks. With an explicit column the column
// comparison decides; otherwise the default policy applies. Equal elements
// keep their input order.
func Sort(tasks []*task.Task, spec SortSpec, dir Directory, now time.Time) []*task.Task {
	out := make([]*task.Task, len(tasks))
	copy(out, tasks)

	var cmp func(a, b *task.Task) int
	if spec.IsSet() {
		cmp = columnComparer(spec, dir)
	} else {
		cmp = func(a, b *task.Task) int { return compareDefault(a, b, now) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		return cmp(out[i], out[j]) < 0
	})
	return out
}

func columnComparer(spec SortSpec, dir Directory) func(a, b *task.Task) int {
	// Collators are stateful and not safe for concurrent use; one per call.
	coll := collate.New(language.English)
	text := func(key func(*task.Task) string) func(a, b *task.Task) int {
		return func(a, b *task.Task) int {
			return coll.CompareString(key(a), key(b))
		}
	}

	var base func(a, b *task.Task) int
	switch spec.Column {
	case ColAssignee:
		base = text(func(t *task.Task) string { return t.Assignee })
	case ColTask:
		base = text(func(t *task.Task) string { return t.Name })
	case ColList:
		base = text(func(t *task.Task) string { return dir.TaskListName(ListID(t)) })
	case ColClient:
		base = text(func(t *task.Task) string {
			if c := dir.ClientName(t.ProjectID); c != "" {
				return c
			}
			return NoClientLabel
		})
	case ColStatus:
		base = text(func(t *task.Task) string { return t.Status })
	case ColPriority:
		base = func(a, b *task.Task) int {
			return PriorityRank(a.Priority) - PriorityRank(b.Priority)
		}
	case ColDueDate:
		base = func(a, b *task.Task) int {
			return compareInt64(dueMillis(a), dueMillis(b))
		}
	default:
		base = func(_, _ *task.Task) int { return 0 }
	}

	if spec.Direction == Desc {
		return func(a, b *task.Task) int { return -base(a, b) }
	}
	return base
}

// compareDefault orders completed tasks last, then overdue first, then
// due-soon first, then by ascending due date. Missing dates count as zero.
func compareDefault(a, b *task.Task, now time.Time) int {
	if ac, bc := a.IsCompleted(), b.IsCompleted(); ac != bc {
		if ac {
			return 1
		}
		return -1
	}
	if ao, bo := IsOverdue(a.DueDate, a.Status, now), IsOverdue(b.DueDate, b.Status, now); ao != bo {
		if ao {
			return -1
		}
		return 1
	}
	if as, bs := IsDueSoon(a.DueDate, now), IsDueSoon(b.DueDate, now); as != bs {
		if as {
			return -1
		}
		return 1
	}
	return compareInt64(dueMillis(a), dueMillis(b))
}

func dueMillis(t *task.Task) int64 {
	due, ok := date.ParseDue(t.DueDate)
	if !ok {
		return 0
	}
	return due.UnixMilli()
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
