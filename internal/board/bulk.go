package board

import (
	"errors"
	"fmt"
	"time"

	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// Updater persists a full replacement of a task. Implementations must be
// idempotent: writing the same replacement twice has the effect of once.
type Updater interface {
	UpdateTask(t *task.Task) error
}

// BulkKind names a bulk mutation.
type BulkKind string

// Bulk mutations.
const (
	BulkComplete    BulkKind = "complete"
	BulkTodo        BulkKind = "todo"
	BulkSetPriority BulkKind = "priority"
)

// BulkOp is a bulk mutation with its argument.
type BulkOp struct {
	Kind     BulkKind
	Priority string
}

// MarkComplete returns the bulk op that completes tasks.
func MarkComplete() BulkOp { return BulkOp{Kind: BulkComplete} }

// MarkTodo returns the bulk op that reopens tasks as todo.
func MarkTodo() BulkOp { return BulkOp{Kind: BulkTodo} }

// SetPriority returns the bulk op that sets a priority.
func SetPriority(p string) BulkOp { return BulkOp{Kind: BulkSetPriority, Priority: p} }

// String describes the op for logs.
func (op BulkOp) String() string {
	if op.Kind == BulkSetPriority {
		return string(op.Kind) + "=" + op.Priority
	}
	return string(op.Kind)
}

// Apply returns the replacement of t under op. t itself is not modified.
func (op BulkOp) Apply(t *task.Task, now time.Time) *task.Task {
	repl := t.Clone()
	switch op.Kind {
	case BulkComplete:
		task.SetStatus(repl, task.StatusCompleted, now)
	case BulkTodo:
		task.SetStatus(repl, task.StatusTodo, now)
	case BulkSetPriority:
		if repl.Priority != op.Priority {
			repl.Priority = op.Priority
			repl.Updated = now
		}
	}
	return repl
}

// BulkItem is the outcome for one selected id.
type BulkItem struct {
	ID      int        `json:"id"`
	OK      bool       `json:"ok"`
	Skipped bool       `json:"skipped,omitempty"`
	Error   string     `json:"error,omitempty"`
	Task    *task.Task `json:"-"`
}

// BulkResult collects the outcome of a bulk mutation.
type BulkResult struct {
	Op    string     `json:"op"`
	Items []BulkItem `json:"items"`
}

// Updated returns the replacements that were persisted.
func (r BulkResult) Updated() []*task.Task {
	var out []*task.Task
	for _, it := range r.Items {
		if it.OK {
			out = append(out, it.Task)
		}
	}
	return out
}

// BulkMutate issues one UpdateTask per selected id, in selection order.
// Ids with no matching task are skipped. Updater failures do not stop the
// batch; they are reported per item and joined into the returned error.
// The selection is cleared and multi-select left afterwards.
func BulkMutate(sel *Selection, tasks []*task.Task, op BulkOp, u Updater, now time.Time) (BulkResult, error) {
	byID := make(map[int]*task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	result := BulkResult{Op: op.String(), Items: make([]BulkItem, 0, len(sel.IDs))}
	var errs []error
	for _, id := range sel.IDs {
		t, ok := byID[id]
		if !ok {
			result.Items = append(result.Items, BulkItem{ID: id, Skipped: true})
			continue
		}
		repl := op.Apply(t, now)
		if err := u.UpdateTask(repl); err != nil {
			errs = append(errs, fmt.Errorf("task #%d: %w", id, err))
			result.Items = append(result.Items, BulkItem{ID: id, Error: err.Error()})
			continue
		}
		result.Items = append(result.Items, BulkItem{ID: id, OK: true, Task: repl})
	}

	sel.Clear()
	return result, errors.Join(errs...)
}
