package timesheet

import (
	"fmt"
	"time"

	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timer"
)

// TaskRepo loads and replaces tasks.
type TaskRepo interface {
	Load(id int) (*task.Task, error)
	UpdateTask(t *task.Task) error
}

// Book records a stopped entry and adds its seconds to the task's tracked
// time. Entries shorter than a second are not booked.
func (s *Store) Book(e timer.Entry, repo TaskRepo, now time.Time) (string, error) {
	if e.Seconds <= 0 {
		return "", nil
	}
	id, err := s.Record(e)
	if err != nil {
		return "", err
	}

	t, err := repo.Load(e.TaskID)
	if err != nil {
		return id, fmt.Errorf("loading task #%d: %w", e.TaskID, err)
	}
	repl := t.Clone()
	task.AddTracked(repl, e.Seconds, now)
	if err := repo.UpdateTask(repl); err != nil {
		return id, fmt.Errorf("updating task #%d: %w", e.TaskID, err)
	}
	return id, nil
}

// Settlement is the result of Settle.
type Settlement struct {
	EntryID string
	// BookErr is set when the stopped entry could not be fully booked. The
	// timer state is saved regardless.
	BookErr error
}

// Settle books the stopped entry of out, if any, then saves snap. A failed
// booking never blocks the save, so a stopped session cannot resume on the
// next load and the entry is recorded at most once.
func (s *Store) Settle(out timer.Outcome, snap timer.Snapshot, repo TaskRepo, now time.Time) (Settlement, error) {
	var st Settlement
	if out.Stopped != nil {
		st.EntryID, st.BookErr = s.Book(*out.Stopped, repo, now)
	}
	if err := s.SaveState(snap); err != nil {
		return st, fmt.Errorf("saving timer state: %w", err)
	}
	return st, nil
}
