package task

import "time"

// SetStatus moves t to newStatus and keeps CompletedAt consistent with it:
//   - Stamps CompletedAt on the move into completed (an existing stamp is kept).
//   - Clears CompletedAt on any move to a non-completed status.
//
// Updated is bumped only when the status actually changes.
func SetStatus(t *Task, newStatus string, now time.Time) {
	if newStatus == StatusCompleted {
		if t.CompletedAt == nil {
			at := now
			t.CompletedAt = &at
		}
	} else {
		t.CompletedAt = nil
	}
	if t.Status != newStatus {
		t.Status = newStatus
		t.Updated = now
	}
}

// AddTracked adds seconds of tracked time to the task.
func AddTracked(t *Task, seconds int64, now time.Time) {
	if seconds <= 0 {
		return
	}
	t.TimeTracked += seconds
	t.Updated = now
}
