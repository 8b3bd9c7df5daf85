package board

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// CSVHeader is the header row of task exports.
var CSVHeader = []string{"Task Name", "Assignee", "Status", "Priority", "Due Date", "Client"}

// WriteCSV writes tasks in the given order as CSV. An empty assignee is
// written as Unassigned; a missing due date or client as an empty field.
func WriteCSV(w io.Writer, tasks []*task.Task, dir Directory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, t := range tasks {
		row := []string{
			t.Name,
			AssigneeLabel(t.Assignee),
			t.Status,
			t.Priority,
			t.DueDate,
			dir.ClientName(t.ProjectID),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for task #%d: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
