// Package task handles task files and their frontmatter.
package task

import (
	"slices"
	"time"
)

// Canonical workflow statuses. Boards may configure additional ones.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusBlocked    = "blocked"
	StatusCompleted  = "completed"
)

// Priority levels understood by the sort engine.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task represents a board task parsed from a markdown file.
type Task struct {
	ID          int        `yaml:"id" json:"id" validate:"gte=1"`
	Name        string     `yaml:"name" json:"name" validate:"required,max=300"`
	Status      string     `yaml:"status" json:"status" validate:"required"`
	Priority    string     `yaml:"priority,omitempty" json:"priority,omitempty"`
	Assignee    string     `yaml:"assignee,omitempty" json:"assignee,omitempty"`
	DueDate     string     `yaml:"due_date,omitempty" json:"due_date,omitempty"`
	ProjectID   string     `yaml:"project,omitempty" json:"project,omitempty"`
	TaskListID  string     `yaml:"list,omitempty" json:"list,omitempty"`
	CompletedAt *time.Time `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`
	Subtasks    []string   `yaml:"subtasks,omitempty" json:"subtasks,omitempty" validate:"dive,required"`
	TimeTracked int64      `yaml:"time_tracked,omitempty" json:"time_tracked,omitempty" validate:"gte=0"`
	Created     time.Time  `yaml:"created" json:"created"`
	Updated     time.Time  `yaml:"updated" json:"updated"`

	// Body is the markdown content below the frontmatter (not in YAML).
	Body string `yaml:"-" json:"body,omitempty"`

	// File is the path to the task file (not in YAML).
	File string `yaml:"-" json:"file,omitempty"`
}

// Clone returns a deep copy of t. Engine code proposes replacements built
// from clones and never mutates the caller's task.
func (t *Task) Clone() *Task {
	c := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	c.Subtasks = slices.Clone(t.Subtasks)
	return &c
}

// HasSubtasks reports whether the task has an expandable subtask list.
func (t *Task) HasSubtasks() bool {
	return len(t.Subtasks) > 0
}

// IsCompleted reports whether the task is in the completed status.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}
