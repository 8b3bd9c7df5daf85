package task

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/date"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural rules declared on Task. Board-specific
// rules (allowed statuses, priorities, projects) are checked separately.
func Validate(t *Task) error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return clierr.Newf(clierr.InvalidInput, "invalid task: %s", strings.Join(fields, ", ")).
		WithDetails(map[string]any{"fields": fields})
}

// ValidateStatus checks that a status is in the allowed list.
func ValidateStatus(status string, allowed []string) error {
	for _, s := range allowed {
		if s == status {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", status).
		WithDetails(map[string]any{
			"status":  status,
			"allowed": allowed,
		})
}

// ValidatePriority checks that a priority is in the allowed list.
func ValidatePriority(priority string, allowed []string) error {
	for _, p := range allowed {
		if p == priority {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", priority).
		WithDetails(map[string]any{
			"priority": priority,
			"allowed":  allowed,
		})
}

// ValidateProject checks that a project ID is configured.
func ValidateProject(id string, allowed []string) error {
	for _, p := range allowed {
		if p == id {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidProject, "unknown project %q", id).
		WithDetails(map[string]any{
			"project": id,
			"allowed": allowed,
		})
}

// ValidateTaskList checks that a task list ID is configured.
func ValidateTaskList(id string, allowed []string) error {
	for _, l := range allowed {
		if l == id {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidTaskList, "unknown task list %q", id).
		WithDetails(map[string]any{
			"list":    id,
			"allowed": allowed,
		})
}

// ValidateDueDate returns a CLIError when input is not a usable due date.
func ValidateDueDate(input string) error {
	if err := date.ValidateDue(input); err != nil {
		return clierr.Newf(clierr.InvalidDate, "invalid due date: %v", err).
			WithDetails(map[string]any{
				"field": "due",
				"input": input,
			})
	}
	return nil
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}
