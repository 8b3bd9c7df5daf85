package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
)

// JSON writes data as indented JSON to the given writer.
func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope for structured error output.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes err as an ErrorResponse and returns the process exit code.
// Errors without a code are reported as INTERNAL_ERROR.
func JSONError(w io.Writer, err error) int {
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) {
		cliErr = clierr.New(clierr.InternalError, err.Error())
	}
	_ = JSON(w, ErrorResponse{Error: cliErr.Message, Code: cliErr.Code, Details: cliErr.Details})
	return cliErr.ExitCode()
}

// BatchResult represents the outcome of a single operation within a batch.
type BatchResult struct {
	ID    int    `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// NewBatchResult records the outcome of the operation on task id.
func NewBatchResult(id int, err error) BatchResult {
	if err == nil {
		return BatchResult{ID: id, OK: true}
	}
	r := BatchResult{ID: id, Error: err.Error()}
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		r.Error, r.Code = cliErr.Message, cliErr.Code
	}
	return r
}
