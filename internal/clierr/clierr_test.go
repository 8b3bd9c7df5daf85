package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorUnwrapsThroughWrapping(t *testing.T) {
	base := Newf(TaskNotFound, "task not found: #%d", 7).WithDetails(map[string]any{"id": 7})
	wrapped := fmt.Errorf("loading: %w", base)

	var cliErr *Error
	require.True(t, errors.As(wrapped, &cliErr))
	assert.Equal(t, TaskNotFound, cliErr.Code)
	assert.Equal(t, "task not found: #7", cliErr.Error())
	assert.Equal(t, 7, cliErr.Details["id"])
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, New(InternalError, "boom").ExitCode())
	assert.Equal(t, 1, New(InvalidInput, "bad").ExitCode())
}

func TestSilentError(t *testing.T) {
	assert.Equal(t, "exit 3", (&SilentError{Code: 3}).Error())
}
