//go:build !windows

package filelock

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockBoardExcludesSecondHolder(t *testing.T) {
	dir := t.TempDir()

	unlock, err := LockBoard(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, FileName))

	acquired := make(chan Unlock)
	go func() {
		u, lockErr := LockBoard(dir)
		if lockErr != nil {
			close(acquired)
			return
		}
		acquired <- u
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first was held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, unlock())

	select {
	case u, ok := <-acquired:
		require.True(t, ok)
		require.NoError(t, u())
	case <-time.After(2 * time.Second):
		t.Fatal("second lock not acquired after release")
	}
}

func TestLockMissingDirectory(t *testing.T) {
	_, err := Lock(filepath.Join(t.TempDir(), "missing", FileName))
	require.Error(t, err)
}
