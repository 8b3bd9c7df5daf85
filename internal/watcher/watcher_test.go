package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string, opts ...Option) *atomic.Int32 {
	t.Helper()
	var calls atomic.Int32
	opts = append([]Option{WithDelay(20 * time.Millisecond)}, opts...)
	w, err := New([]string{dir}, func() { calls.Add(1) }, opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, nil)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return &calls
}

func TestWatcherDebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	calls := startWatcher(t, dir)

	for i := range 5 {
		name := filepath.Join(dir, "task-"+string(rune('a'+i))+".md")
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o600))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherIgnoresOwnFiles(t *testing.T) {
	dir := t.TempDir()
	calls := startWatcher(t, dir, Ignore("view.yml", "timesheet.db"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "view.yml"), []byte("mode: table"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "timesheet.db-wal"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "1-task.md"), []byte("x"), 0o600))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestIgnoredMatchesPrefixWithDash(t *testing.T) {
	w := &Watcher{ignore: []string{"timesheet.db", ".lock"}}
	assert.True(t, w.ignored("/b/timesheet.db"))
	assert.True(t, w.ignored("/b/timesheet.db-shm"))
	assert.True(t, w.ignored("/b/.lock"))
	assert.False(t, w.ignored("/b/timesheet.dbx"))
	assert.False(t, w.ignored("/b/tasks/1-a.md"))
}
