package timesheet

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timer"
)

var t0 = time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func entry(taskID int, project string, start time.Time, secs int64) timer.Entry {
	return timer.Entry{
		TaskID:    taskID,
		ProjectID: project,
		StartedAt: start,
		StoppedAt: start.Add(time.Duration(secs) * time.Second),
		Seconds:   secs,
	}
}

func TestRecordAndQuery(t *testing.T) {
	s := openStore(t)

	_, err := s.Record(entry(1, "p1", t0, 60))
	require.NoError(t, err)
	_, err = s.Record(entry(2, "p1", t0.Add(time.Hour), 30))
	require.NoError(t, err)
	id, err := s.Record(entry(1, "", t0.Add(2*time.Hour), 15))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	recs, err := s.ByTask(1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(60), recs[0].Seconds)
	assert.True(t, recs[0].StartedAt.Equal(t0))
	assert.Equal(t, id, recs[1].ID)

	recs, err = s.ByProject("p1")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = s.All(t0.Add(30 * time.Minute))
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = s.All(time.Time{})
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	totals, err := s.TotalByTask()
	require.NoError(t, err)
	assert.Equal(t, map[int]int64{1: 75, 2: 30}, totals)
}

func TestTimerStateRoundTrip(t *testing.T) {
	s := openStore(t)

	snap, err := s.LoadState()
	require.NoError(t, err)
	assert.Nil(t, snap.Session)

	m := timer.New(timer.WithClock(func() time.Time { return t0 }))
	m.Start(3, "p1")
	m.Start(4, "")
	require.NoError(t, s.SaveState(m.Snapshot()))

	m.Cancel()
	require.NoError(t, s.SaveState(m.Snapshot()))

	snap, err = s.LoadState()
	require.NoError(t, err)
	require.NotNil(t, snap.Session)
	assert.Equal(t, 3, snap.Session.TaskID)
	assert.True(t, snap.Session.StartedAt.Equal(t0))
	assert.Nil(t, snap.Pending)
}

func TestBookAddsTrackedTime(t *testing.T) {
	s := openStore(t)
	repo := task.NewStore(afero.NewMemMapFs(), "/tasks")
	require.NoError(t, repo.Create(&task.Task{ID: 7, Name: "Invoice", Status: task.StatusTodo, TimeTracked: 10}))

	_, err := s.Book(entry(7, "", t0, 50), repo, t0)
	require.NoError(t, err)

	got, err := repo.Load(7)
	require.NoError(t, err)
	assert.Equal(t, int64(60), got.TimeTracked)

	id, err := s.Book(entry(7, "", t0, 0), repo, t0)
	require.NoError(t, err)
	assert.Empty(t, id)

	recs, err := s.ByTask(7)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestSettleSavesStateWhenBookingFails(t *testing.T) {
	s := openStore(t)
	repo := task.NewStore(afero.NewMemMapFs(), "/tasks")
	clock := func() time.Time { return t0.Add(time.Hour) }

	running := timer.New(timer.WithClock(func() time.Time { return t0 }))
	running.Start(1, "p1")
	require.NoError(t, s.SaveState(running.Snapshot()))

	// Task #1 has no file, so the tracked-time update fails on every stop.
	for range 3 {
		snap, err := s.LoadState()
		require.NoError(t, err)
		m := timer.New(timer.WithClock(clock))
		m.Restore(snap)

		var out timer.Outcome
		if e, ok := m.Stop(); ok {
			out = timer.Outcome{State: timer.Idle, Stopped: &e}
		}
		_, err = s.Settle(out, m.Snapshot(), repo, clock())
		require.NoError(t, err)
	}

	snap, err := s.LoadState()
	require.NoError(t, err)
	assert.Nil(t, snap.Session)

	recs, err := s.ByTask(1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(3600), recs[0].Seconds)
}

func TestSettleReportsBookingFailure(t *testing.T) {
	s := openStore(t)
	repo := task.NewStore(afero.NewMemMapFs(), "/tasks")

	e := entry(9, "", t0, 30)
	st, err := s.Settle(timer.Outcome{State: timer.Idle, Stopped: &e}, timer.Snapshot{}, repo, t0)
	require.NoError(t, err)
	require.Error(t, st.BookErr)
	assert.NotEmpty(t, st.EntryID)
}
