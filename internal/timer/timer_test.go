package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newManager() (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)}
	return New(WithClock(clock.now)), clock
}

func TestStartStop(t *testing.T) {
	m, clock := newManager()
	assert.Equal(t, Idle, m.State())

	out := m.Start(1, "p1")
	assert.Equal(t, Running, out.State)
	require.NotNil(t, out.Started)
	assert.Equal(t, 1, out.Started.TaskID)

	clock.advance(90 * time.Second)
	assert.Equal(t, int64(90), m.Elapsed())

	entry, ok := m.Stop()
	require.True(t, ok)
	assert.Equal(t, int64(90), entry.Seconds)
	assert.Equal(t, "p1", entry.ProjectID)
	assert.Equal(t, Idle, m.State())
}

func TestStopWhileIdle(t *testing.T) {
	m, _ := newManager()
	entry, ok := m.Stop()
	assert.False(t, ok)
	assert.Zero(t, entry.Seconds)
	assert.Zero(t, m.Elapsed())
}

func TestStartSameTaskStops(t *testing.T) {
	m, clock := newManager()
	m.Start(1, "")
	clock.advance(5 * time.Second)

	out := m.Start(1, "")
	assert.Equal(t, Idle, out.State)
	require.NotNil(t, out.Stopped)
	assert.Equal(t, int64(5), out.Stopped.Seconds)
	assert.Equal(t, Idle, m.State())
}

func TestSwitchConfirm(t *testing.T) {
	m, clock := newManager()
	m.Start(1, "p1")
	started := m.Session().StartedAt
	clock.advance(time.Minute)

	out := m.Start(2, "p2")
	assert.Equal(t, PendingSwitch, out.State)
	assert.Equal(t, &Switch{FromTaskID: 1, ToTaskID: 2, ToProjectID: "p2"}, out.Pending)
	assert.Equal(t, started, m.Session().StartedAt, "running session is untouched")

	clock.advance(time.Minute)
	out = m.Confirm()
	assert.Equal(t, Running, out.State)
	require.NotNil(t, out.Stopped)
	assert.Equal(t, 1, out.Stopped.TaskID)
	assert.Equal(t, int64(120), out.Stopped.Seconds)
	require.NotNil(t, out.Started)
	assert.Equal(t, 2, out.Started.TaskID)
	assert.Equal(t, clock.t, out.Started.StartedAt)
	assert.Nil(t, m.Pending())
}

func TestSwitchCancelRestoresSession(t *testing.T) {
	m, clock := newManager()
	m.Start(1, "p1")
	before := m.Session()

	clock.advance(time.Minute)
	m.Start(2, "")
	out := m.Cancel()

	assert.Equal(t, Running, out.State)
	assert.Equal(t, before, m.Session())
	assert.Nil(t, m.Pending())
}

func TestConfirmCancelOutsidePendingAreNoOps(t *testing.T) {
	m, _ := newManager()
	assert.Equal(t, Idle, m.Confirm().State)
	assert.Equal(t, Idle, m.Cancel().State)

	m.Start(1, "")
	before := m.Session()
	assert.Nil(t, m.Confirm().Stopped)
	m.Cancel()
	assert.Equal(t, before, m.Session())
}

func TestStartWhilePendingReplacesRequest(t *testing.T) {
	m, _ := newManager()
	m.Start(1, "")
	m.Start(2, "")
	m.Start(3, "")
	assert.Equal(t, 3, m.Pending().ToTaskID)

	out := m.Start(1, "")
	assert.Equal(t, Idle, out.State, "the running task's toggle still stops it")
	assert.Nil(t, m.Pending())
}

func TestStopDuringPendingDropsRequest(t *testing.T) {
	m, _ := newManager()
	m.Start(1, "")
	m.Start(2, "")

	entry, ok := m.Stop()
	require.True(t, ok)
	assert.Equal(t, 1, entry.TaskID)
	assert.Equal(t, Idle, m.State())
	assert.Nil(t, m.Pending())
}

func TestPauseResume(t *testing.T) {
	m, clock := newManager()
	assert.False(t, m.Pause())

	m.Start(1, "")
	clock.advance(10 * time.Second)
	require.True(t, m.Pause())
	assert.False(t, m.Pause())

	clock.advance(time.Hour)
	assert.Equal(t, int64(10), m.Elapsed())

	require.True(t, m.Resume())
	clock.advance(5 * time.Second)
	assert.Equal(t, int64(15), m.Elapsed())

	entry, _ := m.Stop()
	assert.Equal(t, int64(15), entry.Seconds)
}

func TestSnapshotRestore(t *testing.T) {
	m, clock := newManager()
	m.Start(1, "p1")
	m.Start(2, "p2")
	snap := m.Snapshot()

	other := New(WithClock(clock.now))
	other.Restore(snap)
	assert.Equal(t, PendingSwitch, other.State())
	assert.Equal(t, m.Session(), other.Session())

	other.Restore(Snapshot{Pending: &Switch{FromTaskID: 1, ToTaskID: 2}})
	assert.Equal(t, Idle, other.State())

	other.Restore(Snapshot{
		Session: &Session{TaskID: 5, StartedAt: clock.t},
		Pending: &Switch{FromTaskID: 1, ToTaskID: 2},
	})
	assert.Equal(t, Running, other.State(), "stale pending switch is dropped")
}

func TestSingleActiveTimerInvariant(t *testing.T) {
	m, clock := newManager()
	for i := 1; i <= 5; i++ {
		m.Start(i, "")
		m.Confirm()
		clock.advance(time.Second)
	}
	require.NotNil(t, m.Session())
	assert.Equal(t, 5, m.Session().TaskID)
	assert.Equal(t, Running, m.State())
}
