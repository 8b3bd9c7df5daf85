// Package timer implements the single-active-timer state machine. A Manager
// owns at most one running session; starting a second task goes through an
// explicit confirm or cancel step.
package timer

import (
	"time"
)

// State is the manager's state.
type State string

// Manager states.
const (
	Idle          State = "idle"
	Running       State = "running"
	PendingSwitch State = "pending-switch"
)

// Session is a running timer.
type Session struct {
	TaskID    int        `yaml:"task_id" json:"task_id"`
	ProjectID string     `yaml:"project_id,omitempty" json:"project_id,omitempty"`
	StartedAt time.Time  `yaml:"started_at" json:"started_at"`
	PausedAt  *time.Time `yaml:"paused_at,omitempty" json:"paused_at,omitempty"`
	// PausedSeconds is the paused time already excluded from elapsed.
	PausedSeconds int64 `yaml:"paused_seconds,omitempty" json:"paused_seconds,omitempty"`
}

// Paused reports whether the session is paused.
func (s *Session) Paused() bool {
	return s.PausedAt != nil
}

// elapsed returns whole seconds of unpaused time up to now, never negative.
func (s *Session) elapsed(now time.Time) int64 {
	end := now
	if s.PausedAt != nil {
		end = *s.PausedAt
	}
	secs := int64(end.Sub(s.StartedAt)/time.Second) - s.PausedSeconds
	if secs < 0 {
		return 0
	}
	return secs
}

// Switch is a start request for another task awaiting confirmation.
type Switch struct {
	FromTaskID  int    `yaml:"from_task_id" json:"from_task_id"`
	ToTaskID    int    `yaml:"to_task_id" json:"to_task_id"`
	ToProjectID string `yaml:"to_project_id,omitempty" json:"to_project_id,omitempty"`
}

// Entry is the record of a stopped session.
type Entry struct {
	TaskID    int       `json:"task_id"`
	ProjectID string    `json:"project_id,omitempty"`
	StartedAt time.Time `json:"started_at"`
	StoppedAt time.Time `json:"stopped_at"`
	Seconds   int64     `json:"seconds"`
}

// Duration returns the entry length.
func (e Entry) Duration() time.Duration {
	return time.Duration(e.Seconds) * time.Second
}

// Outcome describes the effect of a transition. Stopped is set when a
// session ended; Started when a new one began; Pending while a switch
// awaits confirmation.
type Outcome struct {
	State   State    `json:"state"`
	Stopped *Entry   `json:"stopped,omitempty"`
	Started *Session `json:"started,omitempty"`
	Pending *Switch  `json:"pending,omitempty"`
}

// Snapshot is the persistable state of a Manager.
type Snapshot struct {
	Session *Session `yaml:"session,omitempty" json:"session,omitempty"`
	Pending *Switch  `yaml:"pending,omitempty" json:"pending,omitempty"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager is the timer state machine. It is not safe for concurrent use;
// one caller drives it at a time.
type Manager struct {
	now     func() time.Time
	session *Session
	pending *Switch
}

// New returns an idle manager.
func New(opts ...Option) *Manager {
	m := &Manager{now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

// State returns the current state.
func (m *Manager) State() State {
	switch {
	case m.session == nil:
		return Idle
	case m.pending != nil:
		return PendingSwitch
	}
	return Running
}

// Session returns a copy of the running session, or nil when idle.
func (m *Manager) Session() *Session {
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Pending returns the switch awaiting confirmation, or nil.
func (m *Manager) Pending() *Switch {
	if m.pending == nil {
		return nil
	}
	p := *m.pending
	return &p
}

// Elapsed returns the seconds accumulated by the running session.
func (m *Manager) Elapsed() int64 {
	if m.session == nil {
		return 0
	}
	return m.session.elapsed(m.now())
}

// Start requests a timer for taskID. When idle a session starts. Asking
// for the task already running stops it. Asking for another task leaves the
// running session alone and records a pending switch, replacing any earlier
// request.
func (m *Manager) Start(taskID int, projectID string) Outcome {
	if m.session == nil {
		m.begin(taskID, projectID)
		return Outcome{State: Running, Started: m.Session()}
	}
	if m.session.TaskID == taskID {
		entry, _ := m.Stop()
		return Outcome{State: Idle, Stopped: &entry}
	}
	m.pending = &Switch{FromTaskID: m.session.TaskID, ToTaskID: taskID, ToProjectID: projectID}
	return Outcome{State: PendingSwitch, Pending: m.Pending()}
}

// Stop ends the running session and drops any pending switch. The second
// result is false when there was nothing to stop, with a zero Entry.
func (m *Manager) Stop() (Entry, bool) {
	if m.session == nil {
		return Entry{}, false
	}
	now := m.now()
	entry := Entry{
		TaskID:    m.session.TaskID,
		ProjectID: m.session.ProjectID,
		StartedAt: m.session.StartedAt,
		StoppedAt: now,
		Seconds:   m.session.elapsed(now),
	}
	m.session = nil
	m.pending = nil
	return entry, true
}

// Confirm performs a pending switch: the old session stops and a session
// for the requested task starts. Outside a pending switch it does nothing.
func (m *Manager) Confirm() Outcome {
	if m.pending == nil {
		return Outcome{State: m.State(), Started: m.Session()}
	}
	next := *m.pending
	entry, _ := m.Stop()
	m.begin(next.ToTaskID, next.ToProjectID)
	return Outcome{State: Running, Stopped: &entry, Started: m.Session()}
}

// Cancel drops a pending switch, leaving the running session unchanged.
// Outside a pending switch it does nothing.
func (m *Manager) Cancel() Outcome {
	m.pending = nil
	return Outcome{State: m.State(), Started: m.Session()}
}

// Pause stops the clock of the running session. It reports whether the
// state changed.
func (m *Manager) Pause() bool {
	if m.session == nil || m.session.Paused() {
		return false
	}
	at := m.now()
	m.session.PausedAt = &at
	return true
}

// Resume restarts the clock of a paused session. It reports whether the
// state changed.
func (m *Manager) Resume() bool {
	if m.session == nil || !m.session.Paused() {
		return false
	}
	paused := m.now().Sub(*m.session.PausedAt)
	if paused > 0 {
		m.session.PausedSeconds += int64(paused / time.Second)
	}
	m.session.PausedAt = nil
	return true
}

// Snapshot returns the persistable state.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{Session: m.Session(), Pending: m.Pending()}
}

// Restore replaces the state with s. A pending switch without a session,
// or one that no longer names the running task, is dropped.
func (m *Manager) Restore(s Snapshot) {
	m.session = nil
	m.pending = nil
	if s.Session == nil {
		return
	}
	sess := *s.Session
	m.session = &sess
	if s.Pending != nil && s.Pending.FromTaskID == sess.TaskID {
		p := *s.Pending
		m.pending = &p
	}
}

func (m *Manager) begin(taskID int, projectID string) {
	m.session = &Session{TaskID: taskID, ProjectID: projectID, StartedAt: m.now()}
	m.pending = nil
}
