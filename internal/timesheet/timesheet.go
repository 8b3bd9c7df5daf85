// Package timesheet persists stopped timer entries and the timer state in
// the board's SQLite database.
package timesheet

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"
	_ "modernc.org/sqlite"

	"github.com/twiced-technology-gmbh/taskdeck/internal/timer"
)

// FileName is the database file inside the board directory.
const FileName = "timesheet.db"

const createTableSQL = `
CREATE TABLE IF NOT EXISTS time_entries (
	id TEXT PRIMARY KEY,
	task_id INTEGER NOT NULL,
	project_id TEXT NOT NULL DEFAULT '',
	started_at TEXT NOT NULL,
	stopped_at TEXT NOT NULL,
	seconds INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_time_entries_task ON time_entries(task_id);
CREATE INDEX IF NOT EXISTS idx_time_entries_project ON time_entries(project_id);
CREATE TABLE IF NOT EXISTS timer_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	snapshot TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

const selectEntries = `SELECT id, task_id, project_id, started_at, stopped_at, seconds FROM time_entries`

// Record is a stored time entry.
type Record struct {
	ID string `json:"id"`
	timer.Entry
}

// Store is the timesheet database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the timesheet database in boardDir.
func Open(boardDir string) (*Store, error) {
	if err := os.MkdirAll(boardDir, 0o750); err != nil {
		return nil, fmt.Errorf("create board dir: %w", err)
	}

	dbPath := filepath.Join(boardDir, FileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open timesheet db: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init timesheet schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a stopped timer entry and returns its id.
func (s *Store) Record(e timer.Entry) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO time_entries
		(id, task_id, project_id, started_at, stopped_at, seconds)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, e.TaskID, e.ProjectID,
		e.StartedAt.UTC().Format(time.RFC3339), e.StoppedAt.UTC().Format(time.RFC3339),
		e.Seconds,
	)
	if err != nil {
		return "", fmt.Errorf("record time entry: %w", err)
	}
	return id, nil
}

// ByTask returns the entries of a task, oldest first.
func (s *Store) ByTask(taskID int) ([]Record, error) {
	return s.query(selectEntries+` WHERE task_id = ? ORDER BY started_at`, taskID)
}

// ByProject returns the entries of a project, oldest first.
func (s *Store) ByProject(projectID string) ([]Record, error) {
	return s.query(selectEntries+` WHERE project_id = ? ORDER BY started_at`, projectID)
}

// All returns every entry, oldest first. A zero since returns everything.
func (s *Store) All(since time.Time) ([]Record, error) {
	if since.IsZero() {
		return s.query(selectEntries + ` ORDER BY started_at`)
	}
	return s.query(selectEntries+` WHERE started_at >= ? ORDER BY started_at`, since.UTC().Format(time.RFC3339))
}

// TotalByTask returns the recorded seconds per task.
func (s *Store) TotalByTask() (map[int]int64, error) {
	rows, err := s.db.Query(`SELECT task_id, SUM(seconds) FROM time_entries GROUP BY task_id`)
	if err != nil {
		return nil, fmt.Errorf("query task totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[int]int64)
	for rows.Next() {
		var (
			id    int
			total int64
		)
		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("scan task total: %w", err)
		}
		totals[id] = total
	}
	return totals, rows.Err()
}

// SaveState persists the timer snapshot, replacing the previous one.
func (s *Store) SaveState(snap timer.Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal timer state: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO timer_state (id, snapshot, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save timer state: %w", err)
	}
	return nil
}

// LoadState returns the persisted timer snapshot. A board that never ran a
// timer yields the zero snapshot.
func (s *Store) LoadState() (timer.Snapshot, error) {
	var raw string
	err := s.db.QueryRow(`SELECT snapshot FROM timer_state WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return timer.Snapshot{}, nil
	}
	if err != nil {
		return timer.Snapshot{}, fmt.Errorf("load timer state: %w", err)
	}

	var snap timer.Snapshot
	if err := yaml.Unmarshal([]byte(raw), &snap); err != nil {
		return timer.Snapshot{}, fmt.Errorf("parse timer state: %w", err)
	}
	return snap, nil
}

func (s *Store) query(q string, args ...any) ([]Record, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query time entries: %w", err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var r Record
		var started, stopped string
		if err := rows.Scan(&r.ID, &r.TaskID, &r.ProjectID, &started, &stopped, &r.Seconds); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			r.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339, stopped); err == nil {
			r.StoppedAt = t
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
