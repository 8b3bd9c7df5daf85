package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultValidates(t *testing.T) {
	cfg := NewDefault("firm")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"todo", "in-progress", "blocked", "completed"}, cfg.BoardStatuses())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing completed status", func(c *Config) { c.Statuses = []StatusConfig{{Name: "todo"}, {Name: "done"}} }},
		{"archived default status", func(c *Config) { c.Defaults.Status = ArchivedStatus }},
		{"unknown default priority", func(c *Config) { c.Defaults.Priority = "urgent" }},
		{"duplicate project", func(c *Config) {
			c.Projects = []ProjectConfig{{ID: "p1"}, {ID: "p1"}}
		}},
		{"unknown default list", func(c *Config) { c.Defaults.TaskList = "later" }},
		{"bad view mode", func(c *Config) { c.Defaults.ViewMode = "grid" }},
		{"bad window", func(c *Config) { c.Defaults.TimeWindow = "thisYear" }},
		{"bad next id", func(c *Config) { c.NextID = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault("firm")
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestClientLookup(t *testing.T) {
	cfg := NewDefault("firm")
	cfg.Projects = []ProjectConfig{
		{ID: "p1", Name: "Audit 2026", Client: "Acme"},
		{ID: "p2", Name: "Payroll", Client: "Globex"},
		{ID: "p3", Name: "Internal"},
		{ID: "p4", Name: "Tax", Client: "Acme"},
	}

	assert.Equal(t, "Acme", cfg.ClientName("p1"))
	assert.Equal(t, "", cfg.ClientName("p3"))
	assert.Equal(t, "", cfg.ClientName("missing"))
	assert.Equal(t, "", cfg.ClientName(""))
	assert.Equal(t, []string{"Acme", "Globex"}, cfg.ClientNames())
}

func TestTaskListName(t *testing.T) {
	cfg := NewDefault("firm")
	assert.Equal(t, "Inbox", cfg.TaskListName("inbox"))
	assert.Equal(t, "someday", cfg.TaskListName("someday"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Init(dir, "firm")
	require.NoError(t, err)
	assert.DirExists(t, cfg.TasksPath())

	cfg.Projects = []ProjectConfig{{ID: "p1", Name: "Audit", Client: "Acme"}}
	require.NoError(t, cfg.Save())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Acme", loaded.ClientName("p1"))
	assert.Equal(t, cfg.Dir(), loaded.Dir())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMigratesV1(t *testing.T) {
	dir := t.TempDir()
	v1 := `version: 1
board:
  name: legacy
tasks_dir: tasks
statuses:
  - todo
  - completed
priorities: [low, medium, high]
defaults:
  status: todo
  priority: medium
next_id: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, []string{DefaultTaskList}, cfg.TaskListIDs())
	assert.Equal(t, DefaultViewMode, cfg.Defaults.ViewMode)
	assert.Equal(t, 4, cfg.NextID)

	// The migrated file is persisted.
	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, again.Version)
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("version: 99\n"), 0o600))
	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFindDir(t *testing.T) {
	root := t.TempDir()
	_, err := Init(filepath.Join(root, DefaultDir), "firm")
	require.NoError(t, err)

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	found, err := FindDir(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, DefaultDir), found)
}
