package task

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const dirMode = 0o750

// Store reads and writes task files in a tasks directory. The filesystem is
// injected so tests can run against afero.NewMemMapFs.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore returns a Store over dir on the given filesystem.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// OpenStore returns a Store over dir on the OS filesystem.
func OpenStore(dir string) *Store {
	return NewStore(afero.NewOsFs(), dir)
}

// Dir returns the tasks directory.
func (s *Store) Dir() string {
	return s.dir
}

// Read parses a task file and returns the Task with body and file populated.
func (s *Store) Read(path string) (*Task, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}

	t, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	t.File = path
	return t, nil
}

// Write serializes t to path.
func (s *Store) Write(path string, t *Task) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, path, data, fileMode)
}

// Load finds and reads the task with the given ID.
func (s *Store) Load(id int) (*Task, error) {
	path, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.Read(path)
}

// Create writes a new task file named after the task's ID and name.
// The task's File field is set to the new path.
func (s *Store) Create(t *Task) error {
	if err := s.fs.MkdirAll(s.dir, dirMode); err != nil {
		return fmt.Errorf("creating tasks directory: %w", err)
	}
	path := filepath.Join(s.dir, GenerateFilename(t.ID, GenerateSlug(t.Name)))
	if exists, _ := afero.Exists(s.fs, path); exists {
		return fmt.Errorf("task file %s already exists", filepath.Base(path))
	}
	if err := s.Write(path, t); err != nil {
		return fmt.Errorf("writing task: %w", err)
	}
	t.File = path
	return nil
}

// UpdateTask persists t as the full replacement of the stored task with the
// same ID. Writing the same task twice leaves the same file content. When the
// name changed, the file is renamed to match the new slug.
func (s *Store) UpdateTask(t *Task) error {
	oldPath := t.File
	if oldPath == "" {
		found, err := s.FindByID(t.ID)
		if err != nil {
			return err
		}
		oldPath = found
	}

	newPath := filepath.Join(s.dir, GenerateFilename(t.ID, GenerateSlug(t.Name)))
	if err := s.Write(newPath, t); err != nil {
		return fmt.Errorf("writing task: %w", err)
	}
	if newPath != oldPath {
		if err := s.fs.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing old task file: %w", err)
		}
	}
	t.File = newPath
	return nil
}
