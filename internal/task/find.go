package task

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/spf13/afero"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
)

// idPrefixRe matches the numeric ID prefix of a task filename.
var idPrefixRe = regexp.MustCompile(`^(\d+)-`)

// FindByID returns the path of the task file whose name carries id. Leading
// zeros in the name are ignored, so "007-x.md" is task 7.
func (s *Store) FindByID(id int) (string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return "", fmt.Errorf("reading tasks directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		if n, err := ExtractIDFromFilename(entry.Name()); err == nil && n == id {
			return filepath.Join(s.dir, entry.Name()), nil
		}
	}

	return "", clierr.Newf(clierr.TaskNotFound, "task #%d not found", id).
		WithDetails(map[string]any{"id": id})
}

// ReadAll reads all task files, failing on the first malformed one.
func (s *Store) ReadAll() ([]*Task, error) {
	tasks, warnings, err := s.ReadAllLenient()
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		return nil, fmt.Errorf("reading %s: %w", warnings[0].File, warnings[0].Err)
	}
	return tasks, nil
}

// ReadWarning describes a file that could not be parsed during lenient reading.
type ReadWarning struct {
	File string // base filename
	Err  error
}

// ReadAllLenient reads all task files, skipping malformed files instead of aborting.
// Successfully parsed tasks are returned along with warnings for files that failed.
func (s *Store) ReadAllLenient() ([]*Task, []ReadWarning, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var tasks []*Task
	var warnings []ReadWarning
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		t, readErr := s.Read(path)
		if readErr != nil {
			warnings = append(warnings, ReadWarning{File: entry.Name(), Err: readErr})
			continue
		}
		// Hand-written files may omit the id; the filename prefix carries it.
		if t.ID == 0 {
			if id, idErr := ExtractIDFromFilename(entry.Name()); idErr == nil {
				t.ID = id
			}
		}
		tasks = append(tasks, t)
	}

	return tasks, warnings, nil
}

// ExtractIDFromFilename extracts the numeric ID from a task filename.
func ExtractIDFromFilename(filename string) (int, error) {
	matches := idPrefixRe.FindStringSubmatch(filename)
	if len(matches) < 2 { //nolint:mnd // regex capture group
		return 0, fmt.Errorf("cannot extract ID from filename %q", filename)
	}
	return strconv.Atoi(matches[1])
}
