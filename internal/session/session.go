// Package session persists the view state of a board between commands.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
)

// FileName is the session file inside the board directory.
const FileName = "view.yml"

const fileMode = 0o600

// Store reads and writes the session file of one board.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a session store for boardDir on fs.
func NewStore(fsys afero.Fs, boardDir string) *Store {
	return &Store{fs: fsys, path: filepath.Join(boardDir, FileName)}
}

// Open returns a session store for boardDir on the OS filesystem.
func Open(boardDir string) *Store {
	return NewStore(afero.NewOsFs(), boardDir)
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved view. Without a session file the view is seeded
// from the board defaults.
func (s *Store) Load(defaults config.DefaultsConfig) (*board.View, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return board.NewViewFromDefaults(defaults), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	v := board.NewViewFromDefaults(defaults)
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	normalize(v)
	return v, nil
}

// Save writes the view.
func (s *Store) Save(v *board.View) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, fileMode); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Reset removes the session file. A missing file is not an error.
func (s *Store) Reset() error {
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// normalize replaces values a hand-edited file may have broken. Aliases
// accepted by the parsers are stored in their canonical form.
func normalize(v *board.View) {
	v.Mode = parsedOr(board.ParseViewMode, v.Mode, board.ViewTable)
	v.Layout = parsedOr(board.ParseLayout, v.Layout, board.LayoutList)
	v.Window = parsedOr(board.ParseWindow, v.Window, board.WindowAll)
	v.Completed = parsedOr(board.ParseCompletedDisplay, v.Completed, board.CompletedInline)
	if v.Focus != "" {
		v.Focus = parsedOr(board.ParseFocus, v.Focus, board.FocusAll)
	}
	if v.Sort.IsSet() {
		col, err := board.ParseColumn(string(v.Sort.Column))
		switch {
		case err != nil:
			v.Sort = board.SortSpec{}
		case v.Sort.Direction != board.Desc:
			v.Sort = board.SortSpec{Column: col, Direction: board.Asc}
		default:
			v.Sort.Column = col
		}
	}
	v.Filters.Normalize()
}

// parsedOr returns the parsed form of v, or fallback when v does not parse.
func parsedOr[T ~string](parse func(string) (T, error), v, fallback T) T {
	if p, err := parse(string(v)); err == nil {
		return p
	}
	return fallback
}
