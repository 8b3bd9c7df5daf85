// Package filelock serializes writers of a board directory across
// processes with an advisory lock file.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the lock file kept in every board directory.
const FileName = ".lock"

const lockFileMode = 0o600

// Unlock releases a held lock.
type Unlock func() error

// Lock acquires an exclusive advisory lock on the file at path, creating it
// if needed. Other callers block until the returned Unlock runs.
func Lock(path string) (Unlock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return nil, err
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("locking %s: %w", filepath.Base(path), err)
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// LockBoard locks the board directory dir. Task creation (next_id) and
// timer transitions run under it.
func LockBoard(dir string) (Unlock, error) {
	return Lock(filepath.Join(dir, FileName))
}
