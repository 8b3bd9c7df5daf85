//go:build windows

package filelock

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

const (
	flagExclusive     = 0x00000002 // LOCKFILE_EXCLUSIVE_LOCK
	flagFailImmediate = 0x00000001 // LOCKFILE_FAIL_IMMEDIATELY
	retryInterval     = time.Millisecond
)

// lockFile polls with LOCKFILE_FAIL_IMMEDIATELY so a blocked lock never
// pins an OS thread.
func lockFile(f *os.File) error {
	for {
		err := windows.LockFileEx(windows.Handle(f.Fd()), flagExclusive|flagFailImmediate, 0, 1, 0, new(windows.Overlapped))
		if !errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return err
		}
		time.Sleep(retryInterval)
	}
}

func unlockFile(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, new(windows.Overlapped))
}
