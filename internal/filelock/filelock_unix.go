//go:build !windows

package filelock

import (
	"os"
	"syscall"
)

// flock locks are owned by the open file description, so two opens of the
// lock file exclude each other even inside one process.
func lockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}

func unlockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
