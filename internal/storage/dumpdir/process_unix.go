//go:build unix

package dumpdir

import (
	"errors"

	"golang.org/x/sys/unix"
)

// processAlive reports whether pid names a running process. EPERM means the
// process exists but belongs to someone else.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false // 0 would signal our process group, not a specific process
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
