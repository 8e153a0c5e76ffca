//go:build unix

package memory

import "golang.org/x/sys/unix"

// hostPageSize returns the host's native page size, matching the
// original's use of sysconf(_SC_PAGESIZE). Falls back to the default if
// the syscall fails for any reason.
func hostPageSize() uint32 {
	size := unix.Getpagesize()
	if size <= 0 {
		return defaultPageSize
	}

	return uint32(size)
}
