//go:build unix && !darwin && !linux && !solaris && !aix

package dirty

import "golang.org/x/sys/unix"

// fdatasync falls back to fsync() on systems without fdatasync().
func fdatasync(fd int, _ bool) error {
	return unix.Fsync(fd)
}
