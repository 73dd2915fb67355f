//go:build linux || solaris || aix

package dirty

import "golang.org/x/sys/unix"

// fdatasync performs file descriptor sync.
//
// fullfsync is ignored: fdatasync() is as strong as it gets here.
func fdatasync(fd int, _ bool) error {
	return unix.Fdatasync(fd)
}
