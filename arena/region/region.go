// Package region obtains the memory an arena lives in: an anonymous private
// mapping for scratch arenas, or a shared read-write mapping of a file for
// arenas that outlive the process.
//
// A Region satisfies dirty.Mapping, so header writes recorded by a
// dirty.Tracker can be flushed back to the file.
package region

import (
	"errors"
	"os"
)

var (
	// ErrBadSize indicates a non-positive or unmappable region size.
	ErrBadSize = errors.New("region: bad size")

	// ErrEmptyFile indicates an attempt to open a zero-length arena file.
	ErrEmptyFile = errors.New("region: empty file")
)

// Options controls how Create makes a new arena file.
type Options struct {
	// Perm is the permission for a newly created file. Zero means 0o644.
	Perm os.FileMode

	// Overwrite truncates an existing file instead of failing.
	Overwrite bool
}

// DefaultOptions returns the options Create uses when passed nil.
func DefaultOptions() *Options {
	return &Options{Perm: 0o644}
}

func (o *Options) flags() int {
	if o.Overwrite {
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}
	return os.O_RDWR | os.O_CREATE | os.O_EXCL
}

// discard removes a file left behind by a failed Create, unless it existed
// before the call.
func (o *Options) discard(path string) {
	if !o.Overwrite {
		_ = os.Remove(path)
	}
}

func (o *Options) perm() os.FileMode {
	if o.Perm == 0 {
		return 0o644
	}
	return o.Perm
}

// Region is a block of arena memory, optionally backed by a file.
type Region struct {
	f    *os.File
	data []byte
	path string
}

// Bytes returns the region's memory. It is nil after Close.
func (r *Region) Bytes() []byte { return r.data }

// Size returns the region length in bytes.
func (r *Region) Size() int { return len(r.data) }

// Path returns the backing file path, or "" for anonymous regions.
func (r *Region) Path() string { return r.path }

// FD returns the backing file descriptor, or -1 for anonymous or closed regions.
func (r *Region) FD() int {
	if r == nil || r.f == nil {
		return -1
	}
	return int(r.f.Fd())
}

func checkSize(size int64) error {
	if size <= 0 || size > int64(^uint(0)>>1) {
		return ErrBadSize
	}
	return nil
}
