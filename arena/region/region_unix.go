//go:build unix

package region

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Reserve maps size bytes of zeroed, process-private memory.
func Reserve(size int) (*Region, error) {
	if err := checkSize(int64(size)); err != nil {
		return nil, fmt.Errorf("reserve %d bytes: %w", size, err)
	}
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
	if err != nil {
		return nil, fmt.Errorf("region: anonymous mmap failed: %w", err)
	}
	return &Region{data: data}, nil
}

// Create makes a file of size bytes and maps it read-write, shared. Unless
// opts.Overwrite is set the file must not exist yet. On failure a file this
// call created is removed; an overwritten file is left in place.
func Create(path string, size int64, opts *Options) (*Region, error) {
	if err := checkSize(size); err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	f, err := os.OpenFile(path, opts.flags(), opts.perm())
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(size); err != nil {
		_ = f.Close()
		opts.discard(path)
		return nil, fmt.Errorf("region: failed to size file: %w", err)
	}
	r, err := mapFile(f, path, size)
	if err != nil {
		opts.discard(path)
		return nil, err
	}
	return r, nil
}

// Open maps an existing arena file read-write, shared.
func Open(path string) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sz := st.Size()
	if sz == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	if err := checkSize(sz); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return mapFile(f, path, sz)
}

func mapFile(f *os.File, path string, size int64) (*Region, error) {
	data, err := unix.Mmap(
		int(f.Fd()),
		0,
		int(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("region: mmap failed: %w", err)
	}
	return &Region{f: f, data: data, path: path}, nil
}

// Close unmaps the memory and closes the backing file. Closing twice is a
// no-op.
func (r *Region) Close() error {
	var err error
	if r.data != nil {
		err = unix.Munmap(r.data)
		if errors.Is(err, unix.EINVAL) {
			err = nil
		}
		r.data = nil
	}
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
		r.f = nil
	}
	return err
}
