//go:build !unix

package region

import (
	"fmt"
	"io"
	"os"
)

// Reserve allocates size bytes of zeroed heap memory when mmap is not
// available.
func Reserve(size int) (*Region, error) {
	if err := checkSize(int64(size)); err != nil {
		return nil, fmt.Errorf("reserve %d bytes: %w", size, err)
	}
	return &Region{data: make([]byte, size)}, nil
}

// Create makes a file of size bytes and loads it into memory. The contents
// are written back by Close. Unless opts.Overwrite is set the file must not
// exist yet; on failure only a file this call created is removed.
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
	return &Region{f: f, data: make([]byte, size), path: path}, nil
}

// Open loads an existing arena file into memory. The contents are written
// back by Close.
func Open(path string) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	sz := st.Size()
	if sz == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	if err := checkSize(sz); err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	buf := make([]byte, sz)
	if _, err := io.ReadFull(f, buf); err != nil {
		f.Close()
		return nil, err
	}
	return &Region{f: f, data: buf, path: path}, nil
}

// Close writes file-backed contents back and closes the file. Closing twice
// is a no-op.
func (r *Region) Close() error {
	var err error
	if r.f != nil {
		if _, werr := r.f.WriteAt(r.data, 0); werr != nil {
			err = fmt.Errorf("region: write back failed: %w", werr)
		}
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
		r.f = nil
	}
	r.data = nil
	return err
}
