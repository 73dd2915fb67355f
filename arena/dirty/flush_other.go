//go:build !unix

package dirty

import "context"

// flushRanges is a no-op where arenas are not mapped: region writes file
// contents back when it is closed.
func (t *Tracker) flushRanges(_ context.Context, _ []byte) error {
	return nil
}

func fdatasync(int, bool) error {
	return nil
}
