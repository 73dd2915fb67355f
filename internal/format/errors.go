package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrUnaligned indicates a header offset that is not 8-byte aligned.
	ErrUnaligned = errors.New("format: unaligned header offset")
)
