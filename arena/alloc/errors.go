package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free block large enough was found after a
	// full loop, or that the arena is too small to hold any block at all.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadSize indicates a negative allocation request.
	ErrBadSize = errors.New("alloc: negative size")

	// ErrBadRef indicates a reference outside the arena, a misaligned
	// reference, or (for Payload) a reference to a block that is not in use.
	ErrBadRef = errors.New("alloc: bad block reference")

	// ErrCorrupt indicates the block list violates one of its invariants.
	ErrCorrupt = errors.New("alloc: corrupt block list")

	// ErrBadConfig indicates arena bounds that do not fit the supplied memory.
	ErrBadConfig = errors.New("alloc: bad arena bounds")
)
