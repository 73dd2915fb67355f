// Package format houses the low-level encoding of arena block headers. The
// goal is to keep the bit layout in one place, allocation-free, and
// independent from the allocator so the engine only ever reads and writes
// whole header words.
package format

const (
	// Alignment is the byte boundary every header and payload starts on.
	Alignment = 8

	// AlignmentMask isolates the low bits that alignment keeps at zero.
	AlignmentMask = Alignment - 1

	// HeaderSize is the footprint of a block header.
	// Layout (little-endian uint64):
	//   bits 63..3  offset of the next header (8-aligned)
	//   bit  0      free flag
	HeaderSize = 8

	// MinPayload is the smallest payload a standalone block may carry.
	// Remainders below HeaderSize+MinPayload are never split off.
	MinPayload = 8

	// MinArena is the smallest aligned span that fits one minimum block plus
	// the sentinel header.
	MinArena = 2*HeaderSize + MinPayload

	// FreeFlag is the header bit that marks a block as unallocated.
	FreeFlag = uint64(1)

	// NextMask isolates the next-offset portion of a header word.
	NextMask = ^uint64(AlignmentMask)
)
