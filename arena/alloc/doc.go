// Package alloc provides a next-fit block allocator over a caller-supplied arena.
//
// # Overview
//
// The allocator manages a single contiguous byte range (the arena) without
// relying on any other allocator. All bookkeeping lives inside the arena as
// 8-byte block headers; nothing is kept on the Go heap except a handful of
// offsets (list head, sentinel, search cursor).
//
// # Block List
//
// Blocks form a circular, singly linked list ordered by address:
//
//	[hdr|payload][hdr|payload] ... [hdr|payload][sentinel hdr]
//	   ^                                              |
//	   +----------------------------------------------+
//
// Each header packs the offset of the next header with a free flag in bit 0.
// A block's size is never stored: it is the distance to the next header minus
// the header itself, so it cannot drift out of sync with the links. The
// sentinel is a zero-payload block at the top of the arena that is never free
// and links back to the first block.
//
// # Allocation
//
// Alloc rounds the request up to a multiple of 8 and searches next-fit: the
// walk starts at a persistent cursor rather than the head, and the first free
// block large enough wins. When the leftover would be smaller than one header
// plus the 8-byte minimum payload, the block is handed out whole; otherwise
// the tail is split off as a new free block. The cursor then moves to the
// block after the one just allocated.
//
//	a, _ := alloc.NewNextFit(mem, nil)
//	ref, payload, err := a.Alloc(512)
//	if err != nil {
//	    return err // alloc.ErrNoSpace
//	}
//	copy(payload, data)
//	_ = a.Free(ref)
//
// Requests of size 0 are serviced as 8-byte requests.
//
// # Release
//
// Free marks the block free, merges it with its link successor when that is
// free, then scans from the head for its predecessor and merges into it when
// that is free. No backward links are kept, so every Free costs O(n) in the
// number of blocks.
//
// # References
//
// A Ref is the arena-relative offset of a payload. NilRef (0) is never a
// valid payload offset and is what failed allocations return. Releasing a Ref
// that was not produced by this allocator is a caller error; refs outside the
// arena are rejected with ErrBadRef, refs into the middle of a block are not
// detected.
//
// # Thread Safety
//
// NextFitAllocator is not thread-safe. Wrap it with NewLocked when more than
// one goroutine allocates from the same arena.
//
// # Related Packages
//
//   - github.com/joshuapare/arenakit/arena/region: Reserves and maps arena memory
//   - github.com/joshuapare/arenakit/arena/dirty: Tracks header writes for msync
//   - github.com/joshuapare/arenakit/internal/format: Header word encoding
package alloc
