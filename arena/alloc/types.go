package alloc

// Ref is the arena-relative offset of a block's payload, the only address
// handed to or accepted from callers.
type Ref = uint32

// NilRef is never a valid payload offset; failed allocations return it.
const NilRef Ref = 0

// Allocator defines the allocate/release contract shared by every arena
// allocator in this module.
//
// Implementations:
//   - NextFitAllocator: single-threaded next-fit engine
//   - LockedAllocator: mutex wrapper for concurrent callers
type Allocator interface {
	// Alloc reserves at least size bytes and returns the payload reference
	// together with a slice over the payload (len == size).
	Alloc(size int) (Ref, []byte, error)

	// Free releases a block obtained from Alloc. Releasing an already free
	// block is a no-op.
	Free(ref Ref) error

	// Payload resolves an allocated reference to its full payload slice.
	Payload(ref Ref) ([]byte, error)
}
