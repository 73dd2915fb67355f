package alloc

import (
	"io"
	"sync"
)

// LockedAllocator serialises every call to a NextFitAllocator behind one mutex,
// held for the whole call: search, split or merge, and the returned ref are
// never interleaved with another goroutine's call.
type LockedAllocator struct {
	mu sync.Mutex
	a  *NextFitAllocator
}

// NewLocked wraps a. The caller must not use a directly afterwards.
func NewLocked(a *NextFitAllocator) *LockedAllocator {
	return &LockedAllocator{a: a}
}

// Alloc implements Allocator.
func (l *LockedAllocator) Alloc(size int) (Ref, []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Alloc(size)
}

// Free implements Allocator.
func (l *LockedAllocator) Free(ref Ref) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Free(ref)
}

// Payload implements Allocator.
func (l *LockedAllocator) Payload(ref Ref) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Payload(ref)
}

// Blocks returns a snapshot of the block list.
func (l *LockedAllocator) Blocks() []BlockInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Blocks()
}

// Stats returns a snapshot of the arena statistics.
func (l *LockedAllocator) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Stats()
}

// Check verifies the block list invariants.
func (l *LockedAllocator) Check() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Check()
}

// Dump writes the block listing to w.
func (l *LockedAllocator) Dump(w io.Writer) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Dump(w)
}
