package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/internal/format"
)

// ============================================================================
// Arena Creation Utilities
// ============================================================================

// newTestArena creates an allocator over a fresh zeroed arena of size bytes.
func newTestArena(t testing.TB, size int) (*NextFitAllocator, []byte) {
	t.Helper()
	mem := make([]byte, size)
	a, err := NewNextFit(mem, nil)
	require.NoError(t, err)
	return a, mem
}

// arenaFor returns the arena size whose single initial free block has exactly
// payload bytes.
func arenaFor(payload int) int {
	return payload + 2*format.HeaderSize
}

// mustAlloc allocates size bytes and fails the test on error.
func mustAlloc(t testing.TB, a Allocator, size int) Ref {
	t.Helper()
	ref, payload, err := a.Alloc(size)
	require.NoError(t, err, "Alloc(%d)", size)
	require.NotEqual(t, NilRef, ref)
	require.Len(t, payload, size)
	return ref
}

// ============================================================================
// Invariant Assertions
// ============================================================================

// assertInvariants checks the block list plus full coverage of the arena.
func assertInvariants(t testing.TB, a *NextFitAllocator) {
	t.Helper()
	require.NoError(t, a.Check())

	start, end, ok := a.Bounds()
	require.True(t, ok)

	blocks := a.Blocks()
	require.NotEmpty(t, blocks)
	require.Equal(t, start, blocks[0].Off, "list must start at the aligned start")

	covered := 0
	for _, b := range blocks {
		covered += format.HeaderSize + b.Size
	}
	require.Equal(t, end-start, covered, "blocks must cover the arena exactly")

	last := blocks[len(blocks)-1]
	require.True(t, last.Sentinel)
	require.False(t, last.Free)
	require.Equal(t, end-format.HeaderSize, last.Off)
}

// layout summarises the list as (size, free) pairs, sentinel excluded.
type blockShape struct {
	Off  int
	Size int
	Free bool
}

func layout(a *NextFitAllocator) []blockShape {
	var out []blockShape
	for _, b := range a.Blocks() {
		if b.Sentinel {
			continue
		}
		out = append(out, blockShape{Off: b.Off, Size: b.Size, Free: b.Free})
	}
	return out
}

// ============================================================================
// Mock Dirty Tracker
// ============================================================================

type dirtyRange struct {
	off, length int
}

type mockDirtyTracker struct {
	ranges []dirtyRange
}

func newMockDirtyTracker() *mockDirtyTracker {
	return &mockDirtyTracker{}
}

func (m *mockDirtyTracker) Add(off, length int) {
	m.ranges = append(m.ranges, dirtyRange{off: off, length: length})
}
