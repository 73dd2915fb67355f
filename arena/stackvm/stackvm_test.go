package stackvm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/arena/alloc"
)

func newTestMachine(t *testing.T, size int) (*Machine, *alloc.NextFitAllocator) {
	t.Helper()
	a, err := alloc.NewNextFit(make([]byte, size), nil)
	require.NoError(t, err)
	return New(a), a
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty input", "", "\n"},
		{"quit at once", "q", "\n"},
		{"two pushes", "aa", "0,1;\n"},
		{"skip advances counter", "abab", "0,2;\n"},
		{"pop", "aacq", "0;\n"},
		{"pop empty is ignored", "cca", "2;\n"},
		{"stops at unknown byte", "aaxaa", "0,1;\n"},
		{"newline stops", "a\na", "0;\n"},
		{"all popped", "aacc", "\n"},
		{"long", "aaaaaaaaaaaa", "0,1,2,3,4,5,6,7,8,9,10,11;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, a := newTestMachine(t, 4096)

			var out bytes.Buffer
			require.NoError(t, m.Run(strings.NewReader(tt.input), &out))
			assert.Equal(t, tt.want, out.String())

			assert.Zero(t, m.Len())
			require.NoError(t, a.Check())
			assert.Len(t, a.Blocks(), 2, "every node and the array are released")
		})
	}
}

func TestPushPopPeek(t *testing.T) {
	m, _ := newTestMachine(t, 1024)

	_, err := m.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = m.Peek()
	assert.ErrorIs(t, err, ErrEmpty)

	for _, v := range []int32{7, -3, 42} {
		require.NoError(t, m.Push(v))
	}
	assert.Equal(t, 3, m.Len())

	top, err := m.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(42), top)

	vals, err := m.Values()
	require.NoError(t, err)
	assert.Equal(t, []int32{7, -3, 42}, vals)

	for _, want := range []int32{42, -3, 7} {
		got, err := m.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Zero(t, m.Len())
}

func TestNodesLiveInArena(t *testing.T) {
	m, a := newTestMachine(t, 1024)
	require.NoError(t, m.Push(1))
	require.NoError(t, m.Push(2))

	s := a.Stats()
	assert.Equal(t, 2, s.UsedBlocks)
	assert.Equal(t, 2*nodeSize, s.UsedBytes)
}

func TestPushArenaFull(t *testing.T) {
	// Room for exactly two nodes.
	m, _ := newTestMachine(t, 2*(8+nodeSize)+8)
	require.NoError(t, m.Push(1))
	require.NoError(t, m.Push(2))

	err := m.Push(3)
	require.ErrorIs(t, err, alloc.ErrNoSpace)
	assert.Equal(t, 2, m.Len(), "failed push leaves the stack alone")
}

func TestDrainArenaFull(t *testing.T) {
	m, _ := newTestMachine(t, 2*(8+nodeSize)+8)
	require.NoError(t, m.Push(1))
	require.NoError(t, m.Push(2))

	var out bytes.Buffer
	err := m.Drain(&out)
	require.ErrorIs(t, err, alloc.ErrNoSpace, "no room for the array")
	assert.Empty(t, out.String())
	assert.Equal(t, 2, m.Len())
}

func TestStepAndReset(t *testing.T) {
	m, a := newTestMachine(t, 1024)
	for _, c := range []byte("aab") {
		more, err := m.Step(c)
		require.NoError(t, err)
		require.True(t, more)
	}
	assert.Equal(t, 3, m.Counter())

	more, err := m.Step('q')
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, 3, m.Counter(), "stop byte does not advance the counter")

	require.NoError(t, m.Reset())
	assert.Zero(t, m.Counter())
	assert.Zero(t, m.Len())
	assert.Len(t, a.Blocks(), 2)
}

func TestRunOverLockedAllocator(t *testing.T) {
	a, err := alloc.NewNextFit(make([]byte, 4096), nil)
	require.NoError(t, err)
	m := New(alloc.NewLocked(a))

	var out bytes.Buffer
	require.NoError(t, m.Run(strings.NewReader("abaca"), &out))
	assert.Equal(t, "0,4;\n", out.String())
}

func TestFeedKeepsStack(t *testing.T) {
	m, a := newTestMachine(t, 1024)

	require.NoError(t, m.Feed(strings.NewReader("aabqaa")))
	assert.Equal(t, 3, m.Counter())
	vals, err := m.Values()
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1}, vals, "bytes after the stop are not read")
	assert.Equal(t, 2, a.Stats().UsedBlocks)

	var out bytes.Buffer
	require.NoError(t, m.Drain(&out))
	assert.Equal(t, "0,1;\n", out.String())
}

// shortAlloc hands out payloads one byte shorter than asked for once size
// reaches min.
type shortAlloc struct {
	alloc.Allocator
	min int
}

func (s shortAlloc) Alloc(size int) (alloc.Ref, []byte, error) {
	ref, p, err := s.Allocator.Alloc(size)
	if err == nil && size >= s.min {
		p = p[:size-1]
	}
	return ref, p, err
}

func TestPushShortNode(t *testing.T) {
	a, err := alloc.NewNextFit(make([]byte, 1024), nil)
	require.NoError(t, err)
	m := New(shortAlloc{Allocator: a, min: nodeSize})

	require.NotPanics(t, func() {
		assert.ErrorIs(t, m.Push(1), alloc.ErrCorrupt)
	})
	assert.Zero(t, m.Len())
	assert.Zero(t, a.Stats().UsedBlocks, "the node is released")
	require.NoError(t, a.Check())
}

func TestDrainShortArray(t *testing.T) {
	a, err := alloc.NewNextFit(make([]byte, 1024), nil)
	require.NoError(t, err)
	m := New(shortAlloc{Allocator: a, min: 3 * valueSize})
	for v := range int32(3) {
		require.NoError(t, m.Push(v))
	}

	var out bytes.Buffer
	require.NotPanics(t, func() {
		assert.ErrorIs(t, m.Drain(&out), alloc.ErrCorrupt)
	})
	assert.Empty(t, out.String())
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 3, a.Stats().UsedBlocks, "the array is released")
	require.NoError(t, a.Check())
}
