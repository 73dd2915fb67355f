package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/internal/format"
)

// TestSplitThreshold verifies a free block is split only when the leftover
// holds a header plus a minimum payload, and is handed out whole otherwise.
func TestSplitThreshold(t *testing.T) {
	tests := []struct {
		name      string
		avail     int // payload of the only free block
		request   int
		wantSplit bool
		wantSize  int // payload of the allocated block
	}{
		{"exact fit", 64, 64, false, 64},
		{"leftover one header", 72, 64, false, 72},
		{"leftover header plus minimum", 80, 64, true, 64},
		{"leftover larger", 88, 64, true, 64},
		{"zero size exact", 8, 0, false, 8},
		{"zero size leftover header", 16, 0, false, 16},
		{"zero size splits", 24, 0, true, 8},
		{"rounding eats leftover", 80, 65, false, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestArena(t, arenaFor(tt.avail))
			require.Equal(t, tt.avail, a.Capacity())

			ref, payload, err := a.Alloc(tt.request)
			require.NoError(t, err)
			assert.Equal(t, Ref(format.HeaderSize), ref)
			assert.Len(t, payload, tt.request)
			assert.Equal(t, tt.wantSize, cap(payload))

			shape := layout(a)
			if tt.wantSplit {
				require.Len(t, shape, 2)
				assert.Equal(t, 1, a.Stats().Counters.SplitCount)
				tail := shape[1]
				assert.True(t, tail.Free)
				assert.Equal(t, tt.avail-tt.wantSize-format.HeaderSize, tail.Size)
				assert.GreaterOrEqual(t, tail.Size, format.MinPayload)
				assert.Equal(t, tail.Off, a.Cursor(), "cursor moves to the split-off tail")
			} else {
				require.Len(t, shape, 1)
				assert.Equal(t, 0, a.Stats().Counters.SplitCount)
				_, sentinel, _ := a.alignedBounds()
				assert.Equal(t, sentinel, a.Cursor(), "cursor moves past the whole block")

				_, _, err := a.Alloc(0)
				assert.ErrorIs(t, err, ErrNoSpace, "nothing is left after a whole-block take")
			}
			assertInvariants(t, a)
		})
	}
}

// TestSplitAccounting verifies BytesAllocated counts whole blocks, including
// absorbed slack.
func TestSplitAccounting(t *testing.T) {
	a, _ := newTestArena(t, arenaFor(72))
	mustAlloc(t, a, 64)
	assert.Equal(t, int64(72), a.Stats().Counters.BytesAllocated)
}
