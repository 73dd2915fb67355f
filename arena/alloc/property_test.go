package alloc

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type liveBlock struct {
	size  int
	stamp byte
}

// TestRandomOperations runs a seeded mix of allocations and releases,
// checking the list invariants and every live payload after each step.
func TestRandomOperations(t *testing.T) {
	for _, seed := range []uint64{1, 7, 42, 1234} {
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		a, mem := newTestArena(t, 16*1024)
		start, end, _ := a.Bounds()
		live := make(map[Ref]liveBlock)
		var order []Ref

		for step := range 1500 {
			if len(order) == 0 || rng.IntN(10) < 6 {
				size := rng.IntN(400)
				ref, p, err := a.Alloc(size)
				if err != nil {
					require.ErrorIs(t, err, ErrNoSpace, "seed %d step %d", seed, step)
					continue
				}
				require.GreaterOrEqual(t, int(ref), start+8)
				require.LessOrEqual(t, int(ref)+size, end)
				require.NotContains(t, live, ref, "ref handed out twice")

				stamp := byte(step)
				for i := range p {
					p[i] = stamp
				}
				live[ref] = liveBlock{size: size, stamp: stamp}
				order = append(order, ref)
			} else {
				i := rng.IntN(len(order))
				ref := order[i]
				order[i] = order[len(order)-1]
				order = order[:len(order)-1]
				delete(live, ref)
				require.NoError(t, a.Free(ref))
			}

			require.NoError(t, a.Check(), "seed %d step %d", seed, step)
			for ref, b := range live {
				for i := range b.size {
					if mem[int(ref)+i] != b.stamp {
						require.Failf(t, "payload clobbered",
							"seed %d step %d ref 0x%x byte %d", seed, step, ref, i)
					}
				}
			}
		}

		for _, ref := range order {
			require.NoError(t, a.Free(ref))
		}
		assert.Len(t, a.Blocks(), 2, "seed %d: full release merges back to one block", seed)
		assertInvariants(t, a)
	}
}
