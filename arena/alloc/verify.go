package alloc

import (
	"fmt"

	"github.com/joshuapare/arenakit/internal/format"
)

// Check walks the block list and verifies its invariants:
//
//   - links strictly ascend from the head until the single wrap at the sentinel
//   - every link stays inside the arena and lands on an aligned header
//   - every non-sentinel block carries at least MinPayload bytes
//   - no two neighbouring blocks are both free
//   - the sentinel is not free and links back to the head
//   - the search cursor sits on a header of the list
//
// Because headers ascend from the aligned start to the sentinel with sizes
// derived from the links, passing these checks also means every byte of the
// arena belongs to exactly one block. An arena that has not been initialised
// has nothing to check.
func (a *NextFitAllocator) Check() error {
	if !a.usable {
		return nil
	}

	off := a.first
	prevFree := false
	cursorSeen := false
	for steps := 0; ; steps++ {
		if steps > a.maxBlocks() {
			return corrupt(off, "list does not reach the sentinel")
		}
		h, err := format.ReadHeaderChecked(a.mem, off)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if off == a.cursor {
			cursorSeen = true
		}

		if off == a.sentinel {
			if h.Free() {
				return corrupt(off, "sentinel marked free")
			}
			if h.Next() != a.first {
				return corrupt(off, "sentinel does not link back to the head")
			}
			break
		}

		next := h.Next()
		switch {
		case next <= off:
			return corrupt(off, "link does not ascend")
		case next > a.sentinel:
			return corrupt(off, "link escapes the arena")
		case format.PayloadSize(off, h) < format.MinPayload:
			return corrupt(off, "payload below minimum")
		case prevFree && h.Free():
			return corrupt(off, "neighbouring free blocks not coalesced")
		}
		prevFree = h.Free()
		off = next
	}

	if !cursorSeen {
		return corrupt(a.cursor, "cursor is not on the list")
	}
	return nil
}

func corrupt(off int, reason string) error {
	return fmt.Errorf("%w: %s at 0x%x", ErrCorrupt, reason, off)
}
