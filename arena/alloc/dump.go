package alloc

import (
	"fmt"
	"io"

	"github.com/joshuapare/arenakit/internal/format"
)

// BlockInfo describes one block on the list.
type BlockInfo struct {
	Off      int  `json:"off"`      // Header offset
	Ref      Ref  `json:"ref"`      // Payload offset handed to callers
	Next     int  `json:"next"`     // Header offset of the successor
	Size     int  `json:"size"`     // Payload size
	Free     bool `json:"free"`     // Unallocated
	Sentinel bool `json:"sentinel"` // End-of-arena marker
}

// State names the block's status for listings.
func (b BlockInfo) State() string {
	switch {
	case b.Sentinel:
		return "sentinel"
	case b.Free:
		return "free"
	default:
		return "used"
	}
}

// Blocks returns every block in list order, starting at the head and ending
// with the sentinel. An arena that has not been initialised has no blocks.
func (a *NextFitAllocator) Blocks() []BlockInfo {
	var out []BlockInfo
	a.walk(func(b BlockInfo) bool {
		out = append(out, b)
		return true
	})
	return out
}

// Cursor returns the header offset the next search starts from.
func (a *NextFitAllocator) Cursor() int {
	return a.cursor
}

// Dump writes a human-readable listing of every block in list order.
// The format is diagnostic only.
func (a *NextFitAllocator) Dump(w io.Writer) error {
	if !a.usable {
		_, err := fmt.Fprintf(w, "arena [0x%x,0x%x) not initialised\n", a.start, a.end)
		return err
	}
	for _, b := range a.Blocks() {
		mark := " "
		if b.Off == a.cursor {
			mark = ">"
		}
		if _, err := fmt.Fprintf(w, "%s 0x%08x  next=0x%08x  size=%-8d %s\n",
			mark, b.Off, b.Next, b.Size, b.State()); err != nil {
			return err
		}
	}
	s := a.Stats()
	_, err := fmt.Fprintf(w, "blocks=%d used=%d/%dB free=%d/%dB largest=%dB\n",
		s.Blocks, s.UsedBlocks, s.UsedBytes, s.FreeBlocks, s.FreeBytes, s.LargestFree)
	return err
}

// walk visits blocks from the head to the sentinel. It stops early when fn
// returns false or when the walk exceeds the number of blocks the arena can
// hold.
func (a *NextFitAllocator) walk(fn func(BlockInfo) bool) {
	if !a.usable {
		return
	}
	off := a.first
	for steps := 0; steps <= a.maxBlocks(); steps++ {
		h := a.header(off)
		b := BlockInfo{
			Off:      off,
			Ref:      Ref(off + format.HeaderSize),
			Next:     h.Next(),
			Size:     format.PayloadSize(off, h),
			Free:     h.Free(),
			Sentinel: off == a.sentinel,
		}
		if !fn(b) || b.Sentinel {
			return
		}
		off = b.Next
	}
}
