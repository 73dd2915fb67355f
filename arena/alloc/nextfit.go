package alloc

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/arenakit/internal/format"
)

// NextFitAllocator hands out blocks from a fixed arena using a next-fit search
// over a circular, address-ordered block list whose headers live in the arena.
//
// The zero value is not usable; construct with NewNextFit or Attach.
type NextFitAllocator struct {
	mem []byte
	dt  DirtyTracker
	log *slog.Logger

	// Configured bounds [start, end) before alignment.
	start int
	end   int

	// Header offsets, valid once usable is set.
	first    int // head of the list (lowest address)
	sentinel int // zero-payload end marker, links back to first
	cursor   int // where the next search begins

	initDone bool // Init has run, successfully or not
	usable   bool // Init found room for at least one block

	// Statistics for testing and instrumentation
	stats Counters
}

// NewNextFit creates an allocator over mem. The arena is initialised lazily by
// the first Alloc (or an explicit Init); a nil cfg spans all of mem.
//
// Bounds that do not fit mem fail with ErrBadConfig. An arena that is merely
// too small is not an error here: it leaves the allocator in a state where
// every Alloc fails with ErrNoSpace.
func NewNextFit(mem []byte, cfg *Config) (*NextFitAllocator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	start, end, err := cfg.bounds(len(mem))
	if err != nil {
		return nil, fmt.Errorf("arena [%d,%d) over %d bytes: %w", cfg.Start, cfg.End, len(mem), err)
	}
	return &NextFitAllocator{
		mem:   mem,
		dt:    cfg.Tracker,
		log:   cfg.logger(),
		start: start,
		end:   end,
	}, nil
}

// Attach adopts an arena image that already carries a block list, for example
// a mapped file written by an earlier process. The list is verified before the
// allocator is returned; the search cursor restarts at the head.
func Attach(mem []byte, cfg *Config) (*NextFitAllocator, error) {
	a, err := NewNextFit(mem, cfg)
	if err != nil {
		return nil, err
	}
	first, sentinel, ok := a.alignedBounds()
	if !ok {
		return nil, fmt.Errorf("%w: arena too small to hold a block list", ErrCorrupt)
	}
	a.first, a.sentinel, a.cursor = first, sentinel, first
	a.initDone, a.usable = true, true
	if err := a.Check(); err != nil {
		return nil, err
	}
	a.log.Debug("arena attached", "first", first, "sentinel", sentinel)
	return a, nil
}

// alignedBounds returns the first and sentinel header offsets for the
// configured bounds, or ok == false when the span cannot hold one minimum
// block plus the sentinel.
func (a *NextFitAllocator) alignedBounds() (first, sentinel int, ok bool) {
	start := format.Align8(a.start)
	end := format.AlignDown8(a.end)
	if end-start < format.MinArena {
		return 0, 0, false
	}
	return start, end - format.HeaderSize, true
}

// Init carves the arena into one free block spanning the usable span plus the
// sentinel. It is idempotent and reports whether the arena is usable; a failed
// Init is permanent.
func (a *NextFitAllocator) Init() bool {
	if a.initDone {
		return a.usable
	}
	a.initDone = true

	first, sentinel, ok := a.alignedBounds()
	if !ok {
		a.log.Debug("arena too small",
			"start", a.start, "end", a.end, "min", format.MinArena)
		return false
	}

	a.putHeader(first, format.PackHeader(sentinel, true))
	a.putHeader(sentinel, format.PackHeader(first, false))
	a.first, a.sentinel, a.cursor = first, sentinel, first
	a.usable = true

	a.log.Debug("arena initialised",
		"first", first, "sentinel", sentinel, "capacity", a.Capacity())
	return true
}

// Capacity returns the payload size of the single free block a freshly
// initialised arena holds, or 0 for an unusable arena.
func (a *NextFitAllocator) Capacity() int {
	first, sentinel, ok := a.alignedBounds()
	if !ok {
		return 0
	}
	return sentinel - first - format.HeaderSize
}

// Bounds returns the aligned arena span [start, end) in use, or ok == false
// when the arena is unusable.
func (a *NextFitAllocator) Bounds() (start, end int, ok bool) {
	first, sentinel, ok := a.alignedBounds()
	if !ok {
		return 0, 0, false
	}
	return first, sentinel + format.HeaderSize, true
}

// Bytes returns the memory the arena lives in.
func (a *NextFitAllocator) Bytes() []byte {
	return a.mem
}

// Alloc reserves at least size bytes. The returned slice covers exactly size
// bytes of the payload; its capacity extends to the end of the block.
//
// A request of size 0 is serviced as an 8-byte request. Failures return
// NilRef with ErrNoSpace (no room, or unusable arena) or ErrBadSize.
func (a *NextFitAllocator) Alloc(size int) (Ref, []byte, error) {
	a.stats.AllocCalls++

	if size < 0 {
		a.stats.AllocFailures++
		return NilRef, nil, ErrBadSize
	}
	if !a.Init() {
		a.stats.AllocFailures++
		return NilRef, nil, ErrNoSpace
	}
	// Checked before rounding so huge requests cannot overflow.
	if size > a.Capacity() {
		a.stats.AllocFailures++
		a.log.Debug("request exceeds arena", "size", size, "capacity", a.Capacity())
		return NilRef, nil, ErrNoSpace
	}
	need := max(format.Align8(size), format.MinPayload)

	origin := a.cursor
	off := origin
	for steps := 0; ; steps++ {
		if steps > a.maxBlocks() {
			a.stats.AllocFailures++
			return NilRef, nil, fmt.Errorf("%w: search from 0x%x never returned", ErrCorrupt, origin)
		}
		h := a.header(off)
		if h.Free() && format.PayloadSize(off, h) >= need {
			ref := a.take(off, h, need)
			return ref, a.payload(off, size), nil
		}
		off = h.Next()
		if off == origin {
			break
		}
	}

	a.stats.AllocFailures++
	a.log.Debug("no free block large enough", "size", size, "need", need, "cursor", origin)
	return NilRef, nil, ErrNoSpace
}

// take marks the free block at off as used, splitting off the tail when the
// leftover can stand on its own, and advances the cursor past it.
func (a *NextFitAllocator) take(off int, h format.Header, need int) Ref {
	avail := format.PayloadSize(off, h)
	next := h.Next()

	if avail-need >= format.HeaderSize+format.MinPayload {
		tail := off + format.HeaderSize + need
		a.putHeader(tail, format.PackHeader(next, true))
		next = tail
		a.stats.SplitCount++
	}
	a.putHeader(off, format.PackHeader(next, false))
	a.cursor = next

	a.stats.BytesAllocated += int64(next - off - format.HeaderSize)
	return Ref(off + format.HeaderSize)
}

// payload returns the caller's view of a freshly allocated block.
func (a *NextFitAllocator) payload(off, size int) []byte {
	ref := off + format.HeaderSize
	end := a.header(off).Next()
	return a.mem[ref : ref+size : end]
}

// Free releases the block behind ref and coalesces it with free neighbours,
// forward first, then backward.
//
// NilRef and already free blocks are no-ops. Refs that are not the payload of
// a block on the list fail with ErrBadRef, and the arena is left untouched.
func (a *NextFitAllocator) Free(ref Ref) error {
	a.stats.FreeCalls++

	if ref == NilRef {
		return nil
	}
	off, err := a.headerOf(ref)
	if err != nil {
		return err
	}

	// No back links: the walk from the head both finds the predecessor and
	// proves off is a real header. Nothing is written before it succeeds.
	prev, inFree, err := a.locate(off)
	if inFree {
		// The header of a block already merged into a free neighbour.
		a.stats.DoubleFrees++
		return nil
	}
	if err != nil {
		return err
	}

	h := a.header(off)
	if h.Free() {
		a.stats.DoubleFrees++
		return nil
	}
	a.stats.BytesFreed += int64(format.PayloadSize(off, h))
	h = h.WithFree(true)

	// Forward: absorb the link successor.
	next := h.Next()
	if nh := a.header(next); nh.Free() {
		h = h.WithNext(nh.Next())
		if a.cursor == next {
			a.cursor = off
		}
		a.stats.CoalesceForward++
		a.log.Debug("coalesce forward", "block", off, "absorbed", next)
	}
	a.putHeader(off, h)

	// Backward: the predecessor absorbs the released block.
	if ph := a.header(prev); ph.Free() {
		a.putHeader(prev, ph.WithNext(h.Next()))
		if a.cursor == off {
			a.cursor = prev
		}
		a.stats.CoalesceBackward++
		a.log.Debug("coalesce backward", "block", prev, "absorbed", off)
	}
	return nil
}

// Payload resolves an allocated ref to its full payload. It does not walk the
// list: a ref whose header word cannot be a block fails with ErrBadRef, but a
// ref into the middle of a used block is not detected.
func (a *NextFitAllocator) Payload(ref Ref) ([]byte, error) {
	off, err := a.headerOf(ref)
	if err != nil {
		return nil, err
	}
	h := a.header(off)
	if next := h.Next(); next <= off || next > a.sentinel {
		return nil, fmt.Errorf("%w: 0x%x is not a block", ErrBadRef, ref)
	}
	if h.Free() {
		return nil, fmt.Errorf("%w: block 0x%x is free", ErrBadRef, off)
	}
	return a.mem[off+format.HeaderSize : h.Next()], nil
}

// headerOf maps a payload ref to its header offset, rejecting refs that cannot
// belong to a block in this arena.
func (a *NextFitAllocator) headerOf(ref Ref) (int, error) {
	if !a.usable {
		return 0, fmt.Errorf("%w: arena not initialised", ErrBadRef)
	}
	off := int(ref) - format.HeaderSize
	if !format.IsAligned8(off) || off < a.first || off >= a.sentinel {
		return 0, fmt.Errorf("%w: 0x%x outside [0x%x,0x%x)", ErrBadRef, ref, a.first, a.sentinel)
	}
	return off, nil
}

// locate walks from the head to the block whose link is off and returns it.
// For the first block that is the sentinel. An off that no block links to is
// not a header and fails with ErrBadRef; inFree then reports whether off lies
// inside a free block.
func (a *NextFitAllocator) locate(off int) (prev int, inFree bool, err error) {
	p := a.first
	for steps := 0; steps <= a.maxBlocks(); steps++ {
		h := a.header(p)
		n := h.Next()
		switch {
		case n == off:
			return p, false, nil
		case p < off && off < n:
			return 0, h.Free(), fmt.Errorf("%w: 0x%x is inside block 0x%x",
				ErrBadRef, off+format.HeaderSize, p)
		case p == a.sentinel:
			return 0, false, fmt.Errorf("%w: no block at 0x%x", ErrBadRef, off+format.HeaderSize)
		}
		p = n
	}
	return 0, false, fmt.Errorf("%w: list does not reach the sentinel", ErrCorrupt)
}

// maxBlocks bounds every list walk; a longer walk means the links are broken.
func (a *NextFitAllocator) maxBlocks() int {
	return (a.sentinel-a.first)/(format.HeaderSize+format.MinPayload) + 1
}

func (a *NextFitAllocator) header(off int) format.Header {
	return format.ReadHeader(a.mem, off)
}

func (a *NextFitAllocator) putHeader(off int, h format.Header) {
	format.PutHeader(a.mem, off, h)
	if a.dt != nil {
		a.dt.Add(off, format.HeaderSize)
	}
}
