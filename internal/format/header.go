package format

import (
	"fmt"

	"github.com/joshuapare/arenakit/internal/buf"
)

// Header is a packed block header word: the offset of the next header with
// the free flag folded into bit 0. Reading the link yields the free status in
// the same load.
type Header uint64

// PackHeader builds a header word from a next offset and a free flag.
// The low bits of next are dropped; offsets are always 8-aligned.
func PackHeader(next int, free bool) Header {
	h := Header(uint64(next) & NextMask)
	if free {
		h |= Header(FreeFlag)
	}
	return h
}

// Next returns the offset of the following header.
func (h Header) Next() int {
	return int(uint64(h) & NextMask)
}

// Free reports whether the block is unallocated.
func (h Header) Free() bool {
	return uint64(h)&FreeFlag != 0
}

// WithNext returns h linked to next, preserving the free flag.
func (h Header) WithNext(next int) Header {
	return Header(uint64(h)&FreeFlag | uint64(next)&NextMask)
}

// WithFree returns h with the free flag set to free, preserving the link.
func (h Header) WithFree(free bool) Header {
	if free {
		return Header(uint64(h) | FreeFlag)
	}
	return Header(uint64(h) &^ FreeFlag)
}

// String renders the header for diagnostics.
func (h Header) String() string {
	state := "used"
	if h.Free() {
		state = "free"
	}
	return fmt.Sprintf("next=0x%x %s", h.Next(), state)
}

// PayloadSize returns the payload size of the block whose header sits at off.
// The size is never stored; it is the distance to the next header minus the
// header itself. A link that does not point forward (the sentinel's
// wrap-around) has no payload.
func PayloadSize(off int, h Header) int {
	next := h.Next()
	if next <= off {
		return 0
	}
	return next - off - HeaderSize
}

// ReadHeader decodes the header at off. The caller must ensure off is in bounds.
func ReadHeader(b []byte, off int) Header {
	return Header(ReadU64(b, off))
}

// PutHeader encodes h at off. The caller must ensure off is in bounds.
func PutHeader(b []byte, off int, h Header) {
	PutU64(b, off, uint64(h))
}

// ReadHeaderChecked decodes the header at off, validating bounds and alignment.
func ReadHeaderChecked(b []byte, off int) (Header, error) {
	if !IsAligned8(off) {
		return 0, fmt.Errorf("header at %d: %w", off, ErrUnaligned)
	}
	raw, ok := buf.Slice(b, off, HeaderSize)
	if !ok {
		return 0, fmt.Errorf("header at %d: %w", off, ErrTruncated)
	}
	return Header(buf.U64LE(raw)), nil
}
