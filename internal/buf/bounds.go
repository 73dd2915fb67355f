package buf

import "math"

// Offsets and lengths inside an arena are never negative, so these helpers
// treat a negative operand as a failed check.

// AddOverflowSafe returns off + n, or ok = false when either is negative or
// the sum does not fit an int.
func AddOverflowSafe(off, n int) (int, bool) {
	if off < 0 || n < 0 || off > math.MaxInt-n {
		return 0, false
	}
	return off + n, true
}

// MulOverflowSafe returns count * size, or ok = false when either is negative
// or the product does not fit an int. Used to size arrays before they are
// allocated from an arena.
func MulOverflowSafe(count, size int) (int, bool) {
	if count < 0 || size < 0 {
		return 0, false
	}
	if size != 0 && count > math.MaxInt/size {
		return 0, false
	}
	return count * size, true
}

// Slice returns b[off:off+n] when the range lies inside b.
func Slice(b []byte, off, n int) ([]byte, bool) {
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] lies inside b.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}
