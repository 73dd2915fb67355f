package format

// Alignment utilities for arena headers and payloads.
// Every header, payload and block size in the arena is a multiple of 8.

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(16) = 16
func Align8(n int) int {
	return (n + AlignmentMask) &^ AlignmentMask
}

// AlignDown8 returns n aligned down to the previous 8-byte boundary.
//
// Example:
//
//	AlignDown8(7)  = 0
//	AlignDown8(8)  = 8
//	AlignDown8(15) = 8
func AlignDown8(n int) int {
	return n &^ AlignmentMask
}

// IsAligned8 reports whether n sits on an 8-byte boundary.
func IsAligned8(n int) bool {
	return n&AlignmentMask == 0
}
