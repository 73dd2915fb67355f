package alloc

import "github.com/joshuapare/arenakit/internal/format"

// SelfTest validates the header packing scheme the allocator relies on.
// It returns 0 on success, otherwise a positive code naming the violated law
// (see the format.SelfTest* constants).
func SelfTest() int {
	return format.SelfTest()
}

// SelfTest is the method form of the package-level SelfTest.
func (a *NextFitAllocator) SelfTest() int {
	return SelfTest()
}
