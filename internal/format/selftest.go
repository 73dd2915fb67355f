package format

// Self-test result codes. Each names the packing law that failed.
const (
	SelfTestOK = iota
	SelfTestFreeNotSet
	SelfTestFreeNotClear
	SelfTestNextLost
	SelfTestWithFreeMovedNext
	SelfTestWithNextDroppedFree
	SelfTestNextLeaksIntoFlag
	SelfTestWireRoundTrip
	SelfTestPayloadSize
)

// selfTestOffsets covers the zero offset, small offsets, and the largest
// offsets a Ref can address.
var selfTestOffsets = []int{0, 8, 16, 0x200, 0x1008, 0x7FFF_FFF0, 0x7FFF_FFF8}

// SelfTest checks that the header packing round-trips. It returns SelfTestOK
// (0) on success, otherwise the positive code of the first violated law.
func SelfTest() int {
	var scratch [HeaderSize]byte

	for _, next := range selfTestOffsets {
		if !PackHeader(next, true).Free() {
			return SelfTestFreeNotSet
		}
		if PackHeader(next, false).Free() {
			return SelfTestFreeNotClear
		}
		if PackHeader(next, true).Next() != next || PackHeader(next, false).Next() != next {
			return SelfTestNextLost
		}

		h := PackHeader(next, false)
		if h.WithFree(true).Next() != next || h.WithFree(true).WithFree(false).Next() != next {
			return SelfTestWithFreeMovedNext
		}
		if !h.WithFree(true).WithNext(next+HeaderSize).Free() {
			return SelfTestWithNextDroppedFree
		}
		// A stray low bit in a link must never read back as the free flag.
		if h.WithNext(next|int(FreeFlag)).Free() || h.WithNext(next|int(FreeFlag)).Next() != next {
			return SelfTestNextLeaksIntoFlag
		}

		for _, free := range []bool{false, true} {
			PutHeader(scratch[:], 0, PackHeader(next, free))
			got := ReadHeader(scratch[:], 0)
			if got.Next() != next || got.Free() != free {
				return SelfTestWireRoundTrip
			}
		}
	}

	if PayloadSize(0x100, PackHeader(0x100+HeaderSize+MinPayload, true)) != MinPayload {
		return SelfTestPayloadSize
	}
	if PayloadSize(0x100, PackHeader(0, false)) != 0 {
		return SelfTestPayloadSize
	}
	return SelfTestOK
}
