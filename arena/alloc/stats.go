package alloc

import "github.com/joshuapare/arenakit/internal/format"

// Counters holds operation counters for testing and instrumentation.
type Counters struct {
	AllocCalls       int   // Total Alloc() calls
	AllocFailures    int   // Alloc() calls that returned an error
	FreeCalls        int   // Total Free() calls
	DoubleFrees      int   // Free() calls on blocks that were already free
	SplitCount       int   // Number of block splits
	CoalesceForward  int   // Forward coalesce operations
	CoalesceBackward int   // Backward coalesce operations
	BytesAllocated   int64 // Payload bytes handed out (whole blocks)
	BytesFreed       int64 // Payload bytes released
}

// Stats is a snapshot of the block list plus the operation counters.
type Stats struct {
	Capacity    int // Payload bytes of a freshly initialised arena
	Span        int // Aligned arena size, headers included
	UsedBytes   int // Payload bytes in allocated blocks
	FreeBytes   int // Payload bytes in free blocks
	HeaderBytes int // Header bytes, sentinel included
	Blocks      int // Blocks on the list, sentinel excluded
	UsedBlocks  int
	FreeBlocks  int
	LargestFree int // Largest single free payload

	Counters Counters
}

// Utilization returns the share of Capacity held by allocated payloads, in percent.
func (s Stats) Utilization() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.UsedBytes) / float64(s.Capacity) * 100
}

// Stats walks the block list and returns a snapshot. An arena that has not
// been initialised reports only its counters.
func (a *NextFitAllocator) Stats() Stats {
	s := Stats{Capacity: a.Capacity(), Counters: a.stats}
	if !a.usable {
		return s
	}
	s.Span = a.sentinel + format.HeaderSize - a.first
	s.HeaderBytes = format.HeaderSize // sentinel

	a.walk(func(b BlockInfo) bool {
		if b.Sentinel {
			return true
		}
		s.Blocks++
		s.HeaderBytes += format.HeaderSize
		if b.Free {
			s.FreeBlocks++
			s.FreeBytes += b.Size
			s.LargestFree = max(s.LargestFree, b.Size)
		} else {
			s.UsedBlocks++
			s.UsedBytes += b.Size
		}
		return true
	})
	return s
}
