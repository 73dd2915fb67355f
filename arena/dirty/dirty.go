// Package dirty records which byte ranges of a mapped arena have been
// modified and flushes them to the backing file.
//
// The tracker keeps a list of raw ranges, coalesces them into page-aligned
// ranges at flush time, and flushes them with msync, then optionally syncs the
// file descriptor (fdatasync, or F_FULLFSYNC on macOS).
package dirty

import (
	"context"
	"sort"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the typical OS page size (4KB).
	standardPageSize = 4096
)

// FlushMode controls how far Flush pushes data towards the disk.
type FlushMode int

const (
	// FlushAuto msyncs dirty pages, then fdatasyncs the file.
	FlushAuto FlushMode = iota

	// FlushDataOnly only msyncs dirty pages. The caller is responsible for
	// calling Sync later, which lets several batches share one fdatasync.
	FlushDataOnly

	// FlushFull msyncs dirty pages and issues the strongest sync the platform
	// has (F_FULLFSYNC on macOS).
	FlushFull
)

// String returns the mode name used in logs and flags.
func (m FlushMode) String() string {
	switch m {
	case FlushAuto:
		return "auto"
	case FlushDataOnly:
		return "data"
	case FlushFull:
		return "full"
	default:
		return "unknown"
	}
}

// Range represents a dirty byte range.
type Range struct {
	Off int64 // Offset in the mapping
	Len int64 // Length in bytes
}

// Tracker accumulates dirty ranges and flushes them efficiently.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	m        Mapping
	ranges   []Range // Raw ranges, coalesced at flush time
	pageSize int64
}

// NewTracker creates a dirty tracker for the given mapping.
func NewTracker(m Mapping) *Tracker {
	return &Tracker{
		m:        m,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range. It only appends; alignment and merging happen
// at flush time.
func (t *Tracker) Add(off, length int) {
	t.ranges = append(t.ranges, Range{
		Off: int64(off),
		Len: int64(length),
	})
}

// Pending reports how many raw ranges are waiting to be flushed.
func (t *Tracker) Pending() int {
	return len(t.ranges)
}

// FlushData msyncs every dirty range and clears the list.
//
// If ctx is cancelled part way, some ranges may have been flushed; the list
// is kept so a later call flushes them again.
func (t *Tracker) FlushData(ctx context.Context) error {
	if len(t.ranges) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := t.m.Bytes()
	if len(data) == 0 {
		t.ranges = t.ranges[:0]
		return nil
	}
	if err := t.flushRanges(ctx, data); err != nil {
		return err
	}

	t.ranges = t.ranges[:0]
	return nil
}

// Sync pushes the backing file to stable storage according to mode.
// FlushDataOnly and mappings without a file are no-ops.
func (t *Tracker) Sync(ctx context.Context, mode FlushMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mode == FlushDataOnly {
		return nil
	}
	fd := t.m.FD()
	if fd < 0 {
		return nil
	}
	return fdatasync(fd, mode == FlushFull)
}

// Flush is FlushData followed by Sync.
func (t *Tracker) Flush(ctx context.Context, mode FlushMode) error {
	if err := t.FlushData(ctx); err != nil {
		return err
	}
	return t.Sync(ctx, mode)
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Coalesced returns the page-aligned, sorted and merged ranges the next
// flush would write.
func (t *Tracker) Coalesced() []Range {
	return t.coalesce()
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping or
// adjacent ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize

		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}

		aligned[i] = Range{
			Off: start,
			Len: end - start,
		}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]

	for i := 1; i < len(aligned); i++ {
		next := aligned[i]

		if next.Off <= current.Off+current.Len {
			end := max(current.Off+current.Len, next.Off+next.Len)
			current.Len = end - current.Off
		} else {
			merged = append(merged, current)
			current = next
		}
	}

	merged = append(merged, current)
	return merged
}

// clip bounds r to a mapping of n bytes, reporting false when nothing is left.
func clip(r Range, n int) (start, end int, ok bool) {
	start = int(r.Off)
	end = min(int(r.Off+r.Len), n)
	return start, end, start < end
}
