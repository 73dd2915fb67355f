package dirty

// DirtyTracker is the minimal interface for tracking dirty (modified) byte ranges.
// Implementations track which regions of an arena have been modified and need
// to be flushed to its backing file.
//
// This interface is intended for components that only need to notify about dirty
// regions but don't manage flushing themselves (the allocator).
type DirtyTracker interface {
	// Add marks a byte range as dirty.
	// off is the offset from the start of the mapping, length is the number of bytes.
	Add(off, length int)
}

// Mapping is the memory a Tracker flushes: the mapped bytes plus the file
// descriptor behind them. FD returns -1 when there is no file.
type Mapping interface {
	Bytes() []byte
	FD() int
}
