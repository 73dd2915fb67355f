package alloc

import (
	"io"
	"log/slog"
	"math"
	"os"
)

// Runtime debug flag for allocation logging - controlled by ARENA_LOG_ALLOC env var.
var logAlloc = os.Getenv("ARENA_LOG_ALLOC") != ""

// maxArenaEnd is the largest arena bound a Ref can address.
const maxArenaEnd int64 = math.MaxUint32

// Config carries the arena bounds and optional collaborators.
//
// Start and End are byte offsets into the supplied memory; End == 0 means
// len(mem). Both are aligned (Start up, End down) when the arena is
// initialised, not here.
type Config struct {
	Start int
	End   int

	// Tracker, when set, is told about every header the allocator writes.
	Tracker DirtyTracker

	// Logger receives debug records. Nil discards them unless
	// ARENA_LOG_ALLOC is set, which routes them to stderr.
	Logger *slog.Logger
}

// DefaultConfig spans the whole of mem.
func DefaultConfig() *Config {
	return &Config{}
}

func (c *Config) bounds(memLen int) (int, int, error) {
	start, end := c.Start, c.End
	if end == 0 {
		end = memLen
	}
	if start < 0 || end < start || end > memLen || int64(end) > maxArenaEnd {
		return 0, 0, ErrBadConfig
	}
	return start, end, nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if logAlloc {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
