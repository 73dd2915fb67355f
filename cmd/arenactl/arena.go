package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/arena/dirty"
	"github.com/joshuapare/arenakit/arena/region"
)

var syncFlag string

// addSyncFlag registers --sync on commands that modify an arena file.
func addSyncFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&syncFlag, "sync", "auto",
		"Durability after writing headers (auto, data, full)")
}

func parseFlushMode(s string) (dirty.FlushMode, error) {
	switch s {
	case "auto":
		return dirty.FlushAuto, nil
	case "data":
		return dirty.FlushDataOnly, nil
	case "full":
		return dirty.FlushFull, nil
	default:
		return 0, fmt.Errorf("unknown sync mode: %s (must be auto, data, or full)", s)
	}
}

// parseRef accepts decimal or 0x-prefixed hexadecimal refs.
func parseRef(s string) (alloc.Ref, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return alloc.NilRef, fmt.Errorf("invalid ref %q", s)
	}
	return alloc.Ref(n), nil
}

// arenaFile is an arena file mapped into memory with its header writes
// tracked for flushing.
type arenaFile struct {
	path string
	r    *region.Region
	t    *dirty.Tracker
	a    *alloc.NextFitAllocator
}

// openArena maps path and adopts the block list it holds.
func openArena(path string) (*arenaFile, error) {
	printVerbose("Opening arena: %s\n", path)
	r, err := region.Open(path)
	if err != nil {
		return nil, err
	}
	t := dirty.NewTracker(r)
	cfg := allocConfig()
	cfg.Tracker = t

	a, err := alloc.Attach(r.Bytes(), cfg)
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &arenaFile{path: path, r: r, t: t, a: a}, nil
}

// commit flushes every header written since the last commit.
func (f *arenaFile) commit() error {
	mode, err := parseFlushMode(syncFlag)
	if err != nil {
		return err
	}
	printVerbose("Flushing %d header writes (sync=%s)\n", f.t.Pending(), mode)
	for _, r := range f.t.Coalesced() {
		printVerbose("  pages 0x%x-0x%x\n", r.Off, r.Off+r.Len)
	}
	return f.t.Flush(context.Background(), mode)
}

func (f *arenaFile) Close() error {
	return f.r.Close()
}
