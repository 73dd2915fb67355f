package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/arena/alloc"
)

func TestArenaFileLifecycle(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "heap.arena")

	createSize = "4KiB"
	out, err := captureOutput(t, func() error { return runCreate([]string{path}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"Created", "4.0 KiB", "4,080 bytes free"})

	out, err = captureOutput(t, func() error { return runAlloc([]string{path, "100"}) })
	require.NoError(t, err)
	assert.Equal(t, "0x00000008\n", out)

	out, err = captureOutput(t, func() error { return runAlloc([]string{path, "200"}) })
	require.NoError(t, err)
	assert.Equal(t, "0x00000078\n", out)

	_, err = captureOutput(t, func() error { return runFree([]string{path, "0x8"}) })
	require.NoError(t, err)

	out, err = captureOutput(t, func() error { return runDump([]string{path}) })
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "> 0x00000000"), "cursor restarts at the head")
	assert.Contains(t, lines[0], "size=104")
	assert.Contains(t, lines[0], "free")
	assert.Contains(t, lines[1], "used")
	assert.Contains(t, lines[3], "sentinel")

	out, err = captureOutput(t, func() error { return runVerify([]string{path}) })
	require.NoError(t, err)
	assert.Equal(t, path+": ok (3 blocks)\n", out)

	out, err = captureOutput(t, func() error { return runStats([]string{path}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"Arena Statistics", "Total:     3", "Used:      1 (200 bytes)"})

	dumpTable = true
	out, err = captureOutput(t, func() error { return runDump([]string{path}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"Offset", "0x00000070", "0x00000078", "sentinel", "3 blocks", "200 B used"})
	dumpTable = false

	jsonOut = true
	out, err = captureOutput(t, func() error { return runStats([]string{path}) })
	require.NoError(t, err)
	assertJSON(t, out)
	assertContains(t, out, []string{`"UsedBytes": 200`})

	out, err = captureOutput(t, func() error { return runDump([]string{path}) })
	require.NoError(t, err)
	assertJSON(t, out)
	assertContains(t, out, []string{`"sentinel": true`, `"ref": 120`})
}

func TestCreateRefusesExisting(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "heap.arena")
	createSize = "4KiB"

	_, err := captureOutput(t, func() error { return runCreate([]string{path}) })
	require.NoError(t, err)
	_, err = captureOutput(t, func() error { return runCreate([]string{path}) })
	require.ErrorIs(t, err, os.ErrExist)

	createForce = true
	_, err = captureOutput(t, func() error { return runCreate([]string{path}) })
	require.NoError(t, err)
}

func TestCreateTooSmall(t *testing.T) {
	resetFlags()
	defer resetFlags()
	createSize = "16"

	_, err := captureOutput(t, func() error {
		return runCreate([]string{filepath.Join(t.TempDir(), "tiny.arena")})
	})
	require.ErrorIs(t, err, alloc.ErrNoSpace)
}

func TestVerifyCorruptFile(t *testing.T) {
	resetFlags()
	path := filepath.Join(t.TempDir(), "zero.arena")
	require.NoError(t, os.WriteFile(path, make([]byte, 4096), 0o644))

	_, err := captureOutput(t, func() error { return runVerify([]string{path}) })
	require.ErrorIs(t, err, alloc.ErrCorrupt)
}

func TestAllocFileNoSpace(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "heap.arena")
	createSize = "1KiB"

	_, err := captureOutput(t, func() error { return runCreate([]string{path}) })
	require.NoError(t, err)
	_, err = captureOutput(t, func() error { return runAlloc([]string{path, "2KiB"}) })
	require.ErrorIs(t, err, alloc.ErrNoSpace)
}

func TestFreeFileBadRef(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "heap.arena")
	createSize = "1KiB"

	_, err := captureOutput(t, func() error { return runCreate([]string{path}) })
	require.NoError(t, err)
	_, err = captureOutput(t, func() error { return runFree([]string{path, "0x10000"}) })
	require.ErrorIs(t, err, alloc.ErrBadRef)

	syncFlag = "never"
	_, err = captureOutput(t, func() error { return runFree([]string{path, "0"}) })
	require.Error(t, err)
}

func TestAllocFileVerboseShowsFlush(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "heap.arena")
	createSize = "4KiB"

	_, err := captureOutput(t, func() error { return runCreate([]string{path}) })
	require.NoError(t, err)

	verbose = true
	out, err := captureOutput(t, func() error { return runAlloc([]string{path, "100"}) })
	require.NoError(t, err)
	assertContains(t, out, []string{
		"Opening arena: " + path,
		"Flushing 2 header writes (sync=auto)",
		"pages 0x0-0x1000",
		"0x00000008",
	})
}

// TestFreeFileInteriorRef verifies a mistyped ref into a used block fails
// without writing to the file.
func TestFreeFileInteriorRef(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "heap.arena")
	createSize = "4KiB"

	_, err := captureOutput(t, func() error { return runCreate([]string{path}) })
	require.NoError(t, err)
	_, err = captureOutput(t, func() error { return runAlloc([]string{path, "64"}) })
	require.NoError(t, err)

	// Payload bytes 8..16 of the block at 0x8 hold a wild link.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	copy(data[16:24], []byte{0xf0, 0xff, 0xff, 0x7f, 0, 0, 0, 0})
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = captureOutput(t, func() error { return runFree([]string{path, "0x18"}) })
	require.ErrorIs(t, err, alloc.ErrBadRef)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, after)
}
