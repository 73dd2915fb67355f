package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/arena/region"
)

func newHelper(t *testing.T, size int) *TestHelper {
	t.Helper()
	h := NewTestHelper(size)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestNewModel(t *testing.T) {
	h := newHelper(t, 4096)
	m := h.GetModel()
	require.NoError(t, m.err)

	blocks := m.arena.Blocks()
	require.Len(t, blocks, 2)
	assert.True(t, blocks[0].Free)
	assert.Equal(t, 4080, blocks[0].Size)
	assert.True(t, blocks[1].Sentinel)
	assert.Equal(t, 0, m.vm.Counter())
}

func TestNewModelArenaTooSmall(t *testing.T) {
	h := newHelper(t, 8)
	m := h.GetModel()
	require.ErrorIs(t, m.err, alloc.ErrNoSpace)
	assert.Contains(t, h.GetView(), "Error:")

	// Keys other than quit are ignored
	h.SendKeys("abcf")
	assert.Nil(t, h.LastCmd())
}

func TestNewModelBadSize(t *testing.T) {
	m := NewModel(0)
	require.ErrorIs(t, m.err, region.ErrBadSize)
	assert.NoError(t, m.Close())
}

func TestStepKeys(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendKeys("aabc")

	m := h.GetModel()
	assert.Equal(t, 4, m.vm.Counter())
	assert.Equal(t, 1, m.vm.Len())
	assert.Equal(t, "aabc", string(m.program))
	assert.Equal(t, "c: counter 4, depth 1", m.statusMessage)
	assert.False(t, m.statusIsError)
	require.NoError(t, m.arena.Check())
}

func TestFlushPrintsStack(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendKeys("aabc").SendKeyRune('f')

	m := h.GetModel()
	assert.Equal(t, []string{"0;"}, m.output)
	assert.Empty(t, m.program)
	assert.Equal(t, 0, m.vm.Len())
	assert.Equal(t, `printed "0;"`, m.statusMessage)

	// Everything the machine allocated is back in one free block
	blocks := m.arena.Blocks()
	require.Len(t, blocks, 2)
	assert.True(t, blocks[0].Free)
	require.NoError(t, m.arena.Check())
}

func TestFlushEmptyStackWithEnter(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendKey(tea.KeyEnter)

	m := h.GetModel()
	assert.Equal(t, []string{""}, m.output)
	assert.Equal(t, "printed an empty line", m.statusMessage)
}

func TestFlushKeepsRecentOutput(t *testing.T) {
	h := newHelper(t, 4096)
	for range maxOutputLines + 3 {
		h.SendKeys("af")
	}

	m := h.GetModel()
	require.Len(t, m.output, maxOutputLines)
	// The counter keeps running across flushes
	assert.Equal(t, "10;", m.output[len(m.output)-1])
}

func TestArenaFull(t *testing.T) {
	// Room for one 8-byte node, a split, and one more node
	h := newHelper(t, 40)
	h.SendKeys("aaa")

	m := h.GetModel()
	assert.True(t, m.statusIsError)
	assert.Contains(t, m.statusMessage, "no free block")
	assert.Equal(t, 2, m.vm.Counter())
	assert.Equal(t, 2, m.vm.Len())
	assert.Equal(t, "aa", string(m.program))

	// The drain array does not fit either; the stack survives
	h.SendKeyRune('f')
	m = h.GetModel()
	assert.True(t, m.statusIsError)
	assert.Contains(t, m.statusMessage, "drain 2 values")
	assert.Equal(t, 2, m.vm.Len())
	assert.Empty(t, m.output)

	h.SendKeys("cf")
	m = h.GetModel()
	assert.False(t, m.statusIsError)
	assert.Equal(t, []string{"0;"}, m.output)
	assert.Equal(t, 3, m.vm.Counter())
	require.NoError(t, m.arena.Check())
}

func TestReset(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendKeys("aab").SendKeyRune('r')

	m := h.GetModel()
	assert.Equal(t, 0, m.vm.Counter())
	assert.Equal(t, 0, m.vm.Len())
	assert.Empty(t, m.program)
	assert.Equal(t, "machine reset", m.statusMessage)
}

func TestVerify(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendKeyRune('v')
	assert.Equal(t, "arena ok, 1 blocks", h.GetModel().statusMessage)

	h.SendKeys("aav")
	assert.Equal(t, "arena ok, 3 blocks", h.GetModel().statusMessage)
}

func TestVerifyCorruptArena(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendKeys("aa")

	// Mark the sentinel free
	m := h.GetModel()
	m.arena.Bytes()[4088] |= 1

	h.SendKeyRune('v')
	m = h.GetModel()
	require.ErrorIs(t, m.err, alloc.ErrCorrupt)
	assert.Contains(t, h.GetView(), "Error:")
}

func TestHelpToggle(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendWindowSize(120, 40)
	assert.False(t, h.GetModel().showHelp)

	h.SendKeyRune('?')
	require.True(t, h.GetModel().showHelp)
	assert.Contains(t, h.GetView(), "Keyboard Shortcuts")

	// Program keys are ignored while help is showing
	h.SendKeyRune('a')
	assert.Equal(t, 0, h.GetModel().vm.Counter())

	h.SendKeyRune('?')
	assert.False(t, h.GetModel().showHelp)
}

func TestHelpDismissWithEsc(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendKeyRune('?')
	require.True(t, h.GetModel().showHelp)

	h.SendKey(tea.KeyEsc)
	assert.False(t, h.GetModel().showHelp)
}

func TestQuit(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendKeyRune('q')

	cmd := h.LastCmd()
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCopyDump(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendKeys("ay")

	// Headless machines often have no clipboard
	msg := h.GetModel().statusMessage
	if !strings.HasPrefix(msg, "copy failed") {
		assert.Equal(t, "arena dump copied to clipboard", msg)
	}
}

func TestViewRendersBlocks(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendWindowSize(100, 40).SendKeys("aa")

	view := h.GetView()
	for _, want := range []string{
		"arenaview",
		"counter 2",
		"OFFSET",
		"0x00000010",
		"used",
		"free",
		"sentinel",
		usedCell,
		freeCell,
		"input: aa",
	} {
		assert.Contains(t, view, want)
	}
}

func TestViewShowsOutput(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendKeys("aaf")
	assert.Contains(t, h.GetView(), "> 0,1;")
}

func TestBlockTableTruncates(t *testing.T) {
	h := newHelper(t, 4096)
	h.SendWindowSize(100, 20).SendKeys(strings.Repeat("a", 10))

	m := h.GetModel()
	require.Len(t, m.arena.Blocks(), 12)
	assert.Equal(t, 4, m.tableRows())
	assert.Contains(t, h.GetView(), "... 8 more")
}
