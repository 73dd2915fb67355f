package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/arena/region"
	"github.com/joshuapare/arenakit/arena/stackvm"
	"github.com/joshuapare/arenakit/cmd/arenaview/logger"
)

// maxOutputLines bounds the printed-lines pane.
const maxOutputLines = 8

// Model is the main bubbletea model
type Model struct {
	reg   *region.Region
	arena *alloc.NextFitAllocator
	vm    *stackvm.Machine

	// Program bytes accepted since the last flush
	program []byte
	// Lines printed by flushes, oldest first
	output []string

	keys KeyMap
	help help.Model

	width    int
	height   int
	showHelp bool

	statusMessage string
	statusIsError bool

	err error
}

// NewModel reserves an arena of size bytes and starts an empty machine on it.
// Setup failures are reported through View.
func NewModel(size int) Model {
	m := Model{
		keys: DefaultKeyMap(),
		help: help.New(),
	}

	reg, err := region.Reserve(size)
	if err != nil {
		m.err = err
		return m
	}
	m.reg = reg

	a, err := alloc.NewNextFit(reg.Bytes(), &alloc.Config{Logger: logger.L})
	if err != nil {
		m.err = err
		return m
	}
	if !a.Init() {
		m.err = fmt.Errorf("arena of %d bytes cannot hold a block: %w", size, alloc.ErrNoSpace)
		return m
	}
	m.arena = a
	m.vm = stackvm.New(a)

	logger.Info("arena reserved", "size", size, "capacity", a.Capacity())
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Close releases the arena memory.
func (m Model) Close() error {
	if m.reg == nil {
		return nil
	}
	return m.reg.Close()
}

// step feeds one program byte to the machine.
func (m *Model) step(c byte) {
	if _, err := m.vm.Step(c); err != nil {
		logger.Warn("step failed", "byte", string(c), "error", err)
		m.setError(err)
		return
	}
	m.program = append(m.program, c)
	m.setStatus(fmt.Sprintf("%c: counter %d, depth %d", c, m.vm.Counter(), m.vm.Len()))
}

// flush drains the stack and records the printed line.
func (m *Model) flush() {
	var out lineBuffer
	if err := m.vm.Drain(&out); err != nil {
		logger.Warn("drain failed", "depth", m.vm.Len(), "error", err)
		m.setError(err)
		return
	}
	line := out.String()
	m.output = append(m.output, line)
	if len(m.output) > maxOutputLines {
		m.output = m.output[len(m.output)-maxOutputLines:]
	}
	m.program = m.program[:0]
	logger.Debug("stack drained", "line", line)
	m.setStatus("printed " + quoteLine(line))
}

// reset empties the stack and restarts the counter.
func (m *Model) reset() {
	if err := m.vm.Reset(); err != nil {
		m.setError(err)
		return
	}
	m.program = m.program[:0]
	m.setStatus("machine reset")
}

// verify runs the arena consistency check.
func (m *Model) verify() {
	if err := m.arena.Check(); err != nil {
		logger.Error("arena check failed", "error", err)
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("arena ok, %d blocks", m.arena.Stats().Blocks))
}

func (m *Model) setStatus(msg string) {
	m.statusMessage = msg
	m.statusIsError = false
}

func (m *Model) setError(err error) {
	m.statusMessage = err.Error()
	m.statusIsError = true
	if errors.Is(err, alloc.ErrCorrupt) {
		m.err = err
	}
}
