// Package stackvm is a small stack machine whose stack lives in an arena.
//
// Every stack node is a separate 8-byte allocation holding the value and the
// Ref of the node beneath it, so a session exercises the allocator with a
// realistic mix of small allocations and releases.
//
// # Program
//
// The machine reads command bytes and keeps a counter that starts at 0:
//
//   - 'a' pushes the counter
//   - 'b' skips it
//   - 'c' pops the top value (nothing happens on an empty stack)
//
// Each of the three advances the counter by one. Any other byte, end of input
// included, stops the machine. The remaining stack is then copied into an
// array allocated from the same arena, printed bottom to top as
// "v0,v1,...,vn;" followed by a newline, and released.
package stackvm

import (
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/internal/buf"
	"github.com/joshuapare/arenakit/internal/console"
)

const (
	nodeSize  = 8 // value int32 + next Ref
	valueOff  = 0
	nextOff   = 4
	valueSize = 4
)

// ErrEmpty indicates Pop or Peek on an empty stack.
var ErrEmpty = errors.New("stackvm: empty stack")

// Machine is a stack machine over an allocator. It is not safe for
// concurrent use; wrap the allocator with alloc.NewLocked if it is shared.
type Machine struct {
	a       alloc.Allocator
	top     alloc.Ref
	depth   int
	counter int
}

// New creates a machine with an empty stack.
func New(a alloc.Allocator) *Machine {
	return &Machine{a: a}
}

// Len returns the number of values on the stack.
func (m *Machine) Len() int { return m.depth }

// Counter returns the value the next 'a' would push.
func (m *Machine) Counter() int { return m.counter }

// Push allocates a node for v on top of the stack.
func (m *Machine) Push(v int32) error {
	ref, p, err := m.a.Alloc(nodeSize)
	if err != nil {
		return fmt.Errorf("push %d: %w", v, err)
	}
	if !buf.PutU32LE(p[valueOff:], uint32(v)) || !buf.PutU32LE(p[nextOff:], m.top) {
		_ = m.a.Free(ref)
		return fmt.Errorf("push %d: %d-byte node: %w", v, len(p), alloc.ErrCorrupt)
	}
	m.top = ref
	m.depth++
	return nil
}

// Pop removes the top value and releases its node.
func (m *Machine) Pop() (int32, error) {
	v, next, err := m.node(m.top)
	if err != nil {
		return 0, err
	}
	if err := m.a.Free(m.top); err != nil {
		return 0, fmt.Errorf("pop: %w", err)
	}
	m.top = next
	m.depth--
	return v, nil
}

// Peek returns the top value.
func (m *Machine) Peek() (int32, error) {
	v, _, err := m.node(m.top)
	return v, err
}

// Values returns the stack bottom to top without changing it.
func (m *Machine) Values() ([]int32, error) {
	out := make([]int32, m.depth)
	ref := m.top
	for i := m.depth - 1; i >= 0; i-- {
		v, next, err := m.node(ref)
		if err != nil {
			return nil, err
		}
		out[i] = v
		ref = next
	}
	return out, nil
}

// Release frees every node and empties the stack. The counter is kept.
func (m *Machine) Release() error {
	for m.depth > 0 {
		if _, err := m.Pop(); err != nil {
			return err
		}
	}
	return nil
}

// Reset empties the stack and restarts the counter.
func (m *Machine) Reset() error {
	m.counter = 0
	return m.Release()
}

func (m *Machine) node(ref alloc.Ref) (int32, alloc.Ref, error) {
	if ref == alloc.NilRef {
		return 0, alloc.NilRef, ErrEmpty
	}
	p, err := m.a.Payload(ref)
	if err != nil {
		return 0, alloc.NilRef, fmt.Errorf("stack node 0x%x: %w", ref, err)
	}
	if !buf.Has(p, 0, nodeSize) {
		return 0, alloc.NilRef, fmt.Errorf("stack node 0x%x: %d-byte block: %w", ref, len(p), alloc.ErrCorrupt)
	}
	return buf.I32LE(p[valueOff:]), buf.U32LE(p[nextOff:]), nil
}

// Step executes one command byte. It reports false when c stops the machine.
func (m *Machine) Step(c byte) (bool, error) {
	switch c {
	case 'a':
		if err := m.Push(int32(m.counter)); err != nil {
			return false, err
		}
	case 'b':
	case 'c':
		if _, err := m.Pop(); err != nil && !errors.Is(err, ErrEmpty) {
			return false, err
		}
	default:
		return false, nil
	}
	m.counter++
	return true, nil
}

// Drain moves the stack into an arena array, prints it bottom to top to out
// and releases everything. An empty stack prints only the newline.
func (m *Machine) Drain(out io.Writer) error {
	con := console.New(nil, out)

	n := m.depth
	size, ok := buf.MulOverflowSafe(n, valueSize)
	if !ok {
		return fmt.Errorf("drain %d values: %w", n, alloc.ErrBadSize)
	}
	ref, arr, err := m.a.Alloc(size)
	if err != nil {
		return fmt.Errorf("drain %d values: %w", n, err)
	}
	if !buf.Has(arr, 0, size) {
		_ = m.a.Free(ref)
		return fmt.Errorf("drain %d values: %d-byte array: %w", n, len(arr), alloc.ErrCorrupt)
	}

	for i := range n {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		buf.PutU32LE(arr[i*valueSize:], uint32(v))
	}

	for i := n - 1; i >= 0; i-- {
		if err := con.WriteInt(int(buf.I32LE(arr[i*valueSize:]))); err != nil {
			return err
		}
		sep := byte(',')
		if i == 0 {
			sep = ';'
		}
		if err := con.WriteChar(sep); err != nil {
			return err
		}
	}
	if err := con.WriteChar('\n'); err != nil {
		return err
	}

	if err := m.a.Free(ref); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	return con.Flush()
}

// Feed executes command bytes from in until a stop byte or end of input. The
// stack is left in place; Drain empties it.
func (m *Machine) Feed(in io.Reader) error {
	con := console.New(in, nil)
	for {
		c, err := con.ReadChar()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		more, err := m.Step(c)
		if err != nil || !more {
			return err
		}
	}
}

// Run feeds in to the machine, then drains the stack to out.
func (m *Machine) Run(in io.Reader, out io.Writer) error {
	if err := m.Feed(in); err != nil {
		return err
	}
	return m.Drain(out)
}
