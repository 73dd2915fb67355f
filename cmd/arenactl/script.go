package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joshuapare/arenakit/arena/alloc"
)

// script replays allocation commands against one arena. Names bind to refs so
// scripts can free and compare blocks symbolically.
type script struct {
	a     *alloc.NextFitAllocator
	names map[string]alloc.Ref
	out   io.Writer
}

func newScript(a *alloc.NextFitAllocator, out io.Writer) *script {
	return &script{a: a, names: make(map[string]alloc.Ref), out: out}
}

// run executes every line of r, stopping at the first failing line.
func (s *script) run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		if err := s.exec(sc.Text()); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

// exec runs one line. Blank lines and lines starting with '#' are ignored.
//
//	alloc NAME SIZE     allocate SIZE bytes and bind the ref to NAME
//	free NAME           release NAME's block
//	expect NAME == NAME compare two refs (also !=, <, >)
//	dump | check | stats
func (s *script) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "alloc":
		if len(args) != 2 {
			return errors.New("usage: alloc NAME SIZE")
		}
		size, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad size %q", args[1])
		}
		ref, _, err := s.a.Alloc(size)
		if errors.Is(err, alloc.ErrNoSpace) {
			s.names[args[0]] = alloc.NilRef
			fmt.Fprintf(s.out, "%s = nil (no space for %d bytes)\n", args[0], size)
			return nil
		}
		if err != nil {
			return err
		}
		s.names[args[0]] = ref
		fmt.Fprintf(s.out, "%s = 0x%08x (%d bytes)\n", args[0], ref, size)
		return nil

	case "free":
		if len(args) != 1 {
			return errors.New("usage: free NAME")
		}
		ref, err := s.lookup(args[0])
		if err != nil {
			return err
		}
		if err := s.a.Free(ref); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "free %s\n", args[0])
		return nil

	case "expect":
		if len(args) != 3 {
			return errors.New("usage: expect NAME OP NAME")
		}
		return s.expect(args[0], args[1], args[2])

	case "dump":
		return s.a.Dump(s.out)

	case "check":
		if err := s.a.Check(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "check: ok")
		return nil

	case "stats":
		st := s.a.Stats()
		fmt.Fprintf(s.out, "blocks=%d used=%d free=%d largest=%d\n",
			st.Blocks, st.UsedBytes, st.FreeBytes, st.LargestFree)
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (s *script) lookup(name string) (alloc.Ref, error) {
	ref, ok := s.names[name]
	if !ok {
		return alloc.NilRef, fmt.Errorf("unknown name %q", name)
	}
	return ref, nil
}

func (s *script) expect(lhs, op, rhs string) error {
	x, err := s.lookup(lhs)
	if err != nil {
		return err
	}
	y, err := s.lookup(rhs)
	if err != nil {
		return err
	}

	var ok bool
	switch op {
	case "==":
		ok = x == y
	case "!=":
		ok = x != y
	case "<":
		ok = x < y
	case ">":
		ok = x > y
	default:
		return fmt.Errorf("unknown operator %q", op)
	}
	if !ok {
		return fmt.Errorf("expectation failed: %s (0x%08x) %s %s (0x%08x)", lhs, x, op, rhs, y)
	}
	return nil
}
