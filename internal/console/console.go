// Package console provides byte-at-a-time terminal I/O over buffered readers
// and writers: single characters in, characters, strings and unsigned
// decimal integers out.
package console

import (
	"bufio"
	"errors"
	"io"
	"strconv"
)

// ErrNegative indicates WriteInt was asked to print a negative number.
var ErrNegative = errors.New("console: negative integer")

// Console reads single bytes from r and writes to w through a buffer.
// Call Flush before handing w to anyone else.
type Console struct {
	r *bufio.Reader
	w *bufio.Writer

	num [20]byte
}

// New wraps r and w. Either may be nil when the console is only used in one
// direction.
func New(r io.Reader, w io.Writer) *Console {
	c := &Console{}
	if r != nil {
		c.r = bufio.NewReader(r)
	}
	if w != nil {
		c.w = bufio.NewWriter(w)
	}
	return c
}

// ReadChar returns the next input byte, or io.EOF when input is exhausted.
// Read errors other than EOF are returned as is.
func (c *Console) ReadChar() (byte, error) {
	if c.r == nil {
		return 0, io.EOF
	}
	return c.r.ReadByte()
}

// WriteChar writes one byte.
func (c *Console) WriteChar(b byte) error {
	return c.w.WriteByte(b)
}

// WriteString writes s without a trailing newline.
func (c *Console) WriteString(s string) error {
	_, err := c.w.WriteString(s)
	return err
}

// WriteInt writes n in decimal with no padding or sign. Negative numbers
// are refused with ErrNegative and nothing is written.
func (c *Console) WriteInt(n int) error {
	if n < 0 {
		return ErrNegative
	}
	_, err := c.w.Write(strconv.AppendInt(c.num[:0], int64(n), 10))
	return err
}

// Flush writes any buffered output.
func (c *Console) Flush() error {
	if c.w == nil {
		return nil
	}
	return c.w.Flush()
}
