package main

import (
	"strconv"
	"strings"
)

// lineBuffer collects what the machine prints on a flush.
type lineBuffer struct {
	strings.Builder
}

// String returns the printed text without its trailing newline.
func (b *lineBuffer) String() string {
	return strings.TrimSuffix(b.Builder.String(), "\n")
}

// quoteLine renders a printed line for the status bar. Empty lines come from
// flushing an empty stack.
func quoteLine(line string) string {
	if line == "" {
		return "an empty line"
	}
	return strconv.Quote(line)
}
