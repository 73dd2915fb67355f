package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/joshuapare/arenakit/arena/alloc"
)

// renderBlockTable writes blocks as an aligned table with the search cursor
// marked. The summary row carries the totals from Stats.
func renderBlockTable(w io.Writer, blocks []alloc.BlockInfo, cursor int, s alloc.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "Offset", "Ref", "Next", "Size", "State"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoFormatHeaders(false)

	for _, b := range blocks {
		mark := ""
		if b.Off == cursor {
			mark = ">"
		}
		table.Append([]string{
			mark,
			hex32(b.Off),
			hex32(int(b.Ref)),
			hex32(b.Next),
			strconv.Itoa(b.Size),
			b.State(),
		})
	}
	table.SetFooter([]string{
		"", "", "",
		strconv.Itoa(s.Blocks) + " blocks",
		formatBytes(s.UsedBytes) + " used",
		formatBytes(s.FreeBytes) + " free",
	})
	table.Render()
}

func hex32(n int) string {
	return fmt.Sprintf("0x%08x", n)
}
