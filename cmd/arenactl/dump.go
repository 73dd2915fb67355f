package main

import (
	"os"

	"github.com/spf13/cobra"
)

var dumpTable bool

func init() {
	cmd := newDumpCmd()
	cmd.Flags().BoolVar(&dumpTable, "table", false, "Render the block list as a table")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "List every block of an arena file",
		Long: `The dump command prints one line per block in list order: header offset,
link, payload size and state. The search cursor restarts at the first block
when a file is opened, so it is marked there.

Example:
  arenactl dump heap.arena
  arenactl dump heap.arena --table
  arenactl dump heap.arena --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
}

func runDump(args []string) error {
	f, err := openArena(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	if jsonOut {
		return printJSON(f.a.Blocks())
	}
	if dumpTable {
		renderBlockTable(os.Stdout, f.a.Blocks(), f.a.Cursor(), f.a.Stats())
		return nil
	}
	return f.a.Dump(os.Stdout)
}
