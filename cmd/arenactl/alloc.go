package main

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := newAllocCmd()
	addSyncFlag(cmd)
	rootCmd.AddCommand(cmd)
}

func newAllocCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alloc <file> <size>",
		Short: "Allocate a block in an arena file",
		Long: `The alloc command allocates a block in an arena file and prints its ref,
the payload offset to pass to free. The search starts at the first block,
since the cursor is not stored in the file.

Example:
  arenactl alloc heap.arena 100
  arenactl alloc heap.arena 4KiB`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlloc(args)
		},
	}
}

func runAlloc(args []string) error {
	size, err := parseSize(args[1])
	if err != nil {
		return err
	}
	f, err := openArena(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	ref, _, err := f.a.Alloc(size)
	if err != nil {
		return err
	}
	if err := f.commit(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{"ref": ref, "size": size})
	}
	printInfo("0x%08x\n", ref)
	return nil
}
