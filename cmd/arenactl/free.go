package main

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := newFreeCmd()
	addSyncFlag(cmd)
	rootCmd.AddCommand(cmd)
}

func newFreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "free <file> <ref>",
		Short: "Release a block in an arena file",
		Long: `The free command releases the block behind ref and merges it with free
neighbours. Releasing a block twice is harmless.

Example:
  arenactl free heap.arena 0x00000008`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFree(args)
		},
	}
}

func runFree(args []string) error {
	ref, err := parseRef(args[1])
	if err != nil {
		return err
	}
	f, err := openArena(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.a.Free(ref); err != nil {
		return err
	}
	if err := f.commit(); err != nil {
		return err
	}
	printVerbose("Released 0x%08x\n", ref)
	return nil
}
