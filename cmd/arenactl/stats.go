package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Show arena statistics",
		Long: `The stats command walks the block list of an arena file and reports
block counts, used and free bytes, header overhead and the largest free block.

Example:
  arenactl stats heap.arena
  arenactl stats heap.arena --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
}

func runStats(args []string) error {
	f, err := openArena(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	s := f.a.Stats()
	if jsonOut {
		return printJSON(s)
	}
	printInfo("\nArena Statistics: %s\n\n", args[0])
	printStats(s)
	return nil
}
