package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
)

var (
	runSize     string
	runStart    int
	runEnd      int
	runDumpFlag bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVar(&runSize, "size", "64KiB", "Arena size")
	cmd.Flags().IntVar(&runStart, "start", 0, "Arena start offset within the buffer")
	cmd.Flags().IntVar(&runEnd, "end", 0, "Arena end offset within the buffer (0 means the buffer size)")
	cmd.Flags().BoolVar(&runDumpFlag, "dump", false, "Print the block list after the script")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [script]",
		Short: "Replay an allocation script",
		Long: `The run command executes an allocation script against a fresh arena.
Without a file argument the script is read from standard input.

Script commands, one per line:
  alloc NAME SIZE        allocate and bind the ref to NAME
  free NAME              release NAME's block
  expect NAME OP NAME    compare refs with ==, !=, < or >
  dump                   print the block list
  check                  verify the block list
  stats                  print a one-line summary
  # ...                  comment

Example:
  arenactl run scenario.txt
  arenactl run --size 4KiB < scenario.txt
  arenactl run --size 4KiB --start 3 --end 1001 scenario.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(args)
		},
	}
}

func runScript(args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
		printVerbose("Running script: %s\n", args[0])
	}

	size, err := parseSize(runSize)
	if err != nil {
		return err
	}
	cfg := allocConfig()
	cfg.Start, cfg.End = runStart, runEnd
	a, err := alloc.NewNextFit(make([]byte, size), cfg)
	if err != nil {
		return err
	}

	if err := newScript(a, os.Stdout).run(in); err != nil {
		return err
	}
	if runDumpFlag {
		return a.Dump(os.Stdout)
	}
	return nil
}
