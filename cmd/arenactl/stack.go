package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/arena/stackvm"
)

var (
	stackSize string
	stackDump bool
)

func init() {
	cmd := newStackCmd()
	cmd.Flags().StringVar(&stackSize, "size", "64KiB", "Arena size")
	cmd.Flags().BoolVar(&stackDump, "dump", false, "Print the block list to stderr before draining")
	rootCmd.AddCommand(cmd)
}

func newStackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stack",
		Short: "Run the stack machine on standard input",
		Long: `The stack command reads command bytes from standard input and runs the
stack machine over a fresh arena:

  a  push the counter
  b  skip the counter
  c  pop the top value

Each advances the counter. Any other byte stops the machine, which then prints
the stack bottom to top as "v0,v1,...;".

Example:
  echo -n aabac | arenactl stack
  printf 'aaq' | arenactl stack --dump`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStack(os.Stdin, os.Stdout)
		},
	}
}

func runStack(in io.Reader, out io.Writer) error {
	size, err := parseSize(stackSize)
	if err != nil {
		return err
	}
	a, err := alloc.NewNextFit(make([]byte, size), allocConfig())
	if err != nil {
		return err
	}

	m := stackvm.New(a)
	if !stackDump {
		return m.Run(in, out)
	}

	if err := m.Feed(in); err != nil {
		return err
	}
	if err := a.Dump(os.Stderr); err != nil {
		return err
	}
	return m.Drain(out)
}
