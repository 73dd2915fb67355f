package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
)

var (
	nextFitSize string
	nextFitDump bool
)

func init() {
	cmd := newNextFitCmd()
	cmd.Flags().StringVar(&nextFitSize, "size", "64KiB", "Arena size")
	cmd.Flags().BoolVar(&nextFitDump, "dump", false, "Print the block list afterwards")
	rootCmd.AddCommand(cmd)
}

func newNextFitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nextfit",
		Short: "Check that allocation resumes where the last one stopped",
		Long: `The nextfit command allocates A (512 B), B (256 B) and C (512 B), frees A
and allocates D (256 B). A next-fit allocator places D after C even though A's
hole is large enough; a first-fit allocator would hand A's space back.

Example:
  arenactl nextfit
  arenactl nextfit --dump
  arenactl nextfit --size 2KiB --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNextFit()
		},
	}
}

type nextFitResult struct {
	A       alloc.Ref `json:"a"`
	B       alloc.Ref `json:"b"`
	C       alloc.Ref `json:"c"`
	D       alloc.Ref `json:"d"`
	NextFit bool      `json:"next_fit"`
}

func runNextFit() error {
	size, err := parseSize(nextFitSize)
	if err != nil {
		return err
	}
	a, err := alloc.NewNextFit(make([]byte, size), allocConfig())
	if err != nil {
		return err
	}

	var res nextFitResult
	steps := []struct {
		name string
		ref  *alloc.Ref
		size int
	}{
		{"A", &res.A, 0x200},
		{"B", &res.B, 0x100},
		{"C", &res.C, 0x200},
	}
	for _, s := range steps {
		if *s.ref, _, err = a.Alloc(s.size); err != nil {
			return fmt.Errorf("alloc %s (%d bytes): %w", s.name, s.size, err)
		}
		printVerbose("alloc %s %4d -> 0x%08x\n", s.name, s.size, *s.ref)
	}
	if err := a.Free(res.A); err != nil {
		return fmt.Errorf("free A: %w", err)
	}
	printVerbose("free  A\n")
	if res.D, _, err = a.Alloc(0x100); err != nil {
		return fmt.Errorf("alloc D (256 bytes): %w", err)
	}
	printVerbose("alloc D  256 -> 0x%08x\n", res.D)
	res.NextFit = res.D != res.A

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printInfo("A=0x%08x B=0x%08x C=0x%08x D=0x%08x\n", res.A, res.B, res.C, res.D)
		if nextFitDump {
			if err := a.Dump(os.Stdout); err != nil {
				return err
			}
		}
	}

	if !res.NextFit {
		return fmt.Errorf("D reused A's block at 0x%08x: allocator is not next-fit", res.A)
	}
	if !jsonOut {
		printInfo("nextfit: %s\n", okText("ok"))
	}
	return nil
}
