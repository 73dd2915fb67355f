package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/arena/dirty"
	"github.com/joshuapare/arenakit/arena/region"
)

var (
	createSize  string
	createForce bool
)

func init() {
	cmd := newCreateCmd()
	cmd.Flags().StringVar(&createSize, "size", "1MiB", "Arena file size")
	cmd.Flags().BoolVarP(&createForce, "force", "f", false, "Overwrite an existing file")
	addSyncFlag(cmd)
	rootCmd.AddCommand(cmd)
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <file>",
		Short: "Create an empty arena file",
		Long: `The create command makes a new file of the given size and writes an empty
block list into it: one free block spanning the file and the end sentinel.

Example:
  arenactl create heap.arena
  arenactl create heap.arena --size 16MiB --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args)
		},
	}
}

func runCreate(args []string) error {
	path := args[0]
	size, err := parseSize(createSize)
	if err != nil {
		return err
	}
	mode, err := parseFlushMode(syncFlag)
	if err != nil {
		return err
	}

	r, err := region.Create(path, int64(size), &region.Options{Overwrite: createForce})
	if err != nil {
		return err
	}
	defer r.Close()

	t := dirty.NewTracker(r)
	cfg := allocConfig()
	cfg.Tracker = t
	a, err := alloc.NewNextFit(r.Bytes(), cfg)
	if err != nil {
		return err
	}
	if !a.Init() {
		return fmt.Errorf("%s: %d bytes cannot hold a block list: %w", path, size, alloc.ErrNoSpace)
	}
	if err := t.Flush(context.Background(), mode); err != nil {
		return err
	}

	printInfo("Created %s (%s, %s bytes free)\n", path, formatBytes(size), formatNumber(a.Capacity()))
	return nil
}
