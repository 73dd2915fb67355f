package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
)

func init() {
	rootCmd.AddCommand(newSelfTestCmd())
}

func newSelfTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Check the block header encoding",
		Long: `The selftest command verifies that block headers pack and unpack
their link and free flag correctly for a range of offsets. It exits non-zero
with the number of the failing check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelfTest()
		},
	}
}

func runSelfTest() error {
	code := alloc.SelfTest()
	if jsonOut {
		if err := printJSON(map[string]int{"code": code}); err != nil {
			return err
		}
	} else if code == 0 {
		printInfo("selftest: %s\n", okText("ok"))
	}
	if code != 0 {
		return fmt.Errorf("selftest failed with code %d", code)
	}
	return nil
}
