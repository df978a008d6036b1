package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-uicc/pkg/emulator"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <disk-image>",
	Short: "Load a binary disk image and print every file in walk order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := emulator.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		appCtx.Log(fmt.Sprintf("loaded %d tree(s), session %s", len(sess.Disk.Trees), sess.ID))
		return sess.Dump(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
