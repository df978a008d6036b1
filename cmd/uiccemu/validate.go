package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-uicc/internal/disk"
)

var validateCmd = &cobra.Command{
	Use:   "validate <disk-image>",
	Short: "Load a binary disk image and check every spec invariant against it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := disk.Load(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		if err := disk.Validate(d); err != nil {
			fmt.Println(err)
			return fmt.Errorf("%s failed validation", args[0])
		}
		fmt.Printf("%s: OK (%d tree(s))\n", args[0], len(d.Trees))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
