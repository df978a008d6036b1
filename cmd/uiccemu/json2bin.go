package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-uicc/internal/ingest"
)

var json2binCmd = &cobra.Command{
	Use:   "json2bin <disk.json> <disk.bin>",
	Short: "Convert a JSON disk description into a binary disk image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		d, err := ingest.Parse(f)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		if err := d.Save(args[1]); err != nil {
			return fmt.Errorf("write %s: %w", args[1], err)
		}
		appCtx.Log(fmt.Sprintf("wrote %d tree(s) to %s", len(d.Trees), args[1]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(json2binCmd)
}
