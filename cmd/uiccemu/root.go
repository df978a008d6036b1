package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-uicc/internal/config"
	"github.com/deploymenttheory/go-uicc/pkg/ui"
)

var (
	verbose bool
	quiet   bool
	output  string

	appCtx *ui.Context
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "uiccemu",
	Short: "UICC (SIM card) application-layer emulator",
	Long: `uiccemu emulates a UICC at the application-protocol layer: it loads a
binary or JSON disk image and answers ISO 7816-4 command APDUs against it
(SELECT, READ BINARY, READ RECORD, GET RESPONSE), the same way a physical
card would.`,
	Version: "0.1.0-dev",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		appCtx = ui.NewContext()
		appCtx.Verbose = verbose
		appCtx.Quiet = quiet
		appCtx.OutputFormat = output
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
