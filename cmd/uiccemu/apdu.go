package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	ucapdu "github.com/deploymenttheory/go-uicc/internal/apdu"
	"github.com/deploymenttheory/go-uicc/pkg/emulator"
)

var apduCmd = &cobra.Command{
	Use:   "apdu <disk-image> <hex-apdu>",
	Short: "Send one short-APDU command (as a hex string) to a loaded disk image",
	Long: `Send one short-APDU command to a loaded disk image and print the response.

The hex string is the full wire APDU: CLA INS P1 P2 [Lc data] [Le], exactly
as a card reader would transmit it. Only single-exchange (case 1-4) short
APDUs are supported; the dispatcher's two-phase procedure-byte protocol is
driven internally with the data already attached, matching how a real host
driver resolves the ACK-ALL round trip before showing the caller a result.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := emulator.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}

		raw, err := hex.DecodeString(args[1])
		if err != nil {
			return fmt.Errorf("decode apdu hex: %w", err)
		}
		parsedCmd, err := decodeRawAPDU(raw)
		if err != nil {
			return err
		}

		resp, err := sess.Transmit(parsedCmd)
		if err != nil {
			return fmt.Errorf("transmit: %w", err)
		}

		sw1, sw2 := resp.SW.Bytes()
		fmt.Printf("data: %s\n", hex.EncodeToString(resp.Data))
		fmt.Printf("sw:   %02X%02X\n", sw1, sw2)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(apduCmd)
}

// decodeRawAPDU parses a raw wire APDU into a ready-to-dispatch Command,
// covering all four ISO 7816-4 short-APDU cases: header only, header+Le,
// header+Lc+data, and header+Lc+data+Le.
func decodeRawAPDU(raw []byte) (ucapdu.Command, error) {
	if len(raw) < 4 {
		return ucapdu.Command{}, fmt.Errorf("apdu shorter than a 4-byte header")
	}
	cmd := ucapdu.Command{
		CLA: raw[0], INS: raw[1], P1: raw[2], P2: raw[3],
		ProcedureCount: 1,
	}
	rest := raw[4:]

	switch {
	case len(rest) == 0: // case 1: no data, no Le
		return cmd, nil
	case len(rest) == 1: // case 2: Le only
		cmd.Ne = leToNe(rest[0])
		return cmd, nil
	default: // case 3 or 4: Lc, data, optional Le
		lc := int(rest[0])
		body := rest[1:]
		if lc > len(body) {
			return ucapdu.Command{}, fmt.Errorf("lc %d exceeds remaining %d bytes", lc, len(body))
		}
		cmd.P3 = rest[0]
		cmd.Data = body[:lc]
		if len(body) > lc {
			cmd.Ne = leToNe(body[lc])
		}
		return cmd, nil
	}
}

func leToNe(le byte) int {
	if le == 0 {
		return 256
	}
	return int(le)
}
