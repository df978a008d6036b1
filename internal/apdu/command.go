package apdu

import "github.com/deploymenttheory/go-uicc/internal/types"

// Command is one command-APDU entry into the dispatcher: a short-APDU
// header plus whatever data has arrived so far. ProcedureCount is how
// many times this logical command has reached the dispatcher — 0 on the
// first entry (header only, or header with Ne but no data yet), >=1 once
// the host has transmitted the data the first entry's ACK-ALL requested.
// Callers that don't need the two-phase protocol (a direct unit test, a
// CLI one-shot) can simply submit ProcedureCount: 1 with Data already
// populated.
type Command struct {
	CLA, INS, P1, P2, P3 byte

	// Data holds the command's data field, once present. Nil on a bare
	// first entry.
	Data []byte

	// Ne is the expected response length the host is prepared to
	// receive (Le, short-APDU range 0-256).
	Ne int

	ProcedureCount int
}

// Response is one response APDU: a status word and the data (if any)
// satisfying it.
type Response struct {
	Data []byte
	SW   types.StatusWord
}
