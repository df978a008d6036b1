// Package apdu implements the command-APDU dispatcher described in spec
// §4.5: class classification, the two-phase procedure-byte protocol, and
// the SELECT/READ BINARY/READ RECORD/GET RESPONSE handlers that drive the
// virtual-application selection state machine and response buffer.
package apdu

import (
	"github.com/deploymenttheory/go-uicc/internal/types"
	"github.com/deploymenttheory/go-uicc/internal/va"
)

// ProprietaryHandler processes a proprietary-class command APDU. Wiring
// one in is the spec's one acknowledged extension point (§1's "external
// collaborators" carve-out for the proprietary-class hook); the core
// dispatcher has no opinion on what a proprietary handler does.
type ProprietaryHandler func(cmd Command) (Response, error)

// Dispatcher routes command APDUs to the interindustry handler table, or
// to a registered proprietary hook, against a single VA and response
// buffer. It holds no concurrency control of its own — spec §5 assigns
// that to the session that embeds it.
type Dispatcher struct {
	VA   *va.State
	RBuf *ResponseBuffer

	proprietary ProprietaryHandler
}

// New creates a Dispatcher bound to v and rbuf.
func New(v *va.State, rbuf *ResponseBuffer) *Dispatcher {
	return &Dispatcher{VA: v, RBuf: rbuf}
}

// RegisterProprietary installs the proprietary-class hook. A nil handler
// (the default) makes every proprietary-class command "unhandled".
func (d *Dispatcher) RegisterProprietary(h ProprietaryHandler) {
	d.proprietary = h
}

// Handle routes cmd per spec §4.5's dispatch table: RFU/invalid classes
// fail with "class not supported"; proprietary classes go to the
// registered hook, if any; interindustry classes are routed by
// instruction byte to the fixed handler table below, with unknown
// instructions failing "instruction not supported". Handle itself never
// returns a non-nil error for a malformed or unsupported APDU — every
// such case is a status word, per spec §7's handler contract. The
// interindustry handlers also report disk lookup failures as status words
// (0x6F00); the only non-nil error Handle returns is one passed through
// from a registered proprietary handler.
func (d *Dispatcher) Handle(cmd Command) (Response, error) {
	switch ClassifyCLA(cmd.CLA) {
	case ClassRFU, ClassInvalid:
		return Response{SW: types.SW(0x6E, 0x00)}, nil

	case ClassProprietary:
		if d.proprietary != nil {
			return d.proprietary(cmd)
		}
		return Response{SW: types.SWUnknownError}, nil

	default: // ClassInterindustry
		switch cmd.INS {
		case 0xA4:
			return d.selectHandler(cmd)
		case 0xB0, 0xB1:
			return d.readBinaryHandler(cmd)
		case 0xB2, 0xB3:
			return d.readRecordHandler(cmd)
		case 0xC0:
			return d.getResponseHandler(cmd)
		default:
			return Response{SW: types.SW(0x6D, 0x00)}, nil
		}
	}
}
