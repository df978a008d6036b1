package apdu

import "github.com/deploymenttheory/go-uicc/internal/types"

// getResponseHandler implements INS 0xC0, spec §4.5.5.
func (d *Dispatcher) getResponseHandler(cmd Command) (Response, error) {
	if cmd.P1 != 0 || cmd.P2 != 0 {
		return Response{SW: types.SW(0x6A, 0x86)}, nil
	}
	if cmd.P3 == 0 {
		return Response{SW: types.SWSuccess}, nil
	}

	avail := d.RBuf.Available()
	ne := int(cmd.P3)

	switch {
	case avail < ne:
		return Response{SW: types.SWEndOfFileReached}, nil
	case avail == ne:
		return Response{Data: d.RBuf.Take(ne), SW: types.SWSuccess}, nil
	default:
		data := d.RBuf.Take(ne)
		return Response{Data: data, SW: types.SWMoreData(byte(d.RBuf.Available()))}, nil
	}
}
