package apdu

import (
	"errors"

	"github.com/deploymenttheory/go-uicc/internal/types"
)

// selectHandler implements INS 0xA4, spec §4.5.2.
func (d *Dispatcher) selectHandler(cmd Command) (Response, error) {
	if cmd.P2&0xF0 != 0 {
		return Response{SW: types.SW(0x6A, 0x86)}, nil
	}

	if cmd.ProcedureCount == 0 {
		if cmd.P3 > 0 {
			return Response{SW: types.SW(types.ProcedureAckAll, cmd.P3)}, nil
		}
	} else if len(cmd.Data) != int(cmd.P3) {
		return Response{SW: types.SW(0x67, 0x02)}, nil
	}

	kind := responseKind((cmd.P2 >> 2) & 0x03)

	switch cmd.P1 {
	case 0x00:
		return d.selectByFidOrAid(cmd.Data, kind)
	case 0x01, 0x02, 0x03: // nested/parent selection, unsupported
		return Response{SW: types.SW(0x6A, 0x00)}, nil
	case 0x04:
		return d.finishSelect(d.VA.SelectFileDFName(cmd.Data), kind)
	case 0x08, 0x09:
		return d.finishSelect(d.VA.SelectFilePath(cmd.Data), kind)
	case 0x10, 0x13: // DO / DO-parent selection, rejected outright
		return Response{SW: types.SW(0x6A, 0x00)}, nil
	default: // RFU
		return Response{SW: types.SW(0x6A, 0x00)}, nil
	}
}

func (d *Dispatcher) selectByFidOrAid(data []byte, kind responseKind) (Response, error) {
	var err error
	switch {
	case len(data) >= types.RIDSize && len(data) <= types.AIDSize:
		var rid [types.RIDSize]byte
		copy(rid[:], data[:types.RIDSize])
		err = d.VA.SelectADF(rid, data[types.RIDSize:])
	case len(data) == 2:
		err = d.VA.SelectFileID(uint16(data[0])<<8 | uint16(data[1]))
	default:
		err = types.ErrBadParameters
	}
	return d.finishSelect(err, kind)
}

// finishSelect turns the VA selection's outcome into a response: NotFound
// maps to 0x6A82, any other failure to 0x6F00, success to the requested
// BER-TLV response (or a bare 0x9000 if the response kind is "absent").
func (d *Dispatcher) finishSelect(err error, kind responseKind) (Response, error) {
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return Response{SW: types.SW(0x6A, 0x82)}, nil
		}
		return Response{SW: types.SWUnknownError}, nil
	}
	if kind == responseAbsent {
		return Response{SW: types.SWSuccess}, nil
	}

	var target types.File
	switch {
	case d.VA.CurEF != nil:
		target = *d.VA.CurEF
	case d.VA.CurDF != nil:
		target = *d.VA.CurDF
	default:
		return Response{SW: types.SWUnknownError}, nil
	}

	data := encodeSelectResponse(target, kind)
	if err := d.RBuf.Stash(data); err != nil {
		return Response{SW: types.SWUnknownError}, nil
	}
	return Response{SW: types.SW(0x61, byte(len(data)))}, nil
}
