package apdu

import (
	"github.com/deploymenttheory/go-uicc/internal/disk"
	"github.com/deploymenttheory/go-uicc/internal/types"
)

// readRecordHandler implements INS 0xB2, spec §4.5.4. Only the
// record-number, P1-only, current-EF-or-SFI-target combination is
// implemented; every other bit pattern reports "function not supported"
// rather than guessing at semantics spec leaves unspecified.
func (d *Dispatcher) readRecordHandler(cmd Command) (Response, error) {
	if cmd.INS == 0xB3 {
		return Response{SW: types.SW(0x6D, 0x00)}, nil
	}
	if cmd.ProcedureCount == 0 {
		return Response{SW: types.SW(types.ProcedureAckAll, 0)}, nil
	}
	if len(cmd.Data) != 0 {
		return Response{SW: types.SW(0x67, 0x02)}, nil
	}
	if cmd.P1 == 0x00 || cmd.P1 == 0xFF {
		return Response{SW: types.SW(0x6A, 0x86)}, nil
	}

	target := cmd.P2 >> 3
	recordNumberMode := (cmd.P2>>2)&1 == 1
	occurrence := cmd.P2 & 0x03

	if target == 0x1F {
		return Response{SW: types.SWFunctionNotSupported}, nil
	}
	if !recordNumberMode || occurrence != 0x00 { // P1-only is the only supported occurrence
		return Response{SW: types.SWFunctionNotSupported}, nil
	}

	var ef types.File
	sfiMode := target != 0
	if sfiMode {
		f, ok, err := disk.LookupBySid(d.VA.CurTree, target)
		if err != nil {
			return Response{SW: types.SWUnknownError}, nil
		}
		if !ok {
			return Response{SW: types.SW(0x6A, 0x82)}, nil
		}
		ef = f
	} else {
		if d.VA.CurEF == nil {
			return Response{SW: types.SWNoCurrentEF}, nil
		}
		ef = *d.VA.CurEF
	}

	idx := uint32(cmd.P1) - 1
	rec, err := disk.Record(d.VA.CurTree, ef, idx)
	if err != nil {
		return Response{SW: types.SWOutOfRange}, nil
	}

	if cmd.Ne != int(ef.RecordSize) {
		return Response{SW: types.SWWrongLe(ef.RecordSize)}, nil
	}

	if sfiMode {
		if err := d.VA.SelectFileSID(target); err != nil {
			return Response{SW: types.SWUnknownError}, nil
		}
	}
	if err := d.VA.SelectRecordIdx(idx); err != nil {
		return Response{SW: types.SWUnknownError}, nil
	}

	return Response{Data: rec, SW: types.SWSuccess}, nil
}
