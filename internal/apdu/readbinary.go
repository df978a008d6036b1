package apdu

import (
	"github.com/deploymenttheory/go-uicc/internal/disk"
	"github.com/deploymenttheory/go-uicc/internal/types"
)

// readBinaryHandler implements INS 0xB0, spec §4.5.3.
func (d *Dispatcher) readBinaryHandler(cmd Command) (Response, error) {
	if cmd.INS == 0xB1 {
		return Response{SW: types.SW(0x6D, 0x00)}, nil
	}
	if cmd.ProcedureCount == 0 {
		return Response{SW: types.SW(types.ProcedureAckAll, 0)}, nil
	}
	if len(cmd.Data) != 0 {
		return Response{SW: types.SW(0x67, 0x02)}, nil
	}

	var target types.File
	var sfiMode bool
	var sfi uint8
	var offset uint32

	if cmd.P1&0x80 != 0 {
		if cmd.P1&0x60 != 0 {
			return Response{SW: types.SW(0x6A, 0x86)}, nil
		}
		sfiMode = true
		sfi = cmd.P1 & 0x1F
		offset = uint32(cmd.P2)

		f, ok, err := disk.LookupBySid(d.VA.CurTree, sfi)
		if err != nil {
			return Response{SW: types.SWUnknownError}, nil
		}
		if !ok {
			return Response{SW: types.SW(0x6A, 0x82)}, nil
		}
		target = f
	} else {
		offset = uint32(cmd.P1&0x7F)<<8 | uint32(cmd.P2)
		if d.VA.CurEF == nil {
			return Response{SW: types.SWNoCurrentEF}, nil
		}
		target = *d.VA.CurEF
	}

	if target.Header.Type != types.ItemEFTransparent {
		return Response{SW: types.SWIncompatibleStructure}, nil
	}
	if offset >= target.DataSize {
		return Response{SW: types.SWOutOfRange}, nil
	}

	ne := cmd.Ne
	if ne <= 0 || ne > types.UICCDataMaxShrt {
		ne = types.UICCDataMaxShrt
	}
	remaining := target.DataSize - offset
	n := uint32(ne)
	if n > remaining {
		n = remaining
	}

	full := disk.Data(d.VA.CurTree, target)
	out := append([]byte(nil), full[offset:offset+n]...)

	sw := types.SWSuccess
	if n < uint32(ne) {
		sw = types.SWEndOfFileReached
	}

	if sfiMode {
		if err := d.VA.SelectFileSID(sfi); err != nil {
			return Response{SW: types.SWUnknownError}, nil
		}
	}

	return Response{Data: out, SW: sw}, nil
}
