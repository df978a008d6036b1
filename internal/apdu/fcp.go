package apdu

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-uicc/internal/bertlv"
	"github.com/deploymenttheory/go-uicc/internal/types"
)

// responseKind is SELECT's P2 bits[3:2]: which of FCI/FCP/FMD (or nothing)
// the response carries.
type responseKind uint8

const (
	responseFCI responseKind = iota
	responseFCP
	responseFMD
	responseAbsent
)

// encodeSelectResponse builds the BER-TLV SELECT response for f, per spec
// §4.5.2. bertlv.Encode runs the dry and real passes; callers get back a
// finished, tightly sized buffer.
//
// The BER-TLV encoder builds backward: whichever of writeFCPContent's
// writeField calls happens LAST ends up leftmost in the finished buffer.
// Fields are therefore written in the reverse of their documented forward
// order (0x82 first, 0x88 last) so the final layout reads 0x88, 0x84,
// 0x80, 0x8A, 0x83, 0x82 left to right.
func encodeSelectResponse(f types.File, kind responseKind) []byte {
	switch kind {
	case responseAbsent:
		return nil
	case responseFMD:
		return bertlv.Encode(func(e *bertlv.Encoder) {
			writeFMD(e)
		})
	case responseFCP:
		return bertlv.Encode(func(e *bertlv.Encoder) {
			writeFCP(e, f)
		})
	default: // responseFCI
		return bertlv.Encode(func(e *bertlv.Encoder) {
			outer := e.NstdStart()
			writeFMD(e)
			writeFCP(e, f)
			outer = e.NstdEnd(outer)
			e.Hdr(outer, []byte{0x6F})
		})
	}
}

func writeFMD(e *bertlv.Encoder) {
	m := e.NstdStart() // empty FMD content in this implementation
	e.Hdr(m, []byte{0x64})
}

func writeFCP(e *bertlv.Encoder, f types.File) {
	m := e.NstdStart()
	writeFCPContent(e, f)
	m = e.NstdEnd(m)
	e.Hdr(m, []byte{0x62})
}

func writeFCPContent(e *bertlv.Encoder, f types.File) {
	writeField(e, 0x82, fileDescriptorAndCoding(f))
	if f.ID != 0 {
		writeField(e, 0x83, be16(f.ID))
	}
	writeField(e, 0x8A, []byte{byte(f.Header.LCS)})
	writeField(e, 0x80, be32(f.DataSize))
	if f.IsFolder() {
		writeField(e, 0x84, f.Name[:])
	}
	if !f.IsFolder() && f.SID != 0 {
		writeField(e, 0x88, []byte{f.SID})
	}
}

func writeField(e *bertlv.Encoder, tag byte, value []byte) {
	m := e.NstdStart()
	e.Data(value)
	e.Hdr(m, []byte{tag})
}

// fileDescriptorAndCoding builds tag 0x82's 2-byte value: a file
// descriptor byte loosely following ISO 7816-4's FDB coding (0x38 for any
// folder, a low nibble tag for each EF structure), followed by a reserved
// data-coding byte this implementation leaves 0x00.
func fileDescriptorAndCoding(f types.File) []byte {
	var fdb byte
	switch {
	case f.IsFolder():
		fdb = 0x38
	case f.Header.Type == types.ItemEFTransparent:
		fdb = 0x01
	case f.Header.Type == types.ItemEFLinearFixed:
		fdb = 0x02
	case f.Header.Type == types.ItemEFCyclic:
		fdb = 0x06
	default:
		fdb = 0x00
	}
	return []byte{fdb, 0x00}
}

func be16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}
