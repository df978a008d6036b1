// Package codec implements the little-endian, packed-struct read/write
// helpers for the binary disk image's item and file headers. Per the
// design note on packed structures (spec §9), headers are never decoded
// via native struct layout; every field is read and written explicitly
// at a known byte offset, the way the teacher's apfs/pkg/types.BinaryReader
// decodes on-disk structures field by field.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-uicc/internal/types"
)

// DecodeItemHeader reads the 10-byte packed item header from the start of
// buf.
func DecodeItemHeader(buf []byte) (types.ItemHeader, error) {
	if len(buf) < types.ItemHeaderSize {
		return types.ItemHeader{}, fmt.Errorf("decode item header: %w", types.ErrBufferTooShort)
	}
	return types.ItemHeader{
		Size:       binary.LittleEndian.Uint32(buf[0:4]),
		LCS:        types.LifeCycleStatus(buf[4]),
		Type:       types.ItemType(buf[5]),
		OffsetPrel: binary.LittleEndian.Uint32(buf[6:10]),
	}, nil
}

// EncodeItemHeader writes h into the first 10 bytes of buf.
func EncodeItemHeader(buf []byte, h types.ItemHeader) error {
	if len(buf) < types.ItemHeaderSize {
		return fmt.Errorf("encode item header: %w", types.ErrBufferTooShort)
	}
	binary.LittleEndian.PutUint32(buf[0:4], h.Size)
	buf[4] = byte(h.LCS)
	buf[5] = byte(h.Type)
	binary.LittleEndian.PutUint32(buf[6:10], h.OffsetPrel)
	return nil
}

// DecodeFileHeader reads the FID, SFI, and name fields that follow the
// item header for every MF/ADF/DF/EF variant. buf must start at the file
// header, not the item header.
func DecodeFileHeader(buf []byte) (id uint16, sid uint8, name [types.NameMaxLen]byte, err error) {
	if len(buf) < types.FileHeaderSize {
		return 0, 0, name, fmt.Errorf("decode file header: %w", types.ErrBufferTooShort)
	}
	id = binary.LittleEndian.Uint16(buf[0:2])
	sid = buf[2]
	copy(name[:], buf[3:3+types.NameMaxLen])
	return id, sid, name, nil
}

// EncodeFileHeader writes id, sid, and name (padded to NameFieldSize with a
// trailing null terminator) starting at buf[0].
func EncodeFileHeader(buf []byte, id uint16, sid uint8, name [types.NameMaxLen]byte) error {
	if len(buf) < types.FileHeaderSize {
		return fmt.Errorf("encode file header: %w", types.ErrBufferTooShort)
	}
	binary.LittleEndian.PutUint16(buf[0:2], id)
	buf[2] = sid
	copy(buf[3:3+types.NameMaxLen], name[:])
	buf[3+types.NameMaxLen] = 0 // guaranteed terminator byte
	return nil
}

// DecodeAID reads the 16-byte RID||PIX application identifier that
// trails an ADF's file header.
func DecodeAID(buf []byte) (rid [types.RIDSize]byte, pix [types.PIXSize]byte, err error) {
	if len(buf) < types.AIDSize {
		return rid, pix, fmt.Errorf("decode aid: %w", types.ErrBufferTooShort)
	}
	copy(rid[:], buf[0:types.RIDSize])
	copy(pix[:], buf[types.RIDSize:types.AIDSize])
	return rid, pix, nil
}

// EncodeAID writes rid||pix starting at buf[0].
func EncodeAID(buf []byte, rid [types.RIDSize]byte, pix [types.PIXSize]byte) error {
	if len(buf) < types.AIDSize {
		return fmt.Errorf("encode aid: %w", types.ErrBufferTooShort)
	}
	copy(buf[0:types.RIDSize], rid[:])
	copy(buf[types.RIDSize:types.AIDSize], pix[:])
	return nil
}

// DecodeRecordSize reads the one-byte rcrd_size field that trails a
// LinearFixed/Cyclic EF's file header.
func DecodeRecordSize(buf []byte) (uint8, error) {
	if len(buf) < types.RecordSizeFieldSize {
		return 0, fmt.Errorf("decode record size: %w", types.ErrBufferTooShort)
	}
	return buf[0], nil
}

// EncodeRecordSize writes size at buf[0].
func EncodeRecordSize(buf []byte, size uint8) error {
	if len(buf) < types.RecordSizeFieldSize {
		return fmt.Errorf("encode record size: %w", types.ErrBufferTooShort)
	}
	buf[0] = size
	return nil
}
