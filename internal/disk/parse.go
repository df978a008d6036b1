package disk

import (
	"fmt"

	"github.com/deploymenttheory/go-uicc/internal/codec"
	"github.com/deploymenttheory/go-uicc/internal/types"
)

// decodeItemHeaderAt decodes the item header at the given tree-relative
// offset.
func decodeItemHeaderAt(buf []byte, offset uint32) (types.ItemHeader, error) {
	if int(offset) >= len(buf) {
		return types.ItemHeader{}, fmt.Errorf("decode item header at %d: %w", offset, types.ErrBadParameters)
	}
	return codec.DecodeItemHeader(buf[offset:])
}

// ParseFileAt decodes the full file (item header, file header, and any
// type-specific trailer) located at the given tree-relative offset, and
// derives the data region that follows it.
func ParseFileAt(tree *Tree, offset uint32) (types.File, error) {
	buf := tree.Buf
	if int(offset) >= len(buf) {
		return types.File{}, fmt.Errorf("parse file at %d: %w", offset, types.ErrBadParameters)
	}

	item, err := codec.DecodeItemHeader(buf[offset:])
	if err != nil {
		return types.File{}, err
	}

	cursor := offset + types.ItemHeaderSize
	id, sid, name, err := codec.DecodeFileHeader(buf[cursor:])
	if err != nil {
		return types.File{}, err
	}
	cursor += types.FileHeaderSize

	f := types.File{
		Header:     item,
		ID:         id,
		SID:        sid,
		Name:       name,
		TreeOffset: offset,
	}

	switch item.Type {
	case types.ItemADF:
		rid, pix, err := codec.DecodeAID(buf[cursor:])
		if err != nil {
			return types.File{}, err
		}
		f.RID, f.PIX = rid, pix
		cursor += types.AIDSize
	case types.ItemEFLinearFixed, types.ItemEFCyclic:
		rsz, err := codec.DecodeRecordSize(buf[cursor:])
		if err != nil {
			return types.File{}, err
		}
		f.RecordSize = rsz
		cursor += types.RecordSizeFieldSize
	case types.ItemMF, types.ItemDF, types.ItemEFTransparent,
		types.ItemBerTlvDO, types.ItemHex, types.ItemAscii:
		// no type-specific trailer
	default:
		return types.File{}, fmt.Errorf("parse file at %d: unknown item type %d: %w", offset, item.Type, types.ErrFatal)
	}

	f.DataOffset = cursor
	if item.Size < cursor-offset {
		return types.File{}, fmt.Errorf("parse file at %d: header exceeds item size: %w", offset, types.ErrFatal)
	}
	f.DataSize = item.Size - (cursor - offset)

	if uint64(offset)+uint64(item.Size) > uint64(len(buf)) {
		return types.File{}, fmt.Errorf("parse file at %d: item extends past tree buffer: %w", offset, types.ErrFatal)
	}

	return f, nil
}

// Data returns the byte slice of f's content area within tree's buffer.
func Data(tree *Tree, f types.File) []byte {
	return tree.Buf[f.DataOffset : f.DataOffset+f.DataSize]
}

// Record returns the byte slice of record idx within f, which must be an
// EF-LinearFixed or EF-Cyclic.
func Record(tree *Tree, f types.File, idx uint32) ([]byte, error) {
	if !f.IsRecordFile() {
		return nil, fmt.Errorf("record access on non-record file: %w", types.ErrBadParameters)
	}
	if idx >= f.RecordCount() {
		return nil, fmt.Errorf("record %d out of range (have %d): %w", idx, f.RecordCount(), types.ErrNotFound)
	}
	start := f.DataOffset + idx*uint32(f.RecordSize)
	end := start + uint32(f.RecordSize)
	return tree.Buf[start:end], nil
}
