package types

import "bytes"

// File is a by-value snapshot of a parsed MF/ADF/DF/EF header together with
// the tree-relative offsets needed to reach its data. Snapshots do not
// alias the tree buffer: per the shared-resource policy, mutating the tree
// invalidates outstanding snapshots, so callers re-resolve after any
// mutation rather than holding one across it. The disk and VA packages
// never hand out anything but File values for this reason.
type File struct {
	Header ItemHeader

	// ID is the 16-bit FID, or 0 if the file has none.
	ID uint16
	// SID is the 8-bit SFI, or 0 if the file has none.
	SID uint8
	// Name is the 16-byte null-padded file name.
	Name [NameMaxLen]byte

	// RID and PIX are populated only for ADF roots (the application
	// identifier, split as ISO 7816-4 specifies).
	RID [RIDSize]byte
	PIX [PIXSize]byte

	// RecordSize is populated only for EF-LinearFixed and EF-Cyclic.
	RecordSize uint8

	// TreeOffset is the byte offset, within its tree's buffer, of this
	// file's header.
	TreeOffset uint32
	// DataOffset is the byte offset, within its tree's buffer, where this
	// file's content (children, record data, or raw bytes) begins.
	DataOffset uint32
	// DataSize is the length in bytes of the content area.
	DataSize uint32
}

// NameString returns Name with trailing null bytes trimmed.
func (f File) NameString() string {
	n := bytes.IndexByte(f.Name[:], 0)
	if n < 0 {
		n = len(f.Name)
	}
	return string(f.Name[:n])
}

// AID returns the 16-byte application identifier (RID||PIX). Meaningful
// only when Header.Type == ItemADF.
func (f File) AID() [AIDSize]byte {
	var aid [AIDSize]byte
	copy(aid[:RIDSize], f.RID[:])
	copy(aid[RIDSize:], f.PIX[:])
	return aid
}

// IsFolder reports whether the file can contain children.
func (f File) IsFolder() bool {
	return f.Header.Type.IsFolder()
}

// IsRecordFile reports whether the file is record-oriented (LinearFixed or
// Cyclic).
func (f File) IsRecordFile() bool {
	return f.Header.Type.IsRecordEF()
}

// RecordCount returns the number of fixed-size records the file holds, or 0
// if it is not a record-oriented EF or has a zero record size.
func (f File) RecordCount() uint32 {
	if !f.IsRecordFile() || f.RecordSize == 0 {
		return 0
	}
	return f.DataSize / uint32(f.RecordSize)
}

// HeaderSize returns the total on-disk header size for this file's type:
// the common item+file header, plus any type-specific trailer (AID for
// ADF roots, record size for record EFs).
func (f File) HeaderSize() uint32 {
	return HeaderSizeForType(f.Header.Type)
}

// HeaderSizeForType returns the total on-disk header size for t, without
// needing a parsed File.
func HeaderSizeForType(t ItemType) uint32 {
	size := uint32(ItemHeaderSize + FileHeaderSize)
	switch t {
	case ItemADF:
		size += AIDSize
	case ItemEFLinearFixed, ItemEFCyclic:
		size += RecordSizeFieldSize
	}
	return size
}
