package ingest

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-uicc/internal/disk"
	"github.com/deploymenttheory/go-uicc/internal/types"
)

const (
	initialBufferSize = 512
	bufferGrowStep    = 256
)

// Parse reads a JSON disk description from r and builds the binary disk
// image it describes, returning the resulting in-memory Disk (both LUTs
// already built by disk.New).
func Parse(r io.Reader) (*disk.Disk, error) {
	var spec DiskSpec
	if err := json.NewDecoder(r).Decode(&spec); err != nil {
		return nil, fmt.Errorf("decode disk json: %w", types.ErrBadParameters)
	}
	if len(spec.Disk) == 0 {
		return nil, fmt.Errorf("disk json has no trees: %w", types.ErrBadParameters)
	}
	if spec.Disk[0].Type != "file_mf" {
		return nil, fmt.Errorf("first tree must be file_mf, got %q: %w", spec.Disk[0].Type, types.ErrBadParameters)
	}

	trees := make([]*disk.Tree, 0, len(spec.Disk))
	for i, treeSpec := range spec.Disk {
		if i > 0 && treeSpec.Type != "file_adf" {
			return nil, fmt.Errorf("tree %d must be file_adf, got %q: %w", i, treeSpec.Type, types.ErrBadParameters)
		}
		buf, err := buildTree(treeSpec)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		trees = append(trees, &disk.Tree{Buf: buf})
	}

	return disk.New(trees)
}

// buildTree renders one top-level FileSpec (an MF or ADF) into a tightly
// sized byte buffer, growing and retrying from scratch whenever the
// current capacity proves too small — the growable-buffer dance spec
// §4.6 describes (start 512 bytes, grow +256 on BufferTooShort).
func buildTree(spec FileSpec) ([]byte, error) {
	capacity := uint32(initialBufferSize)
	for {
		buf := make([]byte, capacity)
		c := &cursor{buf: buf}
		_, err := writeFile(c, spec, 0, true)
		if errors.Is(err, types.ErrBufferTooShort) {
			capacity += bufferGrowStep
			continue
		}
		if err != nil {
			return nil, err
		}
		return buf[:c.pos], nil
	}
}

// writeFile writes one file (and, recursively, its children or data) at
// the cursor's current position, then backfills its item header once the
// file's total size is known. It returns the file's own offset within
// the buffer.
func writeFile(c *cursor, spec FileSpec, parentOffset uint32, isRoot bool) (uint32, error) {
	itemType, err := parseItemType(spec.Type)
	if err != nil {
		return 0, err
	}
	lcs, err := parseLCS(spec.LCS)
	if err != nil {
		return 0, err
	}

	itemStart := c.pos
	headerSize := types.HeaderSizeForType(itemType)
	if _, err := c.reserve(headerSize); err != nil {
		return 0, err
	}

	id, sid, name, err := parseIDSIDName(spec)
	if err != nil {
		return 0, err
	}
	if err := writeFileHeaderFields(c.buf, itemStart, id, sid, name); err != nil {
		return 0, err
	}

	trailerStart := itemStart + types.ItemHeaderSize + types.FileHeaderSize
	switch itemType {
	case types.ItemADF:
		if err := writeAID(c.buf, trailerStart, spec.AID); err != nil {
			return 0, err
		}
	case types.ItemEFLinearFixed, types.ItemEFCyclic:
		if spec.RecordSize <= 0 || spec.RecordSize > 0xFF {
			return 0, fmt.Errorf("record_size %d out of range: %w", spec.RecordSize, types.ErrBadParameters)
		}
		if err := writeRecordSizeField(c.buf, trailerStart, uint8(spec.RecordSize)); err != nil {
			return 0, err
		}
	}

	if err := writeContents(c, itemType, itemStart, spec); err != nil {
		return 0, err
	}

	if err := patchItemHeader(c, itemStart, parentOffset, isRoot, itemType, lcs); err != nil {
		return 0, err
	}

	return itemStart, nil
}

// writeContents dispatches on itemType — a pattern match over the tagged
// union of item kinds, per spec §9's guidance to avoid a function-table
// indirection for this.
func writeContents(c *cursor, itemType types.ItemType, itemStart uint32, spec FileSpec) error {
	switch {
	case itemType.IsFolder():
		return writeChildren(c, itemStart, spec)
	case itemType.IsRecordEF():
		return writeRecords(c, spec)
	case itemType == types.ItemEFTransparent:
		return writeTransparentData(c, spec)
	case itemType == types.ItemHex || itemType == types.ItemAscii || itemType == types.ItemBerTlvDO:
		return writeLeafData(c, itemType, spec)
	default:
		return fmt.Errorf("unhandled item type %s: %w", itemType, types.ErrFatal)
	}
}

func writeChildren(c *cursor, parentItemOffset uint32, spec FileSpec) error {
	if len(spec.Contents) == 0 {
		return nil
	}
	var children []FileSpec
	if err := json.Unmarshal(spec.Contents, &children); err != nil {
		return fmt.Errorf("decode children: %w", types.ErrBadParameters)
	}
	for _, child := range children {
		if _, err := writeFile(c, child, parentItemOffset, false); err != nil {
			return err
		}
	}
	return nil
}

func writeRecords(c *cursor, spec FileSpec) error {
	if len(spec.Contents) == 0 {
		return nil
	}
	var records []string
	if err := json.Unmarshal(spec.Contents, &records); err != nil {
		return fmt.Errorf("decode records: %w", types.ErrBadParameters)
	}
	recordSize := uint32(spec.RecordSize)
	for _, rec := range records {
		raw, err := hex.DecodeString(rec)
		if err != nil {
			return fmt.Errorf("decode record hex: %w", types.ErrBadParameters)
		}
		if uint32(len(raw)) > recordSize {
			return fmt.Errorf("record of %d bytes exceeds record_size %d: %w", len(raw), recordSize, types.ErrBadParameters)
		}
		start, err := c.reserve(recordSize)
		if err != nil {
			return err
		}
		slot := c.buf[start : start+recordSize]
		for i := range slot {
			slot[i] = types.FillByte
		}
		copy(slot, raw)
	}
	return nil
}

func writeTransparentData(c *cursor, spec FileSpec) error {
	if len(spec.Contents) == 0 {
		return nil
	}
	var obj map[string]string
	if err := json.Unmarshal(spec.Contents, &obj); err != nil {
		return fmt.Errorf("decode transparent contents: %w", types.ErrBadParameters)
	}
	raw, err := decodeEncodedContent(obj)
	if err != nil {
		return err
	}
	start, err := c.reserve(uint32(len(raw)))
	if err != nil {
		return err
	}
	copy(c.buf[start:], raw)
	return nil
}

func writeLeafData(c *cursor, itemType types.ItemType, spec FileSpec) error {
	if len(spec.Contents) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(spec.Contents, &s); err != nil {
		return fmt.Errorf("decode leaf contents: %w", types.ErrBadParameters)
	}
	var raw []byte
	var err error
	if itemType == types.ItemAscii {
		raw = []byte(s)
	} else {
		raw, err = hex.DecodeString(s)
	}
	if err != nil {
		return fmt.Errorf("decode leaf hex: %w", types.ErrBadParameters)
	}
	start, err := c.reserve(uint32(len(raw)))
	if err != nil {
		return err
	}
	copy(c.buf[start:], raw)
	return nil
}

func decodeEncodedContent(obj map[string]string) ([]byte, error) {
	if h, ok := obj["hex"]; ok {
		raw, err := hex.DecodeString(h)
		if err != nil {
			return nil, fmt.Errorf("decode hex contents: %w", types.ErrBadParameters)
		}
		return raw, nil
	}
	if a, ok := obj["ascii"]; ok {
		return []byte(a), nil
	}
	return nil, fmt.Errorf(`contents object needs a "hex" or "ascii" key: %w`, types.ErrBadParameters)
}
