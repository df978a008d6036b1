// Package disk owns the in-memory forest of trees that backs the UICC
// image: it loads and saves the binary disk image, walks files within a
// tree, and maintains the disk-wide ID LUT and each tree's SID LUT.
package disk

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/deploymenttheory/go-uicc/internal/codec"
	"github.com/deploymenttheory/go-uicc/internal/types"
)

// Disk owns the forest of trees and the disk-wide ID LUT. The first tree
// is always the MF tree; any subsequent trees are ADFs.
type Disk struct {
	Trees []*Tree
	idLut IdLut
}

// New wraps an already-built slice of trees (used by the JSON ingest
// path) and rebuilds both lookup tables.
func New(trees []*Tree) (*Disk, error) {
	d := &Disk{Trees: trees}
	if err := d.RebuildLuts(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads a binary disk image from path: the magic prefix, then a
// sequence of item buffers. The first tree must be an MF; every
// subsequent tree must be an ADF. On any error the returned Disk is nil —
// partial state is never retained (spec §7).
func Load(path string) (*Disk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open disk image: %w", err)
	}
	defer f.Close()

	d, err := LoadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("load disk image %s: %w", path, err)
	}
	return d, nil
}

// LoadFrom reads a binary disk image from an arbitrary reader, following
// the same format Load uses. Exposed separately so callers (and tests)
// can load from an in-memory buffer without touching the filesystem.
func LoadFrom(r io.Reader) (*Disk, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", types.ErrFatal)
	}
	if magic != types.DiskMagic {
		return nil, fmt.Errorf("bad magic prefix: %w", types.ErrFatal)
	}

	var trees []*Tree
	for i := 0; ; i++ {
		tree, err := readTree(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		wantType := types.ItemADF
		if i == 0 {
			wantType = types.ItemMF
		}
		root, err := tree.RootHeader()
		if err != nil {
			return nil, err
		}
		if root.Type != wantType {
			return nil, fmt.Errorf("tree %d: expected root type %s, got %s: %w", i, wantType, root.Type, types.ErrFatal)
		}
		if i >= types.MaxTrees {
			return nil, errTooManyTrees
		}
		trees = append(trees, tree)
	}

	if len(trees) == 0 {
		return nil, fmt.Errorf("disk image has no trees: %w", types.ErrFatal)
	}

	return New(trees)
}

// readTree reads one item header, then its remaining size-sizeof(header)
// bytes, into a freshly allocated buffer sized to exactly item.Size.
func readTree(r io.Reader) (*Tree, error) {
	var hdrBuf [types.ItemHeaderSize]byte
	_, err := io.ReadFull(r, hdrBuf[:])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("read item header: %w", types.ErrFatal)
	}

	hdr, err := codec.DecodeItemHeader(hdrBuf[:])
	if err != nil {
		return nil, err
	}
	if hdr.Size < types.ItemHeaderSize {
		return nil, fmt.Errorf("item size %d smaller than header: %w", hdr.Size, types.ErrFatal)
	}

	buf := make([]byte, hdr.Size)
	copy(buf, hdrBuf[:])
	if _, err := io.ReadFull(r, buf[types.ItemHeaderSize:]); err != nil {
		return nil, fmt.Errorf("read item body: %w", types.ErrFatal)
	}

	return &Tree{Buf: buf}, nil
}

// Save writes the magic prefix followed by each tree's raw buffer, in
// forest order. Save is a pure dump of the in-memory image; it never
// recomputes anything.
func (d *Disk) Save(path string) error {
	var buf bytes.Buffer
	if err := d.SaveTo(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write disk image %s: %w", path, err)
	}
	return nil
}

// SaveTo writes the image to an arbitrary writer.
func (d *Disk) SaveTo(w io.Writer) error {
	if _, err := w.Write(types.DiskMagic[:]); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	for _, t := range d.Trees {
		if _, err := w.Write(t.Buf); err != nil {
			return fmt.Errorf("write tree: %w", err)
		}
	}
	return nil
}

// Unload releases every tree buffer and lookup table the disk holds.
func (d *Disk) Unload() {
	d.Trees = nil
	d.idLut = IdLut{}
}

// RebuildLuts rebuilds every tree's SID LUT and the disk-wide ID LUT from
// the current in-memory trees.
func (d *Disk) RebuildLuts() error {
	for _, t := range d.Trees {
		lut := &SidLut{}
		if err := lut.Rebuild(t); err != nil {
			return fmt.Errorf("rebuild sid lut: %w", err)
		}
		t.sidLut = lut
	}
	if err := d.idLut.Rebuild(d.Trees); err != nil {
		return fmt.Errorf("rebuild id lut: %w", err)
	}
	return nil
}

// LookupByFid resolves fid against the disk-wide ID LUT, returning the
// owning tree and the parsed file.
func (d *Disk) LookupByFid(fid uint16) (*Tree, types.File, bool, error) {
	ti, offset, ok := d.idLut.Lookup(fid)
	if !ok {
		return nil, types.File{}, false, nil
	}
	if int(ti) >= len(d.Trees) {
		return nil, types.File{}, false, fmt.Errorf("id lut points at missing tree %d: %w", ti, types.ErrFatal)
	}
	tree := d.Trees[ti]
	f, err := ParseFileAt(tree, offset)
	if err != nil {
		return nil, types.File{}, false, err
	}
	return tree, f, true, nil
}

// LookupBySid resolves sid against tree's SID LUT, returning the parsed
// file.
func LookupBySid(tree *Tree, sid uint8) (types.File, bool, error) {
	if tree.sidLut == nil {
		return types.File{}, false, nil
	}
	offset, ok := tree.sidLut.Lookup(sid)
	if !ok {
		return types.File{}, false, nil
	}
	f, err := ParseFileAt(tree, offset)
	if err != nil {
		return types.File{}, false, err
	}
	return f, true, nil
}

// TreeIndex returns the forest position of tree, or -1 if it is not part
// of d.
func (d *Disk) TreeIndex(tree *Tree) int {
	for i, t := range d.Trees {
		if t == tree {
			return i
		}
	}
	return -1
}
