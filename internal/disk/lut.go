package disk

import (
	"errors"
	"sort"

	"github.com/deploymenttheory/go-uicc/internal/types"
)

var errTooManyTrees = errors.New("uicc: forest exceeds 255 trees")

// The historical source backs both lookup tables with two parallel
// growable arrays and a shared count, grown in fixed +8 steps, with
// insertion by binary search on key but (for the SID LUT) a linear-scan
// lookup despite the sorted layout — spec §9 calls this ambiguous and
// recommends binary search for both. This reimplementation drops the
// parallel-array/growth-step machinery entirely: each LUT is a single
// slice of structured records kept sorted by key via sort.Search, grown
// by ordinary Go slice append. Amortised insertion stays linear in LUT
// size, satisfying spec §4.2's only hard requirement on growth policy.

// sidEntry is one row of a tree's SID lookup table: SFI -> tree-relative
// header offset.
type sidEntry struct {
	sid    uint8
	offset uint32
}

// SidLut maps a tree's SFI values to tree-relative header offsets, kept
// sorted ascending by SID so lookups can binary-search.
type SidLut struct {
	entries []sidEntry
}

// Rebuild clears the table and walks tree, inserting every file whose
// SID is non-zero.
func (l *SidLut) Rebuild(tree *Tree) error {
	fresh := &SidLut{}
	err := WalkTree(tree, func(offset uint32, f types.File) error {
		if f.SID != 0 {
			fresh.insert(f.SID, offset)
		}
		return nil
	})
	if err != nil {
		// LUT rebuilds are atomic: on any insertion failure the LUT is
		// cleared, never exposed partially built.
		l.entries = nil
		return err
	}
	*l = *fresh
	return nil
}

func (l *SidLut) insert(sid uint8, offset uint32) {
	i := sort.Search(len(l.entries), func(i int) bool { return l.entries[i].sid >= sid })
	l.entries = append(l.entries, sidEntry{})
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = sidEntry{sid: sid, offset: offset}
}

// Lookup returns the tree-relative offset of the file with the given SID.
func (l *SidLut) Lookup(sid uint8) (offset uint32, ok bool) {
	i := sort.Search(len(l.entries), func(i int) bool { return l.entries[i].sid >= sid })
	if i < len(l.entries) && l.entries[i].sid == sid {
		return l.entries[i].offset, true
	}
	return 0, false
}

// idEntry is one row of the disk-wide ID lookup table: FID -> the tree
// that owns it plus the file's tree-relative header offset.
type idEntry struct {
	fid        uint16 // compared as a big-endian byte sequence, i.e. numerically
	treeIndex  uint8
	offset     uint32
}

// IdLut maps (FID, tree index) across the whole forest to a header
// location, kept sorted ascending by big-endian FID bytes so lookups can
// binary-search; this matches spec §4.2's invariant that ID LUT keys are
// strictly ascending in big-endian byte order.
type IdLut struct {
	entries []idEntry
}

// Rebuild clears the table and walks every tree in forest order, inserting
// any file whose FID is non-zero with that tree's index.
func (l *IdLut) Rebuild(forest []*Tree) error {
	fresh := &IdLut{}
	for ti, tree := range forest {
		if ti > types.MaxTrees-1 {
			l.entries = nil
			return errTooManyTrees
		}
		err := WalkTree(tree, func(offset uint32, f types.File) error {
			if f.ID != 0 {
				fresh.insert(f.ID, uint8(ti), offset)
			}
			return nil
		})
		if err != nil {
			l.entries = nil
			return err
		}
	}
	*l = *fresh
	return nil
}

func (l *IdLut) insert(fid uint16, treeIndex uint8, offset uint32) {
	i := sort.Search(len(l.entries), func(i int) bool { return l.entries[i].fid >= fid })
	l.entries = append(l.entries, idEntry{})
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = idEntry{fid: fid, treeIndex: treeIndex, offset: offset}
}

// Lookup returns the tree index and tree-relative offset of the file with
// the given FID, scanning ascending FID order via binary search.
func (l *IdLut) Lookup(fid uint16) (treeIndex uint8, offset uint32, ok bool) {
	i := sort.Search(len(l.entries), func(i int) bool { return l.entries[i].fid >= fid })
	if i < len(l.entries) && l.entries[i].fid == fid {
		e := l.entries[i]
		return e.treeIndex, e.offset, true
	}
	return 0, 0, false
}

// Len reports the number of entries currently held, for the invariant
// checks in Validate.
func (l *IdLut) Len() int { return len(l.entries) }

// Keys returns a copy of the sorted FID keys, for the
// strictly-ascending invariant check in Validate.
func (l *IdLut) Keys() []uint16 {
	keys := make([]uint16, len(l.entries))
	for i, e := range l.entries {
		keys[i] = e.fid
	}
	return keys
}
