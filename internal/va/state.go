// Package va implements the virtual-application selection state machine
// described in spec §4.3: the current-selection tuple (tree, ADF, DF, EF,
// file, record) and the six operations that advance it.
package va

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-uicc/internal/disk"
	"github.com/deploymenttheory/go-uicc/internal/types"
)

// State holds the current-selection tuple. All fields are by-value
// snapshots (types.File, or a tree pointer into the owning disk) and are
// mutated only after a selection fully resolves — a failed selection
// leaves State untouched, matching spec §5's ordering guarantee.
type State struct {
	disk *disk.Disk

	CurTree *disk.Tree
	CurAdf  *types.File
	CurDF   *types.File
	CurEF   *types.File
	CurFile *types.File
	CurRcrd *uint32
}

// New creates a VA bound to d and resets it, selecting the MF.
func New(d *disk.Disk) (*State, error) {
	s := &State{disk: d}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset clears the VA, then selects the MF by its fixed FID (0x3F00).
func (s *State) Reset() error {
	s.clear()
	return s.selectByFid(types.MFFid)
}

func (s *State) clear() {
	s.CurTree = nil
	s.CurAdf = nil
	s.CurDF = nil
	s.CurEF = nil
	s.CurFile = nil
	s.CurRcrd = nil
}

// SelectADF scans the forest for the first ADF whose RID matches rid and
// whose first len(pix) PIX bytes match pix.
func (s *State) SelectADF(rid [types.RIDSize]byte, pix []byte) error {
	if len(pix) > types.PIXSize {
		return fmt.Errorf("pix longer than %d bytes: %w", types.PIXSize, types.ErrBadParameters)
	}
	for _, tree := range s.disk.Trees {
		root, err := tree.RootFile()
		if err != nil {
			return err
		}
		if root.Header.Type != types.ItemADF {
			continue
		}
		if root.RID != rid {
			continue
		}
		if !bytes.Equal(root.PIX[:len(pix)], pix) {
			continue
		}
		return s.applySelectionRules(tree, root)
	}
	return types.ErrNotFound
}

// SelectFileID resolves fid against the disk-wide ID LUT and, if found,
// applies the file-type selection rules.
func (s *State) SelectFileID(fid uint16) error {
	return s.selectByFid(fid)
}

func (s *State) selectByFid(fid uint16) error {
	tree, f, ok, err := s.disk.LookupByFid(fid)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	return s.applySelectionRules(tree, f)
}

// SelectFileSID scans the current tree's SID LUT and, if found, applies
// the file-type selection rules. Known deviation (spec §4.3): ISO 7816-4
// leaves cur_df unchanged for SFI-based EF selection; this implementation
// always rebinds cur_df to the resolved file's parent, because SFI and
// FID selection both funnel through applySelectionRules.
func (s *State) SelectFileSID(sid uint8) error {
	if s.CurTree == nil {
		return fmt.Errorf("select by sid with no current tree: %w", types.ErrBadParameters)
	}
	f, ok, err := disk.LookupBySid(s.CurTree, sid)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	return s.applySelectionRules(s.CurTree, f)
}

// SelectRecordIdx sets cur_rcrd to idx, if cur_ef is a record-oriented EF
// with at least one record and idx is within its record count. The
// record-count bound is tightened beyond spec's literal text (which only
// requires the EF to have at least one record) per this implementation's
// Open-Question decision; see DESIGN.md.
func (s *State) SelectRecordIdx(idx uint32) error {
	if s.CurEF == nil || !s.CurEF.IsRecordFile() {
		return fmt.Errorf("record selection requires a linear-fixed or cyclic current EF: %w", types.ErrBadParameters)
	}
	count := s.CurEF.RecordCount()
	if count == 0 {
		return fmt.Errorf("current EF has no records: %w", types.ErrBadParameters)
	}
	if idx >= count {
		return types.ErrNotFound
	}
	s.CurRcrd = &idx
	return nil
}

// SelectFileDFName, SelectFilePath, and SelectDataOffset are declared by
// spec §4.3 but explicitly left unimplemented (selection "by DF name",
// "by path", and data-object selection are out of scope per spec §1).
func (s *State) SelectFileDFName(name []byte) error { return types.ErrNotImplemented }
func (s *State) SelectFilePath(path []byte) error   { return types.ErrNotImplemented }
func (s *State) SelectDataOffset(offset uint32) error { return types.ErrNotImplemented }

// applySelectionRules implements spec §4.3's selection-rules table. It
// mutates State only once the new tuple is fully computed.
func (s *State) applySelectionRules(tree *disk.Tree, f types.File) error {
	switch {
	case f.Header.Type.IsTreeRoot(): // MF or ADF
		root := f
		s.clear()
		s.CurTree = tree
		s.CurAdf = &root
		s.CurDF = &root
		s.CurFile = &root
		return nil

	case f.Header.Type == types.ItemDF:
		root, err := tree.RootFile()
		if err != nil {
			return err
		}
		file := f
		s.clear()
		s.CurTree = tree
		s.CurAdf = &root
		s.CurDF = &file
		s.CurFile = &file
		return nil

	default: // EF-Transparent, EF-LinearFixed, EF-Cyclic, or a leaf DO
		root, err := tree.RootFile()
		if err != nil {
			return err
		}
		parentOffset := f.TreeOffset - f.Header.OffsetPrel
		parent, err := disk.ParseFileAt(tree, parentOffset)
		if err != nil {
			return err
		}
		file := f
		s.clear()
		s.CurTree = tree
		s.CurAdf = &root
		s.CurDF = &parent
		s.CurEF = &file
		s.CurFile = &file
		return nil
	}
}
