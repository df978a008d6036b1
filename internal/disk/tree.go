package disk

import "github.com/deploymenttheory/go-uicc/internal/types"

// Tree is one contiguous, heap-allocated byte buffer beginning with an MF
// or ADF item header, plus the SID lookup table it owns. The forest holds
// trees in an ordered slice indexed by position — never a self-referential
// pointer chain (spec §9's note against cyclic/graph structures applies
// here: parent/child relations inside a tree are expressed purely by byte
// offsets, never back-pointers).
type Tree struct {
	// Buf is the tree's full byte image, header of the root item first.
	Buf []byte

	// sidLut maps this tree's SFI values to tree-relative header offsets.
	sidLut *SidLut
}

// RootHeader decodes the item header at the start of the tree's buffer.
func (t *Tree) RootHeader() (types.ItemHeader, error) {
	return decodeItemHeaderAt(t.Buf, 0)
}

// RootFile parses the tree's root file (an MF or ADF).
func (t *Tree) RootFile() (types.File, error) {
	return ParseFileAt(t, 0)
}
