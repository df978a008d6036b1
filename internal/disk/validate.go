package disk

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/deploymenttheory/go-uicc/internal/types"
)

// Validate walks every tree in d and checks every invariant spec §8 lists
// for a generated disk image. Unlike a handler, it never stops at the
// first violation: every finding is collected with multierr.Append and
// returned together, the same "accumulate, don't short-circuit" shape the
// teacher's own multi-check analyzers use. Validate returns nil if d has
// no findings.
func Validate(d *Disk) error {
	var errs error

	for ti, tree := range d.Trees {
		var coveredBytes uint32

		walkErr := walkWithParent(tree, func(offset, parentOffset uint32, isRoot bool, f types.File) error {
			// A folder's Header.Size already spans all of its
			// descendants' bytes, so only its own header contributes
			// here; the descendants add their own full size when the
			// walk reaches them. An EF has no descendants, so its full
			// size counts.
			if f.IsFolder() {
				coveredBytes += f.HeaderSize()
			} else {
				coveredBytes += f.Header.Size
			}

			wantOffsetPrel := uint32(0)
			if !isRoot {
				wantOffsetPrel = offset - parentOffset
			}
			if f.Header.OffsetPrel != wantOffsetPrel {
				errs = multierr.Append(errs, fmt.Errorf(
					"tree %d offset %d: offset_prel = %d, want %d",
					ti, offset, f.Header.OffsetPrel, wantOffsetPrel))
			}

			if f.ID != 0 {
				errs = multierr.Append(errs, validateIdLutEntry(d, ti, offset, f))
			}

			return nil
		})
		if walkErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("tree %d: walk: %w", ti, walkErr))
			continue
		}

		if coveredBytes != uint32(len(tree.Buf)) {
			errs = multierr.Append(errs, fmt.Errorf(
				"tree %d: walk covered %d bytes, tree is %d bytes", ti, coveredBytes, len(tree.Buf)))
		}
	}

	keys := d.idLut.Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			errs = multierr.Append(errs, fmt.Errorf(
				"id lut not strictly ascending at index %d: 0x%04x >= 0x%04x", i, keys[i-1], keys[i]))
		}
	}

	return errs
}

// validateIdLutEntry checks that the disk-wide ID LUT resolves f's FID
// back to the same tree index and byte-identical header that the walk
// just observed.
func validateIdLutEntry(d *Disk, treeIndex int, offset uint32, f types.File) error {
	rti, roff, ok := d.idLut.Lookup(f.ID)
	if !ok {
		return fmt.Errorf("tree %d offset %d: fid 0x%04x missing from id lut", treeIndex, offset, f.ID)
	}
	if int(rti) != treeIndex {
		return fmt.Errorf("tree %d offset %d: id lut points fid 0x%04x at tree %d instead", treeIndex, offset, f.ID, rti)
	}
	lutFile, err := ParseFileAt(d.Trees[rti], roff)
	if err != nil {
		return fmt.Errorf("tree %d offset %d: id lut lookup for fid 0x%04x: %w", treeIndex, offset, f.ID, err)
	}
	if lutFile.Header != f.Header {
		return fmt.Errorf("tree %d offset %d: id lut entry for fid 0x%04x has a different header", treeIndex, offset, f.ID)
	}
	return nil
}
