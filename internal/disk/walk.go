package disk

import (
	"fmt"

	"github.com/deploymenttheory/go-uicc/internal/types"
)

// frame holds the scanning cursor for one folder's content region. cursor
// advances across the folder's direct children; when it reaches end, the
// frame is popped and the parent's cursor is advanced past the folder
// that owned this frame.
type frame struct {
	cursor uint32
	end    uint32

	fileOffset uint32 // tree offset of the folder's own header
	fileSize   uint32 // the folder's own total item size
}

// WalkTree performs the bounded depth-first file walk described in spec
// §4.1: starting at the root (offset 0), visit is invoked once per file
// encountered, in tree order. Folders are descended into; EFs are
// skipped over by their full size. The walk uses a stack bounded by
// MaxNestingDepth, matching the tree's own depth limit (MF/ADF -> DF ->
// EF), and fails on any item type it cannot classify.
func WalkTree(tree *Tree, visit func(offset uint32, f types.File) error) error {
	return walkWithParent(tree, func(offset, _ uint32, _ bool, f types.File) error {
		return visit(offset, f)
	})
}

// walkWithParent is WalkTree's engine, additionally reporting each file's
// parent offset (and whether the file is the tree root) so callers like
// Validate can check the offset_prel invariant.
func walkWithParent(tree *Tree, visit func(offset, parentOffset uint32, isRoot bool, f types.File) error) error {
	root, err := ParseFileAt(tree, 0)
	if err != nil {
		return err
	}
	if !root.Header.Type.IsTreeRoot() {
		return fmt.Errorf("walk: root item type %s is not MF/ADF: %w", root.Header.Type, types.ErrFatal)
	}
	if err := visit(0, 0, true, root); err != nil {
		return err
	}

	stack := make([]frame, 0, types.MaxNestingDepth)
	stack = append(stack, frame{
		cursor:     root.DataOffset,
		end:        root.DataOffset + root.DataSize,
		fileOffset: 0,
		fileSize:   root.Header.Size,
	})

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.cursor >= top.end {
			finishedOffset, finishedSize := top.fileOffset, top.fileSize
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				stack[len(stack)-1].cursor = finishedOffset + finishedSize
			}
			continue
		}

		parentOffset := top.fileOffset
		f, err := ParseFileAt(tree, top.cursor)
		if err != nil {
			return err
		}
		if f.Header.Type == types.ItemInvalid {
			return fmt.Errorf("walk: invalid item type at offset %d: %w", top.cursor, types.ErrFatal)
		}
		if err := visit(top.cursor, parentOffset, false, f); err != nil {
			return err
		}

		if f.Header.Type.IsFolder() {
			if len(stack) >= types.MaxNestingDepth-1 {
				return fmt.Errorf("walk: nesting depth exceeds %d at offset %d: %w", types.MaxNestingDepth, top.cursor, types.ErrFatal)
			}
			stack = append(stack, frame{
				cursor:     f.DataOffset,
				end:        f.DataOffset + f.DataSize,
				fileOffset: f.TreeOffset,
				fileSize:   f.Header.Size,
			})
		} else {
			top.cursor = f.TreeOffset + f.Header.Size
		}
	}

	return nil
}
