package emulator

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-uicc/internal/disk"
	"github.com/deploymenttheory/go-uicc/internal/types"
	"github.com/deploymenttheory/go-uicc/pkg/ui"
)

// dumpDisk writes one line per file, per tree, in walk order.
func dumpDisk(w io.Writer, d *disk.Disk) error {
	for ti, tree := range d.Trees {
		fmt.Fprintf(w, "tree %d:\n", ti)
		err := disk.WalkTree(tree, func(offset uint32, f types.File) error {
			line := fmt.Sprintf("  %s fid=0x%04x sid=0x%02x size=%d lcs=%s",
				ui.PadRight(f.Header.Type.String(), 16), f.ID, f.SID, f.Header.Size, f.Header.LCS)
			if name := f.NameString(); name != "" {
				line += " name=" + name
			}
			_, werr := fmt.Fprintln(w, line)
			return werr
		})
		if err != nil {
			return fmt.Errorf("dump tree %d: %w", ti, err)
		}
	}
	return nil
}
