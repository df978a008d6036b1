package ui

import (
	"strings"

	"golang.org/x/text/width"
)

// DisplayWidth returns s's on-terminal column width: East Asian
// wide/fullwidth runes count as two columns, everything else as one. File
// names on a UICC are usually plain ASCII, but the dump table is a
// general-purpose text renderer and should not misalign on the rare
// fullwidth name.
func DisplayWidth(s string) int {
	w := 0
	for _, r := range s {
		p, _ := width.LookupString(string(r))
		switch p.Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

// PadRight right-pads s with spaces until it occupies at least n display
// columns.
func PadRight(s string, n int) string {
	w := DisplayWidth(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}
