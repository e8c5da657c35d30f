package table

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const utf8BOM = "\uFEFF"

// NormalizeHeader cleans header cells as they come off a reader: a UTF-8 BOM
// on the first cell is removed, every cell is NFC-normalized and, when trim
// is set, stripped of surrounding whitespace. h is modified in place and
// returned.
func NormalizeHeader(h []string, trim bool) []string {
	for i, c := range h {
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if trim {
			c = strings.TrimSpace(c)
		}
		h[i] = norm.NFC.String(c)
	}
	return h
}

// Fit pads row with empty cells up to width. It reports false when row is
// wider than width.
func Fit(row []string, width int) ([]string, bool) {
	switch {
	case len(row) == width:
		return row, true
	case len(row) > width:
		return row, false
	}
	out := make([]string, width)
	copy(out, row)
	return out, true
}
