// Package table holds the in-memory tabular model shared by readers, the
// remapper and sinks: an ordered header plus rows of raw string cells.
//
// Cells are never converted or trimmed here. A Table read from a CSV export
// and written back without remapping reproduces the same cell bytes.
package table

import (
	"fmt"
	"io"

	"github.com/zeebo/xxh3"
)

// Table is an ordered header with rows aligned to it. Every row has exactly
// len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New builds a Table and checks that every row matches the header width.
func New(columns []string, rows [][]string) (*Table, error) {
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d: %d cells, header has %d", i, len(r), len(columns))
		}
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// Len returns the number of data rows (header excluded).
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the first column named name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether a column named name exists.
func (t *Table) Has(name string) bool { return t.Index(name) >= 0 }

// Row returns an ordered view over row i.
func (t *Table) Row(i int) Row { return Row{cols: t.Columns, vals: t.Rows[i]} }

// Select returns a new Table made of the columns at the given source indexes,
// in that order. Row slices are freshly allocated; cell strings are shared.
func (t *Table) Select(names []string, idx []int) *Table {
	rows := make([][]string, len(t.Rows))
	for r, src := range t.Rows {
		out := make([]string, len(idx))
		for c, si := range idx {
			out[c] = src[si]
		}
		rows[r] = out
	}
	cols := make([]string, len(names))
	copy(cols, names)
	return &Table{Columns: cols, Rows: rows}
}

// Fingerprint is an xxh3 digest of the header and every cell. Two tables
// with the same header and cells in the same order share a fingerprint.
func (t *Table) Fingerprint() uint64 {
	h := xxh3.New()
	writeRecord(h, t.Columns)
	for _, r := range t.Rows {
		writeRecord(h, r)
	}
	return h.Sum64()
}

// writeRecord length-prefixes each cell so that ["a,b"] and ["a","b"] differ.
func writeRecord(w io.Writer, rec []string) {
	fmt.Fprintf(w, "%d\x1e", len(rec))
	for _, c := range rec {
		fmt.Fprintf(w, "%d\x1f", len(c))
		io.WriteString(w, c)
	}
}

// Row is a read-only, ordered view of one table row.
type Row struct {
	cols []string
	vals []string
}

// Get returns the cell under column name. The first matching column wins.
func (r Row) Get(name string) (string, bool) {
	for i, c := range r.cols {
		if c == name {
			return r.vals[i], true
		}
	}
	return "", false
}

// Values returns the cells in column order.
func (r Row) Values() []string { return r.vals }

// Map returns the row as a column → value map. Later duplicates do not
// overwrite earlier ones.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.cols))
	for i, c := range r.cols {
		if _, seen := m[c]; !seen {
			m[c] = r.vals[i]
		}
	}
	return m
}
