// Package csv reads catalog exports into a table.Table and writes tables
// back out as CSV.
//
// The reader is whole-file: the remapper needs every row before it can
// project. Cells are kept as raw
// strings; only header cells are normalized (BOM, NFC, optional trim).
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/transform"

	"trackremap/internal/table"
)

// ErrEmpty is returned when the input has no header row.
var ErrEmpty = errors.New("csv: input has no header row")

// checkEvery is how many records are read between context checks.
const checkEvery = 4096

// ReadHeader reads and normalizes only the header row of r.
func ReadHeader(ctx context.Context, r io.Reader, opt Options) ([]string, error) {
	cr, err := newReader(r, opt)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readHeader(cr, opt)
}

// ReadTable reads all of r into a Table.
//
// Behavior:
//   - The first record is the header; see table.NormalizeHeader.
//   - Records shorter than the header are padded with empty cells.
//   - A record longer than the header fails the read with its line number.
//   - Blank lines are skipped, as encoding/csv does.
func ReadTable(ctx context.Context, r io.Reader, opt Options) (*table.Table, error) {
	cr, err := newReader(r, opt)
	if err != nil {
		return nil, err
	}
	hdr, err := readHeader(cr, opt)
	if err != nil {
		return nil, err
	}

	width := len(hdr)
	var rows [][]string
	for n := 0; ; n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read: %w", err)
		}
		row, ok := table.Fit(rec, width)
		if !ok {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %d fields, header has %d", line, len(rec), width)
		}
		if opt.TrimSpace {
			trimCells(row)
		}
		rows = append(rows, row)
	}
	return table.New(hdr, rows)
}

func newReader(r io.Reader, opt Options) (*csv.Reader, error) {
	dec, err := opt.decoder()
	if err != nil {
		return nil, fmt.Errorf("csv encoding %q: %w", opt.Encoding, err)
	}
	if dec != nil {
		r = transform.NewReader(r, dec)
	}
	cr := csv.NewReader(r)
	cr.Comma = opt.comma()
	cr.LazyQuotes = opt.LazyQuotes
	// Width is checked against the header after padding.
	cr.FieldsPerRecord = -1
	return cr, nil
}

func readHeader(cr *csv.Reader, opt Options) ([]string, error) {
	hdr, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	return table.NormalizeHeader(hdr, opt.TrimHeader), nil
}

func trimCells(row []string) {
	for i, c := range row {
		row[i] = strings.TrimSpace(c)
	}
}
