// Package xlsx reads catalog exports delivered as Excel workbooks.
package xlsx

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"trackremap/internal/config"
	"trackremap/internal/table"
)

// Options configures the workbook reader.
type Options struct {
	// Sheet names the worksheet to read. Empty means the first sheet.
	Sheet string
	// TrimHeader trims surrounding whitespace from header cells.
	TrimHeader bool
}

// OptionsFrom reads the sheet and trim_header keys from a job's option bag.
func OptionsFrom(o config.Options) Options {
	return Options{
		Sheet:      o.String("sheet", ""),
		TrimHeader: o.Bool("trim_header", true),
	}
}

// ReadTable reads one worksheet of the workbook in r. The first row is the
// header. excelize drops trailing empty cells, so short rows are padded; a
// row with values past the last header column is an error.
func ReadTable(ctx context.Context, r io.Reader, opt Options) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}

	hdr := table.NormalizeHeader(raw[0], opt.TrimHeader)
	rows := make([][]string, 0, len(raw)-1)
	for i, rec := range raw[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, ok := table.Fit(rec, len(hdr))
		if !ok {
			return nil, fmt.Errorf("sheet %q row %d: %d cells, header has %d", sheet, i+2, len(rec), len(hdr))
		}
		rows = append(rows, row)
	}
	return table.New(hdr, rows)
}
