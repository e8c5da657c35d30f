// Package parser turns an export's bytes into a table.Table, choosing the
// reader by the job's parser kind.
package parser

import (
	"context"
	"fmt"
	"io"

	"trackremap/internal/config"
	"trackremap/internal/parser/csv"
	"trackremap/internal/parser/xlsx"
	"trackremap/internal/table"
)

// Parser reads a whole export.
type Parser interface {
	Parse(ctx context.Context, r io.Reader) (*table.Table, error)
	// Header reads just enough of r to return the normalized header.
	Header(ctx context.Context, r io.Reader) ([]string, error)
}

// New returns the parser for p.Kind ("csv" or "xlsx").
func New(p config.Parser) (Parser, error) {
	switch p.Kind {
	case "", "csv":
		return csvParser{opt: csv.OptionsFrom(p.Options)}, nil
	case "xlsx":
		return xlsxParser{opt: xlsx.OptionsFrom(p.Options)}, nil
	default:
		return nil, fmt.Errorf("unsupported parser kind %q", p.Kind)
	}
}

type csvParser struct{ opt csv.Options }

func (c csvParser) Parse(ctx context.Context, r io.Reader) (*table.Table, error) {
	return csv.ReadTable(ctx, r, c.opt)
}

func (c csvParser) Header(ctx context.Context, r io.Reader) ([]string, error) {
	return csv.ReadHeader(ctx, r, c.opt)
}

type xlsxParser struct{ opt xlsx.Options }

func (x xlsxParser) Parse(ctx context.Context, r io.Reader) (*table.Table, error) {
	return xlsx.ReadTable(ctx, r, x.opt)
}

// Header loads the workbook; xlsx has no cheaper way to reach the first row.
func (x xlsxParser) Header(ctx context.Context, r io.Reader) ([]string, error) {
	t, err := xlsx.ReadTable(ctx, r, x.opt)
	if err != nil {
		return nil, err
	}
	return t.Columns, nil
}
