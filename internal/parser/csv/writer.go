package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"trackremap/internal/table"
)

// emptyRecord is a record of one empty field. encoding/csv writes it as a
// blank line, which readers skip, so it is quoted explicitly.
const emptyRecord = `""` + "\n"

// WriteTable writes t as CSV: the header row, then one record per row, LF
// line endings, quoting only where needed.
func WriteTable(w io.Writer, t *table.Table, opt Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = opt.comma()
	if err := writeRecord(w, cw, t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writeRecord(w, cw, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

func writeRecord(w io.Writer, cw *csv.Writer, rec []string) error {
	if len(rec) != 1 || rec[0] != "" {
		return cw.Write(rec)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, emptyRecord)
	return err
}
