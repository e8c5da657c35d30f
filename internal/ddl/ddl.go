// Package ddl renders the small amount of DDL the catalog loader needs:
// CREATE TABLE for an all-text table and DELETE FROM for a replace load.
//
// A Dialect captures the differences between backends (identifier quoting,
// the text column type and how "create if missing" is spelled). The table
// model itself is backend-agnostic.
package ddl

import (
	"fmt"
	"strings"
)

// ColumnDef describes one column.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef describes a table by possibly schema-qualified name.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Dialect is a backend's SQL flavor.
type Dialect struct {
	// Name labels errors, e.g. "postgres".
	Name string
	// QuoteIdent quotes a single identifier.
	QuoteIdent func(string) string
	// TextType is the column type used for catalog cells.
	TextType string
	// Guard wraps a CREATE TABLE statement so it is a no-op when the table
	// exists. Nil means the dialect supports CREATE TABLE IF NOT EXISTS.
	Guard func(fqn, quotedFQN, create string) string
}

// TextTable returns a definition with one nullable TextType column per name.
func (d Dialect) TextTable(fqn string, columns []string) TableDef {
	cols := make([]ColumnDef, len(columns))
	for i, c := range columns {
		cols[i] = ColumnDef{Name: c, SQLType: d.TextType, Nullable: true}
	}
	return TableDef{FQN: fqn, Columns: cols}
}

// QuoteFQN quotes each dot-separated segment of fqn.
func (d Dialect) QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, d.QuoteIdent(p))
	}
	return strings.Join(out, ".")
}

// CreateTable renders a statement that creates t unless it already exists.
//
//	CREATE TABLE IF NOT EXISTS "tracks" (
//	  "id" text,
//	  "title" text
//	);
func (d Dialect) CreateTable(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s ddl: table FQN must not be empty", d.Name)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s ddl: at least one column is required", d.Name)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s ddl: column with empty name in table %s", d.Name, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("%s ddl: column %s missing SQLType", d.Name, name)
		}
		def := d.QuoteIdent(name) + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}

	q := d.QuoteFQN(fqn)
	if d.Guard == nil {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", q, strings.Join(cols, ",\n  ")), nil
	}
	create := fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", q, strings.Join(cols, ",\n  "))
	return d.Guard(fqn, q, create), nil
}

// DeleteAll renders a statement removing every row of fqn.
func (d Dialect) DeleteAll(fqn string) string {
	return "DELETE FROM " + d.QuoteFQN(fqn)
}

// DoubleQuote quotes an identifier ANSI-style: "col", doubling embedded quotes.
func DoubleQuote(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// Bracket quotes a SQL Server identifier: [col], doubling embedded ].
func Bracket(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }

// Backtick quotes a MySQL identifier: `col`, doubling embedded backticks.
func Backtick(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// Dialects of the built-in backends.
var (
	Postgres = Dialect{Name: "postgres", QuoteIdent: DoubleQuote, TextType: "text"}
	SQLite   = Dialect{Name: "sqlite", QuoteIdent: DoubleQuote, TextType: "TEXT"}
	MySQL    = Dialect{Name: "mysql", QuoteIdent: Backtick, TextType: "TEXT"}
	MSSQL    = Dialect{
		Name:       "mssql",
		QuoteIdent: Bracket,
		TextType:   "NVARCHAR(MAX)",
		// T-SQL has no CREATE TABLE IF NOT EXISTS.
		Guard: func(_, quoted, create string) string {
			lit := strings.ReplaceAll(quoted, "'", "''")
			return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n%s\nEND", lit, create)
		},
	}
)
