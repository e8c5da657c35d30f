package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:catalog.db?_pragma=busy_timeout(5000)"
	//   "catalog.db"
	DSN string

	// Table is the target table, e.g. "tracks". Dotted names such as
	// "main.tracks" are quoted segment by segment.
	Table string

	// Columns is the ordered list of destination columns.
	Columns []string
}
