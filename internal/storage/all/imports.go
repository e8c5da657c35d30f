// Package all wires every built-in storage backend into the storage factory.
//
// It exists for side effects only: importing it runs each backend's init,
// which registers a factory and a DDL bootstrapper with package storage.
// After a blank import the following storage kinds are available:
//
//   - "postgres" (pgx COPY, also Supabase)
//   - "mssql"    (bulk copy)
//   - "mysql"    (multi-row INSERT)
//   - "sqlite"   (pure Go, no cgo)
//
// Usage:
//
//	import _ "trackremap/internal/storage/all"
//
//	repo, err := storage.New(ctx, storage.Config{
//	    Kind:    job.Storage.Kind,
//	    DSN:     job.Storage.DB.DSN,
//	    Table:   job.Storage.DB.Table,
//	    Columns: columns,
//	})
//
// A binary that needs only a subset of backends can blank-import the
// individual packages instead.
package all

import (
	_ "trackremap/internal/storage/mssql"
	_ "trackremap/internal/storage/mysql"
	_ "trackremap/internal/storage/postgres"
	_ "trackremap/internal/storage/sqlite"
)
