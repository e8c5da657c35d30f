// Package sqlite wires the SQLite backend into the storage factory.
package sqlite

import (
	"context"
	"fmt"

	"trackremap/internal/ddl"
	"trackremap/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adds Close, backed by the close function NewRepository returns.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

func createTable(ctx context.Context, repo storage.Repository, table string, columns []string) error {
	sql, err := ddl.SQLite.CreateTable(ddl.SQLite.TextTable(table, columns))
	if err != nil {
		return fmt.Errorf("infer table definition: %w", err)
	}
	return repo.Exec(ctx, sql)
}

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDDL("sqlite", createTable)
}
