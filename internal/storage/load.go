package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"trackremap/internal/metrics"
	"trackremap/internal/table"
)

// LoadOptions configures LoadTable.
type LoadOptions struct {
	// Job labels metrics.
	Job string
	// Kind selects the DDL bootstrapper.
	Kind string
	// Table is the destination table.
	Table string
	// Columns are the destination columns aligned with the table's columns.
	// Empty means the table's own column names.
	Columns []string
	// AutoCreate creates the destination table when missing.
	AutoCreate bool
	// Replace deletes existing rows before loading.
	Replace bool
	// BatchSize is the number of rows per CopyFrom call.
	BatchSize int
}

// LoadResult summarizes a load.
type LoadResult struct {
	Rows    int64
	Batches int64
}

// LoadTable loads every row of t into repo. Empty cells become NULL.
//
// The optional steps run in order: create the table, delete existing rows,
// then stream rows through LoadBatches. Batches commit independently, so a
// failed load can leave a partial table behind; rerunning with Replace
// restores a complete one.
func LoadTable(ctx context.Context, repo Repository, t *table.Table, opt LoadOptions) (LoadResult, error) {
	cols := opt.Columns
	if len(cols) == 0 {
		cols = t.Columns
	}
	if len(cols) != len(t.Columns) {
		return LoadResult{}, fmt.Errorf("load: %d destination columns for %d table columns", len(cols), len(t.Columns))
	}
	batchSize := opt.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	if opt.AutoCreate {
		if err := EnsureTable(ctx, opt.Kind, repo, opt.Table, cols); err != nil {
			return LoadResult{}, fmt.Errorf("ensure table %s: %w", opt.Table, err)
		}
	}
	if opt.Replace {
		if err := repo.DeleteAll(ctx); err != nil {
			return LoadResult{}, fmt.Errorf("clear table %s: %w", opt.Table, err)
		}
		slog.Info("loader: cleared table", "table", opt.Table)
	}

	var (
		res     LoadResult
		batches atomic.Int64
	)
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		n, err := repo.CopyFrom(ctx, columns, rows)
		if err == nil {
			batches.Add(1)
			metrics.RecordBatches(opt.Job, 1)
		}
		return n, err
	}

	g, gctx := errgroup.WithContext(ctx)
	rows := make(chan []any, batchSize)

	g.Go(func() error {
		defer close(rows)
		for _, r := range t.Rows {
			select {
			case rows <- values(r):
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	g.Go(func() error {
		n, err := LoadBatches(gctx, cols, rows, batchSize, copyFn)
		res.Rows = n
		return err
	})

	err := g.Wait()
	res.Batches = batches.Load()
	if err != nil {
		return res, fmt.Errorf("load %s: %w", opt.Table, err)
	}
	return res, nil
}

// values converts a row of cells into driver values, mapping "" to nil.
func values(row []string) []any {
	out := make([]any, len(row))
	for i, c := range row {
		if c != "" {
			out[i] = c
		}
	}
	return out
}
