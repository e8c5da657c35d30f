// Package datasource defines where a catalog export is read from.
package datasource

import (
	"context"
	"io"
)

// Source yields the raw bytes of an export.
type Source interface {
	// Check reports whether the source can be opened without opening it.
	Check(ctx context.Context) error
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name identifies the source in logs and errors.
	Name() string
}
