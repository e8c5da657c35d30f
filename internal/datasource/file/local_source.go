// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrNotFound is returned when the configured input file does not exist.
var ErrNotFound = errors.New("input file not found")

// Local is a filesystem data source that opens files from the local disk.
type Local struct{ path string }

// NewLocal returns a new Local data source bound to the provided filesystem
// path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Name returns the path the source reads.
func (l *Local) Name() string { return l.path }

// Check stats the path. A missing path yields an error wrapping ErrNotFound
// whose message reads "input file not found: <path>"; a directory is
// rejected as well.
func (l *Local) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fi, err := os.Stat(l.path)
	if err != nil {
		return l.wrap(err)
	}
	if fi.IsDir() {
		return fmt.Errorf("input %s is a directory", l.path)
	}
	return nil
}

// Open opens the configured path for reading and returns an io.ReadCloser.
//
// Behavior:
//   - If the context is already canceled or its deadline exceeded at the time
//     of the call, Open returns the context error immediately without touching
//     the filesystem.
//   - A missing file is reported like Check does, so callers can match it
//     with errors.Is(err, ErrNotFound) or errors.Is(err, os.ErrNotExist).
//   - The kernel is told the file will be read sequentially.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, l.wrap(err)
	}
	adviseSequential(f)
	return f, nil
}

func (l *Local) wrap(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &notFoundError{path: l.path, err: err}
	}
	return fmt.Errorf("open %s: %w", l.path, err)
}

type notFoundError struct {
	path string
	err  error
}

func (e *notFoundError) Error() string { return ErrNotFound.Error() + ": " + e.path }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *notFoundError) Unwrap() error { return e.err }
