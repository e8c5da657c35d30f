// Package sink writes remapped tables to their destination.
package sink

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"

	"trackremap/internal/parser/csv"
	"trackremap/internal/table"
)

// Stats describes a completed write.
type Stats struct {
	Path        string
	Rows        int
	Bytes       int64
	Fingerprint uint64
	// Digest is the xxh3 hash of the bytes written.
	Digest uint64
}

// File writes a table as CSV to a path. The write is atomic: the table goes
// to a temporary file in the destination directory, which is synced and then
// renamed over the destination. A failed write leaves the destination as it
// was, so overwriting the input file in place is safe.
type File struct {
	path string
	opt  csv.Options
}

// NewFile returns a File sink for path.
func NewFile(path string, opt csv.Options) *File { return &File{path: path, opt: opt} }

// Path returns the destination path.
func (f *File) Path() string { return f.path }

// Write serializes t to the destination.
func (f *File) Write(ctx context.Context, t *table.Table) (st Stats, err error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	perm := fs.FileMode(0o644)
	if fi, serr := os.Stat(f.path); serr == nil {
		if fi.IsDir() {
			return Stats{}, fmt.Errorf("output %s is a directory", f.path)
		}
		perm = fi.Mode().Perm()
	} else if !errors.Is(serr, fs.ErrNotExist) {
		return Stats{}, fmt.Errorf("stat %s: %w", f.path, serr)
	}

	dir, base := filepath.Split(f.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return Stats{}, fmt.Errorf("create temp for %s: %w", f.path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	cw := &countingWriter{w: tmp, h: xxh3.New()}
	bw := bufio.NewWriterSize(cw, 64*1024)
	if err = csv.WriteTable(bw, t, f.opt); err != nil {
		return Stats{}, fmt.Errorf("write %s: %w", f.path, err)
	}
	if err = bw.Flush(); err != nil {
		return Stats{}, fmt.Errorf("flush %s: %w", f.path, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return Stats{}, fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err = tmp.Sync(); err != nil {
		return Stats{}, fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return Stats{}, fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, f.path); err != nil {
		return Stats{}, fmt.Errorf("rename %s -> %s: %w", tmpPath, f.path, err)
	}

	return Stats{
		Path:        f.path,
		Rows:        t.Len(),
		Bytes:       cw.n,
		Fingerprint: t.Fingerprint(),
		Digest:      cw.h.Sum64(),
	}, nil
}

type countingWriter struct {
	w io.Writer
	h *xxh3.Hasher
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	_, _ = c.h.Write(p[:n])
	return n, err
}
