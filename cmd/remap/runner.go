package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"trackremap/internal/config"
	"trackremap/internal/datasource"
	"trackremap/internal/datasource/file"
	"trackremap/internal/metrics"
	"trackremap/internal/parser"
	"trackremap/internal/parser/csv"
	"trackremap/internal/remap"
	"trackremap/internal/sink"
	"trackremap/internal/storage"
	"trackremap/internal/table"
)

// Function variables used as test seams.
var (
	runJobFn  = runJob
	dryRunFn  = dryRun
	openSrcFn = func(path string) datasource.Source { return file.NewLocal(path) }

	newRepositoryFn = storage.New
)

// summary is what a successful run reports on stdout.
type summary struct {
	Input   string
	Output  string
	Rows    int
	Columns int
	Skipped []string
	// Unchanged is set when an in-place rewrite left the file's bytes as
	// they were.
	Unchanged bool
	Loaded    int64
	Table     string
}

func (s summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "wrote %d rows x %d columns to %s", s.Rows, s.Columns, s.Output)
	if s.Unchanged {
		sb.WriteString(" (unchanged)")
	}
	if len(s.Skipped) > 0 {
		fmt.Fprintf(&sb, "; skipped missing columns: %s", strings.Join(s.Skipped, ", "))
	}
	if s.Table != "" {
		fmt.Fprintf(&sb, "; loaded %d rows into %s", s.Loaded, s.Table)
	}
	return sb.String()
}

// step times fn and records it under name.
func step(job, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return err
}

// runJob executes check, read, remap, write and the optional load. Nothing
// is written unless every earlier step succeeded.
func runJob(ctx context.Context, job config.Job, logger *slog.Logger) (summary, error) {
	sum := summary{Input: job.InputPath(), Output: job.OutputPath()}

	spec, err := job.RemapSpec()
	if err != nil {
		return sum, err
	}
	if err := spec.Validate(); err != nil {
		return sum, err
	}
	p, err := parser.New(job.Parser)
	if err != nil {
		return sum, err
	}

	src := openSrcFn(job.InputPath())
	if err := step(job.Name, "check", func() error { return src.Check(ctx) }); err != nil {
		return sum, err
	}

	var (
		in       *table.Table
		inDigest uint64
	)
	err = step(job.Name, "read", func() error {
		var err error
		in, inDigest, err = readTable(ctx, src, p)
		return err
	})
	if err != nil {
		return sum, err
	}
	metrics.RecordRows(job.Name, "read", int64(in.Len()))
	logger.Debug("read input", "path", src.Name(), "rows", in.Len(), "columns", len(in.Columns))

	var (
		out *table.Table
		res remap.Result
	)
	err = step(job.Name, "remap", func() error {
		var err error
		out, res, err = remap.Apply(in, spec)
		return err
	})
	if err != nil {
		return sum, err
	}
	metrics.RecordColumns(job.Name, "renamed", len(res.Renamed))
	metrics.RecordColumns(job.Name, "dropped", len(res.Dropped))
	metrics.RecordColumns(job.Name, "skipped", len(res.Skipped))
	logger.Debug("remapped", "renamed", res.Renamed, "dropped", res.Dropped)
	if len(res.Skipped) > 0 {
		logger.Warn("projected columns missing from input", "columns", res.Skipped)
	}
	sum.Skipped = res.Skipped

	var st sink.Stats
	err = step(job.Name, "write", func() error {
		var err error
		st, err = sink.NewFile(job.OutputPath(), csv.DefaultOptions()).Write(ctx, out)
		return err
	})
	if err != nil {
		return sum, err
	}
	metrics.RecordRows(job.Name, "written", int64(st.Rows))
	sum.Rows, sum.Columns = st.Rows, len(out.Columns)
	sum.Unchanged = job.Sink.InPlace && inDigest == st.Digest
	logger.Info("wrote output", "path", st.Path, "rows", st.Rows, "bytes", st.Bytes)

	if job.Storage.Kind == "" {
		return sum, nil
	}
	var lr storage.LoadResult
	err = step(job.Name, "load", func() error {
		var err error
		lr, err = load(ctx, job, out)
		return err
	})
	if err != nil {
		return sum, err
	}
	metrics.RecordRows(job.Name, "loaded", lr.Rows)
	sum.Loaded, sum.Table = lr.Rows, job.Storage.DB.Table
	return sum, nil
}

// readTable parses src and returns the xxh3 digest of its raw bytes.
func readTable(ctx context.Context, src datasource.Source, p parser.Parser) (*table.Table, uint64, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	h := xxh3.New()
	tee := io.TeeReader(rc, h)
	t, err := p.Parse(ctx, tee)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", src.Name(), err)
	}
	// Parsers may stop before EOF.
	if _, err := io.Copy(io.Discard, tee); err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", src.Name(), err)
	}
	return t, h.Sum64(), nil
}

func load(ctx context.Context, job config.Job, t *table.Table) (storage.LoadResult, error) {
	db := job.Storage.DB
	cols := db.Columns
	if len(cols) == 0 {
		cols = t.Columns
	}
	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind:    job.Storage.Kind,
		DSN:     db.DSN,
		Table:   db.Table,
		Columns: cols,
	})
	if err != nil {
		return storage.LoadResult{}, fmt.Errorf("open %s storage: %w", job.Storage.Kind, err)
	}
	defer repo.Close()

	return storage.LoadTable(ctx, repo, t, storage.LoadOptions{
		Job:        job.Name,
		Kind:       job.Storage.Kind,
		Table:      db.Table,
		Columns:    cols,
		AutoCreate: db.AutoCreateTable,
		Replace:    db.Replace,
		BatchSize:  db.BatchSize,
	})
}

// dryRun reads only the input header and prints what a run would do. It
// fails like a strict run would when projected columns are missing.
func dryRun(ctx context.Context, job config.Job, w io.Writer) error {
	spec, err := job.RemapSpec()
	if err != nil {
		return err
	}
	p, err := parser.New(job.Parser)
	if err != nil {
		return err
	}
	src := openSrcFn(job.InputPath())
	if err := src.Check(ctx); err != nil {
		return err
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	header, err := p.Header(ctx, rc)
	if err != nil {
		return fmt.Errorf("read %s: %w", src.Name(), err)
	}

	plan := remap.PlanFor(header, spec)
	printPlan(w, job, plan)
	if !plan.OK() {
		return &remap.MissingColumnError{Missing: plan.Missing, Available: header}
	}
	return nil
}

func printPlan(w io.Writer, job config.Job, plan remap.Plan) {
	list := func(s []string) string {
		if len(s) == 0 {
			return "-"
		}
		return strings.Join(s, ", ")
	}
	fmt.Fprintf(w, "input:   %s\n", job.InputPath())
	fmt.Fprintf(w, "output:  %s\n", job.OutputPath())
	fmt.Fprintf(w, "mode:    %s\n", plan.Mode)
	fmt.Fprintf(w, "rename:  %s\n", list(plan.Renamed))
	fmt.Fprintf(w, "keep:    %s\n", list(plan.Kept))
	fmt.Fprintf(w, "drop:    %s\n", list(plan.Dropped))
	fmt.Fprintf(w, "missing: %s\n", list(plan.Missing))
}
