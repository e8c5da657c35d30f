// Package logging builds the process logger: a text or JSON slog handler on
// a writer (stderr in the CLI), optionally fanned out to a Seq server.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	slogseq "github.com/sokkalf/slog-seq"

	"trackremap/internal/config"
)

// seqFlushInterval bounds how long a record waits in the Seq batch.
const seqFlushInterval = 500 * time.Millisecond

// newSeq is a test hook around slogseq.NewLogger.
var newSeq = func(url string, level slog.Level) (slog.Handler, func()) {
	_, h := slogseq.NewLogger(
		url,
		slogseq.WithBatchSize(1),
		slogseq.WithFlushInterval(seqFlushInterval),
		slogseq.WithHandlerOptions(&slog.HandlerOptions{Level: level}),
	)
	if h == nil {
		return nil, func() {}
	}
	return h, func() { h.Close() }
}

// ParseLevel maps a config level to a slog.Level. Unknown or empty values
// are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing to w and a close function that flushes any
// remote handler. Every record carries the job name and a fresh run_id.
func New(cfg config.Logging, job string, w io.Writer) (*slog.Logger, func()) {
	level := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var local slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		local = slog.NewJSONHandler(w, opts)
	} else {
		local = slog.NewTextHandler(w, opts)
	}

	handler, closeFn := local, func() {}
	if cfg.SeqURL != "" {
		if seq, closeSeq := newSeq(cfg.SeqURL, level); seq != nil {
			handler = &multiHandler{handlers: []slog.Handler{local, seq}}
			closeFn = closeSeq
		}
	}

	logger := slog.New(handler).With(
		slog.String("job", job),
		slog.String("run_id", uuid.NewString()),
	)
	return logger, closeFn
}

// multiHandler forwards each record to every handler.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers r to every enabled handler and joins their errors, so a
// Seq outage never silences the local log.
func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
