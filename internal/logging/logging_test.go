package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackremap/internal/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closeFn := New(config.Logging{Level: "info", Format: "json"}, "gpm_catalog", &buf)
	defer closeFn()

	logger.Debug("hidden")
	logger.Info("wrote output", "rows", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "wrote output", rec["msg"])
	assert.Equal(t, "gpm_catalog", rec["job"])
	assert.EqualValues(t, 3, rec["rows"])

	_, err := uuid.Parse(rec["run_id"].(string))
	assert.NoError(t, err)
}

func TestNew_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closeFn := New(config.Logging{Level: "debug"}, "j", &buf)
	defer closeFn()

	logger.Debug("reading header")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="reading header"`)
	assert.Contains(t, buf.String(), "job=j")
}

type captureHandler struct {
	level slog.Level
	msgs  []string
	attrs []slog.Attr
	err   error
}

func (c *captureHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= c.level }

func (c *captureHandler) Handle(_ context.Context, r slog.Record) error {
	c.msgs = append(c.msgs, r.Message)
	return c.err
}

func (c *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c.attrs = append(c.attrs, attrs...)
	return c
}

func (c *captureHandler) WithGroup(string) slog.Handler { return c }

func TestNew_SeqFanOut(t *testing.T) {
	orig := newSeq
	defer func() { newSeq = orig }()

	remote := &captureHandler{level: slog.LevelDebug}
	closed := false
	newSeq = func(url string, level slog.Level) (slog.Handler, func()) {
		assert.Equal(t, "http://seq:5341", url)
		assert.Equal(t, slog.LevelWarn, level)
		return remote, func() { closed = true }
	}

	var buf bytes.Buffer
	logger, closeFn := New(config.Logging{Level: "warn", SeqURL: "http://seq:5341"}, "j", &buf)
	logger.Warn("column skipped")
	closeFn()

	assert.Contains(t, buf.String(), "column skipped")
	assert.Equal(t, []string{"column skipped"}, remote.msgs)
	assert.True(t, closed)

	var keys []string
	for _, a := range remote.attrs {
		keys = append(keys, a.Key)
	}
	assert.Equal(t, []string{"job", "run_id"}, keys)
}

var testTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestMultiHandler(t *testing.T) {
	t.Parallel()

	quiet := &captureHandler{level: slog.LevelError}
	failing := &captureHandler{level: slog.LevelDebug, err: errors.New("seq down")}
	m := &multiHandler{handlers: []slog.Handler{quiet, failing}}

	ctx := context.Background()
	assert.True(t, m.Enabled(ctx, slog.LevelInfo))

	err := m.Handle(ctx, slog.NewRecord(testTime, slog.LevelInfo, "hello", 0))
	assert.ErrorContains(t, err, "seq down")
	assert.Empty(t, quiet.msgs)
	assert.Equal(t, []string{"hello"}, failing.msgs)
}
