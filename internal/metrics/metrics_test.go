package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu         sync.Mutex
	counters   []counterCall
	histograms []histCall
	flushes    int
	flushErr   error
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histograms = append(f.histograms, histCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return f.flushErr
}

// install swaps in fb for the duration of the test. Tests using it must not
// run in parallel.
func install(t *testing.T, fb *fakeBackend) {
	t.Helper()
	SetBackend(fb)
	t.Cleanup(func() { SetBackend(nil) })
}

func TestRecordStep(t *testing.T) {
	fb := &fakeBackend{}
	install(t, fb)

	RecordStep("gpm", "read", nil, 2*time.Second)
	RecordStep("gpm", "remap", errors.New("boom"), 1500*time.Millisecond)

	require.Len(t, fb.counters, 2)
	require.Len(t, fb.histograms, 2)

	assert.Equal(t, counterCall{StepTotal, 1, Labels{"job": "gpm", "step": "read", "status": "success"}}, fb.counters[0])
	assert.Equal(t, "failure", fb.counters[1].labels["status"])
	assert.Equal(t, histCall{StepDuration, 1.5, Labels{"job": "gpm", "step": "remap", "status": "failure"}}, fb.histograms[1])
}

func TestRecordRowsColumnsBatches(t *testing.T) {
	fb := &fakeBackend{}
	install(t, fb)

	RecordRows("gpm", "read", 3)
	RecordRows("gpm", "written", 0)
	RecordColumns("gpm", "skipped", 2)
	RecordColumns("gpm", "dropped", -1)
	RecordBatches("gpm", 4)

	assert.Equal(t, []counterCall{
		{RowsTotal, 3, Labels{"job": "gpm", "kind": "read"}},
		{ColumnsTotal, 2, Labels{"job": "gpm", "kind": "skipped"}},
		{BatchesTotal, 4, Labels{"job": "gpm"}},
	}, fb.counters)
}

func TestFlushAndReset(t *testing.T) {
	fb := &fakeBackend{flushErr: errors.New("gateway down")}
	install(t, fb)

	assert.EqualError(t, Flush(), "gateway down")
	assert.Equal(t, 1, fb.flushes)

	SetBackend(nil)
	assert.NoError(t, Flush())
	RecordRows("gpm", "read", 1)
	assert.Empty(t, fb.counters)
}
