// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from a remap run.
//
// It exposes a narrow Backend interface (counters and timing observations)
// behind a global, pluggable backend that defaults to a no-op, so recording
// is always safe even when no metrics system is configured. Concrete systems
// live in subpackages (prompush, datadog).
package metrics

import (
	"sync"
	"time"
)

// Metric names emitted by the helpers below.
const (
	StepTotal    = "remap_step_total"
	StepDuration = "remap_step_duration_seconds"
	RowsTotal    = "remap_rows_total"
	ColumnsTotal = "remap_columns_total"
	BatchesTotal = "remap_batches_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a concrete backend. Passing nil restores the no-op
// backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		b = nopBackend{}
	}
	backend = b
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep counts one execution of a run step and observes its duration,
// labeled with the outcome.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}

	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRows increments the row counter for kind ("read", "written",
// "loaded").
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordColumns increments the column counter for kind ("renamed",
// "dropped", "skipped").
func RecordColumns(job, kind string, delta int) {
	if delta <= 0 {
		return
	}
	current().IncCounter(ColumnsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches increments the load batch counter.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}
