// Package metrics is a backend-agnostic facade for the few operational
// metrics a lifeexp run emits: per-step outcome and duration, row counts per
// stage, and SQL batch counts.
//
// The default backend is a no-op, so callers never check whether metrics are
// configured. cmd/lifeexp installs prompush or datadog with SetBackend and
// calls Flush once at the end of the run.
package metrics

import (
	"sync"
	"time"
)

// Metric names shared by all backends.
const (
	StepTotal           = "lifeexp_step_total"
	StepDurationSeconds = "lifeexp_step_duration_seconds"
	RowsTotal           = "lifeexp_rows_total"
	BatchesTotal        = "lifeexp_batches_total"
)

// Step names.
const (
	StepLoad  = "load"
	StepClean = "clean"
	StepSave  = "save"
)

// Row kinds.
const (
	RowsLoaded      = "loaded"
	RowsReshaped    = "reshaped"
	RowsKept        = "kept"
	RowsDroppedNull = "dropped_null"
	RowsSaved       = "saved"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is implemented by each metrics system.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered values, if the backend buffers.
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

// SetBackend installs b. Nil restores the no-op backend.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	mu.Lock()
	backend = b
	mu.Unlock()
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

// RecordStep counts one execution of step and observes its duration.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}

	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRow adds delta rows of kind. Non-positive deltas are ignored.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches adds delta flushed SQL batches for sink.
func RecordBatches(job, sink string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{"job": job, "sink": sink})
}
