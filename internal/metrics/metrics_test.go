package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeBackend records every call in memory.
type fakeBackend struct {
	mu sync.Mutex

	counters   []call
	histograms []call
	flushes    int
}

type call struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, call{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histograms = append(f.histograms, call{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return nil
}

func install(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	SetBackend(fb)
	t.Cleanup(func() { SetBackend(nil) })
	return fb
}

func TestRecordStep(t *testing.T) {
	fb := install(t)

	RecordStep("lifeexp", StepLoad, nil, 2*time.Second)
	RecordStep("lifeexp", StepClean, errors.New("boom"), 1500*time.Millisecond)

	if len(fb.counters) != 2 || len(fb.histograms) != 2 {
		t.Fatalf("calls: counters=%d histograms=%d, want 2/2", len(fb.counters), len(fb.histograms))
	}

	c0 := fb.counters[0]
	if c0.name != StepTotal || c0.value != 1 {
		t.Fatalf("counter[0] = %#v", c0)
	}
	if c0.labels["step"] != "load" || c0.labels["status"] != "success" || c0.labels["job"] != "lifeexp" {
		t.Fatalf("counter[0] labels = %v", c0.labels)
	}
	if fb.counters[1].labels["status"] != "failure" {
		t.Fatalf("counter[1] status = %q, want failure", fb.counters[1].labels["status"])
	}

	h := fb.histograms[1]
	if h.name != StepDurationSeconds || h.value < 1.499 || h.value > 1.501 {
		t.Fatalf("histogram[1] = %#v, want ~1.5s", h)
	}
}

func TestRecordRowAndBatches(t *testing.T) {
	fb := install(t)

	RecordRow("lifeexp", RowsLoaded, 4)
	RecordRow("lifeexp", RowsKept, 0)
	RecordRow("lifeexp", RowsDroppedNull, -1)
	RecordBatches("lifeexp", "sqlite", 2)
	RecordBatches("lifeexp", "sqlite", 0)

	if len(fb.counters) != 2 {
		t.Fatalf("counter calls = %d, want 2", len(fb.counters))
	}
	if c := fb.counters[0]; c.name != RowsTotal || c.value != 4 || c.labels["kind"] != "loaded" {
		t.Fatalf("counter[0] = %#v", c)
	}
	if c := fb.counters[1]; c.name != BatchesTotal || c.value != 2 || c.labels["sink"] != "sqlite" {
		t.Fatalf("counter[1] = %#v", c)
	}
}

func TestSetBackendAndFlush(t *testing.T) {
	fb := install(t)

	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if fb.flushes != 1 {
		t.Fatalf("flushes = %d, want 1", fb.flushes)
	}

	SetBackend(nil)
	if _, ok := current().(nopBackend); !ok {
		t.Fatalf("SetBackend(nil) installed %T, want nopBackend", current())
	}
	RecordStep("lifeexp", StepSave, nil, time.Second)
	if len(fb.counters) != 0 {
		t.Fatalf("old backend still receiving calls")
	}
}
