package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestHistogram(t *testing.T) {
	h := NewHistogram(100)
	for i := 1; i <= 10; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	if h.Count() != 10 {
		t.Errorf("Count() = %d, want 10", h.Count())
	}
	if got := h.Mean(); got != 5.5 {
		t.Errorf("Mean() = %v, want 5.5", got)
	}
	if got := h.Percentile(50); got != 5.5 {
		t.Errorf("Percentile(50) = %v, want 5.5", got)
	}
	if got := h.Max(); got != 10 {
		t.Errorf("Max() = %v, want 10", got)
	}
}

func TestHistogramTrimsOldest(t *testing.T) {
	h := NewHistogram(10)
	for i := 0; i < 11; i++ {
		h.Record(time.Millisecond)
	}
	if h.Count() != 9 {
		t.Errorf("expected window trimmed to 9 samples, got %d", h.Count())
	}
}

func TestHistogramEmpty(t *testing.T) {
	h := NewHistogram(0)
	if h.Mean() != 0 || h.Percentile(95) != 0 || h.Max() != 0 {
		t.Error("empty histogram should report zeros")
	}
}

func TestFetchMetricsConcurrent(t *testing.T) {
	m := NewFetchMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.RecordAttempt(time.Millisecond)
			if i%2 == 0 {
				m.RecordOutcome("ok")
			} else {
				m.RecordOutcome("not_found")
				m.RecordRetry()
			}
		}(i)
	}
	wg.Wait()

	stats := m.Snapshot()
	if stats.Requests != 20 {
		t.Errorf("Requests = %d, want 20", stats.Requests)
	}
	if stats.Retries != 10 {
		t.Errorf("Retries = %d, want 10", stats.Retries)
	}
	if stats.Outcome("ok") != 10 || stats.Outcome("not_found") != 10 {
		t.Errorf("unexpected outcomes: %+v", stats.Outcomes)
	}
	if stats.Outcomes[0].Outcome != "not_found" {
		t.Errorf("outcomes should be sorted, got %+v", stats.Outcomes)
	}
	if stats.Outcome("timeout") != 0 {
		t.Error("unrecorded outcome should be zero")
	}
}
