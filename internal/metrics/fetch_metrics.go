package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// FetchMetrics tracks remote lookups for one run. All methods are safe for
// concurrent use by the fan-out workers.
type FetchMetrics struct {
	Latency *Histogram

	Requests atomic.Uint64
	Retries  atomic.Uint64

	mu       sync.Mutex
	outcomes map[string]uint64

	startTime time.Time
}

// NewFetchMetrics creates an empty collector.
func NewFetchMetrics() *FetchMetrics {
	return &FetchMetrics{
		Latency:   NewHistogram(10000),
		outcomes:  make(map[string]uint64),
		startTime: time.Now(),
	}
}

// RecordAttempt counts one HTTP round trip and its latency.
func (m *FetchMetrics) RecordAttempt(d time.Duration) {
	m.Requests.Add(1)
	m.Latency.Record(d)
}

// RecordRetry counts a retried attempt.
func (m *FetchMetrics) RecordRetry() {
	m.Retries.Add(1)
}

// RecordOutcome counts the final outcome of one lookup.
func (m *FetchMetrics) RecordOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

// OutcomeCount is one labelled counter of a snapshot.
type OutcomeCount struct {
	Outcome string `json:"outcome"`
	Count   uint64 `json:"count"`
}

// FetchStats is a point-in-time snapshot of FetchMetrics.
type FetchStats struct {
	Requests uint64         `json:"requests"`
	Retries  uint64         `json:"retries"`
	Outcomes []OutcomeCount `json:"outcomes"`
	MeanMs   float64        `json:"mean_ms"`
	P95Ms    float64        `json:"p95_ms"`
	MaxMs    float64        `json:"max_ms"`
	Elapsed  time.Duration  `json:"elapsed"`
}

// Outcome returns the count recorded for outcome.
func (s *FetchStats) Outcome(outcome string) uint64 {
	for _, o := range s.Outcomes {
		if o.Outcome == outcome {
			return o.Count
		}
	}
	return 0
}

// Snapshot returns the current statistics with outcomes sorted by name.
func (m *FetchMetrics) Snapshot() *FetchStats {
	m.mu.Lock()
	outcomes := make([]OutcomeCount, 0, len(m.outcomes))
	for k, v := range m.outcomes {
		outcomes = append(outcomes, OutcomeCount{Outcome: k, Count: v})
	}
	m.mu.Unlock()

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Outcome < outcomes[j].Outcome
	})

	return &FetchStats{
		Requests: m.Requests.Load(),
		Retries:  m.Retries.Load(),
		Outcomes: outcomes,
		MeanMs:   m.Latency.Mean(),
		P95Ms:    m.Latency.Percentile(95),
		MaxMs:    m.Latency.Max(),
		Elapsed:  time.Since(m.startTime).Round(time.Millisecond),
	}
}
