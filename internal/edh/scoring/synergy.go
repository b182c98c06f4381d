package scoring

import (
	"github.com/ramonehamilton/EDH-Companion/internal/edh/extract"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
)

// SynergyRecord is the running synergy total of one candidate over every
// seed card that reported it.
type SynergyRecord struct {
	Name  string
	Total float64
	Link  string
	// Seeds counts the seed cards that contributed.
	Seeds int
}

// SynergyAccumulator sums synergy scores per candidate in discovery order.
type SynergyAccumulator struct {
	records map[string]*SynergyRecord
	order   []string
}

// NewSynergyAccumulator returns an empty accumulator.
func NewSynergyAccumulator() *SynergyAccumulator {
	return &SynergyAccumulator{records: make(map[string]*SynergyRecord)}
}

// Add folds one seed card's synergy list into the totals. A candidate listed
// more than once by the same seed keeps its best score from that seed.
func (a *SynergyAccumulator) Add(cards []extract.SynergyCard) {
	best := make(map[string]extract.SynergyCard, len(cards))
	var keys []string
	for _, c := range cards {
		key := names.Key(c.Name)
		prev, seen := best[key]
		if !seen {
			keys = append(keys, key)
			best[key] = c
			continue
		}
		if c.Score > prev.Score {
			if c.Link == "" {
				c.Link = prev.Link
			}
			best[key] = c
		} else if prev.Link == "" && c.Link != "" {
			prev.Link = c.Link
			best[key] = prev
		}
	}

	for _, key := range keys {
		c := best[key]
		rec, ok := a.records[key]
		if !ok {
			rec = &SynergyRecord{Name: c.Name}
			a.records[key] = rec
			a.order = append(a.order, key)
		}
		rec.Total += c.Score
		rec.Seeds++
		if rec.Link == "" {
			rec.Link = c.Link
		}
	}
}

// Get returns the record for name.
func (a *SynergyAccumulator) Get(name string) (SynergyRecord, bool) {
	rec, ok := a.records[names.Key(name)]
	if !ok {
		return SynergyRecord{}, false
	}
	return *rec, true
}

// Records returns every record in discovery order.
func (a *SynergyAccumulator) Records() []SynergyRecord {
	out := make([]SynergyRecord, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.records[key])
	}
	return out
}

// Len returns the number of distinct candidates.
func (a *SynergyAccumulator) Len() int {
	return len(a.order)
}
