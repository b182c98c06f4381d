package scoring

import (
	"sort"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/extract"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
)

// CardMatch is an owned card a commander's decks play.
type CardMatch struct {
	Card    string
	Percent float64
	Link    string
}

// CommanderStat aggregates the owned cards attached to one commander.
type CommanderStat struct {
	Commander    string
	Matches      int
	PercentSum   float64
	PercentCount int
	Cards        []CardMatch
}

// AveragePercent is the mean attach percentage, or 0 without samples.
func (s CommanderStat) AveragePercent() float64 {
	if s.PercentCount == 0 {
		return 0
	}
	return s.PercentSum / float64(s.PercentCount)
}

// CommanderTally accumulates commander attachments across owned cards.
// It is not safe for concurrent use; callers merge results in one goroutine.
type CommanderTally struct {
	stats map[string]*CommanderStat
	seen  map[string]map[string]struct{}
	order []string
}

// NewCommanderTally returns an empty tally.
func NewCommanderTally() *CommanderTally {
	return &CommanderTally{
		stats: make(map[string]*CommanderStat),
		seen:  make(map[string]map[string]struct{}),
	}
}

// Add records the attachments found on an owned card's page. A card counts
// once per commander even when the page lists the commander repeatedly.
func (t *CommanderTally) Add(card string, attachments []extract.Attachment) {
	cardKey := names.Key(card)
	for _, a := range attachments {
		key := names.Key(a.Commander)
		stat, ok := t.stats[key]
		if !ok {
			stat = &CommanderStat{Commander: a.Commander}
			t.stats[key] = stat
			t.seen[key] = make(map[string]struct{})
			t.order = append(t.order, key)
		}
		if _, dup := t.seen[key][cardKey]; dup {
			continue
		}
		t.seen[key][cardKey] = struct{}{}

		stat.Cards = append(stat.Cards, CardMatch{Card: card, Percent: a.Percent, Link: a.Link})
		stat.Matches++
		stat.PercentSum += a.Percent
		stat.PercentCount++
	}
}

// Len returns the number of commanders seen.
func (t *CommanderTally) Len() int {
	return len(t.order)
}

// Ranked returns commanders with at least minMatches owned cards, ordered by
// matches descending, average percent descending, then name.
func (t *CommanderTally) Ranked(minMatches int) []CommanderStat {
	var out []CommanderStat
	for _, key := range t.order {
		stat := t.stats[key]
		if stat.Matches < minMatches {
			continue
		}
		cp := *stat
		cp.Cards = append([]CardMatch(nil), stat.Cards...)
		out = append(out, cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		ai, aj := out[i].AveragePercent(), out[j].AveragePercent()
		if ai != aj {
			return ai > aj
		}
		return out[i].Commander < out[j].Commander
	})
	return out
}
