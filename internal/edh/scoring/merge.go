package scoring

import (
	"sort"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/extract"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
)

// Source says which lists a commander row came from.
type Source int

const (
	SourceEDHREC Source = iota
	SourceAverage
	SourceBoth
)

func (s Source) String() string {
	switch s {
	case SourceBoth:
		return "both"
	case SourceAverage:
		return "average"
	default:
		return "edhrec"
	}
}

// HotPercent is the attach percentage above which an EDHREC-only card ranks
// in the second tier.
const HotPercent = 0.20

// Row is one owned card recommended for one commander.
type Row struct {
	Commander   string
	Card        string
	Percent     float64
	HasPercent  bool
	Link        string
	Source      Source
	Collections string
}

// Tier is the row's priority: 1 both lists, 2 EDHREC above HotPercent,
// 3 average deck only, 4 anything else.
func (r Row) Tier() int {
	switch {
	case r.Source == SourceBoth:
		return 1
	case r.Source == SourceEDHREC && r.Percent > HotPercent:
		return 2
	case r.Source == SourceAverage:
		return 3
	default:
		return 4
	}
}

// MergeSources combines the attachment data of ranked commanders with their
// average decks. An owned average-deck card already attached to the
// commander becomes "both"; otherwise it is added as "average" without a
// percentage. averages is keyed by names.Key of the commander.
func MergeSources(stats []CommanderStat, averages map[string][]extract.CardView, inv Inventory) []Row {
	var rows []Row

	for _, stat := range stats {
		index := make(map[string]int, len(stat.Cards))
		for _, c := range stat.Cards {
			index[names.Key(c.Card)] = len(rows)
			rows = append(rows, Row{
				Commander:   stat.Commander,
				Card:        c.Card,
				Percent:     c.Percent,
				HasPercent:  true,
				Link:        firstLink(c.Card, c.Link),
				Source:      SourceEDHREC,
				Collections: collectionsOf(inv, c.Card),
			})
		}

		for _, cv := range averages[names.Key(stat.Commander)] {
			owned, ok := inv.Lookup(cv.Name)
			if !ok {
				continue
			}
			key := names.Key(cv.Name)
			if i, ok := index[key]; ok {
				rows[i].Source = SourceBoth
				continue
			}
			index[key] = len(rows)
			rows = append(rows, Row{
				Commander:   stat.Commander,
				Card:        owned.Name,
				Link:        firstLink(owned.Name, cv.Link),
				Source:      SourceAverage,
				Collections: owned.CollectionList(),
			})
		}
	}

	return rows
}

func collectionsOf(inv Inventory, card string) string {
	if owned, ok := inv.Lookup(card); ok {
		return owned.CollectionList()
	}
	return ""
}

// SortRows orders rows by commander row count descending, commander name,
// tier, then percentage descending. The sort is stable.
func SortRows(rows []Row) {
	totals := make(map[string]int)
	for _, r := range rows {
		totals[r.Commander]++
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if totals[a.Commander] != totals[b.Commander] {
			return totals[a.Commander] > totals[b.Commander]
		}
		if a.Commander != b.Commander {
			return a.Commander < b.Commander
		}
		if a.Tier() != b.Tier() {
			return a.Tier() < b.Tier()
		}
		return a.Percent > b.Percent
	})
}

// SourceCounts tallies rows per source.
func SourceCounts(rows []Row) map[Source]int {
	out := make(map[Source]int, 3)
	for _, r := range rows {
		out[r.Source]++
	}
	return out
}
