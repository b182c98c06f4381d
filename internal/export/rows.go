// Package export writes analysis results as flat CSV or JSON rows.
package export

import (
	"github.com/ramonehamilton/EDH-Companion/internal/edh/commanders"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/completion"
)

// CommanderRow is one owned card recommended for one commander.
type CommanderRow struct {
	Commander   string   `csv:"commander" json:"commander"`
	Card        string   `csv:"card" json:"card"`
	Percent     *float64 `csv:"percent" json:"percent,omitempty"`
	Source      string   `csv:"source" json:"source"`
	Tier        int      `csv:"tier" json:"tier"`
	Collections string   `csv:"collections" json:"collections"`
	Link        string   `csv:"link" json:"link"`
}

// CommanderRows flattens the merged rows of an analysis.
func CommanderRows(a *commanders.Analysis) []CommanderRow {
	out := make([]CommanderRow, 0, len(a.Rows))
	for _, r := range a.Rows {
		row := CommanderRow{
			Commander:   r.Commander,
			Card:        r.Card,
			Source:      r.Source.String(),
			Tier:        r.Tier(),
			Collections: r.Collections,
			Link:        r.Link,
		}
		if r.HasPercent {
			p := r.Percent
			row.Percent = &p
		}
		out = append(out, row)
	}
	return out
}

// SuggestionRow is one suggested card for one deck.
type SuggestionRow struct {
	Commander   string  `csv:"commander" json:"commander"`
	Card        string  `csv:"card" json:"card"`
	Score       float64 `csv:"score" json:"score"`
	Inclusion   float64 `csv:"inclusion" json:"inclusion"`
	Synergy     float64 `csv:"synergy" json:"synergy"`
	Budget      bool    `csv:"budget" json:"budget"`
	Origin      string  `csv:"origin" json:"origin"`
	Collections string  `csv:"collections" json:"collections"`
	Link        string  `csv:"link" json:"link"`
}

// SuggestionRows flattens the suggestions of every deck in order.
func SuggestionRows(results []completion.Result) []SuggestionRow {
	var out []SuggestionRow
	for _, res := range results {
		for _, s := range res.Ranking.Suggestions {
			out = append(out, SuggestionRow{
				Commander:   res.Deck.Commander,
				Card:        s.Name,
				Score:       s.Score,
				Inclusion:   s.Inclusion,
				Synergy:     s.Synergy,
				Budget:      s.Budget,
				Origin:      s.Origin.String(),
				Collections: s.Collections,
				Link:        s.Link,
			})
		}
	}
	return out
}
