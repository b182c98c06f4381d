// Package report writes the text and spreadsheet artifacts of each run.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/commanders"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/completion"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/scoring"
)

// synergyMarkAt is the synergy total above which a suggestion is marked.
const synergyMarkAt = 0.3

// WriteTaggedList writes tagged card lines, one per input line.
func WriteTaggedList(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		bw.WriteString(l)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteSuggestionText writes the completion report of one deck.
func WriteSuggestionText(w io.Writer, res completion.Result, opts scoring.Options) error {
	bw := bufio.NewWriter(w)

	commander := res.Deck.Commander
	if commander == "" {
		commander = "(no commander)"
	}
	fmt.Fprintf(bw, "# SUGGESTIONS TO COMPLETE: %s\n", commander)
	fmt.Fprintf(bw, "# Current cards: %d\n", res.CurrentSize())
	fmt.Fprintf(bw, "# Cards needed: %d\n", res.Deck.Missing())
	if res.Identity != nil {
		fmt.Fprintf(bw, "# Color identity: %s (%s)\n", res.Identity.Identity, res.Identity.Tier)
	}
	bw.WriteString("\n")

	suggestions := res.Ranking.Suggestions
	fmt.Fprintf(bw, "## SUGGESTED CARDS FROM YOUR INVENTORY (%d)\n", len(suggestions))
	fmt.Fprintf(bw, "## Top %d ordered by relevance\n\n", opts.MaxSuggestions)
	for i, s := range suggestions {
		marks := ""
		if s.Budget {
			marks += " " + names.MarkerBudget
		}
		if s.Synergy > synergyMarkAt {
			marks += " " + names.MarkerSynergy
		}
		fmt.Fprintf(bw, "%2d. %s%s\n", i+1, s.Name, marks)
		fmt.Fprintf(bw, "    Score: %.1f | Inclusion: %.1f%% | Synergy: %.2f | Source: %s\n",
			s.Score, s.Inclusion*100, s.Synergy, s.Origin)
		fmt.Fprintf(bw, "    Collections: %s\n", s.Collections)
		if s.Link != "" {
			fmt.Fprintf(bw, "    Link: %s\n", s.Link)
		}
		bw.WriteString("\n")
	}

	if len(res.Ranking.KeyCards) > 0 {
		bw.WriteString("\n## KEY CARDS YOU DON'T OWN (worth buying)\n")
		fmt.Fprintf(bw, "## Inclusion >%.0f%%, price <$%.2f USD\n\n", opts.KeyCardInclusion*100, opts.KeyCardMaxPrice)
		for i, k := range res.Ranking.KeyCards {
			fmt.Fprintf(bw, "%2d. %s\n", i+1, k.Name)
			fmt.Fprintf(bw, "    Inclusion: %.1f%% | Price: $%.2f | In %.0f decks\n", k.Inclusion*100, k.Price, k.NumDecks)
			if k.Link != "" {
				fmt.Fprintf(bw, "    Link: %s\n", k.Link)
			}
			bw.WriteString("\n")
		}
	}

	bw.WriteString("\n## LEGEND\n")
	fmt.Fprintf(bw, "# %s = Card appears in the budget list\n", names.MarkerBudget)
	fmt.Fprintf(bw, "# %s = High synergy with the deck's current cards\n", names.MarkerSynergy)
	bw.WriteString("# Score = inclusion, synergy and budget combined\n")
	return bw.Flush()
}

// DecklistMarker returns the marker written after a consolidated card.
func DecklistMarker(card commanders.DeckCard) string {
	switch {
	case card.Source == scoring.SourceBoth:
		return names.MarkerBoth
	case card.Source == scoring.SourceEDHREC && card.Percent > scoring.HotPercent:
		return names.MarkerHot
	default:
		return ""
	}
}

// WriteDecklistText writes a consolidated pull list grouped by collection.
// The output reads back as a card list: headers and notes are comments.
func WriteDecklistText(w io.Writer, c commanders.Consolidated) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("# CONSOLIDATED DECKLIST\n")
	fmt.Fprintf(bw, "# Commanders: %s\n", strings.Join(c.Commanders, ", "))
	fmt.Fprintf(bw, "# Unique cards: %d\n\n", len(c.Cards))

	bw.WriteString("## COMMANDERS\n")
	for _, cmd := range c.Commanders {
		fmt.Fprintf(bw, "1 %s\n", cmd)
	}
	bw.WriteString("\n")

	for _, g := range c.ByCollection() {
		fmt.Fprintf(bw, "## %s (%d cards)\n", g.Collection, len(g.Cards))
		for _, card := range g.Cards {
			mark := DecklistMarker(card)
			if mark != "" {
				mark = " " + mark
			}
			fmt.Fprintf(bw, "1 %s%s %s\n", card.Card, mark, card.Tags())
		}
		bw.WriteString("\n")
	}

	bw.WriteString("## LEGEND\n")
	fmt.Fprintf(bw, "# %s = Both lists (top commanders and average deck)\n", names.MarkerBoth)
	fmt.Fprintf(bw, "# %s = High inclusion (>%.0f%% in top commanders)\n", names.MarkerHot, scoring.HotPercent*100)
	bw.WriteString("# #Commander = the deck the card is for\n")
	bw.WriteString("#\n")
	bw.WriteString("# A card with several tags is used in several decks\n")
	return bw.Flush()
}
