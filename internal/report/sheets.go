package report

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/commanders"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/completion"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/scoring"
)

// Sheet names.
const (
	SheetSuggestions    = "Suggestions"
	SheetKeyCards       = "Key Cards Missing"
	SheetRecommended    = "Recommended Commanders"
	SheetSynergies      = "Synergies"
	SheetThemes         = "Themes"
	SheetSummary        = "Summary"
	SheetByCollection   = "By Collection"
	SheetCollectionSums = "Collection Summary"
	SheetShared         = "Shared Cards"
	SheetPrintList      = "Print List"
)

// SuggestionWorkbook collects the suggestions and missing key cards of every
// analyzed deck.
func SuggestionWorkbook(results []completion.Result) (*Workbook, error) {
	wb := newWorkbook()

	s, err := wb.addSheet(SheetSuggestions,
		"Commander", "Card", "Score", "Inclusion", "Synergy", "Budget", "Source", "Collections", "Link")
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		for _, sg := range res.Ranking.Suggestions {
			row, err := s.append(res.Deck.Commander, sg.Name, sg.Score, sg.Inclusion, sg.Synergy,
				yesNo(sg.Budget), sg.Origin.String(), sg.Collections, sg.Link)
			if err != nil {
				return nil, err
			}
			if err := s.link(2, row, sg.Link); err != nil {
				return nil, err
			}
			if sg.Budget {
				if err := s.fill(6, row, fillBudget); err != nil {
					return nil, err
				}
			}
			if sg.Synergy > 0.5 {
				if err := s.fill(5, row, fillSynergy); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := s.widths(30, 32, 8, 10, 9, 8, 9, 30, 50); err != nil {
		return nil, err
	}

	var keyCards int
	for _, res := range results {
		keyCards += len(res.Ranking.KeyCards)
	}
	if keyCards == 0 {
		return wb, nil
	}

	k, err := wb.addSheet(SheetKeyCards, "Commander", "Card", "Inclusion", "Price USD", "Decks", "Link")
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		for _, kc := range res.Ranking.KeyCards {
			row, err := k.append(res.Deck.Commander, kc.Name, kc.Inclusion, kc.Price, kc.NumDecks, kc.Link)
			if err != nil {
				return nil, err
			}
			if err := k.link(2, row, kc.Link); err != nil {
				return nil, err
			}
			if kc.Inclusion > 0.5 {
				if err := k.fill(3, row, fillHighPercent); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := k.widths(30, 32, 10, 10, 8, 50); err != nil {
		return nil, err
	}
	return wb, nil
}

// attachFill colors the percent column of a commander row.
func attachFill(r scoring.Row) string {
	switch {
	case r.Source == scoring.SourceBoth:
		return fillBoth
	case r.Source == scoring.SourceAverage:
		return fillAverage
	case r.HasPercent && r.Percent > 0.5:
		return fillAttachHigh
	case r.HasPercent && r.Percent > scoring.HotPercent:
		return fillAttachMedium
	default:
		return ""
	}
}

func synergyFill(score float64) string {
	switch {
	case score > 0.3:
		return fillSynergyHigh
	case score > 0.15:
		return fillSynergyMid
	default:
		return ""
	}
}

// CommanderWorkbook holds the merged commander rows, synergy pairs, themes
// and the executive summary.
func CommanderWorkbook(a *commanders.Analysis) (*Workbook, error) {
	wb := newWorkbook()

	s, err := wb.addSheet(SheetRecommended, "Commander", "Card", "Percent", "Link", "Source", "Collections", "Tier")
	if err != nil {
		return nil, err
	}
	for _, r := range a.Rows {
		row, err := s.append(r.Commander, r.Card, optional(r.Percent, r.HasPercent), r.Link,
			r.Source.String(), r.Collections, r.Tier())
		if err != nil {
			return nil, err
		}
		if err := s.fill(3, row, attachFill(r)); err != nil {
			return nil, err
		}
		if err := s.link(2, row, r.Link); err != nil {
			return nil, err
		}
	}
	if err := s.widths(32, 32, 9, 50, 9, 30, 6); err != nil {
		return nil, err
	}

	if len(a.Synergies) > 0 {
		s, err := wb.addSheet(SheetSynergies, "Owned Card", "Synergy Card", "Score", "Owned Collections", "Synergy Collections")
		if err != nil {
			return nil, err
		}
		for _, p := range a.Synergies {
			row, err := s.append(p.Owned, p.Partner, p.Score, p.OwnedCollections, p.PartnerCollections)
			if err != nil {
				return nil, err
			}
			if err := s.fill(3, row, synergyFill(p.Score)); err != nil {
				return nil, err
			}
		}
		if err := s.widths(32, 32, 8, 30, 30); err != nil {
			return nil, err
		}
	}

	if len(a.Themes) > 0 {
		s, err := wb.addSheet(SheetThemes, "Theme", "Cards", "Examples", "Potential")
		if err != nil {
			return nil, err
		}
		for _, t := range a.Themes {
			if _, err := s.append(t.Name, t.Count, strings.Join(t.Shown(), ", "), t.Potential().String()); err != nil {
				return nil, err
			}
		}
		if err := s.widths(18, 8, 80, 10); err != nil {
			return nil, err
		}
	}

	sum, err := wb.addSheet(SheetSummary, "Metric", "Value", "Description")
	if err != nil {
		return nil, err
	}
	for _, l := range commanders.Summarize(a) {
		if _, err := sum.append(l.Metric, l.Value, l.Description); err != nil {
			return nil, err
		}
	}
	if err := sum.widths(34, 34, 60); err != nil {
		return nil, err
	}
	return wb, nil
}

// PriorityLabel names a consolidated card's tier.
func PriorityLabel(tier int) string {
	switch tier {
	case 1:
		return names.MarkerBoth + " High"
	case 2:
		return names.MarkerHot + " Medium-High"
	case 3:
		return "📘 Medium"
	default:
		return "📗 Low"
	}
}

var deckCardHeaders = []string{"Card", "Collection", "Commanders", "Decks", "Source", "Inclusion", "Priority", "Link", "Tags"}

func writeDeckCards(s *sheet, cards []commanders.DeckCard) error {
	for _, c := range cards {
		row, err := s.append(c.Card, c.Collection, strings.Join(c.Commanders, ", "), len(c.Commanders),
			c.Source.String(), optional(c.Percent, c.HasPercent && c.Percent > 0), PriorityLabel(c.Tier), c.Link, c.Tags())
		if err != nil {
			return err
		}
		if c.Shared() {
			if err := s.fill(4, row, fillShared); err != nil {
				return err
			}
		}
		if err := s.fill(7, row, priorityFills[c.Tier]); err != nil {
			return err
		}
		if err := s.link(1, row, c.Link); err != nil {
			return err
		}
	}
	return s.widths(32, 28, 40, 7, 9, 10, 16, 50, 50)
}

// DecklistWorkbook lays out a consolidated pull list: everything by
// collection, per-collection totals, shared cards, a print list and one sheet
// per commander.
func DecklistWorkbook(c commanders.Consolidated) (*Workbook, error) {
	wb := newWorkbook()
	sorted := c.Sorted()

	s, err := wb.addSheet(SheetByCollection, deckCardHeaders...)
	if err != nil {
		return nil, err
	}
	if err := writeDeckCards(s, sorted); err != nil {
		return nil, err
	}

	sums, err := wb.addSheet(SheetCollectionSums, "Collection", "Total Cards", "Total Uses", "Distribution")
	if err != nil {
		return nil, err
	}
	for _, cs := range c.Summaries() {
		dist := fmt.Sprintf("%d high, %d medium", cs.High, cs.Medium)
		if _, err := sums.append(cs.Collection, cs.Cards, cs.Uses, dist); err != nil {
			return nil, err
		}
	}
	if err := sums.widths(30, 12, 12, 24); err != nil {
		return nil, err
	}

	if shared := c.Shared(); len(shared) > 0 {
		s, err := wb.addSheet(SheetShared, deckCardHeaders...)
		if err != nil {
			return nil, err
		}
		if err := writeDeckCards(s, shared); err != nil {
			return nil, err
		}
	}

	p, err := wb.addSheet(SheetPrintList, "Card", "Collection", "Tags")
	if err != nil {
		return nil, err
	}
	for _, card := range sorted {
		if _, err := p.append(card.Card, card.Collection, card.Tags()); err != nil {
			return nil, err
		}
	}
	if err := p.widths(32, 28, 50); err != nil {
		return nil, err
	}

	for _, cmd := range c.Commanders {
		cards := c.ForCommander(cmd)
		if len(cards) == 0 {
			continue
		}
		s, err := wb.addSheet(names.SanitizeTag(cmd), deckCardHeaders...)
		if err != nil {
			return nil, err
		}
		if err := writeDeckCards(s, cards); err != nil {
			return nil, err
		}
	}
	return wb, nil
}
