package commanders

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/scoring"
)

// NoCollection labels cards whose collection is unknown.
const NoCollection = "No collection"

// DeckCard is one card to pull from the collection, with every selected
// commander that wants it.
type DeckCard struct {
	Card       string
	Commanders []string
	Collection string
	Source     scoring.Source
	Percent    float64
	HasPercent bool
	Link       string
	Tier       int
}

// Tags renders one "#Commander_Name" tag per commander.
func (d DeckCard) Tags() string {
	tags := make([]string, 0, len(d.Commanders))
	for _, c := range d.Commanders {
		tags = append(tags, "#"+names.SanitizeTag(c))
	}
	return strings.Join(tags, " ")
}

// Shared reports whether more than one commander wants the card.
func (d DeckCard) Shared() bool {
	return len(d.Commanders) > 1
}

// Consolidated is a single pull list for several commanders.
type Consolidated struct {
	Commanders []string
	// Cards are ordered by name.
	Cards []DeckCard
	// BaseName is the artifact file name without extension.
	BaseName string
}

// Consolidate groups the rows of the selected commanders by card. The first
// row seen for a card supplies its collection, source, percentage and link.
func Consolidate(selected []string, rows []scoring.Row) Consolidated {
	out := Consolidated{Commanders: append([]string(nil), selected...)}

	index := make(map[string]int)
	for _, commander := range selected {
		for _, r := range rows {
			if r.Commander != commander {
				continue
			}
			key := names.Key(r.Card)
			if i, ok := index[key]; ok {
				out.Cards[i].Commanders = append(out.Cards[i].Commanders, commander)
				continue
			}

			collection := r.Collections
			if collection == "" {
				collection = NoCollection
			}
			index[key] = len(out.Cards)
			out.Cards = append(out.Cards, DeckCard{
				Card:       r.Card,
				Commanders: []string{commander},
				Collection: collection,
				Source:     r.Source,
				Percent:    r.Percent,
				HasPercent: r.HasPercent,
				Link:       r.Link,
				Tier:       r.Tier(),
			})
		}
	}

	sort.SliceStable(out.Cards, func(i, j int) bool {
		return out.Cards[i].Card < out.Cards[j].Card
	})

	if len(selected) == 1 {
		out.BaseName = names.SanitizeTag(selected[0]) + "_decklist"
	} else {
		out.BaseName = fmt.Sprintf("consolidated_%d_commanders", len(selected))
	}
	return out
}

// CollectionGroup is the part of a pull list stored in one collection.
type CollectionGroup struct {
	Collection string
	Cards      []DeckCard
}

// ByCollection groups cards by collection name. Within a group cards are
// ordered by tier, then percentage descending.
func (c Consolidated) ByCollection() []CollectionGroup {
	groups := make(map[string][]DeckCard)
	for _, card := range c.Cards {
		groups[card.Collection] = append(groups[card.Collection], card)
	}

	out := make([]CollectionGroup, 0, len(groups))
	for name, cards := range groups {
		sort.SliceStable(cards, func(i, j int) bool {
			if cards[i].Tier != cards[j].Tier {
				return cards[i].Tier < cards[j].Tier
			}
			return cards[i].Percent > cards[j].Percent
		})
		out = append(out, CollectionGroup{Collection: name, Cards: cards})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Collection < out[j].Collection
	})
	return out
}

// Sorted orders every card by collection, tier, commander count descending,
// then percentage descending.
func (c Consolidated) Sorted() []DeckCard {
	out := append([]DeckCard(nil), c.Cards...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Collection != b.Collection {
			return a.Collection < b.Collection
		}
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		if len(a.Commanders) != len(b.Commanders) {
			return len(a.Commanders) > len(b.Commanders)
		}
		return a.Percent > b.Percent
	})
	return out
}

// Shared returns the cards wanted by more than one commander, most shared
// first.
func (c Consolidated) Shared() []DeckCard {
	var out []DeckCard
	for _, card := range c.Sorted() {
		if card.Shared() {
			out = append(out, card)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Commanders) > len(out[j].Commanders)
	})
	return out
}

// ForCommander returns the sorted cards wanted by commander.
func (c Consolidated) ForCommander(commander string) []DeckCard {
	var out []DeckCard
	for _, card := range c.Sorted() {
		for _, cmd := range card.Commanders {
			if cmd == commander {
				out = append(out, card)
				break
			}
		}
	}
	return out
}

// CollectionSummary counts the cards pulled from one collection.
type CollectionSummary struct {
	Collection string
	Cards      int
	// Uses counts card-commander pairs.
	Uses   int
	High   int
	Medium int
}

// Summaries returns per-collection counts, largest first. High counts tier 1
// cards and Medium counts tiers 2 and 3.
func (c Consolidated) Summaries() []CollectionSummary {
	var out []CollectionSummary
	for _, g := range c.ByCollection() {
		s := CollectionSummary{Collection: g.Collection, Cards: len(g.Cards)}
		for _, card := range g.Cards {
			s.Uses += len(card.Commanders)
			switch card.Tier {
			case 1:
				s.High++
			case 2, 3:
				s.Medium++
			}
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cards > out[j].Cards
	})
	return out
}
