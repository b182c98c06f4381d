package scoring

import (
	"context"
	"sort"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/colors"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/extract"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/inventory"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/remote"
)

// Options holds the ranking thresholds.
type Options struct {
	MinScore       float64
	MaxSuggestions int

	KeyCardInclusion float64
	KeyCardMaxPrice  float64
	KeyCardLimit     int
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		MinScore:         5,
		MaxSuggestions:   50,
		KeyCardInclusion: 0.40,
		KeyCardMaxPrice:  2.00,
		KeyCardLimit:     20,
	}
}

// Inventory is the owned-card lookup the engine needs.
type Inventory interface {
	Lookup(name string) (*inventory.Card, bool)
}

// LegalityFunc reports whether a card fits the commander's colors.
type LegalityFunc func(ctx context.Context, cardName string) colors.Legality

// Suggestion is an owned card proposed for a deck.
type Suggestion struct {
	Name        string
	Score       float64
	Inclusion   float64
	Synergy     float64
	Budget      bool
	Origin      Origin
	Collections string
	Link        string
}

// KeyCard is a popular, cheap card the owner does not have.
type KeyCard struct {
	Name      string
	Inclusion float64
	Price     float64
	NumDecks  float64
	Link      string
}

// Input is everything known about one deck.
type Input struct {
	// DeckCards are the cards already in the deck.
	DeckCards []string
	// Recommended are the commander's average and budget deck cards.
	Recommended []extract.CardView
	Synergies   *SynergyAccumulator
	// Legality gates candidates after scoring; nil allows everything.
	Legality LegalityFunc
}

// ColorStats counts color-gate verdicts.
type ColorStats struct {
	Legal   int
	Illegal int
	Unknown int
}

// Ranking is the result for one deck.
type Ranking struct {
	Suggestions []Suggestion
	KeyCards    []KeyCard
	Colors      ColorStats
}

// Engine ranks candidates against an inventory.
type Engine struct {
	opts      Options
	inventory Inventory
}

// NewEngine creates an engine.
func NewEngine(opts Options, inv Inventory) *Engine {
	return &Engine{opts: opts, inventory: inv}
}

// Rank scores every eligible candidate. Only owned cards not yet in the deck
// are eligible, and candidates under MinScore are dropped before the color
// gate runs. Cards the owner lacks feed the key-card list instead.
func (e *Engine) Rank(ctx context.Context, in Input) Ranking {
	synergies := in.Synergies
	if synergies == nil {
		synergies = NewSynergyAccumulator()
	}

	inDeck := make(map[string]struct{}, len(in.DeckCards))
	for _, c := range in.DeckCards {
		inDeck[names.Key(c)] = struct{}{}
	}

	var out Ranking
	recommended := make(map[string]struct{}, len(in.Recommended))

	for _, cv := range in.Recommended {
		key := names.Key(cv.Name)
		recommended[key] = struct{}{}
		if _, ok := inDeck[key]; ok {
			continue
		}

		owned, ok := e.inventory.Lookup(cv.Name)
		if !ok {
			if kc, ok := e.keyCard(cv); ok {
				out.KeyCards = append(out.KeyCards, kc)
			}
			continue
		}

		syn, _ := synergies.Get(cv.Name)
		inclusion := cv.InclusionFraction()
		score := Score(Candidate{
			InclusionFraction: inclusion,
			SynergyTotal:      syn.Total,
			Budget:            cv.Budget,
			Origin:            OriginEDHREC,
		})
		if score < e.opts.MinScore {
			continue
		}
		if !e.permit(ctx, in.Legality, cv.Name, &out.Colors) {
			continue
		}

		out.Suggestions = append(out.Suggestions, Suggestion{
			Name:        cv.Name,
			Score:       score,
			Inclusion:   inclusion,
			Synergy:     syn.Total,
			Budget:      cv.Budget,
			Origin:      OriginEDHREC,
			Collections: owned.CollectionList(),
			Link:        firstLink(cv.Name, cv.Link, syn.Link),
		})
	}

	for _, syn := range synergies.Records() {
		key := names.Key(syn.Name)
		if _, ok := inDeck[key]; ok {
			continue
		}
		if _, ok := recommended[key]; ok {
			continue
		}
		owned, ok := e.inventory.Lookup(syn.Name)
		if !ok {
			continue
		}

		score := Score(Candidate{SynergyTotal: syn.Total, Origin: OriginSynergy})
		if score < e.opts.MinScore {
			continue
		}
		if !e.permit(ctx, in.Legality, owned.Name, &out.Colors) {
			continue
		}

		out.Suggestions = append(out.Suggestions, Suggestion{
			Name:        owned.Name,
			Score:       score,
			Synergy:     syn.Total,
			Origin:      OriginSynergy,
			Collections: owned.CollectionList(),
			Link:        firstLink(owned.Name, syn.Link),
		})
	}

	sort.SliceStable(out.Suggestions, func(i, j int) bool {
		return out.Suggestions[i].Score > out.Suggestions[j].Score
	})
	if e.opts.MaxSuggestions > 0 && len(out.Suggestions) > e.opts.MaxSuggestions {
		out.Suggestions = out.Suggestions[:e.opts.MaxSuggestions]
	}

	sort.SliceStable(out.KeyCards, func(i, j int) bool {
		return out.KeyCards[i].Inclusion > out.KeyCards[j].Inclusion
	})
	if e.opts.KeyCardLimit > 0 && len(out.KeyCards) > e.opts.KeyCardLimit {
		out.KeyCards = out.KeyCards[:e.opts.KeyCardLimit]
	}

	return out
}

// keyCard applies the purchase-recommendation bar. A card listed without a
// price is taken at 0.
func (e *Engine) keyCard(cv extract.CardView) (KeyCard, bool) {
	inclusion := cv.InclusionFraction()
	if inclusion < e.opts.KeyCardInclusion || cv.Price > e.opts.KeyCardMaxPrice {
		return KeyCard{}, false
	}
	return KeyCard{
		Name:      cv.Name,
		Inclusion: inclusion,
		Price:     cv.Price,
		NumDecks:  cv.NumDecks,
		Link:      firstLink(cv.Name, cv.Link),
	}, true
}

func (e *Engine) permit(ctx context.Context, legality LegalityFunc, name string, stats *ColorStats) bool {
	if legality == nil {
		return true
	}
	l := legality(ctx, name)
	switch l {
	case colors.Legal:
		stats.Legal++
	case colors.Illegal:
		stats.Illegal++
	default:
		stats.Unknown++
	}
	return colors.Permit(l)
}

// firstLink returns the first non-empty link or a search link for name.
func firstLink(name string, links ...string) string {
	for _, l := range links {
		if l != "" {
			return l
		}
	}
	return remote.SearchURL(name)
}
