// Package completion suggests owned cards for partially built decks.
package completion

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/colors"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/decklist"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/extract"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/remote"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/scoring"
)

// Source is the remote data a planner reads. *remote.Client implements it.
type Source interface {
	CardPage(ctx context.Context, cardName string) remote.Result
	AverageDeck(ctx context.Context, commander string) remote.Result
	colors.CommanderPages
	colors.IdentityLookup
}

// Options configures a Planner.
type Options struct {
	// SeedLimit caps how many deck cards are asked for synergies.
	SeedLimit int
	// CheckColors enables the color-identity gate.
	CheckColors bool
	Scoring     scoring.Options
}

// DefaultOptions returns the stock planner settings.
func DefaultOptions() Options {
	return Options{
		SeedLimit:   20,
		CheckColors: true,
		Scoring:     scoring.DefaultOptions(),
	}
}

// Result is the completion analysis of one deck.
type Result struct {
	Deck decklist.Deck
	// Identity is set when the deck names a commander.
	Identity    *colors.Resolution
	Recommended int
	Seeds       int
	Ranking     scoring.Ranking
}

// CurrentSize is the number of cards already in the deck.
func (r Result) CurrentSize() int {
	return len(r.Deck.Cards)
}

// Planner runs the completion analysis.
type Planner struct {
	src    Source
	engine *scoring.Engine
	opts   Options
	logger *zap.Logger
}

// NewPlanner creates a planner.
func NewPlanner(src Source, inv scoring.Inventory, opts Options, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		src:    src,
		engine: scoring.NewEngine(opts.Scoring, inv),
		opts:   opts,
		logger: logger,
	}
}

// CompleteAll analyzes decks in order. It stops at the first cancellation
// and returns no results in that case.
func (p *Planner) CompleteAll(ctx context.Context, decks []decklist.Deck) ([]Result, error) {
	results := make([]Result, 0, len(decks))
	for i, deck := range decks {
		p.logger.Info("analyzing deck",
			zap.Int("deck", i+1),
			zap.Int("of", len(decks)),
			zap.String("commander", deck.Commander),
			zap.Int("cards", len(deck.Cards)))

		res, err := p.Complete(ctx, deck)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Complete analyzes a single deck.
func (p *Planner) Complete(ctx context.Context, deck decklist.Deck) (Result, error) {
	res := Result{Deck: deck}

	filter := colors.Unrestricted()
	var recommended []extract.CardView

	if deck.Commander != "" {
		resolution := colors.ResolveCommander(ctx, p.src, deck.Commander, p.logger)
		res.Identity = &resolution
		if p.opts.CheckColors {
			filter = colors.NewFilter(p.src, resolution.Identity, p.logger)
		}

		avg := p.src.AverageDeck(ctx, deck.Commander)
		if !avg.NoData() {
			recommended = extract.ExtractCardViews(avg.Value)
		}
		res.Recommended = len(recommended)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("failed to complete %q: %w", deck.Commander, err)
	}

	synergies := scoring.NewSynergyAccumulator()
	for _, seed := range p.seeds(deck.Cards) {
		page := p.src.CardPage(ctx, seed)
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("failed to complete %q: %w", deck.Commander, err)
		}
		res.Seeds++
		if page.NoData() {
			continue
		}
		synergies.Add(extract.ExtractCardSynergies(page.Value, seed))
	}

	res.Ranking = p.engine.Rank(ctx, scoring.Input{
		DeckCards:   deck.Cards,
		Recommended: recommended,
		Synergies:   synergies,
		Legality:    filter.Check,
	})
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("failed to complete %q: %w", deck.Commander, err)
	}

	p.logger.Info("deck analyzed",
		zap.String("commander", deck.Commander),
		zap.Int("suggestions", len(res.Ranking.Suggestions)),
		zap.Int("key_cards", len(res.Ranking.KeyCards)),
		zap.Int("illegal", res.Ranking.Colors.Illegal))
	return res, nil
}

// seeds returns the first SeedLimit distinct deck cards.
func (p *Planner) seeds(cards []string) []string {
	seen := make(map[string]struct{}, len(cards))
	var out []string
	for _, c := range cards {
		if p.opts.SeedLimit > 0 && len(out) >= p.opts.SeedLimit {
			break
		}
		key := names.Key(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
