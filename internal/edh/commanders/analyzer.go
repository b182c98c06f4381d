// Package commanders ranks commanders against the owned collection and builds
// consolidated decklists for the ones picked.
package commanders

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/extract"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/inventory"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/remote"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/scoring"
)

// Source is the remote data an analyzer reads. *remote.Client implements it.
type Source interface {
	CardPage(ctx context.Context, cardName string) remote.Result
	AverageDeck(ctx context.Context, commander string) remote.Result
}

// Inventory is what the analyzer needs from the owned-card index.
type Inventory interface {
	Cards() []*inventory.Card
	Lookup(name string) (*inventory.Card, bool)
}

// Options configures an Analyzer.
type Options struct {
	// Workers bounds concurrent page fetches. 1 fetches sequentially.
	Workers int
	// MinMatches is the number of owned cards a commander needs to rank.
	MinMatches int
}

// DefaultOptions returns the stock analyzer settings.
func DefaultOptions() Options {
	return Options{Workers: 5, MinMatches: 10}
}

// SynergyPair is an owned card whose page lists another owned card as a
// synergy.
type SynergyPair struct {
	Owned              string
	Partner            string
	Score              float64
	OwnedCollections   string
	PartnerCollections string
	Link               string
}

// Analysis is the outcome of a commander search.
type Analysis struct {
	Commanders []scoring.CommanderStat
	Rows       []scoring.Row
	Synergies  []SynergyPair
	Themes     []Theme
	// Skipped lists owned cards without a usable card page.
	Skipped []string
	// Analyzed is the number of owned non-basic cards looked up.
	Analyzed   int
	MinMatches int
}

// CommanderNames returns the ranked commander names at the given indices.
func (a *Analysis) CommanderNames(indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(a.Commanders) {
			out = append(out, a.Commanders[i].Commander)
		}
	}
	return out
}

// Analyzer runs the commander search.
type Analyzer struct {
	src    Source
	inv    Inventory
	opts   Options
	logger *zap.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(src Source, inv Inventory, opts Options, logger *zap.Logger) *Analyzer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{src: src, inv: inv, opts: opts, logger: logger}
}

type cardResult struct {
	card        *inventory.Card
	ok          bool
	attachments []extract.Attachment
	synergies   []extract.SynergyCard
}

// Analyze looks up every owned non-basic card, ranks the commanders that play
// them and merges in the ranked commanders' average decks.
func (a *Analyzer) Analyze(ctx context.Context) (*Analysis, error) {
	var cards []*inventory.Card
	for _, c := range a.inv.Cards() {
		if !names.IsBasicLand(c.Name) {
			cards = append(cards, c)
		}
	}
	a.logger.Info("analyzing collection",
		zap.Int("cards", len(cards)),
		zap.Int("workers", a.opts.Workers))

	results, err := a.fetchCards(ctx, cards)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{Analyzed: len(cards), MinMatches: a.opts.MinMatches}
	tally := scoring.NewCommanderTally()
	for _, r := range results {
		if !r.ok {
			analysis.Skipped = append(analysis.Skipped, r.card.Name)
			continue
		}
		tally.Add(r.card.Name, r.attachments)
		analysis.Synergies = append(analysis.Synergies, a.pairs(r)...)
	}
	sort.SliceStable(analysis.Synergies, func(i, j int) bool {
		return analysis.Synergies[i].Score > analysis.Synergies[j].Score
	})

	analysis.Commanders = tally.Ranked(a.opts.MinMatches)
	a.logger.Info("commanders ranked",
		zap.Int("seen", tally.Len()),
		zap.Int("ranked", len(analysis.Commanders)),
		zap.Int("skipped_cards", len(analysis.Skipped)))

	averages, err := a.fetchAverages(ctx, analysis.Commanders)
	if err != nil {
		return nil, err
	}

	analysis.Rows = scoring.MergeSources(analysis.Commanders, averages, a.inv)
	scoring.SortRows(analysis.Rows)
	analysis.Themes = DetectThemes(analysis.Rows)
	return analysis, nil
}

// fetchCards fetches card pages through the worker pool. Each task writes
// only its own slot.
func (a *Analyzer) fetchCards(ctx context.Context, cards []*inventory.Card) ([]cardResult, error) {
	results := make([]cardResult, len(cards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)
	for i, card := range cards {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a.logger.Debug("fetching card page",
				zap.Int("index", i+1),
				zap.Int("total", len(cards)),
				zap.String("card", card.Name))

			res := a.src.CardPage(gctx, card.Name)
			results[i] = cardResult{card: card, ok: !res.NoData()}
			if res.NoData() {
				a.logger.Debug("card page unavailable",
					zap.String("card", card.Name),
					zap.Stringer("outcome", res.Outcome))
				return nil
			}
			results[i].attachments = extract.ExtractCommanderAttachments(res.Value, card.Name)
			results[i].synergies = extract.ExtractSynergyCards(res.Value, card.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to analyze cards: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to analyze cards: %w", err)
	}
	return results, nil
}

// fetchAverages fetches the average deck of every ranked commander, keyed by
// names.Key of the commander.
func (a *Analyzer) fetchAverages(ctx context.Context, stats []scoring.CommanderStat) (map[string][]extract.CardView, error) {
	decks := make([][]extract.CardView, len(stats))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)
	for i, stat := range stats {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := a.src.AverageDeck(gctx, stat.Commander)
			if res.NoData() {
				a.logger.Debug("average deck unavailable",
					zap.String("commander", stat.Commander),
					zap.Stringer("outcome", res.Outcome))
				return nil
			}
			decks[i] = extract.AverageDeckCards(res.Value)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch average decks: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch average decks: %w", err)
	}

	out := make(map[string][]extract.CardView, len(stats))
	for i, stat := range stats {
		out[names.Key(stat.Commander)] = decks[i]
	}
	return out, nil
}

func (a *Analyzer) pairs(r cardResult) []SynergyPair {
	var out []SynergyPair
	for _, syn := range r.synergies {
		partner, ok := a.inv.Lookup(syn.Name)
		if !ok {
			continue
		}
		out = append(out, SynergyPair{
			Owned:              r.card.Name,
			Partner:            syn.Name,
			Score:              syn.Score,
			OwnedCollections:   r.card.CollectionList(),
			PartnerCollections: partner.CollectionList(),
			Link:               syn.Link,
		})
	}
	return out
}
