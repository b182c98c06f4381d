package decklist

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/fuzzy"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/inventory"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
)

const (
	// NotFoundTag marks card lines missing from the inventory.
	NotFoundTag = "#NOT_FOUND"
	// unsortedTag stands in for a card whose rows carry no usable source.
	unsortedTag = "Unsorted"
)

// Mode selects how many collection tags a found card receives.
type Mode int

const (
	// ModeFirst tags the collection the card was first seen in.
	ModeFirst Mode = iota
	// ModeAll tags every collection holding the card.
	ModeAll
)

// ParseMode accepts "first" and "all".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return ModeFirst, nil
	case "all":
		return ModeAll, nil
	default:
		return ModeFirst, fmt.Errorf("unknown tag mode %q (want first or all)", s)
	}
}

func (m Mode) String() string {
	if m == ModeAll {
		return "all"
	}
	return "first"
}

// Inventory is what the tagger needs from the owned-card index.
type Inventory interface {
	Lookup(name string) (*inventory.Card, bool)
	Names() []string
}

// MissingCard is a card line absent from the inventory.
type MissingCard struct {
	Line        int
	Name        string
	Suggestions []fuzzy.Match
}

// TagStats summarizes a tagging pass.
type TagStats struct {
	Found    int
	Missing  int
	Comments int
	Blank    int
	Unknown  []MissingCard
}

// Tagger appends collection tags to card lines.
type Tagger struct {
	inv   Inventory
	mode  Mode
	fuzzy fuzzy.Options
}

// NewTagger creates a tagger.
func NewTagger(inv Inventory, mode Mode) *Tagger {
	return &Tagger{inv: inv, mode: mode, fuzzy: fuzzy.DefaultOptions()}
}

// Tag rewrites every line. The output has exactly one line per input line:
// comments and headers pass through trimmed, blank lines stay blank, found
// cards become prefix + name + tags and missing cards keep their text with
// NotFoundTag appended.
func (t *Tagger) Tag(lines []Line) ([]string, TagStats) {
	out := make([]string, 0, len(lines))
	var stats TagStats
	var candidates []string

	for _, l := range lines {
		switch l.Kind {
		case KindBlank:
			out = append(out, "")
			stats.Blank++

		case KindComment, KindHeader:
			out = append(out, l.Raw)
			stats.Comments++

		case KindCard:
			card, ok := t.inv.Lookup(l.Card)
			if !ok {
				out = append(out, l.Raw+" "+NotFoundTag)
				stats.Missing++
				if candidates == nil {
					candidates = t.inv.Names()
				}
				stats.Unknown = append(stats.Unknown, MissingCard{
					Line:        l.Number,
					Name:        l.Card,
					Suggestions: fuzzy.Search(l.Card, candidates, t.fuzzy),
				})
				continue
			}
			out = append(out, l.Prefix+l.Card+" "+t.tags(card))
			stats.Found++
		}
	}
	return out, stats
}

func (t *Tagger) tags(card *inventory.Card) string {
	collections := card.Collections
	if t.mode == ModeFirst && len(collections) > 1 {
		collections = collections[:1]
	}

	tags := make([]string, 0, len(collections))
	for _, c := range collections {
		if tag := names.SanitizeTag(c); tag != "" {
			tags = append(tags, "#"+tag)
		}
	}
	if len(tags) == 0 {
		return "#" + unsortedTag
	}
	return strings.Join(tags, " ")
}
