package commanders

import (
	"sort"
	"strings"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/scoring"
)

// Theme detection limits.
const (
	minThemeCards   = 3
	maxThemeSamples = 10
	shownSamples    = 5
)

// Potential grades how strongly a theme shows up.
type Potential int

const (
	PotentialLow Potential = iota
	PotentialMedium
	PotentialHigh
)

func (p Potential) String() string {
	switch p {
	case PotentialHigh:
		return "High"
	case PotentialMedium:
		return "Medium"
	default:
		return "Low"
	}
}

func potentialOf(count int) Potential {
	switch {
	case count >= 10:
		return PotentialHigh
	case count >= 6:
		return PotentialMedium
	default:
		return PotentialLow
	}
}

type themeKeywords struct {
	name     string
	keywords []string
}

// themeGroups is matched against lower-cased card names. A card may count
// toward several themes.
var themeGroups = []themeKeywords{
	{"Tokens", []string{"token", "create", "populate", "doubling season", "anointed procession"}},
	{"Sacrifice", []string{"sacrifice", "aristocrats", "blood artist", "zulaport", "mayhem devil"}},
	{"+1/+1 Counters", []string{"counter", "+1/+1", "proliferate", "modular", "evolve"}},
	{"Graveyard", []string{"graveyard", "reanimate", "flashback", "delve", "escape", "dredge"}},
	{"Artifacts", []string{"artifact", "affinity", "metalcraft", "improvise", "treasure"}},
	{"Enchantments", []string{"enchantment", "constellation", "enchantress", "saga"}},
	{"Spellslinger", []string{"instant", "sorcery", "prowess", "storm", "magecraft"}},
	{"Voltron", []string{"equipment", "aura", "voltron", "commander damage"}},
	{"Ramp", []string{"ramp", "land", "mana", "cultivate", "kodama", "explosive vegetation"}},
	{"Card Draw", []string{"draw", "card advantage", "rhystic", "curiosity", "wheel"}},
	{"Tribal", []string{"elf", "goblin", "zombie", "dragon", "changeling", "tribal"}},
	{"Control", []string{"counter", "removal", "board wipe", "control", "cyclonic rift"}},
	{"Combo", []string{"infinite", "combo", "win condition", "thoracle"}},
	{"Landfall", []string{"landfall", "land enters", "fetch", "evolving wilds"}},
	{"Blink", []string{"blink", "flicker", "enters the battlefield", "etb"}},
}

// Theme is an archetype suggested by the names of recommended cards.
type Theme struct {
	Name     string
	Count    int
	Examples []string
}

// Potential grades the theme by its card count.
func (t Theme) Potential() Potential {
	return potentialOf(t.Count)
}

// Shown returns the examples listed in reports.
func (t Theme) Shown() []string {
	if len(t.Examples) > shownSamples {
		return t.Examples[:shownSamples]
	}
	return t.Examples
}

// DetectThemes counts rows whose card name mentions a theme keyword. Every
// row counts, so a card recommended for two commanders counts twice. Themes
// with fewer than three hits are dropped; the rest are ordered by count.
func DetectThemes(rows []scoring.Row) []Theme {
	themes := make([]Theme, len(themeGroups))
	for i, g := range themeGroups {
		themes[i].Name = g.name
	}

	for _, r := range rows {
		lower := strings.ToLower(r.Card)
		for i, g := range themeGroups {
			if !containsAny(lower, g.keywords) {
				continue
			}
			themes[i].Count++
			if len(themes[i].Examples) < maxThemeSamples {
				themes[i].Examples = append(themes[i].Examples, r.Card)
			}
		}
	}

	var out []Theme
	for _, t := range themes {
		if t.Count >= minThemeCards {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
