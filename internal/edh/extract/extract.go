package extract

import (
	"sort"
	"strings"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/jsonvalue"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
)

// Field names used by EDHREC pages.
const (
	fieldName           = "name"
	fieldLink           = "scryfall_uri"
	fieldURL            = "url"
	fieldCardViews      = "cardviews"
	fieldInclusion      = "inclusion"
	fieldNumDecks       = "num_decks"
	fieldPotentialDecks = "potential_decks"
	fieldPrice          = "price"
	fieldSynergy        = "synergy"
	fieldTag            = "tag"
	fieldHeader         = "header"

	commanderPageMarker = "/commanders/"
)

// Relevance floors applied while extracting.
const (
	MinAttachPercent = 0.2
	MinSynergy       = 0.1
)

var colorFields = []string{"coloridentity", "color_identity", "colors"}

// CardView is one card as listed on a recommendation page, merged over every
// list it appears in.
type CardView struct {
	Name           string
	Inclusion      float64
	NumDecks       float64
	PotentialDecks float64
	Price          float64
	HasPrice       bool
	Link           string
	Synergy        float64
	Budget         bool
}

// InclusionFraction is inclusion over deck count, or 0 without a deck count.
func (cv CardView) InclusionFraction() float64 {
	if cv.NumDecks <= 0 {
		return 0
	}
	return cv.Inclusion / cv.NumDecks
}

// Attachment links an owned card to a commander page that plays it.
type Attachment struct {
	Commander string
	Percent   float64
	// Link is the owned card's own detail page, when the payload has one.
	Link string
}

// SynergyCard is a card reported as synergistic with Source.
type SynergyCard struct {
	Name   string
	Score  float64
	Link   string
	Source string
}

// FindOwnLink returns the canonical link of the first node named target
// (case-insensitively) that carries a non-empty link.
func FindOwnLink(tree jsonvalue.Value, target string) (string, bool) {
	key := names.Key(target)
	if key == "" {
		return "", false
	}

	var found string
	each(tree, func(node jsonvalue.Value) bool {
		if node.Kind() != jsonvalue.KindObject {
			return true
		}
		name, ok := nodeName(node)
		if !ok || names.Key(name) != key {
			return true
		}
		if link := node.GetString(fieldLink); link != "" {
			found = link
			return false
		}
		return true
	})
	return found, found != ""
}

// FindColorIdentity returns the first color identity field found in the tree,
// upper-cased. Direct identity fields win over "colors" on the same node; a
// node's own fields are checked before its children. The search stops at the
// first field present, so an empty or malformed list reports not found.
func FindColorIdentity(tree jsonvalue.Value) ([]string, bool) {
	var found []string
	each(tree, func(node jsonvalue.Value) bool {
		if node.Kind() != jsonvalue.KindObject {
			return true
		}
		for _, field := range colorFields {
			if _, ok := node.Get(field); !ok {
				continue
			}
			for _, c := range node.GetStrings(field) {
				found = append(found, strings.ToUpper(strings.TrimSpace(c)))
			}
			return false
		}
		return true
	})
	return found, len(found) > 0
}

// ExtractCardViews collects every entry of every "cardviews" list. Repeated
// names merge: maximum inclusion, deck count and synergy, first non-empty
// link, first known price. A list under a node tagged "budget" marks its
// cards as budget picks. Cards come back in discovery order.
func ExtractCardViews(tree jsonvalue.Value) []CardView {
	var order []string
	merged := make(map[string]*CardView)

	walk(tree, false, func(node jsonvalue.Value, inBudget bool) (bool, bool) {
		if node.Kind() != jsonvalue.KindObject {
			return inBudget, true
		}

		budget := inBudget || strings.Contains(strings.ToLower(node.GetString(fieldTag)), "budget")

		views, ok := node.Get(fieldCardViews)
		if !ok {
			return budget, true
		}
		for _, item := range views.Items() {
			cv, ok := readCardView(item)
			if !ok {
				continue
			}
			cv.Budget = budget

			key := names.Key(cv.Name)
			existing, seen := merged[key]
			if !seen {
				merged[key] = &cv
				order = append(order, key)
				continue
			}
			mergeCardView(existing, cv)
		}
		return budget, true
	})

	out := make([]CardView, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	return out
}

func mergeCardView(dst *CardView, src CardView) {
	dst.Inclusion = max(dst.Inclusion, src.Inclusion)
	dst.NumDecks = max(dst.NumDecks, src.NumDecks)
	dst.PotentialDecks = max(dst.PotentialDecks, src.PotentialDecks)
	dst.Synergy = max(dst.Synergy, src.Synergy)
	if dst.Link == "" {
		dst.Link = src.Link
	}
	if !dst.HasPrice && src.HasPrice {
		dst.Price, dst.HasPrice = src.Price, true
	}
	dst.Budget = dst.Budget || src.Budget
}

func readCardView(item jsonvalue.Value) (CardView, bool) {
	if item.Kind() != jsonvalue.KindObject {
		return CardView{}, false
	}
	name, ok := nodeName(item)
	if !ok {
		return CardView{}, false
	}

	cv := CardView{
		Name:           name,
		Inclusion:      item.GetNumber(fieldInclusion),
		NumDecks:       item.GetNumber(fieldNumDecks),
		PotentialDecks: item.GetNumber(fieldPotentialDecks),
		Link:           item.GetString(fieldLink),
		Synergy:        item.GetNumber(fieldSynergy),
	}
	if price, ok := item.Get(fieldPrice); ok {
		cv.Price, cv.HasPrice = price.AsNumber()
	}
	return cv, true
}

// ExtractCommanderAttachments finds commander entries on a card page and
// returns those that play the card in more than MinAttachPercent of their
// decks.
func ExtractCommanderAttachments(tree jsonvalue.Value, cardName string) []Attachment {
	link, _ := FindOwnLink(tree, cardName)

	var out []Attachment
	each(tree, func(node jsonvalue.Value) bool {
		if node.Kind() != jsonvalue.KindObject {
			return true
		}
		if !strings.Contains(node.GetString(fieldURL), commanderPageMarker) {
			return true
		}
		name, ok := nodeName(node)
		if !ok {
			return true
		}
		inclusion := node.GetNumber(fieldInclusion)
		potential := node.GetNumber(fieldPotentialDecks)
		if inclusion <= 0 || potential <= 0 {
			return true
		}
		if percent := inclusion / potential; percent > MinAttachPercent {
			out = append(out, Attachment{Commander: name, Percent: percent, Link: link})
		}
		return true
	})
	return out
}

// ExtractSynergyCards reads synergy-looking sections (a header mentioning
// "synergy" or a tag mentioning "cards") and keeps entries scoring above
// MinSynergy.
func ExtractSynergyCards(tree jsonvalue.Value, sourceName string) []SynergyCard {
	var out []SynergyCard
	each(tree, func(node jsonvalue.Value) bool {
		if node.Kind() != jsonvalue.KindObject || !isSynergySection(node) {
			return true
		}
		views, ok := node.Get(fieldCardViews)
		if !ok {
			return true
		}
		for _, item := range views.Items() {
			if item.Kind() != jsonvalue.KindObject {
				continue
			}
			name, ok := nodeName(item)
			if !ok {
				continue
			}
			if score := item.GetNumber(fieldSynergy); score > MinSynergy {
				out = append(out, SynergyCard{
					Name:   name,
					Score:  score,
					Link:   item.GetString(fieldLink),
					Source: sourceName,
				})
			}
		}
		return true
	})
	return out
}

func isSynergySection(node jsonvalue.Value) bool {
	header := strings.ToLower(node.GetString(fieldHeader))
	tag := strings.ToLower(node.GetString(fieldTag))
	return strings.Contains(header, "synergy") || strings.Contains(tag, "cards")
}

// ExtractCardSynergies reads every card view on a card page and keeps those
// scoring above MinSynergy. A card listed more than once keeps its best score
// and first non-empty link. Cards come back in discovery order.
func ExtractCardSynergies(tree jsonvalue.Value, sourceName string) []SynergyCard {
	var out []SynergyCard
	index := make(map[string]int)
	each(tree, func(node jsonvalue.Value) bool {
		if node.Kind() != jsonvalue.KindObject {
			return true
		}
		views, ok := node.Get(fieldCardViews)
		if !ok {
			return true
		}
		for _, item := range views.Items() {
			if item.Kind() != jsonvalue.KindObject {
				continue
			}
			name, ok := nodeName(item)
			if !ok {
				continue
			}
			score := item.GetNumber(fieldSynergy)
			if score <= MinSynergy {
				continue
			}
			link := item.GetString(fieldLink)
			key := names.Key(name)
			if i, seen := index[key]; seen {
				out[i].Score = max(out[i].Score, score)
				if out[i].Link == "" {
					out[i].Link = link
				}
				continue
			}
			index[key] = len(out)
			out = append(out, SynergyCard{Name: name, Score: score, Link: link, Source: sourceName})
		}
		return true
	})
	return out
}

// AverageDeckCards returns the distinct cards of an average-deck page sorted
// by name.
func AverageDeckCards(tree jsonvalue.Value) []CardView {
	views := ExtractCardViews(tree)
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Name < views[j].Name
	})
	return views
}

func nodeName(node jsonvalue.Value) (string, bool) {
	name := strings.TrimSpace(node.GetString(fieldName))
	return name, name != ""
}
