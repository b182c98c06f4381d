package colors

import (
	"context"

	"go.uber.org/zap"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/remote"
)

// Legality is the outcome of a color check.
type Legality int

const (
	Legal Legality = iota
	Illegal
	// Unknown means the card's identity could not be determined.
	Unknown
)

func (l Legality) String() string {
	switch l {
	case Legal:
		return "legal"
	case Illegal:
		return "illegal"
	default:
		return "unknown"
	}
}

// Permit reports whether a card with legality l may be suggested.
//
// This is the one place an Unknown identity is let through: a lookup failure
// never blocks a suggestion.
func Permit(l Legality) bool {
	return l != Illegal
}

// IdentityLookup resolves a card's color identity by exact name.
// *remote.Client implements it.
type IdentityLookup interface {
	CardColorIdentity(ctx context.Context, cardName string) ([]string, remote.Result)
}

// Filter checks candidate cards against one commander's identity.
type Filter struct {
	lookup    IdentityLookup
	commander Identity
	known     bool
	logger    *zap.Logger
}

// NewFilter returns a filter for a commander with a known identity.
func NewFilter(lookup IdentityLookup, commander Identity, logger *zap.Logger) *Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{lookup: lookup, commander: commander, known: true, logger: logger}
}

// Unrestricted returns a filter for a commander whose identity is unknown.
// Every card is legal and nothing is looked up.
func Unrestricted() *Filter {
	return &Filter{logger: zap.NewNop()}
}

// Commander returns the identity cards are checked against and whether it is
// known.
func (f *Filter) Commander() (Identity, bool) {
	return f.commander, f.known
}

// Check decides the legality of a card.
func (f *Filter) Check(ctx context.Context, cardName string) Legality {
	if !f.known || f.commander == FiveColor {
		return Legal
	}

	list, res := f.lookup.CardColorIdentity(ctx, cardName)
	if res.NoData() {
		f.logger.Debug("color identity unavailable",
			zap.String("card", cardName),
			zap.Stringer("outcome", res.Outcome))
		return Unknown
	}

	card, ok := ParseIdentity(list)
	if !ok {
		f.logger.Debug("unrecognized color identity",
			zap.String("card", cardName),
			zap.Strings("colors", list))
		return Unknown
	}

	if f.commander.Contains(card) {
		return Legal
	}
	return Illegal
}
