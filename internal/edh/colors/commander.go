package colors

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/extract"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/remote"
)

// Tier names the source a commander identity came from.
type Tier int

const (
	TierPayload Tier = iota
	TierTable
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierPayload:
		return "payload"
	case TierTable:
		return "table"
	default:
		return "fallback"
	}
}

// CommanderPages fetches commander pages. *remote.Client implements it.
type CommanderPages interface {
	CommanderPage(ctx context.Context, commander string) remote.Result
}

// Resolution is a commander identity and where it came from.
type Resolution struct {
	Commander string
	Identity  Identity
	Tier      Tier
}

// knownCommanders is consulted only when the commander page has no identity.
// Entries match as substrings of the lowercased name, first entry wins.
var knownCommanders = []struct {
	fragment string
	identity Identity
}{
	{"atraxa", MustParse("WUBG")},
	{"muldrotha", MustParse("UBG")},
	{"korvold", MustParse("BRG")},
	{"golos", MustParse("WUBRG")},
	{"chulane", MustParse("GWU")},
}

// ResolveCommander determines a commander's identity: from its commander page
// first, then from the table of well-known commanders, and finally by
// assuming all five colors.
func ResolveCommander(ctx context.Context, pages CommanderPages, name string, logger *zap.Logger) Resolution {
	if logger == nil {
		logger = zap.NewNop()
	}

	res := pages.CommanderPage(ctx, name)
	if !res.NoData() {
		if list, ok := extract.FindColorIdentity(res.Value); ok {
			if id, ok := ParseIdentity(list); ok {
				return Resolution{Commander: name, Identity: id, Tier: TierPayload}
			}
			logger.Debug("commander page has an unrecognized identity",
				zap.String("commander", name),
				zap.Strings("colors", list))
		}
	}

	if id, ok := lookupKnown(name); ok {
		return Resolution{Commander: name, Identity: id, Tier: TierTable}
	}

	logger.Warn("commander colors unknown, assuming all five",
		zap.String("commander", name),
		zap.Stringer("outcome", res.Outcome))
	return Resolution{Commander: name, Identity: FiveColor, Tier: TierFallback}
}

func lookupKnown(name string) (Identity, bool) {
	lower := strings.ToLower(name)
	for _, k := range knownCommanders {
		if strings.Contains(lower, k.fragment) {
			return k.identity, true
		}
	}
	return 0, false
}
