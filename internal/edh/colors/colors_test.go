package colors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/jsonvalue"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/remote"
)

type fakeLookup struct {
	identities map[string][]string
	calls      []string
}

func (f *fakeLookup) CardColorIdentity(_ context.Context, name string) ([]string, remote.Result) {
	f.calls = append(f.calls, name)
	list, ok := f.identities[name]
	if !ok {
		return nil, remote.Result{Outcome: remote.OutcomeTimeout, Err: errors.New("deadline exceeded")}
	}
	return list, remote.Result{Outcome: remote.OutcomeOK}
}

type fakePages struct {
	pages map[string]string
}

func (f fakePages) CommanderPage(_ context.Context, name string) remote.Result {
	doc, ok := f.pages[name]
	if !ok {
		return remote.Result{Outcome: remote.OutcomeNotFound}
	}
	return remote.Result{Outcome: remote.OutcomeOK, Value: jsonvalue.MustParse(doc)}
}

func TestParseIdentity(t *testing.T) {
	id, ok := ParseIdentity([]string{"w", "U", " b ", "G"})
	require.True(t, ok)
	assert.Equal(t, "WUBG", id.String())

	_, ok = ParseIdentity([]string{"W", "X"})
	assert.False(t, ok)

	id, ok = ParseIdentity(nil)
	require.True(t, ok)
	assert.Equal(t, Identity(0), id)
	assert.Equal(t, "C", id.String())
}

func TestIdentityContains(t *testing.T) {
	commander := MustParse("WUBG")

	assert.True(t, commander.Contains(MustParse("UB")))
	assert.False(t, commander.Contains(MustParse("UBR")))
	assert.True(t, commander.Contains(0), "colorless fits everywhere")
	assert.True(t, FiveColor.Contains(MustParse("WUBRG")))
}

func TestFilterCheck(t *testing.T) {
	lookup := &fakeLookup{identities: map[string][]string{
		"Baleful Strix":      {"U", "B"},
		"Kolaghan's Command": {"B", "R"},
		"Sol Ring":           {},
		"Weird Card":         {"P"},
	}}
	filter := NewFilter(lookup, MustParse("WUBG"), nil)
	ctx := context.Background()

	tests := []struct {
		card string
		want Legality
	}{
		{"Baleful Strix", Legal},
		{"Kolaghan's Command", Illegal},
		{"Sol Ring", Legal},
		{"Weird Card", Unknown},
		{"Lookup Fails", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.card, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Check(ctx, tt.card))
		})
	}
}

func TestFilterUnknownCommanderAllowsEverything(t *testing.T) {
	filter := Unrestricted()
	ctx := context.Background()

	for _, card := range []string{"Kolaghan's Command", "Anything"} {
		assert.Equal(t, Legal, filter.Check(ctx, card))
	}
	_, known := filter.Commander()
	assert.False(t, known)
}

func TestFilterFiveColorSkipsLookup(t *testing.T) {
	lookup := &fakeLookup{}
	filter := NewFilter(lookup, FiveColor, nil)

	assert.Equal(t, Legal, filter.Check(context.Background(), "Kolaghan's Command"))
	assert.Empty(t, lookup.calls)
}

func TestPermit(t *testing.T) {
	assert.True(t, Permit(Legal))
	assert.True(t, Permit(Unknown))
	assert.False(t, Permit(Illegal))

	lookup := &fakeLookup{identities: map[string][]string{"Lightning Bolt": {"R"}}}
	filter := NewFilter(lookup, MustParse("UBG"), nil)
	assert.False(t, Permit(filter.Check(context.Background(), "Lightning Bolt")))
	assert.True(t, Permit(filter.Check(context.Background(), "Network Error")))
}

func TestResolveCommander(t *testing.T) {
	pages := fakePages{pages: map[string]string{
		"Kenrith, the Returned King":  `{"container": {"json_dict": {"card": {"color_identity": ["W", "U", "B", "R", "G"]}}}}`,
		"Atraxa, Praetors' Voice":     `{"container": {"json_dict": {"card": {"name": "Atraxa"}}}}`,
		"Sisay, Weatherlight Captain": `{"colors": ["W", "Z"]}`,
		"Krenko, Mob Boss":            `{"coloridentity": ["r"]}`,
	}}
	ctx := context.Background()

	tests := []struct {
		name     string
		wantID   string
		wantTier Tier
	}{
		{"Krenko, Mob Boss", "R", TierPayload},
		{"Kenrith, the Returned King", "WUBRG", TierPayload},
		{"Atraxa, Praetors' Voice", "WUBG", TierTable},
		{"Muldrotha, the Gravetide", "UBG", TierTable},
		{"Korvold, Fae-Cursed King", "BRG", TierTable},
		{"Chulane, Teller of Tales", "WUG", TierTable},
		{"Sisay, Weatherlight Captain", "WUBRG", TierFallback},
		{"Unheard Of", "WUBRG", TierFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCommander(ctx, pages, tt.name, nil)
			assert.Equal(t, tt.wantID, got.Identity.String())
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, tt.name, got.Commander)
		})
	}
}

func TestResolveCommanderPayloadBeatsTable(t *testing.T) {
	pages := fakePages{pages: map[string]string{
		"Atraxa, Grand Unifier": `{"card": {"coloridentity": ["W", "U", "B", "R"]}}`,
	}}

	got := ResolveCommander(context.Background(), pages, "Atraxa, Grand Unifier", nil)
	assert.Equal(t, TierPayload, got.Tier)
	assert.Equal(t, "WUBR", got.Identity.String())
}
