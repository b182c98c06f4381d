package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/jsonvalue"
)

const cardPage = `{
  "header": "Sol Ring (Card)",
  "container": {
    "json_dict": {
      "card": {"name": "Sol Ring", "color_identity": [], "scryfall_uri": "https://scryfall.com/card/c21/263/sol-ring"},
      "cardlists": [
        {
          "tag": "topcommanders",
          "header": "Top Commanders",
          "cardviews": [
            {"name": "Atraxa, Praetors' Voice", "url": "/commanders/atraxa-praetors-voice", "inclusion": 300, "potential_decks": 1000},
            {"name": "Edgar Markov", "url": "/commanders/edgar-markov", "inclusion": 150, "potential_decks": 1000},
            {"name": "Krenko, Mob Boss", "url": "/commanders/krenko-mob-boss", "inclusion": 0, "potential_decks": 1000},
            {"name": "Zada", "url": "/commanders/zada", "inclusion": 50, "potential_decks": 0},
            {"name": "Not A Commander", "url": "/cards/not-a-commander", "inclusion": 900, "potential_decks": 1000}
          ]
        },
        {
          "tag": "highsynergycards",
          "header": "High Synergy Cards",
          "cardviews": [
            {"name": "Arcane Signet", "synergy": 0.35, "scryfall_uri": "https://scryfall.com/card/arcane-signet"},
            {"name": "Mind Stone", "synergy": 0.1},
            {"name": "Thran Dynamo", "synergy": "0.22"}
          ]
        },
        {
          "tag": "creatures",
          "header": "Creatures",
          "cardviews": [
            {"name": "Solemn Simulacrum", "synergy": 0.5}
          ]
        }
      ]
    }
  }
}`

func TestFindOwnLink(t *testing.T) {
	tree := jsonvalue.MustParse(cardPage)

	link, ok := FindOwnLink(tree, "sol ring")
	if !ok || link != "https://scryfall.com/card/c21/263/sol-ring" {
		t.Errorf("FindOwnLink = (%q, %v)", link, ok)
	}

	if _, ok := FindOwnLink(tree, "Mind Stone"); ok {
		t.Error("Mind Stone has no link and must be absent")
	}
	if _, ok := FindOwnLink(tree, ""); ok {
		t.Error("empty target must be absent")
	}
}

func TestFindOwnLinkFirstMatchWins(t *testing.T) {
	tree := jsonvalue.MustParse(`[
		{"name": "Sol Ring"},
		{"nested": {"name": "SOL RING", "scryfall_uri": "first"}},
		{"name": "Sol Ring", "scryfall_uri": "second"}
	]`)

	if link, _ := FindOwnLink(tree, "Sol Ring"); link != "first" {
		t.Errorf("expected first match in document order, got %q", link)
	}
}

func TestFindColorIdentity(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		want   []string
		wantOK bool
	}{
		{
			name:   "direct field",
			doc:    `{"container": {"json_dict": {"card": {"coloridentity": ["w", "u", "b", "g"]}}}}`,
			want:   []string{"W", "U", "B", "G"},
			wantOK: true,
		},
		{
			name:   "snake case field",
			doc:    `{"card": {"color_identity": ["B", "R", "G"]}}`,
			want:   []string{"B", "R", "G"},
			wantOK: true,
		},
		{
			name:   "colors list",
			doc:    `{"panels": [{"colors": ["U"]}]}`,
			want:   []string{"U"},
			wantOK: true,
		},
		{
			name:   "first match in member order",
			doc:    `{"a": {"colors": ["R"]}, "b": {"coloridentity": ["G"]}}`,
			want:   []string{"R"},
			wantOK: true,
		},
		{
			name:   "parent before children",
			doc:    `{"child": {"coloridentity": ["G"]}, "colors": ["W"]}`,
			want:   []string{"W"},
			wantOK: true,
		},
		{
			name: "empty list stops the search",
			doc:  `{"coloridentity": [], "card": {"colors": ["U", "R"]}}`,
		},
		{
			name: "colorless commander ignores nested cards",
			doc:  `{"card": {"name": "Kozilek", "coloridentity": []}, "cardlists": [{"cardviews": [{"name": "Forest", "coloridentity": ["G"]}]}]}`,
		},
		{
			name: "colors not a list",
			doc:  `{"colors": "WU"}`,
		},
		{
			name: "empty mapping",
			doc:  `{}`,
		},
		{
			name: "nested without field",
			doc:  `{"a": {"b": {"c": [{"d": {"e": 1}}]}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindColorIdentity(jsonvalue.MustParse(tt.doc))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("colors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// nest wraps leaf in depth levels of {"next": ...}.
func nest(depth int, leaf jsonvalue.Value) jsonvalue.Value {
	v := leaf
	for i := 0; i < depth; i++ {
		v = jsonvalue.Object(jsonvalue.M("next", v))
	}
	return v
}

func TestFindColorIdentityDepthCap(t *testing.T) {
	leaf := jsonvalue.Object(jsonvalue.M("coloridentity", jsonvalue.Array(jsonvalue.String("G"))))

	if _, ok := FindColorIdentity(nest(maxDepth, leaf)); !ok {
		t.Error("identity at the depth cap should be found")
	}
	if _, ok := FindColorIdentity(nest(maxDepth+1, leaf)); ok {
		t.Error("identity below the depth cap must be absent")
	}
	if _, ok := FindColorIdentity(nest(500, leaf)); ok {
		t.Error("pathologically deep structure must be absent")
	}
}

func TestExtractCardViews(t *testing.T) {
	tree := jsonvalue.MustParse(`{
		"container": {"json_dict": {"cardlists": [
			{"tag": "topcards", "cardviews": [
				{"name": "Sol Ring", "inclusion": 800, "num_decks": 1000, "price": 1.5},
				{"name": "Cultivate", "inclusion": 400, "num_decks": 900}
			]},
			{"tag": "budgetcards", "sub": {"cardviews": [
				{"name": "sol ring", "inclusion": 900, "num_decks": 950, "scryfall_uri": "link-a", "price": 3},
				{"name": "Fellwar Stone", "inclusion": 100, "num_decks": 1000, "price": "0.25"}
			]}},
			{"cardviews": [
				{"name": "Cultivate", "scryfall_uri": "link-b", "synergy": 0.2},
				{"name": "Cultivate", "scryfall_uri": "link-c"},
				{"inclusion": 5},
				"garbage"
			]}
		]}}
	}`)

	want := []CardView{
		{Name: "Sol Ring", Inclusion: 900, NumDecks: 1000, Price: 1.5, HasPrice: true, Link: "link-a", Budget: true},
		{Name: "Cultivate", Inclusion: 400, NumDecks: 900, Link: "link-b", Synergy: 0.2},
		{Name: "Fellwar Stone", Inclusion: 100, NumDecks: 1000, Price: 0.25, HasPrice: true, Budget: true},
	}

	if diff := cmp.Diff(want, ExtractCardViews(tree)); diff != "" {
		t.Errorf("card views mismatch (-want +got):\n%s", diff)
	}
}

func TestInclusionFraction(t *testing.T) {
	if got := (CardView{Inclusion: 300, NumDecks: 1000}).InclusionFraction(); got != 0.3 {
		t.Errorf("InclusionFraction = %v, want 0.3", got)
	}
	if got := (CardView{Inclusion: 300}).InclusionFraction(); got != 0 {
		t.Errorf("InclusionFraction without decks = %v, want 0", got)
	}
}

func TestExtractCommanderAttachments(t *testing.T) {
	got := ExtractCommanderAttachments(jsonvalue.MustParse(cardPage), "Sol Ring")

	want := []Attachment{
		{Commander: "Atraxa, Praetors' Voice", Percent: 0.3, Link: "https://scryfall.com/card/c21/263/sol-ring"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attachments mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCommanderAttachmentsFloor(t *testing.T) {
	tree := jsonvalue.MustParse(`{"cardviews": [
		{"name": "Exactly Twenty", "url": "/commanders/a", "inclusion": 20, "potential_decks": 100},
		{"name": "Just Above", "url": "/commanders/b", "inclusion": 21, "potential_decks": 100}
	]}`)

	got := ExtractCommanderAttachments(tree, "Anything")
	if len(got) != 1 || got[0].Commander != "Just Above" {
		t.Errorf("expected only the commander above the floor, got %+v", got)
	}
	if got[0].Link != "" {
		t.Errorf("no own link in payload, got %q", got[0].Link)
	}
}

func TestExtractSynergyCards(t *testing.T) {
	got := ExtractSynergyCards(jsonvalue.MustParse(cardPage), "Sol Ring")

	want := []SynergyCard{
		{Name: "Arcane Signet", Score: 0.35, Link: "https://scryfall.com/card/arcane-signet", Source: "Sol Ring"},
		{Name: "Thran Dynamo", Score: 0.22, Source: "Sol Ring"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("synergy cards mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCardSynergies(t *testing.T) {
	got := ExtractCardSynergies(jsonvalue.MustParse(cardPage), "Sol Ring")

	want := []SynergyCard{
		{Name: "Arcane Signet", Score: 0.35, Link: "https://scryfall.com/card/arcane-signet", Source: "Sol Ring"},
		{Name: "Thran Dynamo", Score: 0.22, Source: "Sol Ring"},
		{Name: "Solemn Simulacrum", Score: 0.5, Source: "Sol Ring"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("card synergies mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCardSynergiesKeepsBestScore(t *testing.T) {
	tree := jsonvalue.MustParse(`{"cardlists": [
		{"tag": "lands", "cardviews": [{"name": "Cabal Coffers", "synergy": 0.2}]},
		{"tag": "newcards", "cardviews": [{"name": "cabal coffers", "synergy": 0.6, "scryfall_uri": "coffers"}]}
	]}`)

	got := ExtractCardSynergies(tree, "Urborg")
	want := []SynergyCard{{Name: "Cabal Coffers", Score: 0.6, Link: "coffers", Source: "Urborg"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("card synergies mismatch (-want +got):\n%s", diff)
	}
}

func TestAverageDeckCards(t *testing.T) {
	tree := jsonvalue.MustParse(`{"deck": [{"cardviews": [{"name": "Zurgo"}, {"name": "Arcane Signet"}, {"name": "zurgo"}]}]}`)

	got := AverageDeckCards(tree)
	if len(got) != 2 || got[0].Name != "Arcane Signet" || got[1].Name != "Zurgo" {
		t.Errorf("AverageDeckCards = %+v", got)
	}
}

func TestExtractorsTolerateScalars(t *testing.T) {
	for _, v := range []jsonvalue.Value{
		jsonvalue.Null(),
		jsonvalue.Number(3),
		jsonvalue.String("cardviews"),
		jsonvalue.Array(),
	} {
		if _, ok := FindOwnLink(v, "x"); ok {
			t.Error("FindOwnLink on scalar should be absent")
		}
		if _, ok := FindColorIdentity(v); ok {
			t.Error("FindColorIdentity on scalar should be absent")
		}
		if len(ExtractCardViews(v)) != 0 || len(ExtractCommanderAttachments(v, "x")) != 0 || len(ExtractSynergyCards(v, "x")) != 0 ||
			len(ExtractCardSynergies(v, "x")) != 0 {
			t.Error("extractors on scalar should be empty")
		}
	}
}
