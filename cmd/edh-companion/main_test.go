package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/EDH-Companion/internal/session"
)

const testInventory = `Name,Quantity,Source
Sol Ring,1,Commander Precons
Cultivate,2,Green Binder
Forest,10,Lands
`

type fixture struct {
	dir    string
	out    string
	config string
}

func newFixture(t *testing.T, edhrecURL string) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		out:    filepath.Join(dir, "out"),
		config: filepath.Join(dir, "config.toml"),
	}
	inv := filepath.Join(dir, "inventory.csv")
	require.NoError(t, os.WriteFile(inv, []byte(testInventory), 0o644))

	if edhrecURL == "" {
		edhrecURL = "http://127.0.0.1:1/pages"
	}
	cfg := fmt.Sprintf(`
[files]
inventory = %q
output_dir = %q

[remote]
edhrec_base_url = %q
scryfall_base_url = %q
request_delay = "1ms"
initial_backoff = "1ms"
max_backoff = "2ms"

[run]
workers = 2
min_matches = 2
`, inv, f.out, edhrecURL, edhrecURL)
	require.NoError(t, os.WriteFile(f.config, []byte(cfg), 0o644))
	return f
}

func run(ctx context.Context, f fixture, stdin string, args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--config", f.config, "--env-file", ""))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestTagCommand(t *testing.T) {
	f := newFixture(t, "")
	list := filepath.Join(f.dir, "list.txt")
	require.NoError(t, os.WriteFile(list, []byte("# Commander: Omnath\n1 Sol Ring\n\nCultivat\n"), 0o644))
	output := filepath.Join(f.out, "tagged.txt")

	stdout, err := run(context.Background(), f, "", "tag", "--input", list, "--output", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "# Commander: Omnath\n1 Sol Ring #Commander_Precons\n\nCultivat #NOT_FOUND\n", string(data))
	assert.Contains(t, stdout, "Found: 1 | Not found: 1")
	assert.Contains(t, stdout, "did you mean Cultivate")
}

func TestTagCommandInvalidMode(t *testing.T) {
	f := newFixture(t, "")
	_, err := run(context.Background(), f, "", "tag", "--mode", "some")
	assert.Error(t, err)
}

func TestCompleteInterruptedWritesNothing(t *testing.T) {
	f := newFixture(t, "")
	decks := filepath.Join(f.dir, "decks.txt")
	require.NoError(t, os.WriteFile(decks, []byte("# Commander: Omnath, Locus of Mana\n1 Sol Ring\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := run(ctx, f, "", "complete", "--decklist", decks, "--yes")
	require.ErrorIs(t, err, session.ErrInterrupted)

	_, statErr := os.Stat(f.out)
	assert.True(t, os.IsNotExist(statErr), "output directory should not exist")
}

func TestCompleteRejectsBadExportFormat(t *testing.T) {
	f := newFixture(t, "")
	_, err := run(context.Background(), f, "", "complete", "--export", "xml")
	assert.Error(t, err)
}

func TestCommandersRejectsBadSelection(t *testing.T) {
	f := newFixture(t, "")
	_, err := run(context.Background(), f, "", "commanders", "--select", "5-2")
	assert.Error(t, err)
}

func edhrecServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	cardPage := `{"container":{"json_dict":{"card":{"name":%q,"scryfall_uri":"https://scryfall.com/card/%s"},
"cardlists":[{"header":"Commanders","cardviews":[
{"name":"Omnath, Locus of Mana","url":"/commanders/omnath-locus-of-mana","inclusion":50,"potential_decks":100}]}]}}}`
	pages := map[string]string{
		"/pages/cards/sol-ring.json":  fmt.Sprintf(cardPage, "Sol Ring", "sol-ring"),
		"/pages/cards/cultivate.json": fmt.Sprintf(cardPage, "Cultivate", "cultivate"),
		"/pages/average-decks/omnath-locus-of-mana.json": `{"container":{"json_dict":{"cardlists":[
{"header":"Ramp","cardviews":[{"name":"Sol Ring"},{"name":"Beast Within"}]}]}}}`,
	}
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestCommandersCommand(t *testing.T) {
	srv, _ := edhrecServer(t)
	f := newFixture(t, srv.URL+"/pages")

	stdout, err := run(context.Background(), f, "", "commanders", "--select", "all", "--export", "csv", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Omnath, Locus of Mana")

	for _, name := range []string{
		"commanders.xlsx",
		"commanders_chart.html",
		"Omnath_Locus_of_Mana_decklist.txt",
		"Omnath_Locus_of_Mana_decklist.xlsx",
	} {
		assert.FileExists(t, filepath.Join(f.out, name))
	}
	exports, err := filepath.Glob(filepath.Join(f.out, "commanders_*.csv"))
	require.NoError(t, err)
	assert.Len(t, exports, 1)

	decklist, err := os.ReadFile(filepath.Join(f.out, "Omnath_Locus_of_Mana_decklist.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(decklist), "1 Omnath, Locus of Mana\n")
	assert.Contains(t, string(decklist), "1 Sol Ring")
}

func TestCommandersPromptSkipped(t *testing.T) {
	srv, _ := edhrecServer(t)
	f := newFixture(t, srv.URL+"/pages")

	stdout, err := run(context.Background(), f, "yes\n\n", "commanders", "--no-chart")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Fetch EDHREC pages for 3 cards?")
	assert.Contains(t, stdout, "Build decklists for which commanders?")

	assert.FileExists(t, filepath.Join(f.out, "commanders.xlsx"))
	assert.NoFileExists(t, filepath.Join(f.out, "commanders_chart.html"))
	matches, err := filepath.Glob(filepath.Join(f.out, "*_decklist.txt"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCommandersDeclinedFetchesNothing(t *testing.T) {
	srv, requests := edhrecServer(t)
	f := newFixture(t, srv.URL+"/pages")

	stdout, err := run(context.Background(), f, "no\n", "commanders")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Fetch EDHREC pages for 3 cards? This can take several minutes. (yes/no):")
	assert.Contains(t, stdout, "Cancelled, nothing was saved.")

	assert.Zero(t, requests.Load())
	_, statErr := os.Stat(f.out)
	assert.True(t, os.IsNotExist(statErr), "output directory should not exist")
}

func writeDecks(t *testing.T, f fixture) string {
	t.Helper()
	decks := filepath.Join(f.dir, "decks.txt")
	require.NoError(t, os.WriteFile(decks, []byte("# Commander: Omnath, Locus of Mana\n1 Sol Ring\n"), 0o644))
	return decks
}

func TestCompleteDeclinedFetchesNothing(t *testing.T) {
	srv, requests := edhrecServer(t)
	f := newFixture(t, srv.URL+"/pages")

	stdout, err := run(context.Background(), f, "n\n", "complete", "--decklist", writeDecks(t, f))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Fetch EDHREC data for 1 decks?")
	assert.Contains(t, stdout, "Cancelled, nothing was saved.")

	assert.Zero(t, requests.Load())
	_, statErr := os.Stat(f.out)
	assert.True(t, os.IsNotExist(statErr), "output directory should not exist")
}

func TestCompleteAssumeYesSkipsPrompt(t *testing.T) {
	srv, requests := edhrecServer(t)
	f := newFixture(t, srv.URL+"/pages")

	stdout, err := run(context.Background(), f, "", "complete", "--decklist", writeDecks(t, f), "--yes")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "(yes/no)")

	assert.Positive(t, requests.Load())
	assert.FileExists(t, filepath.Join(f.out, "suggestions.xlsx"))
	reports, err := filepath.Glob(filepath.Join(f.out, "suggestions_*.txt"))
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}
