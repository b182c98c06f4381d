package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/commanders"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/completion"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/decklist"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/scoring"
)

type testRow struct {
	Name     string   `csv:"name"`
	Value    float64  `csv:"value"`
	Count    int      `csv:"count"`
	Active   bool     `csv:"active"`
	Tags     []string `csv:"tags"`
	Pointer  *string  `csv:"pointer"`
	Internal string   `csv:"-"`
	Plain    string
}

func stringPtr(s string) *string {
	return &s
}

func testRows() []testRow {
	return []testRow{
		{Name: "Sol Ring", Value: 0.25, Count: 3, Active: true, Tags: []string{"Bulk", "Binder"}, Pointer: stringPtr("x"), Internal: "hidden", Plain: "p"},
		{Name: "Cultivate", Value: 10.5},
	}
}

func TestExportCSV(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "nested", "rows.csv")

	exporter := NewExporter(Options{Format: FormatCSV, FilePath: filePath})
	if err := exporter.Export(testRows()); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		t.Fatalf("Failed to open export file: %v", err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records (header + 2 rows), got %d", len(records))
	}

	wantHeader := "name,value,count,active,tags,pointer,Plain"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Errorf("header = %q, want %q", got, wantHeader)
	}
	wantRow := "Sol Ring|0.25|3|true|Bulk; Binder|x|p"
	if got := strings.Join(records[1], "|"); got != wantRow {
		t.Errorf("row = %q, want %q", got, wantRow)
	}
	if records[2][5] != "" {
		t.Errorf("nil pointer should export empty, got %q", records[2][5])
	}
}

func TestExportJSON(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "rows.json")

	exporter := NewExporter(Options{Format: FormatJSON, FilePath: filePath, PrettyJSON: true})
	if err := exporter.Export(testRows()); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("Failed to read export file: %v", err)
	}
	var result []testRow
	if err := json.Unmarshal(content, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if len(result) != 2 || result[1].Name != "Cultivate" {
		t.Errorf("unexpected JSON round trip: %+v", result)
	}
}

func TestExportOverwrite(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "rows.csv")
	if err := os.WriteFile(filePath, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := NewExporter(Options{Format: FormatCSV, FilePath: filePath}).Export(testRows())
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("Expected already exists error, got %v", err)
	}

	err = NewExporter(Options{Format: FormatCSV, FilePath: filePath, Overwrite: true}).Export(testRows())
	if err != nil {
		t.Fatalf("Export with overwrite failed: %v", err)
	}
}

func TestExportEmptySlice(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "empty.csv")

	err := NewExporter(Options{Format: FormatCSV, FilePath: filePath}).Export([]testRow{})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Expected ErrNoData, got %v", err)
	}
	if _, statErr := os.Stat(filePath); !os.IsNotExist(statErr) {
		t.Error("no file should be created for an empty CSV export")
	}
}

func TestExportToWriterRejectsNonSlice(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportToWriter(&buf, FormatCSV, testRow{}, false); err == nil {
		t.Error("Expected error for non-slice CSV export")
	}
	if err := ExportToWriter(&buf, Format("xml"), testRows(), false); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{" JSON ", FormatJSON, false},
		{"xlsx", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.input, got, err)
		}
	}
}

func TestGenerateFilename(t *testing.T) {
	name := GenerateFilename("commanders", FormatCSV)
	if !strings.HasPrefix(name, "commanders_") || !strings.HasSuffix(name, ".csv") {
		t.Errorf("unexpected filename %q", name)
	}
}

func TestCommanderRows(t *testing.T) {
	a := &commanders.Analysis{Rows: []scoring.Row{
		{Commander: "Omnath", Card: "Sol Ring", Percent: 0.5, HasPercent: true, Source: scoring.SourceBoth, Collections: "Bulk"},
		{Commander: "Omnath", Card: "Cultivate", Source: scoring.SourceAverage},
	}}

	var buf bytes.Buffer
	if err := ExportToWriter(&buf, FormatCSV, CommanderRows(a), false); err != nil {
		t.Fatalf("ExportToWriter failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"commander,card,percent,source,tier,collections,link",
		"Omnath,Sol Ring,0.5,both,1,Bulk,",
		"Omnath,Cultivate,,average,3,,",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestSuggestionRows(t *testing.T) {
	results := []completion.Result{
		{
			Deck: decklist.Deck{Commander: "Omnath"},
			Ranking: scoring.Ranking{Suggestions: []scoring.Suggestion{
				{Name: "Cultivate", Score: 40, Inclusion: 0.4, Origin: scoring.OriginEDHREC},
				{Name: "Beast Within", Score: 6, Synergy: 0.6, Origin: scoring.OriginSynergy},
			}},
		},
		{Deck: decklist.Deck{Commander: "Krenko"}},
	}

	rows := SuggestionRows(results)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[1].Commander != "Omnath" || rows[1].Origin != scoring.OriginSynergy.String() {
		t.Errorf("unexpected row: %+v", rows[1])
	}

	var buf bytes.Buffer
	if err := ExportToWriter(&buf, FormatJSON, rows, false); err != nil {
		t.Fatalf("ExportToWriter failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"card":"Beast Within"`) {
		t.Errorf("JSON missing card field: %s", buf.String())
	}
}
