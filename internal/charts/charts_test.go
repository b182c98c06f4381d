package charts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/scoring"
)

func testStats() []scoring.CommanderStat {
	return []scoring.CommanderStat{
		{Commander: "Omnath, Locus of Mana", Matches: 14, PercentSum: 4.2, PercentCount: 14},
		{Commander: "Krenko, Mob Boss", Matches: 11, PercentSum: 2.2, PercentCount: 11},
		{Commander: "Edgar Markov", Matches: 10, PercentSum: 3, PercentCount: 10},
	}
}

func TestCommanderSeries(t *testing.T) {
	labels, series := CommanderSeries(testStats(), 2)

	if len(labels) != 2 || labels[1] != "Krenko, Mob Boss" {
		t.Fatalf("unexpected labels: %v", labels)
	}
	if len(series) != 2 {
		t.Fatalf("Expected 2 series, got %d", len(series))
	}
	if series[0].Values[0] != 14 {
		t.Errorf("matches = %v, want 14", series[0].Values[0])
	}
	if got := series[1].Values[1]; got < 19.99 || got > 20.01 {
		t.Errorf("average = %v, want 20", got)
	}
}

func TestRenderBarChart(t *testing.T) {
	var buf bytes.Buffer
	labels, series := CommanderSeries(testStats(), 0)

	if err := RenderBarChart(&buf, labels, series, DefaultChartConfig()); err != nil {
		t.Fatalf("RenderBarChart failed: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<html", "Owned cards", "Edgar Markov"} {
		if !strings.Contains(html, want) {
			t.Errorf("chart HTML missing %q", want)
		}
	}
}

func TestRenderBarChartMismatchedSeries(t *testing.T) {
	var buf bytes.Buffer
	err := RenderBarChart(&buf, []string{"a", "b"}, []SeriesData{{Name: "short", Values: []float64{1}}}, DefaultChartConfig())
	if err == nil {
		t.Error("Expected error for a series shorter than the labels")
	}
}

func TestRenderCommanderChart(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCommanderChart(&buf, testStats(), 2); err != nil {
		t.Fatalf("RenderCommanderChart failed: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "Best commanders for your collection") {
		t.Error("chart title missing")
	}
	if !strings.Contains(html, "Top 2 by owned matching cards") {
		t.Error("chart subtitle should reflect the top limit")
	}
}
