// Package charts renders interactive HTML charts of analysis results.
package charts

import (
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/scoring"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	YAxisLabel string   // Y-axis label
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	Colors     []string // Series colors, in series order
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "1100px",
		Height:     "550px",
		Theme:      "light",
		ShowLegend: true,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666"},
	}
}

// SeriesData is a named series over shared labels.
type SeriesData struct {
	Name   string
	Values []float64
}

// RenderBarChart writes a grouped bar chart as a standalone HTML page.
func RenderBarChart(w io.Writer, labels []string, series []SeriesData, config ChartConfig) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: config.YAxisLabel,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 30, Interval: "0"},
		}),
		charts.WithColorsOpts(opts.Colors(config.Colors)),
	)

	bar.SetXAxis(labels)
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return fmt.Errorf("series %q has %d values for %d labels", s.Name, len(s.Values), len(labels))
		}
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.Name, data)
	}

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// CommanderSeries turns the top commanders into chart labels and two series:
// owned matching cards and average inclusion percentage.
func CommanderSeries(stats []scoring.CommanderStat, top int) ([]string, []SeriesData) {
	if top > 0 && len(stats) > top {
		stats = stats[:top]
	}

	labels := make([]string, len(stats))
	matches := SeriesData{Name: "Owned cards", Values: make([]float64, len(stats))}
	average := SeriesData{Name: "Avg inclusion %", Values: make([]float64, len(stats))}
	for i, s := range stats {
		labels[i] = s.Commander
		matches.Values[i] = float64(s.Matches)
		average.Values[i] = s.AveragePercent() * 100
	}
	return labels, []SeriesData{matches, average}
}

// RenderCommanderChart renders the top commanders as an HTML bar chart.
func RenderCommanderChart(w io.Writer, stats []scoring.CommanderStat, top int) error {
	labels, series := CommanderSeries(stats, top)

	config := DefaultChartConfig()
	config.Title = "Best commanders for your collection"
	config.Subtitle = fmt.Sprintf("Top %d by owned matching cards", len(labels))
	config.YAxisLabel = "Cards / %"

	return RenderBarChart(w, labels, series, config)
}

// OpenInBrowser opens the chart HTML file in the default browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
