package commanders

import (
	"fmt"
	"strconv"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/scoring"
)

// topSummary is how many commanders the summary lists.
const topSummary = 5

// SummaryLine is one row of the executive summary.
type SummaryLine struct {
	Metric      string
	Value       string
	Description string
}

// Summarize builds the executive summary of an analysis.
func Summarize(a *Analysis) []SummaryLine {
	lines := []SummaryLine{
		{
			Metric:      "Viable commanders",
			Value:       strconv.Itoa(len(a.Commanders)),
			Description: fmt.Sprintf("Commanders with at least %d cards in your collection", a.MinMatches),
		},
		{
			Metric:      "Unique cards analyzed",
			Value:       strconv.Itoa(a.Analyzed),
			Description: "Unique cards in your inventory, basic lands excluded",
		},
	}

	if len(a.Commanders) > 0 {
		top := a.Commanders[0]
		lines = append(lines, SummaryLine{
			Metric:      "Best commander",
			Value:       top.Commander,
			Description: statLine(top, "matching cards", "average inclusion"),
		})
	}

	counts := scoring.SourceCounts(a.Rows)
	lines = append(lines,
		SummaryLine{
			Metric:      "Cards in both lists (BOTH)",
			Value:       strconv.Itoa(counts[scoring.SourceBoth]),
			Description: "Most reliable: in the top commanders data and the average deck",
		},
		SummaryLine{
			Metric:      "Cards only in top commanders",
			Value:       strconv.Itoa(counts[scoring.SourceEDHREC]),
			Description: "Popular in commander analysis",
		},
		SummaryLine{
			Metric:      "Cards only in average deck",
			Value:       strconv.Itoa(counts[scoring.SourceAverage]),
			Description: "Average deck staples",
		},
	)

	if len(a.Synergies) > 0 {
		lines = append(lines, SummaryLine{
			Metric:      "Synergies detected",
			Value:       strconv.Itoa(len(a.Synergies)),
			Description: "Owned card pairs with high mutual synergy",
		})
	}

	lines = append(lines, SummaryLine{Metric: fmt.Sprintf("--- TOP %d COMMANDERS ---", topSummary)})
	for i, stat := range a.Commanders {
		if i == topSummary {
			break
		}
		lines = append(lines, SummaryLine{
			Metric:      fmt.Sprintf("#%d", i+1),
			Value:       stat.Commander,
			Description: statLine(stat, "cards", "avg"),
		})
	}
	return lines
}

func statLine(stat scoring.CommanderStat, cards, avg string) string {
	return fmt.Sprintf("%d %s | %.1f%% %s", stat.Matches, cards, stat.AveragePercent()*100, avg)
}
