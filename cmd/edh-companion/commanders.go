package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/EDH-Companion/internal/charts"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/commanders"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/selection"
	"github.com/ramonehamilton/EDH-Companion/internal/export"
	"github.com/ramonehamilton/EDH-Companion/internal/report"
	"github.com/ramonehamilton/EDH-Companion/internal/session"
)

type commandersOptions struct {
	workers      int
	minMatches   int
	top          int
	exportFormat string
	selectSpec   string
	noChart      bool
	openChart    bool
}

func newCommandersCmd(root *rootOptions) *cobra.Command {
	opts := &commandersOptions{}

	cmd := &cobra.Command{
		Use:   "commanders",
		Short: "Rank commanders by how much of your collection they use",
		Long: `Commanders looks up the EDHREC page of every owned card, counts the
commanders each card is played with and ranks the commanders with the most
owned cards. The result is merged with each commander's average deck and
written to a workbook together with synergies, themes and a summary.

Selected commanders can then be turned into consolidated decklists grouped
by the collection each card is stored in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommanders(cmd, root, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Concurrent card lookups (default [run] workers)")
	cmd.Flags().IntVar(&opts.minMatches, "min-matches", 0, "Owned cards a commander needs (default [run] min_matches)")
	cmd.Flags().IntVar(&opts.top, "top", 20, "Commanders listed on the console")
	cmd.Flags().StringVar(&opts.exportFormat, "export", "", "Also export commander rows as csv or json")
	cmd.Flags().StringVar(&opts.selectSpec, "select", "", `Commanders to build decklists for, e.g. "1,3-5" or "all"`)
	cmd.Flags().BoolVar(&opts.noChart, "no-chart", false, "Skip the HTML chart")
	cmd.Flags().BoolVar(&opts.openChart, "open", false, "Open the chart in the browser")
	return cmd
}

func runCommanders(cmd *cobra.Command, root *rootOptions, opts *commandersOptions) error {
	s := root.sess
	ctx := cmd.Context()

	var format export.Format
	if opts.exportFormat != "" {
		f, err := export.ParseFormat(opts.exportFormat)
		if err != nil {
			return err
		}
		format = f
	}
	if opts.selectSpec != "" {
		if _, err := selection.Parse(opts.selectSpec, math.MaxInt32); err != nil {
			return err
		}
	}

	aopts := s.Config.CommanderOptions()
	if opts.workers > 0 {
		aopts.Workers = opts.workers
	}
	if opts.minMatches > 0 {
		aopts.MinMatches = opts.minMatches
	}

	inv, err := s.Inventory()
	if err != nil {
		return err
	}

	c := s.Console
	c.Title("Analyzing %d owned cards with %d workers", inv.Len(), aopts.Workers)
	ok, err := c.Confirm(fmt.Sprintf("Fetch EDHREC pages for %d cards? This can take several minutes.", inv.Len()))
	if err != nil {
		return err
	}
	if !ok {
		c.Warn("Cancelled, nothing was saved.")
		return nil
	}
	analysis, err := commanders.NewAnalyzer(s.Client, inv, aopts, s.Logger.Named("commanders")).Analyze(ctx)
	if err != nil {
		return session.Interrupted(err)
	}
	defer s.LogMetrics()
	if err := s.Checkpoint(ctx); err != nil {
		return err
	}

	if len(analysis.Skipped) > 0 {
		c.Warn("%d cards had no EDHREC data", len(analysis.Skipped))
		s.Logger.Debug("Cards without data", zap.Strings("cards", analysis.Skipped))
	}
	if len(analysis.Commanders) == 0 {
		c.Warn("No commander has at least %d of your cards", analysis.MinMatches)
		return nil
	}

	printCommanders(s, analysis, opts.top)

	wb, err := report.CommanderWorkbook(analysis)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()
	written, err := s.Save(ctx, s.OutputPath("commanders.xlsx"), wb.Write)
	if err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	c.Success("Workbook saved to %s", written)

	if !opts.noChart && s.Config.Run.ChartTop > 0 {
		path, err := s.Save(ctx, s.OutputPath("commanders_chart.html"), func(w io.Writer) error {
			return charts.RenderCommanderChart(w, analysis.Commanders, s.Config.Run.ChartTop)
		})
		if err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
		c.Success("Chart saved to %s", path)
		if opts.openChart {
			if err := charts.OpenInBrowser(path); err != nil {
				c.Warn("Could not open chart: %v", err)
			}
		}
	}

	if format != "" {
		if err := s.Checkpoint(ctx); err != nil {
			return err
		}
		path := s.OutputPath(export.GenerateFilename("commanders", format))
		err := export.NewExporter(export.Options{Format: format, FilePath: path, PrettyJSON: true, Overwrite: true}).
			Export(export.CommanderRows(analysis))
		if err != nil && !errors.Is(err, export.ErrNoData) {
			return err
		}
		if err == nil {
			c.Success("Exported %s", path)
		}
	}

	return buildDecklists(ctx, s, root, opts, analysis)
}

func printCommanders(s *session.Session, a *commanders.Analysis, top int) {
	stats := a.Commanders
	if top > 0 && len(stats) > top {
		stats = stats[:top]
	}
	rows := make([][]string, len(stats))
	for i, st := range stats {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			st.Commander,
			strconv.Itoa(st.Matches),
			fmt.Sprintf("%.1f%%", st.AveragePercent()*100),
		}
	}
	s.Console.Info("%d commanders with at least %d of your cards:", len(a.Commanders), a.MinMatches)
	s.Console.Table([]string{"#", "Commander", "Cards", "Avg"}, rows)
}

// buildDecklists writes consolidated decklists for the selected commanders.
// Without --select the operator is asked; --yes alone skips the step.
func buildDecklists(ctx context.Context, s *session.Session, root *rootOptions, opts *commandersOptions, a *commanders.Analysis) error {
	sel := opts.selectSpec
	if sel == "" {
		if root.assumeYes {
			return nil
		}
		answer, err := s.Console.Ask("Build decklists for which commanders? (e.g. 1,3-5 or all, empty to skip):")
		if err != nil {
			return err
		}
		if sel = strings.TrimSpace(answer); sel == "" {
			return nil
		}
	}

	indices, err := selection.Parse(sel, len(a.Commanders))
	if err != nil {
		return err
	}
	if err := s.Checkpoint(ctx); err != nil {
		return err
	}

	cons := commanders.Consolidate(a.CommanderNames(indices), a.Rows)
	txt, err := s.Save(ctx, s.OutputPath(cons.BaseName+".txt"), func(w io.Writer) error {
		return report.WriteDecklistText(w, cons)
	})
	if err != nil {
		return fmt.Errorf("failed to write decklist: %w", err)
	}

	wb, err := report.DecklistWorkbook(cons)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()
	xlsx, err := s.Save(ctx, s.OutputPath(cons.BaseName+".xlsx"), wb.Write)
	if err != nil {
		return fmt.Errorf("failed to write decklist workbook: %w", err)
	}

	s.Logger.Info("Decklist written",
		zap.Strings("commanders", cons.Commanders),
		zap.Int("cards", len(cons.Cards)),
		zap.String("text", txt),
		zap.String("workbook", xlsx))
	s.Console.Success("Decklist for %d commanders (%d cards) saved to %s and %s",
		len(cons.Commanders), len(cons.Cards), txt, xlsx)
	return nil
}
