package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/completion"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/decklist"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
	"github.com/ramonehamilton/EDH-Companion/internal/export"
	"github.com/ramonehamilton/EDH-Companion/internal/report"
	"github.com/ramonehamilton/EDH-Companion/internal/session"
)

func newCompleteCmd(root *rootOptions) *cobra.Command {
	var (
		deckPath     string
		exportFormat string
		noColors     bool
	)

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Suggest owned cards to finish partial decks",
		Long: `Complete reads partial decklists separated by "# Commander: <name>"
headers and, for each deck, ranks owned cards from the commander's average
deck and from synergies of the cards already in it. A text report is written
per deck plus one workbook with every suggestion and the key cards worth
buying.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := root.sess
			ctx := cmd.Context()
			if deckPath == "" {
				deckPath = s.Config.Files.Decklist
			}

			var format export.Format
			if exportFormat != "" {
				f, err := export.ParseFormat(exportFormat)
				if err != nil {
					return err
				}
				format = f
			}

			inv, err := s.Inventory()
			if err != nil {
				return err
			}
			decks, err := decklist.LoadDecks(deckPath)
			if err != nil {
				return err
			}

			opts := s.Config.CompletionOptions()
			if noColors {
				opts.CheckColors = false
			}

			c := s.Console
			c.Title("Completing %d decks with %d owned cards", len(decks), inv.Len())
			ok, err := c.Confirm(fmt.Sprintf("Fetch EDHREC data for %d decks? This can take several minutes.", len(decks)))
			if err != nil {
				return err
			}
			if !ok {
				c.Warn("Cancelled, nothing was saved.")
				return nil
			}
			planner := completion.NewPlanner(s.Client, inv, opts, s.Logger.Named("complete"))
			results, err := planner.CompleteAll(ctx, decks)
			if err != nil {
				return session.Interrupted(err)
			}
			defer s.LogMetrics()
			if err := s.Checkpoint(ctx); err != nil {
				return err
			}

			used := make(map[string]bool, len(results))
			for i, res := range results {
				path := s.OutputPath(suggestionName(res, i, used))
				written, err := s.Save(ctx, path, func(w io.Writer) error {
					return report.WriteSuggestionText(w, res, opts.Scoring)
				})
				if err != nil {
					return fmt.Errorf("failed to write suggestions: %w", err)
				}
				c.Success("%s: %d suggestions, %d key cards -> %s",
					deckLabel(res), len(res.Ranking.Suggestions), len(res.Ranking.KeyCards), written)
				if colors := res.Ranking.Colors; colors.Illegal+colors.Unknown > 0 {
					c.Info("  color check: %d legal, %d outside identity, %d unknown",
						colors.Legal, colors.Illegal, colors.Unknown)
				}
			}

			wb, err := report.SuggestionWorkbook(results)
			if err != nil {
				return err
			}
			defer func() { _ = wb.Close() }()
			written, err := s.Save(ctx, s.OutputPath("suggestions.xlsx"), wb.Write)
			if err != nil {
				return fmt.Errorf("failed to write workbook: %w", err)
			}
			c.Success("Workbook saved to %s", written)
			s.Logger.Info("Completion finished", zap.Int("decks", len(results)), zap.String("workbook", written))

			if format != "" {
				if err := s.Checkpoint(ctx); err != nil {
					return err
				}
				path := s.OutputPath(export.GenerateFilename("suggestions", format))
				err := export.NewExporter(export.Options{Format: format, FilePath: path, PrettyJSON: true, Overwrite: true}).
					Export(export.SuggestionRows(results))
				switch {
				case errors.Is(err, export.ErrNoData):
					c.Warn("No suggestions to export")
				case err != nil:
					return err
				default:
					c.Success("Exported %s", path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&deckPath, "decklist", "d", "", "Partial decklists (default [files] decklist)")
	cmd.Flags().StringVar(&exportFormat, "export", "", "Also export suggestions as csv or json")
	cmd.Flags().BoolVar(&noColors, "no-colors", false, "Skip the color identity check")
	return cmd
}

func deckLabel(res completion.Result) string {
	if res.Deck.Commander == "" {
		return "(no commander)"
	}
	return res.Deck.Commander
}

// suggestionName is the report file name of the i-th deck. A commander
// listed twice gets its deck number appended.
func suggestionName(res completion.Result, i int, used map[string]bool) string {
	name := fmt.Sprintf("suggestions_deck_%d.txt", i+1)
	if slug := names.Slug(res.Deck.Commander); slug != "" {
		name = fmt.Sprintf("suggestions_%s.txt", slug)
		if used[name] {
			name = fmt.Sprintf("suggestions_%s_%d.txt", slug, i+1)
		}
	}
	used[name] = true
	return name
}
