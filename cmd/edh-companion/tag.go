package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/decklist"
	"github.com/ramonehamilton/EDH-Companion/internal/report"
)

func newTagCmd(root *rootOptions) *cobra.Command {
	var input, output, mode string

	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag a card list with collection names",
		Long: `Tag appends the collection each card is stored in to every card line
("1 Sol Ring #Precons"). Cards missing from the inventory get #NOT_FOUND and
close matches are listed. Comments, headers and blank lines are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := root.sess
			if input == "" {
				input = s.Config.Files.Cardlist
			}
			if mode == "" {
				mode = s.Config.Files.TagMode
			}
			if output == "" {
				output = s.OutputPath(taggedName(input))
			}
			m, err := decklist.ParseMode(mode)
			if err != nil {
				return err
			}

			inv, err := s.Inventory()
			if err != nil {
				return err
			}
			lines, err := decklist.LoadLines(input)
			if err != nil {
				return err
			}

			tagged, stats := decklist.NewTagger(inv, m).Tag(lines)
			if err := s.Checkpoint(cmd.Context()); err != nil {
				return err
			}
			written, err := report.WriteFile(output, func(w io.Writer) error {
				return report.WriteTaggedList(w, tagged)
			})
			if err != nil {
				return fmt.Errorf("failed to write tagged list: %w", err)
			}
			s.Logger.Info("Tagged list written",
				zap.String("path", written),
				zap.Stringer("mode", m),
				zap.Int("found", stats.Found),
				zap.Int("missing", stats.Missing))

			c := s.Console
			c.Title("Tagged %s", input)
			c.Info("Found: %d | Not found: %d | Comments: %d", stats.Found, stats.Missing, stats.Comments)
			for _, u := range stats.Unknown {
				if len(u.Suggestions) == 0 {
					c.Warn("line %d: %s not found", u.Line, u.Name)
					continue
				}
				alts := make([]string, len(u.Suggestions))
				for i, match := range u.Suggestions {
					alts[i] = match.Name
				}
				c.Warn("line %d: %s not found (did you mean %s?)", u.Line, u.Name, strings.Join(alts, ", "))
			}
			c.Success("Saved %s", written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Card list to tag (default [files] cardlist)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Tagged output file (default <output_dir>/<input>_tagged.txt)")
	cmd.Flags().StringVar(&mode, "mode", "", "Tag mode: first or all (default [files] tag_mode)")
	return cmd
}

// taggedName derives the output name of a tagged list from its input.
func taggedName(input string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".txt"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_tagged" + ext
}
