// Package inventory loads the owned-card collection into a read-only index.
package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
)

// Card is one owned card aggregated over every inventory row naming it.
type Card struct {
	Key         string
	Name        string
	Quantity    int
	Collections []string
}

// CollectionList renders the collections sorted and joined with "; ".
func (c *Card) CollectionList() string {
	sorted := append([]string(nil), c.Collections...)
	sort.Strings(sorted)
	return strings.Join(sorted, "; ")
}

// FirstCollection returns the collection the card was first seen in.
func (c *Card) FirstCollection() string {
	if len(c.Collections) == 0 {
		return ""
	}
	return c.Collections[0]
}

// Row is a single inventory line before aggregation.
type Row struct {
	Name     string
	Quantity int
	Source   string
}

// Index maps normalized card names to owned cards. It is built once per run
// and never mutated afterwards.
type Index struct {
	cards map[string]*Card
	order []string
}

// ColumnError reports a required column missing from the inventory header.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("inventory is missing required column %q", e.Column)
}

// ErrEmpty is returned when an inventory has a header but no card rows.
var ErrEmpty = errors.New("inventory has no cards")

// NewIndex aggregates rows into an index. Rows with a blank name are skipped.
func NewIndex(rows []Row) *Index {
	idx := &Index{cards: make(map[string]*Card)}

	for _, row := range rows {
		key := names.Key(row.Name)
		if key == "" {
			continue
		}

		card, ok := idx.cards[key]
		if !ok {
			card = &Card{Key: key, Name: strings.TrimSpace(row.Name)}
			idx.cards[key] = card
			idx.order = append(idx.order, key)
		}

		card.Quantity += row.Quantity

		source := strings.TrimSpace(row.Source)
		if source != "" && !contains(card.Collections, source) {
			card.Collections = append(card.Collections, source)
		}
	}

	return idx
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Load reads an inventory CSV file.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory: %w", err)
	}
	defer func() { _ = f.Close() }()

	idx, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory %s: %w", path, err)
	}
	return idx, nil
}

// Read parses inventory CSV from r. The header must contain name, quantity
// and source columns in any order and case; other columns are ignored.
func Read(r io.Reader) (*Index, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"name", "quantity", "source"} {
		if _, ok := cols[required]; !ok {
			return nil, &ColumnError{Column: required}
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		name := field(record, cols["name"])
		if name == "" {
			continue
		}

		qty, err := parseQuantity(field(record, cols["quantity"]))
		if err != nil {
			return nil, fmt.Errorf("line %d (%s): %w", line, name, err)
		}

		rows = append(rows, Row{
			Name:     name,
			Quantity: qty,
			Source:   field(record, cols["source"]),
		})
	}

	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	return NewIndex(rows), nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseQuantity accepts integers, integral floats ("2.0") and blanks (0).
func parseQuantity(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative quantity %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return int(f), nil
}

// Lookup returns the owned card for name, matched case-insensitively.
func (idx *Index) Lookup(name string) (*Card, bool) {
	card, ok := idx.cards[names.Key(name)]
	return card, ok
}

// Owns reports whether the collection contains name.
func (idx *Index) Owns(name string) bool {
	_, ok := idx.cards[names.Key(name)]
	return ok
}

// Len returns the number of distinct cards.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Cards returns the owned cards in first-seen order.
func (idx *Index) Cards() []*Card {
	cards := make([]*Card, 0, len(idx.order))
	for _, key := range idx.order {
		cards = append(cards, idx.cards[key])
	}
	return cards
}

// Names returns display names in first-seen order.
func (idx *Index) Names() []string {
	out := make([]string, 0, len(idx.order))
	for _, key := range idx.order {
		out = append(out, idx.cards[key].Name)
	}
	return out
}
