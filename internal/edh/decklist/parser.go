// Package decklist reads card lists and partial decklists and tags card lines
// with the collections they come from.
//
// A list is line oriented:
//
//	# Commander: Atraxa, Praetors' Voice
//	1 Sol Ring #Precons
//	Arcane Signet ⭐
//
//	# a comment
//
// "# Comandante:" is accepted as a header too, with or without a space after
// the "#".
package decklist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/names"
)

// TargetSize is the number of cards a finished deck holds besides its
// commander.
const TargetSize = 64

// Kind classifies a line.
type Kind int

const (
	KindBlank Kind = iota
	KindComment
	KindHeader
	KindCard
)

func (k Kind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindHeader:
		return "header"
	case KindCard:
		return "card"
	default:
		return "blank"
	}
}

var headerRegex = regexp.MustCompile(`(?i)^#\s*(?:comandante|commander)\s*:(.*)$`)

// Line is one classified input line.
type Line struct {
	Number int
	// Raw is the line with surrounding whitespace removed.
	Raw  string
	Kind Kind
	// Prefix is the leading quantity of a card line, verbatim ("2 ").
	Prefix string
	// Card is the bare card name of a card line.
	Card string
	// Commander is the name declared by a header line.
	Commander string
}

// Classify parses a single line.
func Classify(number int, text string) Line {
	raw := strings.TrimSpace(text)
	line := Line{Number: number, Raw: raw}

	switch {
	case raw == "":
		line.Kind = KindBlank
	case strings.HasPrefix(raw, "#"):
		if m := headerRegex.FindStringSubmatch(raw); m != nil {
			line.Kind = KindHeader
			line.Commander = strings.TrimSpace(m[1])
		} else {
			line.Kind = KindComment
		}
	default:
		prefix, card := names.CleanCardLine(raw)
		if card == "" {
			line.Kind = KindBlank
			break
		}
		line.Kind = KindCard
		line.Prefix = prefix
		line.Card = card
	}
	return line
}

// ReadLines classifies every line of r.
func ReadLines(r io.Reader) ([]Line, error) {
	var lines []Line

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		text := scanner.Text()
		if n == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		lines = append(lines, Classify(n, text))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read card list: %w", err)
	}
	return lines, nil
}

// LoadLines reads and classifies a card list file.
func LoadLines(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open card list: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadLines(f)
}

// Deck is a partially built deck.
type Deck struct {
	// Commander may be empty when cards precede any header.
	Commander string
	Cards     []string
}

// Missing returns how many cards the deck still needs.
func (d Deck) Missing() int {
	return max(0, TargetSize-len(d.Cards))
}

// Decks groups card lines under the header that precedes them. Cards before
// the first header form a deck without a commander.
func Decks(lines []Line) []Deck {
	var decks []Deck

	for _, l := range lines {
		switch l.Kind {
		case KindHeader:
			decks = append(decks, Deck{Commander: l.Commander})
		case KindCard:
			if len(decks) == 0 {
				decks = append(decks, Deck{})
			}
			last := &decks[len(decks)-1]
			last.Cards = append(last.Cards, l.Card)
		}
	}
	return decks
}

// LoadDecks reads a partial decklist file.
func LoadDecks(path string) ([]Deck, error) {
	lines, err := LoadLines(path)
	if err != nil {
		return nil, err
	}
	decks := Decks(lines)
	if len(decks) == 0 {
		return nil, fmt.Errorf("no decks found in %s", path)
	}
	return decks, nil
}
