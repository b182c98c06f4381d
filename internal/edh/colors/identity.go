// Package colors decides whether a card may be played under a commander.
package colors

import (
	"strings"
)

// Identity is a set over the five color symbols.
type Identity uint8

const (
	White Identity = 1 << iota
	Blue
	Black
	Red
	Green

	// FiveColor is the superset every card fits into.
	FiveColor = White | Blue | Black | Red | Green
)

var symbols = []struct {
	symbol string
	color  Identity
}{
	{"W", White},
	{"U", Blue},
	{"B", Black},
	{"R", Red},
	{"G", Green},
}

// ParseIdentity builds an identity from color symbols, case-insensitively.
// An unrecognized symbol makes the whole list invalid.
func ParseIdentity(list []string) (Identity, bool) {
	var id Identity
	for _, s := range list {
		c, ok := symbolColor(strings.ToUpper(strings.TrimSpace(s)))
		if !ok {
			return 0, false
		}
		id |= c
	}
	return id, true
}

// MustParse parses a compact symbol string such as "WUBG". It panics on an
// unknown symbol and is meant for tables and tests.
func MustParse(s string) Identity {
	list := make([]string, 0, len(s))
	for _, r := range s {
		list = append(list, string(r))
	}
	id, ok := ParseIdentity(list)
	if !ok {
		panic("colors: invalid identity " + s)
	}
	return id
}

func symbolColor(s string) (Identity, bool) {
	for _, sym := range symbols {
		if sym.symbol == s {
			return sym.color, true
		}
	}
	return 0, false
}

// Contains reports whether other is a subset of id.
func (id Identity) Contains(other Identity) bool {
	return other&^id == 0
}

// Symbols returns the colors in WUBRG order.
func (id Identity) Symbols() []string {
	out := make([]string, 0, 5)
	for _, sym := range symbols {
		if id&sym.color != 0 {
			out = append(out, sym.symbol)
		}
	}
	return out
}

func (id Identity) String() string {
	if id == 0 {
		return "C"
	}
	return strings.Join(id.Symbols(), "")
}
