// Package fuzzy finds inventory names close to a card name that failed an
// exact lookup, so "#NOT_FOUND" lines can come with a "did you mean".
package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Match is a candidate name with its similarity score (0-100).
type Match struct {
	Name  string
	Score int
	Index int
}

// Options configures a search.
type Options struct {
	// MaxResults limits the number of matches returned (0 = unlimited).
	MaxResults int
	// MinScore drops candidates scoring below it.
	MinScore int
}

// DefaultOptions returns the options used by the tagger.
func DefaultOptions() Options {
	return Options{
		MaxResults: 3,
		MinScore:   70,
	}
}

// Search scores every candidate against query, case-insensitively, and
// returns matches sorted by score descending then by candidate order.
func Search(query string, candidates []string, opts Options) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	matches := make([]Match, 0, len(candidates))

	for i, candidate := range candidates {
		score := similarity(query, strings.ToLower(candidate))
		if score < opts.MinScore {
			continue
		}
		matches = append(matches, Match{Name: candidate, Score: score, Index: i})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})

	if opts.MaxResults > 0 && len(matches) > opts.MaxResults {
		matches = matches[:opts.MaxResults]
	}
	return matches
}

// similarity blends exact, prefix, substring and edit-distance matching.
func similarity(query, target string) int {
	if query == target {
		return 100
	}

	qLen, tLen := utf8.RuneCountInString(query), utf8.RuneCountInString(target)
	if qLen == 0 || tLen == 0 {
		return 0
	}

	if strings.HasPrefix(target, query) {
		return 85 + qLen*14/tLen
	}
	if strings.Contains(target, query) {
		return 80 + qLen*19/tLen
	}

	distance := levenshtein.ComputeDistance(query, target)
	return 100 - distance*100/max(qLen, tLen)
}
