// Package names canonicalizes card, commander and collection names.
//
// Every lookup in the toolkit goes through Key, every remote URL through Slug
// and every #tag through SanitizeTag, so the three rules live here only.
package names

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

	// Punctuation removed outright before slugging or tagging.
	punctuationRemover = strings.NewReplacer(
		"â€™", "",
		"'", "",
		"’", "",
		",", "",
		":", "",
		".", "",
	)

	tagSeparators = strings.NewReplacer("/", "_", "-", "_")

	basicLands = map[string]struct{}{
		"plains":   {},
		"island":   {},
		"swamp":    {},
		"mountain": {},
		"forest":   {},
		"wastes":   {},
	}
)

// Key returns the case-folded lookup key for a name.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// stripMarks decomposes accented characters and drops the combining marks.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slug converts a display name into the URL form used by EDHREC pages.
//
//	"Atraxa, Praetors' Voice" -> "atraxa-praetors-voice"
//	"Lim-Dûl's Vault"         -> "lim-duls-vault"
func Slug(name string) string {
	// Punctuation goes first so the mojibake apostrophe is not decomposed.
	s := punctuationRemover.Replace(name)
	s = strings.ToLower(stripMarks(s))
	s = nonSlugRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SanitizeTag turns a collection or commander label into a #tag body.
func SanitizeTag(label string) string {
	clean := punctuationRemover.Replace(label)
	clean = tagSeparators.Replace(clean)
	return strings.Join(strings.Fields(clean), "_")
}

// IsBasicLand reports whether name is one of the basic land types.
func IsBasicLand(name string) bool {
	_, ok := basicLands[Key(name)]
	return ok
}
