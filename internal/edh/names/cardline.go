package names

import (
	"regexp"
	"strings"
)

var (
	quantityPrefix = regexp.MustCompile(`^\d+\s+`)
	inlineTag      = regexp.MustCompile(`#\S+`)
	markerGlyphs   = regexp.MustCompile(`[⭐🔥💰🔗📘📗\[\]]`)
)

// Markers written by the report emitter next to card names.
const (
	MarkerBoth    = "⭐"
	MarkerHot     = "🔥"
	MarkerBudget  = "💰"
	MarkerSynergy = "🔗"
)

// CleanCardLine splits a card line into its leading quantity prefix (kept
// verbatim, including the trailing whitespace) and the bare card name with
// tags and marker glyphs removed.
//
//	"2 Sol Ring ⭐ #Precons" -> ("2 ", "Sol Ring")
func CleanCardLine(line string) (prefix, name string) {
	prefix = quantityPrefix.FindString(line)
	cleaned := line[len(prefix):]
	cleaned = inlineTag.ReplaceAllString(cleaned, "")
	cleaned = markerGlyphs.ReplaceAllString(cleaned, "")
	return prefix, strings.TrimSpace(cleaned)
}
