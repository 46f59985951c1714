// Package directive extracts the bracketed machine-readable tokens the
// generator embeds in otherwise human-readable text: [CMD:name] for
// allow-listed commands and [SEARCH:query] for web lookups.
package directive

import (
	"regexp"
	"strings"
)

var (
	cmdPattern    = regexp.MustCompile(`\[CMD:([^\]]+)\]`)
	searchPattern = regexp.MustCompile(`(?i)\[SEARCH:([^\]]*)\]`)
	spaceRuns     = regexp.MustCompile(`[ \t]{2,}`)
)

// ExtractCommands pulls every [CMD:name] directive out of text. It returns
// the text with the directives removed (surrounding whitespace collapsed
// and trimmed) and the names in order of appearance, duplicates preserved.
// Names are content-preserving; validation against the allow-list is the
// caller's job.
func ExtractCommands(text string) (cleaned string, names []string) {
	for _, m := range cmdPattern.FindAllStringSubmatch(text, -1) {
		names = append(names, m[1])
	}
	cleaned = cmdPattern.ReplaceAllString(text, "")
	cleaned = strings.TrimSpace(spaceRuns.ReplaceAllString(cleaned, " "))
	return cleaned, names
}

// ExtractSearches returns the queries of every [SEARCH:query] directive,
// trimmed, in order of appearance. Case-insensitive on the tag.
func ExtractSearches(text string) []string {
	var queries []string
	for _, m := range searchPattern.FindAllStringSubmatch(text, -1) {
		if q := strings.TrimSpace(m[1]); q != "" {
			queries = append(queries, q)
		}
	}
	return queries
}

// StripSearches removes every [SEARCH:...] directive from text, collapsing
// the whitespace left behind. Used when a search could not be resolved and
// the raw directive must not be spoken.
func StripSearches(text string) string {
	cleaned := searchPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(spaceRuns.ReplaceAllString(cleaned, " "))
}

// TruncateContinuation cuts the reply at the first dialogue-continuation
// marker some models emit when they keep role-playing the exchange.
func TruncateContinuation(text string) string {
	for _, marker := range []string{"Usuario:", "Pregunta:"} {
		if i := strings.Index(text, marker); i >= 0 {
			text = text[:i]
		}
	}
	return strings.TrimSpace(text)
}
