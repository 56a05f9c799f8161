// Package location finds an implicit place name in a question.
package location

import (
	"regexp"
	"strings"
)

// MaxWords bounds a place name; longer candidates are sentence fragments.
const MaxWords = 4

var (
	// in precedence order: "for Diwali in Pune" names Pune
	prepositionRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bin\b\s*:?\s*`),
		regexp.MustCompile(`(?i)\bat\b\s*:?\s*`),
		regexp.MustCompile(`(?i)\bfor\b\s*:?\s*`),
		regexp.MustCompile(`(?i)\blocation\b\s*:?\s*`),
	}
	candidateRe   = regexp.MustCompile(`^\p{L}[\p{L}\p{M} .'-]*`)
)

// stopwords are words that follow a preposition but are never places.
var stopwords = toSet(
	"a", "an", "the", "this", "that", "these", "those", "it", "its",
	"me", "my", "i", "you", "your", "us", "our", "we", "him", "her", "them",
	"what", "when", "where", "which", "who", "why", "how",
	"here", "there", "home", "temple", "general", "case", "example", "order",
	"morning", "evening", "night", "noon", "afternoon", "sunrise", "sunset",
	"puja", "pooja", "prayer", "prayers", "fasting", "fast", "marriage", "wedding",
	"kids", "children", "family", "health", "money", "peace", "success", "all",
	"sure", "detail", "details", "more", "some", "any", "each", "every",
)

// temporal words end a place name ("Chennai today").
var temporal = toSet(
	"today", "tomorrow", "tonight", "now", "yesterday", "next", "this", "coming",
	"week", "month", "year", "morning", "evening", "night",
)

// connectors end a place name ("Mumbai on Monday").
var connectors = toSet(
	"on", "at", "in", "for", "during", "from", "to", "when", "with", "and", "or",
	"is", "are", "was", "will", "be", "please", "between", "before", "after",
)

// Extract returns the place a question mentions after "in", "at", "for"
// or "location", tried in that order, or "" when there is none.
func Extract(question string) string {
	for _, re := range prepositionRes {
		for _, loc := range re.FindAllStringIndex(question, -1) {
			if place := candidate(question[loc[1]:]); place != "" {
				return place
			}
		}
	}
	return ""
}

func candidate(rest string) string {
	words := strings.Fields(candidateRe.FindString(rest))
	for i, w := range words {
		key := normalizeWord(w)
		if i > 0 && (connectors[key] || temporal[key]) {
			words = words[:i]
			break
		}
		if strings.HasSuffix(w, ".") && !isAbbreviation(w) {
			words = words[:i+1]
			break
		}
	}
	if len(words) == 0 || len(words) > MaxWords {
		return ""
	}

	first := normalizeWord(words[0])
	if first == "" || stopwords[first] || temporal[first] {
		return ""
	}

	place := strings.Trim(strings.Join(words, " "), " .'-")
	if stopwords[strings.ToLower(place)] {
		return ""
	}
	return place
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.Trim(w, ".'-"))
}

// isAbbreviation reports short dotted forms such as "St." or "Mt.".
func isAbbreviation(w string) bool {
	switch strings.ToLower(w) {
	case "st.", "mt.", "ft.":
		return true
	}
	return false
}

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
