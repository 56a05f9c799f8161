// Package suggest offers follow-up questions routed by keywords in what
// the user is typing.
package suggest

import (
	"strings"

	"github.com/normanking/voicevedic/internal/language"
)

// MaxSuggestions caps the list shown under the question field.
const MaxSuggestions = 4

// Route maps trigger keywords to suggestions per bare language code.
type Route struct {
	Keywords    []string
	Suggestions map[string][]string
}

// Engine is safe for concurrent use; it never mutates its routes.
type Engine struct {
	routes   []Route
	defaults map[string][]string
}

// NewEngine creates an engine. Nil routes or defaults use the built-in
// tables.
func NewEngine(routes []Route, defaults map[string][]string) *Engine {
	if routes == nil {
		routes = DefaultRoutes
	}
	if defaults == nil {
		defaults = DefaultSuggestions
	}
	return &Engine{routes: routes, defaults: defaults}
}

// Suggest returns up to MaxSuggestions questions for input in tag's
// language. Matching routes contribute in order; with no match the
// language defaults are returned.
func (e *Engine) Suggest(input string, tag language.Tag) []string {
	lower := strings.ToLower(strings.TrimSpace(input))
	base := tag.Base()

	var out []string
	seen := make(map[string]bool)
	if lower != "" {
		for _, r := range e.routes {
			if !matches(lower, r.Keywords) {
				continue
			}
			for _, s := range localized(r.Suggestions, base) {
				if seen[s] || strings.EqualFold(s, strings.TrimSpace(input)) {
					continue
				}
				seen[s] = true
				out = append(out, s)
				if len(out) == MaxSuggestions {
					return out
				}
			}
		}
	}
	if len(out) > 0 {
		return out
	}

	defaults := localized(e.defaults, base)
	if len(defaults) > MaxSuggestions {
		defaults = defaults[:MaxSuggestions]
	}
	return append([]string(nil), defaults...)
}

func matches(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func localized(m map[string][]string, base string) []string {
	if s, ok := m[base]; ok {
		return s
	}
	return m[language.Pivot.Base()]
}
