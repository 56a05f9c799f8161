package stt

import (
	"strings"
	"sync"
	"unicode"

	"github.com/normanking/voicevedic/internal/language"
)

// DefaultFillers are hesitation sounds dropped from transcripts, by bare
// language code. Only pure fillers are listed; words like "right" or
// "well" can carry meaning in a question ("the right time for puja").
var DefaultFillers = map[string][]string{
	"en": {"um", "umm", "uh", "uhh", "er", "erm", "ah", "hmm", "mm"},
	"hi": {"अं", "उम्म", "हम्म", "अ", "ऊं"},
	"kn": {"ಅಂ", "ಉಂ", "ಹ್ಮ್", "ಅ"},
}

// TranscriptFilter normalizes recognizer output before it reaches the
// question field.
type TranscriptFilter struct {
	mu      sync.RWMutex
	fillers map[string]map[string]struct{}
}

// NewTranscriptFilter creates a filter. A nil map uses DefaultFillers.
func NewTranscriptFilter(fillers map[string][]string) *TranscriptFilter {
	if fillers == nil {
		fillers = DefaultFillers
	}
	f := &TranscriptFilter{fillers: make(map[string]map[string]struct{}, len(fillers))}
	for lang, words := range fillers {
		f.SetFillers(lang, words)
	}
	return f
}

// SetFillers replaces the filler list for a language.
func (f *TranscriptFilter) SetFillers(lang string, words []string) {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.fillers[language.BaseCode(lang)] = set
}

// Clean drops fillers for tag and collapses whitespace. The boolean
// reports whether anything meaningful is left.
func (f *TranscriptFilter) Clean(text string, tag language.Tag) (string, bool) {
	f.mu.RLock()
	set := f.fillers[tag.Base()]
	f.mu.RUnlock()

	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		key := strings.ToLower(strings.TrimFunc(w, unicode.IsPunct))
		if _, filler := set[key]; filler {
			continue
		}
		kept = append(kept, w)
	}

	cleaned := strings.Join(kept, " ")
	if strings.TrimFunc(cleaned, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	}) == "" {
		return "", false
	}
	return cleaned, true
}
