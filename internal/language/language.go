// Package language holds the selected conversation language and the
// functions derived from it: recognition locale, translation codes and
// script detection.
package language

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
)

// Tag is a supported conversation language in regional form.
type Tag string

const (
	English Tag = "en-IN"
	Hindi   Tag = "hi-IN"
	Kannada Tag = "kn-IN"

	// Pivot is the language the knowledge API is queried in.
	Pivot = English
)

// ErrUnsupported is returned by Parse for languages outside the fixed set.
var ErrUnsupported = errors.New("unsupported language")

// All returns the supported tags in display order.
func All() []Tag {
	return []Tag{English, Hindi, Kannada}
}

// Parse accepts "en", "en-IN", "hi_IN", "KN" and similar spellings.
func Parse(s string) (Tag, error) {
	switch BaseCode(s) {
	case "en":
		return English, nil
	case "hi":
		return Hindi, nil
	case "kn":
		return Kannada, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
}

// BaseCode strips the region from a language tag: "hi-IN" becomes "hi".
// "auto" is passed through so providers can detect the source themselves.
func BaseCode(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

// Base returns the bare ISO 639-1 code.
func (t Tag) Base() string {
	return BaseCode(string(t))
}

// IsPivot reports whether no translation is needed around the knowledge API.
func (t Tag) IsPivot() bool {
	return t.Base() == Pivot.Base()
}

// DisplayName is the language's own name.
func (t Tag) DisplayName() string {
	switch t {
	case Hindi:
		return "हिन्दी"
	case Kannada:
		return "ಕನ್ನಡ"
	default:
		return "English"
	}
}

// RecognitionConfig configures one speech capture session.
type RecognitionConfig struct {
	Lang            string
	MaxAlternatives int
	InterimResults  bool
}

// Recognition derives the capture configuration for the tag. Hindi and
// Kannada ask for several alternatives since recognizers are less certain
// about script and tone there.
func (t Tag) Recognition() RecognitionConfig {
	if t.IsPivot() {
		return RecognitionConfig{Lang: string(t), MaxAlternatives: 1, InterimResults: false}
	}
	return RecognitionConfig{Lang: string(t), MaxAlternatives: 3, InterimResults: true}
}

// Script is the writing system detected in a piece of text.
type Script string

const (
	ScriptLatin      Script = "latin"
	ScriptDevanagari Script = "devanagari"
	ScriptKannada    Script = "kannada"
)

// DetectScript returns the dominant script among the letters of text.
// Text without Devanagari or Kannada letters is Latin.
func DetectScript(text string) Script {
	var deva, kann int
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Devanagari):
			deva++
		case unicode.In(r, unicode.Kannada):
			kann++
		}
	}
	switch {
	case deva == 0 && kann == 0:
		return ScriptLatin
	case kann > deva:
		return ScriptKannada
	default:
		return ScriptDevanagari
	}
}

// Tag maps a script to the language whose voice can read it.
func (s Script) Tag() Tag {
	switch s {
	case ScriptDevanagari:
		return Hindi
	case ScriptKannada:
		return Kannada
	default:
		return English
	}
}

// IsNative reports whether the script is one of the Indic scripts.
func (s Script) IsNative() bool {
	return s == ScriptDevanagari || s == ScriptKannada
}

// Selection is the single selected language read by recognition,
// translation and voice selection alike.
type Selection struct {
	mu        sync.RWMutex
	current   Tag
	listeners map[int]func(Tag)
	nextID    int
}

// NewSelection starts with the given tag, or the pivot language if empty.
func NewSelection(initial Tag) *Selection {
	if initial == "" {
		initial = Pivot
	}
	return &Selection{current: initial, listeners: make(map[int]func(Tag))}
}

// Current returns the selected tag.
func (s *Selection) Current() Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set changes the selected tag and notifies listeners when it differs.
func (s *Selection) Set(tag Tag) {
	s.mu.Lock()
	if s.current == tag {
		s.mu.Unlock()
		return
	}
	s.current = tag
	fns := make([]func(Tag), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(tag)
	}
}

// OnChange registers fn for language changes. The returned func removes it.
func (s *Selection) OnChange(fn func(Tag)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
