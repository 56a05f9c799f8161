package tts

import (
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/normanking/voicevedic/internal/language"
)

// VoicePolicy holds the product decisions behind voice selection. It is
// loaded from configuration and may be replaced at runtime.
type VoicePolicy struct {
	// FemaleHints are case-insensitive name substrings that suggest a
	// female voice.
	FemaleHints []string `mapstructure:"female_hints"`
	// MaleHints exclude a voice when one appears as a whole word in its name.
	MaleHints []string `mapstructure:"male_hints"`
	// MaxFemale caps the preferred candidate list.
	MaxFemale int `mapstructure:"max_female"`
	// MaxFallback caps the unfiltered list used when no female voice matches.
	MaxFallback int `mapstructure:"max_fallback"`
	// Fallbacks maps a bare language code to the voice languages tried, in
	// order, when the platform has no voice for it. "en-IN" matches only
	// that region, "en" any English variant.
	Fallbacks map[string][]string `mapstructure:"fallbacks"`
}

// DefaultVoicePolicy returns the built-in policy.
func DefaultVoicePolicy() *VoicePolicy {
	return &VoicePolicy{
		FemaleHints: []string{
			"female", "woman", "lekha", "veena", "kalpana", "heera", "swara",
			"aditi", "raveena", "neerja", "sapna", "soumya", "samantha",
			"karen", "victoria", "zira", "moira", "tessa", "fiona", "serena",
		},
		MaleHints:   []string{"male", "man", "rishi", "hemant", "prabhat", "ravi", "madhur", "daniel", "alex"},
		MaxFemale:   4,
		MaxFallback: 3,
		Fallbacks: map[string][]string{
			"kn": {"en-IN", "en"},
		},
	}
}

// Resolver picks voices for a language out of the platform inventory.
type Resolver struct {
	logger zerolog.Logger

	mu       sync.RWMutex
	policy   *VoicePolicy
	maleRe   *regexp.Regexp
	tag      language.Tag
	voices   []Voice
	resolved []Voice
}

// NewResolver creates a resolver. A nil policy uses DefaultVoicePolicy.
func NewResolver(logger zerolog.Logger, policy *VoicePolicy) *Resolver {
	r := &Resolver{
		logger:   logger.With().Str("component", "voice-resolver").Logger(),
		tag:      language.Pivot,
		resolved: []Voice{Placeholder},
	}
	r.SetPolicy(policy)
	return r
}

// SetPolicy swaps the policy and recomputes the cached selection.
func (r *Resolver) SetPolicy(policy *VoicePolicy) {
	if policy == nil {
		policy = DefaultVoicePolicy()
	}
	maleRe := compileWordList(policy.MaleHints)

	r.mu.Lock()
	r.policy = policy
	r.maleRe = maleRe
	r.resolved = r.resolveLocked(r.tag, r.voices)
	r.mu.Unlock()

	r.logger.Debug().
		Int("femaleHints", len(policy.FemaleHints)).
		Int("fallbacks", len(policy.Fallbacks)).
		Msg("Voice policy applied")
}

// Resolve returns the candidate voices for tag, best first. It never
// returns an empty list; Placeholder stands in when nothing matches.
func (r *Resolver) Resolve(tag language.Tag, voices []Voice) []Voice {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveLocked(tag, voices)
}

// Best returns the first real candidate for tag.
func (r *Resolver) Best(tag language.Tag, voices []Voice) (Voice, bool) {
	candidates := r.Resolve(tag, voices)
	if candidates[0].IsPlaceholder() {
		return Voice{}, false
	}
	return candidates[0], true
}

// Watch keeps Current up to date with the selected language and the
// engine's inventory. The returned func stops watching.
func (r *Resolver) Watch(engine *Engine, selection *language.Selection) func() {
	r.update(selection.Current(), engine.Voices())

	stopLang := selection.OnChange(func(tag language.Tag) {
		r.update(tag, engine.Voices())
	})
	stopVoices := engine.OnInventoryChange(func(voices []Voice) {
		r.update(selection.Current(), voices)
	})
	return func() {
		stopLang()
		stopVoices()
	}
}

// Current returns the selection computed for the watched language.
func (r *Resolver) Current() []Voice {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Voice, len(r.resolved))
	copy(out, r.resolved)
	return out
}

func (r *Resolver) update(tag language.Tag, voices []Voice) {
	r.mu.Lock()
	r.tag = tag
	r.voices = voices
	r.resolved = r.resolveLocked(tag, voices)
	n := len(r.resolved)
	r.mu.Unlock()

	r.logger.Debug().Str("lang", string(tag)).Int("candidates", n).Msg("Voices resolved")
}

func (r *Resolver) resolveLocked(tag language.Tag, voices []Voice) []Voice {
	matched := filterLang(voices, tag.Base())
	if len(matched) == 0 {
		for _, fallback := range r.policy.Fallbacks[tag.Base()] {
			if matched = filterLang(voices, fallback); len(matched) > 0 {
				break
			}
		}
	}
	if len(matched) == 0 {
		return []Voice{Placeholder}
	}

	var female []Voice
	for _, v := range matched {
		if r.isFemaleLocked(v.Name) {
			female = append(female, v)
			if len(female) == r.policy.MaxFemale {
				break
			}
		}
	}
	if len(female) > 0 {
		return female
	}

	return capVoices(matched, r.policy.MaxFallback)
}

func (r *Resolver) isFemaleLocked(name string) bool {
	lower := strings.ToLower(name)
	if r.maleRe != nil && r.maleRe.MatchString(lower) {
		return false
	}
	for _, hint := range r.policy.FemaleHints {
		if strings.Contains(lower, strings.ToLower(hint)) {
			return true
		}
	}
	return false
}

// filterLang keeps voices whose language matches want. A bare code matches
// the primary subtag, a regional code must match exactly.
func filterLang(voices []Voice, want string) []Voice {
	want = normalizeLang(want)
	regional := strings.Contains(want, "-")

	var out []Voice
	for _, v := range voices {
		lang := normalizeLang(v.Lang)
		if regional {
			if lang == want {
				out = append(out, v)
			}
			continue
		}
		if language.BaseCode(lang) == want {
			out = append(out, v)
		}
	}
	return out
}

func normalizeLang(lang string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(lang)), "_", "-")
}

func capVoices(voices []Voice, n int) []Voice {
	if n > 0 && len(voices) > n {
		voices = voices[:n]
	}
	out := make([]Voice, len(voices))
	copy(out, voices)
	return out
}

func compileWordList(words []string) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(w)))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}
