package translate

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/normanking/voicevedic/internal/language"
	"github.com/normanking/voicevedic/internal/metrics"
)

// Gateway makes best-effort translations: any provider failure returns
// the original text.
type Gateway struct {
	provider Provider
	logger   zerolog.Logger
}

// NewGateway wraps provider. A nil provider makes every call an identity.
func NewGateway(provider Provider, logger zerolog.Logger) *Gateway {
	return &Gateway{
		provider: provider,
		logger:   logger.With().Str("component", "translate").Logger(),
	}
}

// Translate converts text from source to target. Regional tags such as
// "hi-IN" are reduced to bare codes; source may be "auto". No call is made
// when both sides resolve to the same code.
func (g *Gateway) Translate(ctx context.Context, text, target, source string) string {
	out, _ := g.TryTranslate(ctx, text, target, source)
	return out
}

// TryTranslate is Translate that also reports whether the returned text is
// a translation. It is false whenever the original text came back.
func (g *Gateway) TryTranslate(ctx context.Context, text, target, source string) (string, bool) {
	if strings.TrimSpace(text) == "" || g.provider == nil {
		return text, false
	}

	target = language.BaseCode(target)
	source = language.BaseCode(source)
	if source == "" {
		source = AutoDetect
	}
	if target == "" || target == source {
		return text, false
	}

	translated, err := g.provider.Translate(ctx, Request{Text: text, Target: target, Source: source})
	if err != nil {
		metrics.TranslationFailures.WithLabelValues(target).Inc()
		g.logger.Warn().
			Err(err).
			Str("source", source).
			Str("target", target).
			Msg("Translation failed, using original text")
		return text, false
	}
	if strings.TrimSpace(translated) == "" {
		return text, false
	}

	g.logger.Debug().
		Str("source", source).
		Str("target", target).
		Int("len", len(translated)).
		Msg("Translated")
	return translated, true
}
