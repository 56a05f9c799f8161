package tts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/voicevedic/internal/advisory"
	"github.com/normanking/voicevedic/internal/bus"
	"github.com/normanking/voicevedic/internal/i18n"
	"github.com/normanking/voicevedic/internal/language"
	"github.com/normanking/voicevedic/internal/metrics"
)

// Advisory codes raised by the player.
const (
	CodeVoiceFallback       = "speech.voice_fallback"
	CodeKannadaVoiceMissing = "speech.kannada_voice_missing"
	CodeAudioNotAllowed     = "speech.not_allowed"
	CodeAudioNetwork        = "speech.network"
	CodeAudioSynthesis      = "speech.synthesis"
	CodeAudioGeneric        = "speech.generic"
)

var playbackErrorCodes = []string{
	CodeAudioNotAllowed, CodeAudioNetwork, CodeAudioSynthesis, CodeAudioGeneric,
}

// PlayerConfig configures a Player.
type PlayerConfig struct {
	// Grace is the pause between cancelling one utterance and starting the
	// next; some platforms need it to flush the cancellation.
	Grace  time.Duration `mapstructure:"grace"`
	Rate   float64       `mapstructure:"rate"`
	Pitch  float64       `mapstructure:"pitch"`
	Volume float64       `mapstructure:"volume"`
}

// DefaultPlayerConfig returns the default playback settings.
func DefaultPlayerConfig() *PlayerConfig {
	return &PlayerConfig{
		Grace:  250 * time.Millisecond,
		Rate:   1.0,
		Pitch:  1.0,
		Volume: 1.0,
	}
}

// Player speaks messages one at a time. Starting a message always cancels
// the previous one; playing the message that is already playing stops it.
type Player struct {
	logger   zerolog.Logger
	engine   *Engine
	resolver *Resolver
	board    *advisory.Board
	eventBus *bus.EventBus
	config   *PlayerConfig

	mu        sync.Mutex
	playingID string
	cancel    context.CancelFunc
	gen       uint64
}

// NewPlayer creates a player. board and eventBus may be nil.
func NewPlayer(
	logger zerolog.Logger,
	engine *Engine,
	resolver *Resolver,
	board *advisory.Board,
	eventBus *bus.EventBus,
	config *PlayerConfig,
) *Player {
	if config == nil {
		config = DefaultPlayerConfig()
	}
	return &Player{
		logger:   logger.With().Str("component", "player").Logger(),
		engine:   engine,
		resolver: resolver,
		board:    board,
		eventBus: eventBus,
		config:   config,
	}
}

// Play speaks text as message id and blocks until playback ends. tag is
// the selected language, used for advisory copy; the voice itself follows
// the script found in text. A benign interruption returns nil.
func (p *Player) Play(ctx context.Context, id, text string, tag language.Tag) error {
	p.mu.Lock()
	if id != "" && p.playingID == id {
		p.stopLocked()
		p.mu.Unlock()

		p.engine.Cancel()
		p.logger.Debug().Str("id", id).Msg("Playback toggled off")
		return nil
	}
	p.stopLocked()
	p.gen++
	gen := p.gen
	p.playingID = id
	playCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	defer p.finish(gen, id)

	p.engine.Cancel()
	select {
	case <-time.After(p.config.Grace):
	case <-playCtx.Done():
		return nil
	}

	if p.engine.Mode() == ModeDisabled {
		return ErrUnsupported
	}

	spoken := CleanForSpeech(text)
	if spoken == "" {
		return nil
	}

	voice := p.selectVoice(spoken, tag)
	p.eventBus.Publish(bus.Event{
		Type: bus.EventTypeSpeakingStarted,
		Data: map[string]any{"id": id, "voice": voice.Name},
	})

	p.logger.Debug().
		Str("id", id).
		Str("voice", voice.Name).
		Int("textLen", len(spoken)).
		Msg("Speaking")

	err := p.engine.Speak(playCtx, Utterance{
		Text:   spoken,
		Voice:  voice,
		Rate:   p.config.Rate,
		Pitch:  p.config.Pitch,
		Volume: p.config.Volume,
	})
	if err != nil && playCtx.Err() != nil && !errors.Is(err, ErrInterrupted) {
		err = errors.Join(ErrInterrupted, err)
	}
	return p.classify(err, tag)
}

// Stop cancels playback. Safe to call when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	p.stopLocked()
	p.mu.Unlock()
	p.engine.Cancel()
}

// PlayingID returns the message currently playing, or "".
func (p *Player) PlayingID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playingID
}

func (p *Player) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.playingID = ""
	p.gen++
}

func (p *Player) finish(gen uint64, id string) {
	p.mu.Lock()
	if p.gen == gen {
		if p.cancel != nil {
			p.cancel()
			p.cancel = nil
		}
		p.playingID = ""
	}
	p.mu.Unlock()

	p.eventBus.Publish(bus.Event{
		Type: bus.EventTypeSpeakingStopped,
		Data: map[string]any{"id": id},
	})
}

// selectVoice picks a voice for the script actually present in text,
// falling back to an English voice with an advisory when none exists.
func (p *Player) selectVoice(text string, tag language.Tag) Voice {
	voices := p.engine.Voices()
	want := language.DetectScript(text).Tag()

	if voice, ok := p.resolver.Best(want, voices); ok {
		if want.IsPivot() || language.BaseCode(voice.Lang) == want.Base() {
			return voice
		}
		p.raiseFallback(want, tag)
		return voice
	}

	if want.IsPivot() {
		return Voice{}
	}

	p.raiseFallback(want, tag)
	voice, _ := p.resolver.Best(language.Pivot, voices)
	return voice
}

func (p *Player) raiseFallback(want, tag language.Tag) {
	p.logger.Warn().Str("lang", string(want)).Msg("No voice for script, using English voice")
	if p.board == nil {
		return
	}

	if want == language.Kannada {
		p.board.Raise(advisory.Advisory{
			Code:    CodeKannadaVoiceMissing,
			Message: i18n.T(tag, i18n.KeyKannadaVoiceMissing),
			Level:   advisory.LevelWarning,
			Sticky:  true,
		})
		return
	}
	p.board.Raise(advisory.Advisory{
		Code:    CodeVoiceFallback,
		Message: i18n.Tf(tag, i18n.KeyVoiceFallback, want.DisplayName()),
		Level:   advisory.LevelInfo,
	})
}

// classify turns a playback error into an advisory. Interruptions are
// benign and clear any earlier playback error.
func (p *Player) classify(err error, tag language.Tag) error {
	if err == nil || errors.Is(err, ErrInterrupted) || errors.Is(err, context.Canceled) {
		if p.board != nil {
			p.board.ClearIf(playbackErrorCodes...)
		}
		return nil
	}

	var (
		code, key, class string
		sticky           = true
	)
	switch {
	case errors.Is(err, ErrNotAllowed):
		code, key, class = CodeAudioNotAllowed, i18n.KeyAudioNotAllowed, "not_allowed"
	case errors.Is(err, ErrNetwork):
		code, key, class = CodeAudioNetwork, i18n.KeyAudioNetwork, "network"
	case errors.Is(err, ErrSynthesisFailed):
		code, key, class = CodeAudioSynthesis, i18n.KeyAudioSynthesis, "synthesis"
	default:
		code, key, class = CodeAudioGeneric, i18n.KeyAudioGeneric, "other"
		sticky = false
	}

	metrics.PlaybackErrors.WithLabelValues(class).Inc()
	p.logger.Warn().Err(err).Str("class", class).Msg("Playback failed")

	if p.board != nil {
		p.board.Raise(advisory.Advisory{
			Code:    code,
			Message: i18n.T(tag, key),
			Level:   advisory.LevelError,
			Sticky:  sticky,
		})
	}
	return err
}
