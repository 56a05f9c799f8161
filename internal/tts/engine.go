package tts

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/voicevedic/internal/advisory"
	"github.com/normanking/voicevedic/internal/bus"
	"github.com/normanking/voicevedic/internal/i18n"
	"github.com/normanking/voicevedic/internal/language"
	"github.com/normanking/voicevedic/internal/metrics"
)

// State is the engine lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateWaitingForVoices
	StateReady
)

func (s State) String() string {
	switch s {
	case StateWaitingForVoices:
		return "waiting_for_voices"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Mode qualifies the Ready state.
type Mode string

const (
	ModeFull     Mode = "full"
	ModeDisabled Mode = "disabled" // no synthesis capability, text only
	ModeDegraded Mode = "degraded" // voices never arrived within the timeout
)

// Advisory codes raised by the engine.
const (
	CodeTextOnly       = "speech.text_only"
	CodeVoicesDegraded = "speech.voices_degraded"
)

// EngineConfig configures the Engine.
type EngineConfig struct {
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{ReadyTimeout: 3 * time.Second}
}

// Engine owns the synthesizer lifecycle and guarantees a Ready state within
// a bounded wait, whether or not the platform ever delivers voices.
type Engine struct {
	logger    zerolog.Logger
	synth     Synthesizer
	board     *advisory.Board
	eventBus  *bus.EventBus
	selection *language.Selection
	config    *EngineConfig

	mu          sync.Mutex
	state       State
	mode        Mode
	voices      []Voice
	timer       *time.Timer
	unsubscribe func()
	ready       chan struct{}
	listeners   map[int]func([]Voice)
	nextID      int
}

// NewEngine creates an uninitialized engine. synth may be nil, which is
// treated as an absent capability. board, eventBus and selection may be nil.
func NewEngine(
	logger zerolog.Logger,
	synth Synthesizer,
	board *advisory.Board,
	eventBus *bus.EventBus,
	selection *language.Selection,
	config *EngineConfig,
) *Engine {
	if config == nil {
		config = DefaultEngineConfig()
	}
	if config.ReadyTimeout <= 0 {
		config.ReadyTimeout = DefaultEngineConfig().ReadyTimeout
	}
	return &Engine{
		logger:    logger.With().Str("component", "voice-engine").Logger(),
		synth:     synth,
		board:     board,
		eventBus:  eventBus,
		selection: selection,
		config:    config,
		ready:     make(chan struct{}),
		listeners: make(map[int]func([]Voice)),
	}
}

// Initialize starts the engine without blocking. It is a no-op unless the
// engine is uninitialized.
func (e *Engine) Initialize() {
	e.mu.Lock()
	if e.state != StateUninitialized {
		e.mu.Unlock()
		return
	}

	if e.synth == nil || !e.synth.Supported() {
		e.markReadyLocked(ModeDisabled)
		e.mu.Unlock()

		e.logger.Warn().Msg("Speech synthesis not available, text responses only")
		e.raise(CodeTextOnly, i18n.KeyTextOnly, advisory.LevelInfo)
		e.publishReady(ModeDisabled)
		return
	}

	e.subscribeLocked()
	voices := e.synth.Voices()
	if len(voices) > 0 {
		e.voices = voices
		e.markReadyLocked(ModeFull)
		e.mu.Unlock()

		e.logger.Info().Int("voices", len(voices)).Str("synth", e.synth.Name()).Msg("Voice engine ready")
		e.publishReady(ModeFull)
		return
	}

	e.state = StateWaitingForVoices
	e.timer = time.AfterFunc(e.config.ReadyTimeout, e.onTimeout)
	e.mu.Unlock()

	e.logger.Debug().Dur("timeout", e.config.ReadyTimeout).Msg("Waiting for voices")
}

// WaitReady blocks until the engine is Ready or ctx is done.
func (e *Engine) WaitReady(ctx context.Context) error {
	e.mu.Lock()
	ready := e.ready
	e.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnVisibilityRestored retries initialization that never completed and
// resumes inventory updates that Teardown removed.
func (e *Engine) OnVisibilityRestored() {
	e.mu.Lock()
	state := e.state
	resume := state == StateReady && e.mode != ModeDisabled && e.unsubscribe == nil
	if resume {
		e.subscribeLocked()
	}
	e.mu.Unlock()

	switch {
	case state == StateUninitialized:
		e.logger.Debug().Msg("Visibility restored, retrying initialization")
		e.Initialize()
	case resume:
		e.onVoicesChanged()
	}
}

// Teardown cancels in-flight speech and removes every listener the engine
// registered with the platform. Safe to call any number of times.
func (e *Engine) Teardown() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	unsubscribe := e.unsubscribe
	e.unsubscribe = nil
	if e.state == StateWaitingForVoices {
		e.state = StateUninitialized
	}
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	e.Cancel()
}

// Cancel stops the current utterance, if any.
func (e *Engine) Cancel() {
	if e.synth != nil && e.synth.Supported() {
		e.synth.Cancel()
	}
}

// Speak plays u through the synthesizer.
func (e *Engine) Speak(ctx context.Context, u Utterance) error {
	if e.Mode() == ModeDisabled || e.synth == nil {
		return ErrUnsupported
	}
	return e.synth.Speak(ctx, u)
}

// Speaking reports whether the platform is currently speaking.
func (e *Engine) Speaking() bool {
	return e.synth != nil && e.synth.Supported() && e.synth.Speaking()
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Mode returns the mode the engine became ready in; empty before Ready.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Voices returns a snapshot of the voice inventory.
func (e *Engine) Voices() []Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Voice, len(e.voices))
	copy(out, e.voices)
	return out
}

// OnInventoryChange registers fn for voice inventory refreshes.
func (e *Engine) OnInventoryChange(fn func([]Voice)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

func (e *Engine) subscribeLocked() {
	if e.unsubscribe != nil {
		return
	}
	e.unsubscribe = e.synth.OnVoicesChanged(e.onVoicesChanged)
}

func (e *Engine) onVoicesChanged() {
	voices := e.synth.Voices()

	e.mu.Lock()
	e.voices = voices
	becameReady := false
	if e.state == StateWaitingForVoices && len(voices) > 0 {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		e.markReadyLocked(ModeFull)
		becameReady = true
	}
	fns := make([]func([]Voice), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	e.logger.Debug().Int("voices", len(voices)).Msg("Voice inventory changed")
	if becameReady {
		e.publishReady(ModeFull)
	}

	snapshot := make([]Voice, len(voices))
	copy(snapshot, voices)
	for _, fn := range fns {
		fn(snapshot)
	}
	e.eventBus.Publish(bus.Event{
		Type: bus.EventTypeVoicesChanged,
		Data: map[string]any{"count": len(voices)},
	})
}

func (e *Engine) onTimeout() {
	e.mu.Lock()
	if e.state != StateWaitingForVoices {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	e.markReadyLocked(ModeDegraded)
	e.mu.Unlock()

	e.logger.Warn().Dur("timeout", e.config.ReadyTimeout).Msg("No voices arrived, continuing in degraded mode")
	e.raise(CodeVoicesDegraded, i18n.KeyVoicesDegraded, advisory.LevelWarning)
	e.publishReady(ModeDegraded)
}

func (e *Engine) markReadyLocked(mode Mode) {
	e.state = StateReady
	e.mode = mode
	select {
	case <-e.ready:
	default:
		close(e.ready)
	}
	metrics.EngineReady.WithLabelValues(string(mode)).Inc()
}

func (e *Engine) raise(code, key string, level advisory.Level) {
	if e.board == nil {
		return
	}
	tag := language.Pivot
	if e.selection != nil {
		tag = e.selection.Current()
	}
	e.board.Raise(advisory.Advisory{
		Code:    code,
		Message: i18n.T(tag, key),
		Level:   level,
	})
}

func (e *Engine) publishReady(mode Mode) {
	e.eventBus.Publish(bus.Event{
		Type: bus.EventTypeEngineReady,
		Data: map[string]any{"mode": string(mode)},
	})
}
