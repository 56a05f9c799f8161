package stt

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

// Advisory codes raised by the controller.
const (
	CodeMicNotAllowed      = "capture.not_allowed"
	CodeCaptureUnsupported = "capture.unsupported"
)

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// SubmitDelay lets the captured text show in the question field
	// before the question is submitted.
	SubmitDelay time.Duration `mapstructure:"submit_delay"`
	// MaxDuration bounds a session that never produces a result.
	MaxDuration time.Duration `mapstructure:"max_duration"`
}

// DefaultControllerConfig returns the default capture settings.
func DefaultControllerConfig() *ControllerConfig {
	return &ControllerConfig{
		SubmitDelay: 600 * time.Millisecond,
		MaxDuration: 15 * time.Second,
	}
}

// Controller runs one-shot capture sessions: each ends on its first final
// result, on error or on Stop.
type Controller struct {
	logger     zerolog.Logger
	recognizer Recognizer
	filter     *TranscriptFilter
	board      *advisory.Board
	eventBus   *bus.EventBus
	config     *ControllerConfig

	mu           sync.Mutex
	session      Session
	listening    bool
	submitTimer  *time.Timer
	onTranscript func(string)
	onSubmit     func(string)
}

// NewController creates a controller. recognizer may be nil when the
// platform has no recognition; board and eventBus may be nil.
func NewController(
	logger zerolog.Logger,
	recognizer Recognizer,
	filter *TranscriptFilter,
	board *advisory.Board,
	eventBus *bus.EventBus,
	config *ControllerConfig,
) *Controller {
	if config == nil {
		config = DefaultControllerConfig()
	}
	if filter == nil {
		filter = NewTranscriptFilter(nil)
	}
	return &Controller{
		logger:     logger.With().Str("component", "capture").Logger(),
		recognizer: recognizer,
		filter:     filter,
		board:      board,
		eventBus:   eventBus,
		config:     config,
	}
}

// OnTranscript sets the callback that fills the question field.
func (c *Controller) OnTranscript(fn func(text string)) {
	c.mu.Lock()
	c.onTranscript = fn
	c.mu.Unlock()
}

// OnSubmit sets the callback fired SubmitDelay after a transcript.
func (c *Controller) OnSubmit(fn func(text string)) {
	c.mu.Lock()
	c.onSubmit = fn
	c.mu.Unlock()
}

// Supported reports whether voice capture is available.
func (c *Controller) Supported() bool {
	return c.recognizer != nil && c.recognizer.Supported()
}

// Capture starts listening in tag's recognition configuration. It returns
// once the session has started; results arrive through the callbacks.
func (c *Controller) Capture(ctx context.Context, tag language.Tag) error {
	if !c.Supported() {
		c.raise(tag, CodeCaptureUnsupported, i18n.KeyCaptureUnsupported, false)
		return ErrUnsupported
	}

	c.mu.Lock()
	if c.listening {
		c.mu.Unlock()
		return ErrListening
	}
	if c.submitTimer != nil {
		c.submitTimer.Stop()
		c.submitTimer = nil
	}
	c.listening = true
	c.mu.Unlock()

	cfg := tag.Recognition()
	sessCtx, cancel := context.WithTimeout(ctx, c.config.MaxDuration)
	session, err := c.recognizer.Start(sessCtx, cfg)
	if err != nil {
		cancel()
		c.setNotListening(nil)
		c.handleError(err, tag)
		return err
	}

	c.mu.Lock()
	if !c.listening {
		// stopped while the recognizer was starting
		c.mu.Unlock()
		session.Abort()
		cancel()
		return nil
	}
	c.session = session
	c.mu.Unlock()

	c.logger.Debug().
		Str("lang", cfg.Lang).
		Int("alternatives", cfg.MaxAlternatives).
		Bool("interim", cfg.InterimResults).
		Msg("Listening")
	c.eventBus.Publish(bus.Event{
		Type: bus.EventTypeListeningStarted,
		Data: map[string]any{"lang": cfg.Lang},
	})

	go c.run(sessCtx, cancel, session, tag)
	return nil
}

// Stop ends the current session. The controller always leaves the
// listening state, even if the recognizer misbehaves.
func (c *Controller) Stop() {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session != nil {
		session.Stop()
	}
	c.setNotListening(session)
}

// Cancel aborts the session and any pending auto-submit.
func (c *Controller) Cancel() {
	c.mu.Lock()
	session := c.session
	if c.submitTimer != nil {
		c.submitTimer.Stop()
		c.submitTimer = nil
	}
	c.mu.Unlock()

	if session != nil {
		session.Abort()
	}
	c.setNotListening(session)
}

// Listening reports whether a session is open.
func (c *Controller) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, session Session, tag language.Tag) {
	defer cancel()
	defer c.setNotListening(session)

	events := session.Events()
	for {
		select {
		case <-ctx.Done():
			session.Abort()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				c.logger.Debug().Msg("Capture timed out")
				metrics.CaptureSessions.WithLabelValues("timeout").Inc()
			}
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Err != nil {
				c.handleError(ev.Err, tag)
				session.Abort()
				return
			}

			text, final := firstFinal(ev.Results)
			if !final {
				continue
			}
			session.Stop()

			cleaned, meaningful := c.filter.Clean(text, tag)
			if !meaningful {
				c.handleError(ErrNoSpeech, tag)
				return
			}
			c.deliver(cleaned)
			return
		}
	}
}

func (c *Controller) deliver(text string) {
	metrics.CaptureSessions.WithLabelValues("transcript").Inc()
	c.logger.Info().Int("len", len(text)).Msg("Captured question")

	c.mu.Lock()
	onTranscript := c.onTranscript
	c.mu.Unlock()

	if onTranscript != nil {
		onTranscript(text)
	}
	c.eventBus.Publish(bus.Event{
		Type: bus.EventTypeTranscript,
		Data: map[string]any{"text": text},
	})

	c.mu.Lock()
	if onSubmit := c.onSubmit; onSubmit != nil {
		c.submitTimer = time.AfterFunc(c.config.SubmitDelay, func() { onSubmit(text) })
	}
	c.mu.Unlock()
}

// handleError classifies a recognition failure: permission denial blocks
// with an explanation, silence resets quietly, anything else is logged.
func (c *Controller) handleError(err error, tag language.Tag) {
	switch {
	case errors.Is(err, ErrNotAllowed):
		metrics.CaptureSessions.WithLabelValues("not_allowed").Inc()
		c.logger.Warn().Err(err).Msg("Microphone permission denied")
		c.raise(tag, CodeMicNotAllowed, i18n.KeyMicNotAllowed, true)
	case errors.Is(err, ErrNoSpeech):
		metrics.CaptureSessions.WithLabelValues("no_speech").Inc()
		c.logger.Debug().Msg("No speech detected")
	case errors.Is(err, ErrAborted):
		metrics.CaptureSessions.WithLabelValues("aborted").Inc()
		c.logger.Debug().Msg("Capture aborted")
	default:
		metrics.CaptureSessions.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Msg("Capture failed")
	}
}

func (c *Controller) raise(tag language.Tag, code, key string, sticky bool) {
	if c.board == nil {
		return
	}
	level := advisory.LevelInfo
	if sticky {
		level = advisory.LevelError
	}
	c.board.Raise(advisory.Advisory{
		Code:    code,
		Message: i18n.T(tag, key),
		Level:   level,
		Sticky:  sticky,
	})
}

// setNotListening clears the listening state if session is still the
// current one. A nil session always clears.
func (c *Controller) setNotListening(session Session) {
	c.mu.Lock()
	if session != nil && c.session != session {
		c.mu.Unlock()
		return
	}
	wasListening := c.listening
	c.listening = false
	c.session = nil
	c.mu.Unlock()

	if wasListening {
		c.eventBus.Publish(bus.Event{Type: bus.EventTypeListeningStopped})
	}
}

// firstFinal returns the first alternative of the first final result.
func firstFinal(results []Result) (string, bool) {
	for _, r := range results {
		if !r.IsFinal {
			continue
		}
		if len(r.Alternatives) == 0 {
			return "", true
		}
		return r.Alternatives[0].Transcript, true
	}
	return "", false
}
