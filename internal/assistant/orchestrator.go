// Package assistant runs the question lifecycle: history, translation,
// the knowledge call, post-processing and playback.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/normanking/voicevedic/internal/answer"
	"github.com/normanking/voicevedic/internal/bus"
	"github.com/normanking/voicevedic/internal/conversation"
	"github.com/normanking/voicevedic/internal/i18n"
	"github.com/normanking/voicevedic/internal/knowledge"
	"github.com/normanking/voicevedic/internal/language"
	"github.com/normanking/voicevedic/internal/location"
	"github.com/normanking/voicevedic/internal/metrics"
	"github.com/normanking/voicevedic/internal/suggest"
)

var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrBusy          = errors.New("a question is already in flight")
	ErrNoMessage     = errors.New("message not found")
)

// Translator is satisfied by *translate.Gateway. It never fails; on error
// it returns text unchanged with ok false.
type Translator interface {
	TryTranslate(ctx context.Context, text, target, source string) (string, bool)
}

// Knowledge is satisfied by *knowledge.Client.
type Knowledge interface {
	Ask(ctx context.Context, req knowledge.Request) (*knowledge.Response, error)
}

// Speaker is satisfied by *tts.Player.
type Speaker interface {
	Play(ctx context.Context, id, text string, tag language.Tag) error
	Stop()
}

// LocationSource supplies the last tracked location when a question names
// none.
type LocationSource interface {
	LastKnownLocation() string
}

// StaticLocation is a LocationSource with a fixed value.
type StaticLocation string

// LastKnownLocation returns the fixed location.
func (s StaticLocation) LastKnownLocation() string { return string(s) }

// Deps are the orchestrator's collaborators. Translator, Speaker,
// Location, Suggester and EventBus may be nil.
type Deps struct {
	History    conversation.History
	Selection  *language.Selection
	Translator Translator
	Knowledge  Knowledge
	Processor  *answer.Processor
	Speaker    Speaker
	Location   LocationSource
	Suggester  *suggest.Engine
	EventBus   *bus.EventBus
}

// Config configures an Orchestrator.
type Config struct {
	// AutoPlay speaks every answer once it is appended.
	AutoPlay bool `mapstructure:"auto_play"`
}

// DefaultConfig returns the default orchestrator settings.
func DefaultConfig() *Config {
	return &Config{AutoPlay: true}
}

// Orchestrator answers one question at a time.
type Orchestrator struct {
	logger zerolog.Logger
	deps   Deps
	config *Config
	asking atomic.Bool
}

// New creates an orchestrator. History, Selection and Knowledge are
// required.
func New(logger zerolog.Logger, deps Deps, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	if deps.Processor == nil {
		deps.Processor = answer.NewProcessor(nil)
	}
	return &Orchestrator{
		logger: logger.With().Str("component", "assistant").Logger(),
		deps:   deps,
		config: config,
	}
}

// Asking reports whether a question is in flight.
func (o *Orchestrator) Asking() bool {
	return o.asking.Load()
}

// Ask answers question in the selected language and returns the appended
// assistant message. Knowledge failures do not return an error: they
// produce a localized fallback message instead.
func (o *Orchestrator) Ask(ctx context.Context, question string) (conversation.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return conversation.Message{}, ErrEmptyQuestion
	}
	if !o.asking.CompareAndSwap(false, true) {
		o.logger.Debug().Msg("Question rejected, another is in flight")
		return conversation.Message{}, ErrBusy
	}
	defer o.asking.Store(false)

	tag := o.deps.Selection.Current()
	o.deps.EventBus.Publish(bus.Event{
		Type: bus.EventTypeAskStarted,
		Data: map[string]any{"lang": string(tag)},
	})

	o.appendMessage(ctx, conversation.NewMessage(conversation.RoleUser, question))

	content, outcome := o.answer(ctx, question, tag)
	reply := conversation.NewMessage(conversation.RoleAssistant, content)
	o.appendMessage(ctx, reply)

	metrics.QuestionCount.WithLabelValues(outcome, tag.Base()).Inc()
	o.deps.EventBus.Publish(bus.Event{
		Type: bus.EventTypeAskFinished,
		Data: map[string]any{"id": reply.ID, "outcome": outcome},
	})

	if o.config.AutoPlay && content != "" {
		o.schedulePlayback(ctx, reply, tag)
	}
	return reply, nil
}

// answer produces the assistant text and an outcome label for metrics.
func (o *Orchestrator) answer(ctx context.Context, question string, tag language.Tag) (string, string) {
	pivot := language.Pivot
	asked := question
	if !tag.IsPivot() {
		asked, _ = o.translate(ctx, question, pivot.Base(), tag.Base())
	}

	req := knowledge.Request{Question: asked, Location: location.Extract(asked)}
	if req.Location == "" && o.deps.Location != nil {
		req.Location = strings.TrimSpace(o.deps.Location.LastKnownLocation())
	}

	o.logger.Info().
		Str("lang", string(tag)).
		Str("location", req.Location).
		Int("questionLen", len(asked)).
		Msg("Asking knowledge service")

	resp, err := o.deps.Knowledge.Ask(ctx, req)
	if err != nil {
		key, outcome := classify(err)
		o.logger.Error().Err(err).Str("outcome", outcome).Msg("Knowledge request failed")
		return i18n.T(tag, key), outcome
	}

	if !tag.IsPivot() {
		if translated, ok := o.translate(ctx, resp.Answer, tag.Base(), pivot.Base()); ok {
			return translated, "answered"
		}
	}
	// the answer is still in the pivot language
	return o.deps.Processor.Process(resp.Answer), "answered"
}

func (o *Orchestrator) translate(ctx context.Context, text, target, source string) (string, bool) {
	if o.deps.Translator == nil {
		return text, false
	}
	return o.deps.Translator.TryTranslate(ctx, text, target, source)
}

// classify maps a knowledge error to fallback copy. Raw error text never
// reaches the user.
func classify(err error) (string, string) {
	var upstream *knowledge.UpstreamError
	switch {
	case errors.Is(err, knowledge.ErrMissingCredential):
		return i18n.KeyFallbackMissingCredential, "missing_credential"
	case errors.As(err, &upstream):
		return i18n.KeyFallbackUpstream, "upstream"
	default:
		return i18n.KeyFallbackGeneric, "error"
	}
}

// appendMessage records msg. History is optimistic: a storage failure is
// logged and the conversation continues.
func (o *Orchestrator) appendMessage(ctx context.Context, msg conversation.Message) {
	if err := o.deps.History.Append(ctx, msg); err != nil {
		o.logger.Warn().Err(err).Str("role", string(msg.Role)).Msg("Failed to store message")
	}
	o.deps.EventBus.Publish(bus.Event{
		Type: bus.EventTypeMessageAppended,
		Data: map[string]any{"id": msg.ID, "role": string(msg.Role)},
	})
}

func (o *Orchestrator) schedulePlayback(ctx context.Context, msg conversation.Message, tag language.Tag) {
	if o.deps.Speaker == nil {
		return
	}
	playCtx := context.WithoutCancel(ctx)
	go func() {
		if err := o.deps.Speaker.Play(playCtx, msg.ID, msg.Content, tag); err != nil {
			o.logger.Debug().Err(err).Str("id", msg.ID).Msg("Playback ended with error")
		}
	}()
}

// Play speaks a stored assistant message, or stops it if it is the one
// playing. It blocks until playback ends.
func (o *Orchestrator) Play(ctx context.Context, id string) error {
	if o.deps.Speaker == nil {
		return nil
	}
	messages, err := o.deps.History.Messages(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	for _, m := range messages {
		if m.ID == id {
			return o.deps.Speaker.Play(ctx, m.ID, m.Content, o.deps.Selection.Current())
		}
	}
	return ErrNoMessage
}

// Messages returns the conversation so far.
func (o *Orchestrator) Messages(ctx context.Context) ([]conversation.Message, error) {
	return o.deps.History.Messages(ctx)
}

// Clear stops playback and empties the conversation.
func (o *Orchestrator) Clear(ctx context.Context) error {
	if o.deps.Speaker != nil {
		o.deps.Speaker.Stop()
	}
	if err := o.deps.History.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	o.deps.EventBus.Publish(bus.Event{Type: bus.EventTypeConversationCleared})
	return nil
}

// Suggestions returns follow-up questions for what the user is typing.
func (o *Orchestrator) Suggestions(input string) []string {
	if o.deps.Suggester == nil {
		return nil
	}
	return o.deps.Suggester.Suggest(input, o.deps.Selection.Current())
}
