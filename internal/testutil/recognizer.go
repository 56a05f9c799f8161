package testutil

import (
	"context"
	"sync"

	"github.com/normanking/voicevedic/internal/language"
	"github.com/normanking/voicevedic/internal/stt"
)

// FakeRecognizer is an in-memory stt.Recognizer whose sessions are driven
// by the test.
type FakeRecognizer struct {
	mu        sync.Mutex
	supported bool
	configs   []language.RecognitionConfig
	sessions  chan *FakeSession

	// StartErr is returned by Start when set.
	StartErr error
}

// NewFakeRecognizer creates a fake recognizer.
func NewFakeRecognizer(supported bool) *FakeRecognizer {
	return &FakeRecognizer{supported: supported, sessions: make(chan *FakeSession, 8)}
}

func (r *FakeRecognizer) Supported() bool { return r.supported }

func (r *FakeRecognizer) Start(_ context.Context, config language.RecognitionConfig) (stt.Session, error) {
	r.mu.Lock()
	r.configs = append(r.configs, config)
	startErr := r.StartErr
	r.mu.Unlock()

	if startErr != nil {
		return nil, startErr
	}
	s := &FakeSession{events: make(chan stt.Event, 8)}
	r.sessions <- s
	return s, nil
}

// Sessions delivers each started session.
func (r *FakeRecognizer) Sessions() <-chan *FakeSession {
	return r.sessions
}

// Configs returns the configuration of every Start call.
func (r *FakeRecognizer) Configs() []language.RecognitionConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]language.RecognitionConfig, len(r.configs))
	copy(out, r.configs)
	return out
}

// FakeSession is a recognition session fed by Emit.
type FakeSession struct {
	mu      sync.Mutex
	events  chan stt.Event
	closed  bool
	stopped bool
	aborted bool
}

func (s *FakeSession) Events() <-chan stt.Event { return s.events }

func (s *FakeSession) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.closeLocked()
	s.mu.Unlock()
}

func (s *FakeSession) Abort() {
	s.mu.Lock()
	s.aborted = true
	s.closeLocked()
	s.mu.Unlock()
}

// Emit delivers ev unless the session has ended.
func (s *FakeSession) Emit(ev stt.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.events <- ev
	}
}

// EmitFinal delivers a final result with the given alternatives.
func (s *FakeSession) EmitFinal(alternatives ...string) {
	alts := make([]stt.Alternative, len(alternatives))
	for i, a := range alternatives {
		alts[i] = stt.Alternative{Transcript: a, Confidence: 0.9}
	}
	s.Emit(stt.Event{Results: []stt.Result{{Alternatives: alts, IsFinal: true}}})
}

// Stopped reports whether Stop was called.
func (s *FakeSession) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Aborted reports whether Abort was called.
func (s *FakeSession) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

func (s *FakeSession) closeLocked() {
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}
