// Package stt captures spoken questions through the platform's speech
// recognition capability.
package stt

import (
	"context"
	"errors"

	"github.com/normanking/voicevedic/internal/language"
)

// Recognition errors. Recognizer implementations report failures through
// Event.Err wrapping one of these.
var (
	ErrNotAllowed  = errors.New("microphone not allowed")
	ErrNoSpeech    = errors.New("no speech detected")
	ErrAborted     = errors.New("recognition aborted")
	ErrNetwork     = errors.New("recognition network error")
	ErrUnsupported = errors.New("speech recognition unsupported")
	ErrListening   = errors.New("capture already in progress")
)

// Alternative is one candidate transcript.
type Alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// Result is one recognition result with its alternatives, best first.
type Result struct {
	Alternatives []Alternative `json:"alternatives"`
	IsFinal      bool          `json:"isFinal"`
}

// Event is delivered by a Session. Either Results or Err is set.
type Event struct {
	Results []Result
	Err     error
}

// Session is one running recognition. Its Events channel is closed when
// the session ends, after Stop, Abort or the recognizer's own end.
type Session interface {
	Events() <-chan Event
	Stop()
	Abort()
}

// Recognizer is the platform speech-recognition capability.
type Recognizer interface {
	Supported() bool
	Start(ctx context.Context, config language.RecognitionConfig) (Session, error)
}
