// Package tts drives spoken playback of assistant answers on top of the
// platform's speech synthesis capability.
package tts

import (
	"context"
	"errors"
)

// Playback errors reported by a Synthesizer. Implementations wrap their
// native failures in one of these so the Player can classify them.
var (
	ErrInterrupted     = errors.New("speech interrupted")
	ErrNotAllowed      = errors.New("audio playback not allowed")
	ErrNetwork         = errors.New("speech network error")
	ErrSynthesisFailed = errors.New("speech synthesis failed")
	ErrUnsupported     = errors.New("speech synthesis unsupported")
)

// Voice describes one voice in the platform inventory. The app never
// mutates the inventory; it only reads snapshots.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// Placeholder is returned by the Resolver when no voice matches.
var Placeholder = Voice{Name: "Loading voices..."}

// IsPlaceholder reports whether v is the placeholder entry.
func (v Voice) IsPlaceholder() bool {
	return v == Placeholder
}

// Utterance is one discrete playback request.
type Utterance struct {
	Text   string
	Voice  Voice // zero value means the platform default
	Rate   float64
	Pitch  float64
	Volume float64
}

// Synthesizer is the platform speech-synthesis capability.
//
// OnVoicesChanged must not invoke fn synchronously from inside the call.
// Speak blocks until the utterance ends and returns ErrInterrupted when it
// was cancelled, either through Cancel or ctx.
type Synthesizer interface {
	Name() string
	Supported() bool
	Voices() []Voice
	OnVoicesChanged(fn func()) (unsubscribe func())
	Speak(ctx context.Context, u Utterance) error
	Cancel()
	Speaking() bool
}
