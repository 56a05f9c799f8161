// Package testutil provides fakes for the platform speech capabilities and
// mock HTTP services used across package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/normanking/voicevedic/internal/tts"
)

// FakeSynthesizer is an in-memory tts.Synthesizer.
type FakeSynthesizer struct {
	mu        sync.Mutex
	supported bool
	voices    []tts.Voice
	listeners map[int]func()
	nextID    int
	spoken    []tts.Utterance
	stop      chan struct{}
	cancels   int
	started   chan tts.Utterance

	// Hold makes Speak block until Cancel or ctx ends.
	Hold bool
	// SpeakErr is returned by Speak when Hold is false.
	SpeakErr error
}

// NewFakeSynthesizer creates a fake with the given capability and voices.
func NewFakeSynthesizer(supported bool, voices ...tts.Voice) *FakeSynthesizer {
	return &FakeSynthesizer{
		supported: supported,
		voices:    voices,
		listeners: make(map[int]func()),
		started:   make(chan tts.Utterance, 16),
	}
}

func (f *FakeSynthesizer) Name() string { return "fake" }

func (f *FakeSynthesizer) Supported() bool { return f.supported }

func (f *FakeSynthesizer) Voices() []tts.Voice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tts.Voice, len(f.voices))
	copy(out, f.voices)
	return out
}

func (f *FakeSynthesizer) OnVoicesChanged(fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

// SetVoices replaces the inventory and fires the voices-changed listeners.
func (f *FakeSynthesizer) SetVoices(voices ...tts.Voice) {
	f.mu.Lock()
	f.voices = voices
	fns := make([]func(), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Listeners returns the number of registered voices-changed listeners.
func (f *FakeSynthesizer) Listeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

func (f *FakeSynthesizer) Speak(ctx context.Context, u tts.Utterance) error {
	f.mu.Lock()
	f.spoken = append(f.spoken, u)
	hold := f.Hold
	speakErr := f.SpeakErr
	stop := make(chan struct{})
	if hold {
		f.stop = stop
	}
	f.mu.Unlock()

	select {
	case f.started <- u:
	default:
	}

	if !hold {
		return speakErr
	}

	select {
	case <-stop:
	case <-ctx.Done():
	}

	f.mu.Lock()
	if f.stop == stop {
		f.stop = nil
	}
	f.mu.Unlock()
	return tts.ErrInterrupted
}

func (f *FakeSynthesizer) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
	if f.stop != nil {
		close(f.stop)
		f.stop = nil
	}
}

func (f *FakeSynthesizer) Speaking() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stop != nil
}

// Started delivers every utterance as Speak begins.
func (f *FakeSynthesizer) Started() <-chan tts.Utterance {
	return f.started
}

// Spoken returns every utterance passed to Speak.
func (f *FakeSynthesizer) Spoken() []tts.Utterance {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tts.Utterance, len(f.spoken))
	copy(out, f.spoken)
	return out
}

// Cancels returns how many times Cancel was called.
func (f *FakeSynthesizer) Cancels() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancels
}
