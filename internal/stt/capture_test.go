package stt_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/voicevedic/internal/advisory"
	"github.com/normanking/voicevedic/internal/bus"
	"github.com/normanking/voicevedic/internal/language"
	"github.com/normanking/voicevedic/internal/stt"
	"github.com/normanking/voicevedic/internal/testutil"
)

type captured struct {
	mu          sync.Mutex
	transcripts []string
	submitted   chan string
}

func newController(t *testing.T, rec stt.Recognizer, cfg *stt.ControllerConfig) (*stt.Controller, *advisory.Board, *captured) {
	t.Helper()
	if cfg == nil {
		cfg = &stt.ControllerConfig{SubmitDelay: 20 * time.Millisecond, MaxDuration: time.Minute}
	}
	board := advisory.NewBoard(nil, time.Minute)
	c := stt.NewController(zerolog.Nop(), rec, nil, board, bus.NewEventBus(), cfg)

	got := &captured{submitted: make(chan string, 4)}
	c.OnTranscript(func(text string) {
		got.mu.Lock()
		got.transcripts = append(got.transcripts, text)
		got.mu.Unlock()
	})
	c.OnSubmit(func(text string) { got.submitted <- text })
	return c, board, got
}

func nextSession(t *testing.T, rec *testutil.FakeRecognizer) *testutil.FakeSession {
	t.Helper()
	select {
	case s := <-rec.Sessions():
		return s
	case <-time.After(time.Second):
		t.Fatal("no session started")
		return nil
	}
}

func notListening(t *testing.T, c *stt.Controller) {
	t.Helper()
	assert.Eventually(t, func() bool { return !c.Listening() }, time.Second, 5*time.Millisecond)
}

func TestController_RecognitionConfigPerLanguage(t *testing.T) {
	rec := testutil.NewFakeRecognizer(true)
	c, _, _ := newController(t, rec, nil)
	ctx := context.Background()

	require.NoError(t, c.Capture(ctx, language.English))
	c.Stop()
	require.NoError(t, c.Capture(ctx, language.Kannada))
	c.Stop()

	configs := rec.Configs()
	require.Len(t, configs, 2)
	assert.Equal(t, language.RecognitionConfig{Lang: "en-IN", MaxAlternatives: 1, InterimResults: false}, configs[0])
	assert.Equal(t, language.RecognitionConfig{Lang: "kn-IN", MaxAlternatives: 3, InterimResults: true}, configs[1])
}

func TestController_FinalResultSubmits(t *testing.T) {
	rec := testutil.NewFakeRecognizer(true)
	c, _, got := newController(t, rec, nil)

	require.NoError(t, c.Capture(context.Background(), language.Hindi))
	assert.True(t, c.Listening())
	sess := nextSession(t, rec)

	sess.Emit(stt.Event{Results: []stt.Result{{
		Alternatives: []stt.Alternative{{Transcript: "एकादशी"}},
		IsFinal:      false,
	}}})
	sess.EmitFinal("अं एकादशी कब है", "एकादशी कब हैं")

	select {
	case text := <-got.submitted:
		assert.Equal(t, "एकादशी कब है", text)
	case <-time.After(time.Second):
		t.Fatal("question never submitted")
	}

	got.mu.Lock()
	assert.Equal(t, []string{"एकादशी कब है"}, got.transcripts)
	got.mu.Unlock()

	notListening(t, c)
	assert.True(t, sess.Stopped())
}

func TestController_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"permission denied", stt.ErrNotAllowed, stt.CodeMicNotAllowed},
		{"no speech", stt.ErrNoSpeech, ""},
		{"aborted", stt.ErrAborted, ""},
		{"network", stt.ErrNetwork, ""},
		{"unknown", errors.New("audio-capture"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewFakeRecognizer(true)
			c, board, got := newController(t, rec, nil)

			require.NoError(t, c.Capture(context.Background(), language.English))
			nextSession(t, rec).Emit(stt.Event{Err: tt.err})

			notListening(t, c)
			adv, ok := board.Current()
			if tt.wantCode == "" {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, adv.Code)
				assert.True(t, adv.Sticky)
			}
			assert.Empty(t, got.submitted)
		})
	}
}

func TestController_StartError(t *testing.T) {
	rec := testutil.NewFakeRecognizer(true)
	rec.StartErr = stt.ErrNotAllowed
	c, board, _ := newController(t, rec, nil)

	err := c.Capture(context.Background(), language.English)
	assert.ErrorIs(t, err, stt.ErrNotAllowed)
	assert.False(t, c.Listening())

	adv, ok := board.Current()
	require.True(t, ok)
	assert.Equal(t, stt.CodeMicNotAllowed, adv.Code)
}

func TestController_Unsupported(t *testing.T) {
	c, board, _ := newController(t, testutil.NewFakeRecognizer(false), nil)

	err := c.Capture(context.Background(), language.English)
	assert.ErrorIs(t, err, stt.ErrUnsupported)

	adv, ok := board.Current()
	require.True(t, ok)
	assert.Equal(t, stt.CodeCaptureUnsupported, adv.Code)
	assert.False(t, adv.Sticky)
}

func TestController_SingleSession(t *testing.T) {
	rec := testutil.NewFakeRecognizer(true)
	c, _, _ := newController(t, rec, nil)
	ctx := context.Background()

	require.NoError(t, c.Capture(ctx, language.English))
	assert.ErrorIs(t, c.Capture(ctx, language.English), stt.ErrListening)

	sess := nextSession(t, rec)
	c.Stop()
	assert.False(t, c.Listening())
	assert.True(t, sess.Stopped())

	c.Stop()
	assert.False(t, c.Listening())
}

func TestController_MaxDuration(t *testing.T) {
	rec := testutil.NewFakeRecognizer(true)
	c, _, _ := newController(t, rec, &stt.ControllerConfig{
		SubmitDelay: 20 * time.Millisecond,
		MaxDuration: 30 * time.Millisecond,
	})

	require.NoError(t, c.Capture(context.Background(), language.English))
	sess := nextSession(t, rec)

	notListening(t, c)
	assert.True(t, sess.Aborted())
}

func TestController_CancelDropsPendingSubmit(t *testing.T) {
	rec := testutil.NewFakeRecognizer(true)
	c, _, got := newController(t, rec, &stt.ControllerConfig{
		SubmitDelay: 100 * time.Millisecond,
		MaxDuration: time.Minute,
	})

	require.NoError(t, c.Capture(context.Background(), language.English))
	nextSession(t, rec).EmitFinal("when is the next Purnima")

	assert.Eventually(t, func() bool {
		got.mu.Lock()
		defer got.mu.Unlock()
		return len(got.transcripts) == 1
	}, time.Second, 5*time.Millisecond)
	notListening(t, c)

	c.Cancel()

	select {
	case text := <-got.submitted:
		t.Fatalf("unexpected submit of %q", text)
	case <-time.After(200 * time.Millisecond):
	}
}
