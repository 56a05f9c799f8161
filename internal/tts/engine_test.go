package tts_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/voicevedic/internal/advisory"
	"github.com/normanking/voicevedic/internal/bus"
	"github.com/normanking/voicevedic/internal/language"
	"github.com/normanking/voicevedic/internal/testutil"
	"github.com/normanking/voicevedic/internal/tts"
)

var hindiVoice = tts.Voice{Name: "Lekha", Lang: "hi-IN"}

func newEngine(synth tts.Synthesizer, timeout time.Duration) (*tts.Engine, *advisory.Board) {
	board := advisory.NewBoard(nil, time.Minute)
	engine := tts.NewEngine(
		zerolog.Nop(),
		synth,
		board,
		bus.NewEventBus(),
		language.NewSelection(language.English),
		&tts.EngineConfig{ReadyTimeout: timeout},
	)
	return engine, board
}

func waitReady(t *testing.T, engine *tts.Engine) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, engine.WaitReady(ctx))
}

func TestEngine_Unsupported(t *testing.T) {
	engine, board := newEngine(testutil.NewFakeSynthesizer(false), time.Second)
	engine.Initialize()

	assert.Equal(t, tts.StateReady, engine.State())
	assert.Equal(t, tts.ModeDisabled, engine.Mode())
	waitReady(t, engine)

	adv, ok := board.Current()
	require.True(t, ok)
	assert.Equal(t, tts.CodeTextOnly, adv.Code)

	err := engine.Speak(context.Background(), tts.Utterance{Text: "hello"})
	assert.ErrorIs(t, err, tts.ErrUnsupported)
}

func TestEngine_NilSynthesizer(t *testing.T) {
	engine, _ := newEngine(nil, time.Second)
	engine.Initialize()

	assert.Equal(t, tts.ModeDisabled, engine.Mode())
	assert.NotPanics(t, engine.Teardown)
}

func TestEngine_VoicesAvailableImmediately(t *testing.T) {
	synth := testutil.NewFakeSynthesizer(true, hindiVoice)
	engine, board := newEngine(synth, time.Second)
	engine.Initialize()

	assert.Equal(t, tts.StateReady, engine.State())
	assert.Equal(t, tts.ModeFull, engine.Mode())
	assert.Equal(t, []tts.Voice{hindiVoice}, engine.Voices())

	_, ok := board.Current()
	assert.False(t, ok)
}

func TestEngine_VoicesArriveLater(t *testing.T) {
	synth := testutil.NewFakeSynthesizer(true)
	engine, board := newEngine(synth, time.Minute)
	engine.Initialize()

	assert.Equal(t, tts.StateWaitingForVoices, engine.State())

	synth.SetVoices(hindiVoice)

	waitReady(t, engine)
	assert.Equal(t, tts.ModeFull, engine.Mode())
	assert.Equal(t, []tts.Voice{hindiVoice}, engine.Voices())

	_, ok := board.Current()
	assert.False(t, ok, "no degraded advisory when voices arrive in time")
}

func TestEngine_TimeoutDegrades(t *testing.T) {
	synth := testutil.NewFakeSynthesizer(true)
	engine, board := newEngine(synth, 30*time.Millisecond)

	start := time.Now()
	engine.Initialize()
	waitReady(t, engine)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, tts.StateReady, engine.State())
	assert.Equal(t, tts.ModeDegraded, engine.Mode())

	assert.Eventually(t, func() bool {
		adv, ok := board.Current()
		return ok && adv.Code == tts.CodeVoicesDegraded && !adv.Sticky
	}, time.Second, 5*time.Millisecond)

	// voices arriving after the timeout still refresh the inventory
	synth.SetVoices(hindiVoice)
	assert.Equal(t, []tts.Voice{hindiVoice}, engine.Voices())
	assert.Equal(t, tts.ModeDegraded, engine.Mode())
}

func TestEngine_TeardownIsIdempotent(t *testing.T) {
	synth := testutil.NewFakeSynthesizer(true, hindiVoice)
	engine, _ := newEngine(synth, time.Second)
	engine.Initialize()
	require.Equal(t, 1, synth.Listeners())

	engine.Teardown()
	engine.Teardown()

	assert.Equal(t, 0, synth.Listeners())
	assert.Equal(t, 2, synth.Cancels())
	assert.Equal(t, tts.StateReady, engine.State())
}

func TestEngine_TeardownWhileWaiting(t *testing.T) {
	synth := testutil.NewFakeSynthesizer(true)
	engine, _ := newEngine(synth, 30*time.Millisecond)
	engine.Initialize()
	engine.Teardown()

	assert.Equal(t, tts.StateUninitialized, engine.State())
	assert.Equal(t, 0, synth.Listeners())

	// the stopped timer never degrades the engine
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, tts.StateUninitialized, engine.State())

	synth.SetVoices(hindiVoice)
	engine.OnVisibilityRestored()
	assert.Equal(t, tts.StateReady, engine.State())
	assert.Equal(t, tts.ModeFull, engine.Mode())
}

func TestEngine_VisibilityRestoredResubscribes(t *testing.T) {
	synth := testutil.NewFakeSynthesizer(true, hindiVoice)
	engine, _ := newEngine(synth, time.Second)
	engine.Initialize()
	engine.Teardown()
	require.Equal(t, 0, synth.Listeners())

	engine.OnVisibilityRestored()
	assert.Equal(t, 1, synth.Listeners())
}

func TestEngine_OnInventoryChange(t *testing.T) {
	synth := testutil.NewFakeSynthesizer(true, hindiVoice)
	engine, _ := newEngine(synth, time.Second)
	engine.Initialize()

	var got []tts.Voice
	stop := engine.OnInventoryChange(func(v []tts.Voice) { got = v })

	english := tts.Voice{Name: "Veena", Lang: "en-IN"}
	synth.SetVoices(hindiVoice, english)
	assert.Equal(t, []tts.Voice{hindiVoice, english}, got)

	stop()
	synth.SetVoices(hindiVoice)
	assert.Len(t, got, 2)
}
