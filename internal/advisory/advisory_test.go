package advisory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/voicevedic/internal/bus"
)

func TestBoard_TransientExpires(t *testing.T) {
	b := NewBoard(nil, 30*time.Millisecond)
	b.Raise(Advisory{Code: "voice-fallback", Message: "fallback"})

	got, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "voice-fallback", got.Code)
	assert.Equal(t, 30*time.Millisecond, got.TTL)

	assert.Eventually(t, func() bool {
		_, ok := b.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestBoard_StickyPersistsUntilDismissed(t *testing.T) {
	b := NewBoard(nil, 10*time.Millisecond)
	b.Raise(Advisory{Code: "kannada-voice-missing", Sticky: true})

	time.Sleep(40 * time.Millisecond)
	_, ok := b.Current()
	require.True(t, ok)

	// transient notices do not hide a sticky one
	b.Raise(Advisory{Code: "audio-generic"})
	got, _ := b.Current()
	assert.Equal(t, "kannada-voice-missing", got.Code)

	b.Dismiss()
	_, ok = b.Current()
	assert.False(t, ok)
}

func TestBoard_NewTransientRestartsTimer(t *testing.T) {
	b := NewBoard(nil, 50*time.Millisecond)
	b.Raise(Advisory{Code: "first"})
	time.Sleep(30 * time.Millisecond)
	b.Raise(Advisory{Code: "second"})
	time.Sleep(30 * time.Millisecond)

	got, ok := b.Current()
	require.True(t, ok, "second advisory expired with the first timer")
	assert.Equal(t, "second", got.Code)
}

func TestBoard_ClearIf(t *testing.T) {
	b := NewBoard(nil, time.Minute)
	b.Raise(Advisory{Code: "audio-network"})

	assert.False(t, b.ClearIf("audio-generic"))
	assert.True(t, b.ClearIf("audio-generic", "audio-network"))
	_, ok := b.Current()
	assert.False(t, ok)
}

func TestBoard_PublishesEvents(t *testing.T) {
	eb := bus.NewEventBus()
	raised := make(chan Advisory, 1)
	dismissed := make(chan string, 1)
	eb.Subscribe(bus.EventTypeAdvisoryRaised, func(e bus.Event) {
		raised <- e.Data["advisory"].(Advisory)
	})
	eb.Subscribe(bus.EventTypeAdvisoryDismissed, func(e bus.Event) {
		dismissed <- e.Data["code"].(string)
	})

	b := NewBoard(eb, time.Minute)
	b.Raise(Advisory{Code: "text-only", Level: LevelInfo})
	b.Dismiss()

	select {
	case a := <-raised:
		assert.Equal(t, "text-only", a.Code)
	case <-time.After(time.Second):
		t.Fatal("raised event not published")
	}
	select {
	case code := <-dismissed:
		assert.Equal(t, "text-only", code)
	case <-time.After(time.Second):
		t.Fatal("dismissed event not published")
	}
}
