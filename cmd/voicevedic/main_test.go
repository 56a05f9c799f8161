package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/voicevedic/internal/config"
	"github.com/normanking/voicevedic/internal/language"
	"github.com/normanking/voicevedic/internal/testutil"
	"github.com/normanking/voicevedic/internal/tts"
)

const structuredAnswer = "🪔 Jai Shree Krishna.\n📅 TIMING DETAILS:\n• Sunrise: 6:00 AM\n• Tithi: Amavasya\n✨ GUIDANCE:\n• Offer prayers"

type locationLog struct {
	mu   sync.Mutex
	seen []string
}

func (l *locationLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.seen...)
}

func newTestApp(t *testing.T, answer string) (*App, *locationLog) {
	t.Helper()
	locations := &locationLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Location string `json:"location"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		locations.mu.Lock()
		locations.seen = append(locations.seen, req.Location)
		locations.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]string{"answer": answer})
	}))
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.Knowledge.Endpoint = server.URL
	cfg.Knowledge.APIKey = "test"
	cfg.Speech.Enabled = false

	app, err := NewApp(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app, locations
}

func TestNewApp_SpeechDisabled(t *testing.T) {
	app, _ := newTestApp(t, structuredAnswer)

	require.NoError(t, app.Engine.WaitReady(context.Background()))
	assert.Equal(t, tts.ModeDisabled, app.Engine.Mode())
	assert.Equal(t, language.English, app.Selection.Current())
	assert.False(t, app.Capture.Supported())
}

func TestNewApp_RejectsUnknownLanguage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Language.Default = "fr-FR"

	_, err := NewApp(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewApp_RedisUnavailableFallsBackToMemory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Speech.Enabled = false
	cfg.History.Backend = "redis"
	cfg.History.RedisAddr = "127.0.0.1:1"

	app, err := NewApp(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.redis)
	msgs, err := app.Assistant.Messages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestRunChat_Session(t *testing.T) {
	app, locations := newTestApp(t, structuredAnswer)

	in := strings.NewReader(strings.Join([]string{
		"When is the next Amavasya in Mumbai?",
		"/more",
		"/suggest rahu",
		"/lang hi",
		"/lang",
		"/lang xx",
		"/play 5",
		"/bogus",
		"/quit",
		"never asked",
	}, "\n"))
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), app, in, &out))

	got := out.String()
	assert.Contains(t, got, "🪔 Jai Shree Krishna.")
	assert.Contains(t, got, "📅 Timing details")
	assert.Contains(t, got, "  • Sunrise: 6:00 AM")
	assert.Contains(t, got, "  • Offer prayers")
	assert.Contains(t, got, "1. What is Rahu Kaal today?")
	assert.Contains(t, got, "Language: हिन्दी")
	assert.Contains(t, got, "Error: ")
	assert.Contains(t, got, "No answer to play.")
	assert.Contains(t, got, "Unknown command /bogus")
	assert.Equal(t, []string{"Mumbai"}, locations.all())
	assert.Equal(t, language.Hindi, app.Selection.Current())
}

func TestRunChat_Clear(t *testing.T) {
	app, _ := newTestApp(t, "Ekadashi is a day of fasting.")

	in := strings.NewReader("What is Ekadashi?\n/clear\n/more\n")
	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), app, in, &out))

	assert.Contains(t, out.String(), "Conversation cleared.")
	msgs, err := app.Assistant.Messages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestRenderAnswer(t *testing.T) {
	t.Run("unstructured is verbatim", func(t *testing.T) {
		var out bytes.Buffer
		renderAnswer(&out, "🪔 Jai Shree Krishna.\nBe kind.", language.English, false)
		assert.Equal(t, "🪔 Jai Shree Krishna.\nBe kind.\n", out.String())
	})

	t.Run("guidance collapses past the limit", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("✨ GUIDANCE:\n")
		for i := 0; i < 10; i++ {
			b.WriteString("• Step\n")
		}

		var collapsed, expanded bytes.Buffer
		renderAnswer(&collapsed, b.String(), language.English, false)
		renderAnswer(&expanded, b.String(), language.English, true)

		assert.Equal(t, 8, strings.Count(collapsed.String(), "• Step"))
		assert.Contains(t, collapsed.String(), "2 more, type /more")
		assert.Equal(t, 10, strings.Count(expanded.String(), "• Step"))
	})

	t.Run("headers follow the language", func(t *testing.T) {
		var out bytes.Buffer
		renderAnswer(&out, structuredAnswer, language.Kannada, false)
		assert.Contains(t, out.String(), "📅 ಸಮಯದ ವಿವರಗಳು")
	})
}

func TestPrintVoices(t *testing.T) {
	app, _ := newTestApp(t, structuredAnswer)

	var out bytes.Buffer
	printVoices(&out, app)

	assert.Contains(t, out.String(), "Voice engine: disabled")
	assert.Contains(t, out.String(), tts.Placeholder.Name)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "# keys\nVOICEVEDIC_TEST_A=\"quoted\"\nVOICEVEDIC_TEST_B = plain\nnot a pair\nVOICEVEDIC_TEST_C=from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0600))
	t.Setenv("VOICEVEDIC_TEST_A", "")
	t.Setenv("VOICEVEDIC_TEST_B", "")
	t.Setenv("VOICEVEDIC_TEST_C", "from-env")

	loadEnvFile(dir)

	assert.Equal(t, "quoted", os.Getenv("VOICEVEDIC_TEST_A"))
	assert.Equal(t, "plain", os.Getenv("VOICEVEDIC_TEST_B"))
	assert.Equal(t, "from-env", os.Getenv("VOICEVEDIC_TEST_C"))
}

func TestResumeReattachesVoiceEngine(t *testing.T) {
	app, _ := newTestApp(t, structuredAnswer)

	synth := testutil.NewFakeSynthesizer(true, tts.Voice{Name: "Lekha", Lang: "hi-IN"})
	app.Engine = tts.NewEngine(zerolog.Nop(), synth, nil, nil, app.Selection, nil)
	app.Engine.Initialize()
	require.Equal(t, tts.StateReady, app.Engine.State())
	require.Equal(t, 1, synth.Listeners())

	app.Engine.Teardown()
	require.Zero(t, synth.Listeners())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	resumed := make(chan os.Signal, 1)
	app.resumeOn(ctx, resumed)

	resumed <- os.Interrupt
	assert.Eventually(t, func() bool { return synth.Listeners() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, tts.ModeFull, app.Engine.Mode())
}
