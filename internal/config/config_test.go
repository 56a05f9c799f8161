package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	loader, err := NewLoader(dir)
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "config.yaml"))
	def := DefaultConfig()
	assert.Equal(t, def.Language, cfg.Language)
	assert.Equal(t, def.Knowledge, cfg.Knowledge)
	assert.Equal(t, def.Speech, cfg.Speech)
	assert.Equal(t, def.Capture, cfg.Capture)
	assert.Equal(t, def.Answer, cfg.Answer)
	assert.Equal(t, def.History, cfg.History)
	assert.Equal(t, def.Voices.MaxFemale, cfg.Voices.MaxFemale)
	assert.Equal(t, def.Voices.FemaleHints, cfg.Voices.FemaleHints)
	assert.Equal(t, def.Voices.Fallbacks, cfg.Voices.Fallbacks)

	// the written file loads back to the same values
	again, err := NewLoader(dir)
	require.NoError(t, err)
	reloaded, err := again.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := `
language:
  default: kn-IN
  location: Mysuru
knowledge:
  endpoint: https://guide.example.com/ask
  timeout: 20s
speech:
  ready_timeout: 5s
voices:
  max_female: 2
  female_hints: [lekha, veena]
  fallbacks:
    kn: [hi-IN, en]
history:
  backend: redis
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	loader, err := NewLoader(dir)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "kn-IN", cfg.Language.Default)
	assert.Equal(t, "Mysuru", cfg.Language.Location)
	assert.Equal(t, "https://guide.example.com/ask", cfg.Knowledge.Endpoint)
	assert.Equal(t, 20*time.Second, cfg.Knowledge.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Speech.ReadyTimeout)
	assert.Equal(t, 5*time.Second, cfg.Speech.EngineConfig().ReadyTimeout)
	assert.Equal(t, 2, cfg.Voices.MaxFemale)
	assert.Equal(t, []string{"lekha", "veena"}, cfg.Voices.FemaleHints)
	assert.Equal(t, map[string][]string{"kn": {"hi-IN", "en"}}, cfg.Voices.Fallbacks)
	assert.Equal(t, "redis", cfg.History.Backend)

	// untouched keys keep their defaults
	assert.Equal(t, DefaultConfig().Capture, cfg.Capture)
	assert.Equal(t, DefaultConfig().Voices.MaleHints, cfg.Voices.MaleHints)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("VOICEVEDIC_KNOWLEDGE_API_KEY", "from-env")
	t.Setenv("VOICEVEDIC_CAPTURE_SUBMIT_DELAY", "1s")

	dir := t.TempDir()
	loader, err := NewLoader(dir)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Knowledge.APIKey)
	assert.Equal(t, time.Second, cfg.Capture.SubmitDelay)

	data, err := os.ReadFile(loader.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "from-env", "environment secrets are not written to disk")
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("language: [unclosed"), 0644))

	loader, err := NewLoader(dir)
	require.NoError(t, err)
	_, err = loader.Load()
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	loader, err := NewLoader(dir)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Language.Default = "hi-IN"
	cfg.Speech.Grace = 400 * time.Millisecond
	cfg.Metrics.Enabled = true
	require.NoError(t, loader.Save(cfg))

	fresh, err := NewLoader(dir)
	require.NoError(t, err)
	got, err := fresh.Load()
	require.NoError(t, err)

	assert.Equal(t, "hi-IN", got.Language.Default)
	assert.Equal(t, 400*time.Millisecond, got.Speech.PlayerConfig().Grace)
	assert.True(t, got.Metrics.Enabled)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	loader, err := NewLoader(dir)
	require.NoError(t, err)
	_, err = loader.Load()
	require.NoError(t, err)

	reloaded := make(chan *Config, 16)
	loader.Watch(func(cfg *Config, err error) {
		if err != nil {
			return
		}
		select {
		case reloaded <- cfg:
		default:
		}
	})

	cfg := DefaultConfig()
	cfg.Voices.MaxFemale = 1
	require.NoError(t, writeFile(loader.Path(), cfg))

	// a write may be observed mid-way, so wait for the final content
	timeout := time.After(5 * time.Second)
	for {
		select {
		case got := <-reloaded:
			if got.Voices.MaxFemale == 1 {
				return
			}
		case <-timeout:
			t.Fatal("config change not observed")
		}
	}
}
