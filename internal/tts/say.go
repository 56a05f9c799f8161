package tts

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// SayConfig configures the macOS `say` synthesizer.
type SayConfig struct {
	Command string `mapstructure:"command"`
	// WordsPerMinute is the speaking rate at Utterance.Rate 1.0.
	WordsPerMinute int `mapstructure:"words_per_minute"`
}

// DefaultSayConfig returns sensible defaults for `say`.
func DefaultSayConfig() *SayConfig {
	return &SayConfig{
		Command:        "say",
		WordsPerMinute: 175,
	}
}

// SaySynthesizer speaks through the macOS `say` command, which ships
// Lekha (hi_IN) and Rishi/Veena (en_IN) voices on most installs.
type SaySynthesizer struct {
	logger zerolog.Logger
	config *SayConfig

	mu        sync.Mutex
	voices    []Voice
	loaded    bool
	cmd       *exec.Cmd
	cancelled bool
	listeners map[int]func()
	nextID    int
}

// NewSaySynthesizer creates the synthesizer. Voices are listed lazily.
func NewSaySynthesizer(logger zerolog.Logger, config *SayConfig) *SaySynthesizer {
	if config == nil {
		config = DefaultSayConfig()
	}
	return &SaySynthesizer{
		logger:    logger.With().Str("synth", "say").Logger(),
		config:    config,
		listeners: make(map[int]func()),
	}
}

// Name returns the synthesizer identifier.
func (s *SaySynthesizer) Name() string {
	return "say"
}

// Supported checks for macOS and the say binary.
func (s *SaySynthesizer) Supported() bool {
	if runtime.GOOS != "darwin" {
		return false
	}
	_, err := exec.LookPath(s.config.Command)
	return err == nil
}

// Voices lists the installed system voices, cached after the first call.
func (s *SaySynthesizer) Voices() []Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.voices = s.listVoices()
		s.loaded = true
	}
	out := make([]Voice, len(s.voices))
	copy(out, s.voices)
	return out
}

// Refresh re-reads the voice list and notifies listeners when it changed,
// e.g. after the user installed a Kannada voice.
func (s *SaySynthesizer) Refresh() {
	voices := s.listVoices()

	s.mu.Lock()
	changed := !s.loaded || !sameVoices(s.voices, voices)
	s.voices = voices
	s.loaded = true
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if changed {
		for _, fn := range fns {
			go fn()
		}
	}
}

// OnVoicesChanged registers fn, called after Refresh finds new voices.
func (s *SaySynthesizer) OnVoicesChanged(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Speak runs `say` and waits for it to finish.
func (s *SaySynthesizer) Speak(ctx context.Context, u Utterance) error {
	args := make([]string, 0, 5)
	if u.Voice.Name != "" {
		args = append(args, "-v", u.Voice.Name)
	}
	if u.Rate > 0 && u.Rate != 1.0 {
		args = append(args, "-r", strconv.Itoa(int(float64(s.config.WordsPerMinute)*u.Rate)))
	}
	args = append(args, "--", u.Text)

	cmd := exec.CommandContext(ctx, s.config.Command, args...)

	s.mu.Lock()
	if s.cmd != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: already speaking", ErrSynthesisFailed)
	}
	s.cmd = cmd
	s.cancelled = false
	s.mu.Unlock()

	s.logger.Debug().
		Str("voice", u.Voice.Name).
		Int("textLen", len(u.Text)).
		Msg("Speaking with say")

	err := cmd.Run()

	s.mu.Lock()
	cancelled := s.cancelled
	s.cmd = nil
	s.mu.Unlock()

	switch {
	case err == nil:
		return nil
	case cancelled || ctx.Err() != nil:
		return ErrInterrupted
	case errors.Is(err, exec.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	default:
		return fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}
}

// Cancel kills the running say process.
func (s *SaySynthesizer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil || s.cmd.Process == nil {
		return
	}
	s.cancelled = true
	if err := s.cmd.Process.Kill(); err != nil {
		s.logger.Debug().Err(err).Msg("Kill say process")
	}
}

// Speaking reports whether a say process is running.
func (s *SaySynthesizer) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

func (s *SaySynthesizer) listVoices() []Voice {
	if !s.Supported() {
		return nil
	}
	output, err := exec.Command(s.config.Command, "-v", "?").Output()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to list say voices")
		return nil
	}
	voices := parseSayVoices(string(output))
	s.logger.Debug().Int("voices", len(voices)).Msg("Listed say voices")
	return voices
}

// parseSayVoices parses `say -v ?` output, one voice per line:
//
//	Lekha               hi_IN    # नमस्ते, मेरा नाम लेखा है।
//	Eddy (English (UK)) en_GB    # Hello! My name is Eddy.
func parseSayVoices(output string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(output, "\n") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		locale := fields[len(fields)-1]
		if !strings.Contains(locale, "_") && !strings.Contains(locale, "-") {
			continue
		}
		voices = append(voices, Voice{
			Name: strings.Join(fields[:len(fields)-1], " "),
			Lang: strings.ReplaceAll(locale, "_", "-"),
		})
	}
	return voices
}

func sameVoices(a, b []Voice) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
