// Package config provides configuration management for VoiceVedic.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/normanking/voicevedic/internal/answer"
	"github.com/normanking/voicevedic/internal/knowledge"
	"github.com/normanking/voicevedic/internal/stt"
	"github.com/normanking/voicevedic/internal/translate"
	"github.com/normanking/voicevedic/internal/tts"
)

// EnvPrefix prefixes environment overrides, e.g. VOICEVEDIC_KNOWLEDGE_API_KEY.
const EnvPrefix = "VOICEVEDIC"

// Config holds all application configuration
type Config struct {
	Language    LanguageConfig       `mapstructure:"language"`
	Knowledge   knowledge.Config     `mapstructure:"knowledge"`
	Translation translate.HTTPConfig `mapstructure:"translation"`
	Speech      SpeechConfig         `mapstructure:"speech"`
	Voices      tts.VoicePolicy      `mapstructure:"voices"`
	Capture     stt.ControllerConfig `mapstructure:"capture"`
	Answer      answer.Limits        `mapstructure:"answer"`
	History     HistoryConfig        `mapstructure:"history"`
	Log         LogConfig            `mapstructure:"log"`
	Metrics     MetricsConfig        `mapstructure:"metrics"`
}

// LanguageConfig selects the starting language.
type LanguageConfig struct {
	Default string `mapstructure:"default"`
	// Location is the last known place, used when a question names none.
	Location string `mapstructure:"location"`
}

// SpeechConfig configures the voice engine and playback.
type SpeechConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	AutoPlay     bool          `mapstructure:"auto_play"`
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
	Grace        time.Duration `mapstructure:"grace"`
	Rate         float64       `mapstructure:"rate"`
	Pitch        float64       `mapstructure:"pitch"`
	Volume       float64       `mapstructure:"volume"`
	AdvisoryTTL  time.Duration `mapstructure:"advisory_ttl"`
	Say          tts.SayConfig `mapstructure:"say"`
}

// HistoryConfig selects where the conversation is kept.
type HistoryConfig struct {
	Backend     string        `mapstructure:"backend"` // memory or redis
	MaxMessages int           `mapstructure:"max_messages"`
	RedisAddr   string        `mapstructure:"redis_addr"`
	RedisDB     int           `mapstructure:"redis_db"`
	Password    string        `mapstructure:"redis_password"`
	Key         string        `mapstructure:"key"`
	TTL         time.Duration `mapstructure:"ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"` // empty uses ~/.voicevedic/logs
	Console    bool   `mapstructure:"console"`
	MaxHistory int    `mapstructure:"max_history"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() *Config {
	knowledgeCfg := knowledge.DefaultConfig()
	translateCfg := translate.DefaultHTTPConfig()
	engineCfg := tts.DefaultEngineConfig()
	playerCfg := tts.DefaultPlayerConfig()
	captureCfg := stt.DefaultControllerConfig()

	return &Config{
		Language: LanguageConfig{
			Default: "en-IN",
		},
		Knowledge:   *knowledgeCfg,
		Translation: *translateCfg,
		Speech: SpeechConfig{
			Enabled:      true,
			AutoPlay:     true,
			ReadyTimeout: engineCfg.ReadyTimeout,
			Grace:        playerCfg.Grace,
			Rate:         playerCfg.Rate,
			Pitch:        playerCfg.Pitch,
			Volume:       playerCfg.Volume,
			AdvisoryTTL:  4 * time.Second,
			Say:          *tts.DefaultSayConfig(),
		},
		Voices:  *tts.DefaultVoicePolicy(),
		Capture: *captureCfg,
		Answer:  *answer.DefaultLimits(),
		History: HistoryConfig{
			Backend:   "memory",
			RedisAddr: "localhost:6379",
			Key:       "voicevedic:conversation",
			TTL:       30 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:      "info",
			Console:    false,
			MaxHistory: 1000,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9464",
		},
	}
}

// EngineConfig returns the voice engine settings.
func (s SpeechConfig) EngineConfig() *tts.EngineConfig {
	return &tts.EngineConfig{ReadyTimeout: s.ReadyTimeout}
}

// PlayerConfig returns the playback settings.
func (s SpeechConfig) PlayerConfig() *tts.PlayerConfig {
	return &tts.PlayerConfig{Grace: s.Grace, Rate: s.Rate, Pitch: s.Pitch, Volume: s.Volume}
}

// settings flattens cfg into viper keys. It is the single list of known
// keys: defaults, environment binding and Save all go through it.
func (c *Config) settings() map[string]any {
	return map[string]any{
		"language.default":  c.Language.Default,
		"language.location": c.Language.Location,

		"knowledge.endpoint": c.Knowledge.Endpoint,
		"knowledge.api_key":  c.Knowledge.APIKey,
		"knowledge.timeout":  c.Knowledge.Timeout.String(),

		"translation.endpoint": c.Translation.Endpoint,
		"translation.api_key":  c.Translation.APIKey,
		"translation.timeout":  c.Translation.Timeout.String(),

		"speech.enabled":              c.Speech.Enabled,
		"speech.auto_play":            c.Speech.AutoPlay,
		"speech.ready_timeout":        c.Speech.ReadyTimeout.String(),
		"speech.grace":                c.Speech.Grace.String(),
		"speech.rate":                 c.Speech.Rate,
		"speech.pitch":                c.Speech.Pitch,
		"speech.volume":               c.Speech.Volume,
		"speech.advisory_ttl":         c.Speech.AdvisoryTTL.String(),
		"speech.say.command":          c.Speech.Say.Command,
		"speech.say.words_per_minute": c.Speech.Say.WordsPerMinute,

		"voices.female_hints": c.Voices.FemaleHints,
		"voices.male_hints":   c.Voices.MaleHints,
		"voices.max_female":   c.Voices.MaxFemale,
		"voices.max_fallback": c.Voices.MaxFallback,
		"voices.fallbacks":    c.Voices.Fallbacks,

		"capture.submit_delay": c.Capture.SubmitDelay.String(),
		"capture.max_duration": c.Capture.MaxDuration.String(),

		"answer.calendar_lines": c.Answer.CalendarLines,
		"answer.general_lines":  c.Answer.GeneralLines,
		"answer.max_sentences":  c.Answer.MaxSentences,

		"history.backend":        c.History.Backend,
		"history.max_messages":   c.History.MaxMessages,
		"history.redis_addr":     c.History.RedisAddr,
		"history.redis_db":       c.History.RedisDB,
		"history.redis_password": c.History.Password,
		"history.key":            c.History.Key,
		"history.ttl":            c.History.TTL.String(),

		"log.level":       c.Log.Level,
		"log.dir":         c.Log.Dir,
		"log.console":     c.Log.Console,
		"log.max_history": c.Log.MaxHistory,

		"metrics.enabled": c.Metrics.Enabled,
		"metrics.addr":    c.Metrics.Addr,
	}
}

// Loader reads, writes and watches one config file.
type Loader struct {
	v   *viper.Viper
	dir string

	mu       sync.Mutex
	watching bool
}

// NewLoader creates a loader for dir/config.yaml. An empty dir uses
// ~/.voicevedic.
func NewLoader(dir string) (*Loader, error) {
	if dir == "" {
		d, err := GetConfigDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	// Environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range DefaultConfig().settings() {
		v.SetDefault(key, value)
	}
	return &Loader{v: v, dir: dir}, nil
}

// Load reads configuration from file and environment. A missing file is
// created from the defaults.
func (l *Loader) Load() (*Config, error) {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := writeFile(l.Path(), DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to the config file. Environment overrides are not
// persisted.
func (l *Loader) Save(cfg *Config) error {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return err
	}
	return writeFile(l.Path(), cfg)
}

func writeFile(path string, cfg *Config) error {
	out := viper.New()
	for key, value := range cfg.settings() {
		out.Set(key, value)
	}
	return out.WriteConfigAs(path)
}

// Watch calls fn with the reloaded configuration whenever the file
// changes. Reload errors are passed to fn with a nil config.
func (l *Loader) Watch(fn func(*Config, error)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(l.decode())
	})
	if !l.watching {
		l.v.WatchConfig()
		l.watching = true
	}
}

// Path returns the config file path.
func (l *Loader) Path() string {
	return filepath.Join(l.dir, "config.yaml")
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".voicevedic"), nil
}
