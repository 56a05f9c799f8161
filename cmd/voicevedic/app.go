package main

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/normanking/voicevedic/internal/advisory"
	"github.com/normanking/voicevedic/internal/answer"
	"github.com/normanking/voicevedic/internal/assistant"
	"github.com/normanking/voicevedic/internal/bus"
	"github.com/normanking/voicevedic/internal/config"
	"github.com/normanking/voicevedic/internal/conversation"
	"github.com/normanking/voicevedic/internal/knowledge"
	"github.com/normanking/voicevedic/internal/language"
	"github.com/normanking/voicevedic/internal/stt"
	"github.com/normanking/voicevedic/internal/suggest"
	"github.com/normanking/voicevedic/internal/translate"
	"github.com/normanking/voicevedic/internal/tts"
)

// App wires the components of one session.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	EventBus  *bus.EventBus
	Board     *advisory.Board
	Selection *language.Selection
	Engine    *tts.Engine
	Resolver  *tts.Resolver
	Player    *tts.Player
	Capture   *stt.Controller
	Assistant *assistant.Orchestrator

	redis         *redis.Client
	metricsServer *http.Server
	stopWatch     func()
}

// NewApp builds the application from cfg. Optional services that fail to
// start (Redis, speech) degrade to their fallbacks instead of failing.
func NewApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	tag, err := language.Parse(cfg.Language.Default)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Logger:    logger.With().Str("component", "app").Logger(),
		EventBus:  bus.NewEventBus(),
		Selection: language.NewSelection(tag),
	}
	app.Board = advisory.NewBoard(app.EventBus, cfg.Speech.AdvisoryTTL)

	var synth tts.Synthesizer
	if cfg.Speech.Enabled {
		say := cfg.Speech.Say
		synth = tts.NewSaySynthesizer(logger, &say)
	}
	app.Engine = tts.NewEngine(logger, synth, app.Board, app.EventBus, app.Selection, cfg.Speech.EngineConfig())
	policy := cfg.Voices
	app.Resolver = tts.NewResolver(logger, &policy)
	stopResolver := app.Resolver.Watch(app.Engine, app.Selection)
	stopLang := app.Selection.OnChange(func(tag language.Tag) {
		app.EventBus.Publish(bus.Event{
			Type: bus.EventTypeLanguageChanged,
			Data: map[string]any{"lang": string(tag)},
		})
	})
	app.stopWatch = func() {
		stopResolver()
		stopLang()
	}
	app.Player = tts.NewPlayer(logger, app.Engine, app.Resolver, app.Board, app.EventBus, cfg.Speech.PlayerConfig())
	app.Engine.Initialize()

	// no recognizer ships for the terminal; the controller reports that
	capture := cfg.Capture
	app.Capture = stt.NewController(logger, nil, nil, app.Board, app.EventBus, &capture)

	var provider translate.Provider
	if cfg.Translation.APIKey != "" {
		translation := cfg.Translation
		provider = translate.NewHTTPProvider(&translation, logger)
	} else {
		app.Logger.Warn().Msg("No translation key configured, questions are sent untranslated")
	}

	knowledgeCfg := cfg.Knowledge
	limits := cfg.Answer
	var loc assistant.LocationSource
	if cfg.Language.Location != "" {
		loc = assistant.StaticLocation(cfg.Language.Location)
	}

	app.Assistant = assistant.New(logger, assistant.Deps{
		History:    app.newHistory(ctx),
		Selection:  app.Selection,
		Translator: translate.NewGateway(provider, logger),
		Knowledge:  knowledge.NewClient(&knowledgeCfg, logger),
		Processor:  answer.NewProcessor(&limits),
		Speaker:    app.Player,
		Location:   loc,
		Suggester:  suggest.NewEngine(nil, nil),
		EventBus:   app.EventBus,
	}, &assistant.Config{AutoPlay: cfg.Speech.AutoPlay && cfg.Speech.Enabled})

	if cfg.Metrics.Enabled {
		app.startMetrics(cfg.Metrics.Addr)
	}
	return app, nil
}

// newHistory returns Redis-backed history when configured and reachable,
// otherwise history kept in memory for the session.
func (a *App) newHistory(ctx context.Context) conversation.History {
	h := a.Config.History
	if h.Backend != "redis" {
		return conversation.NewMemoryHistory(conversation.MemoryConfig{MaxMessages: h.MaxMessages})
	}

	client := redis.NewClient(&redis.Options{
		Addr:     h.RedisAddr,
		Password: h.Password,
		DB:       h.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		a.Logger.Warn().Err(err).Str("addr", h.RedisAddr).Msg("Redis unavailable, keeping history in memory")
		client.Close()
		return conversation.NewMemoryHistory(conversation.MemoryConfig{MaxMessages: h.MaxMessages})
	}

	a.redis = client
	a.Logger.Info().Str("addr", h.RedisAddr).Str("key", h.Key).Msg("Using Redis history")
	return conversation.NewRedisHistory(client, conversation.RedisConfig{
		Key:         h.Key,
		MaxMessages: int64(h.MaxMessages),
		TTL:         h.TTL,
	})
}

func (a *App) startMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	a.metricsServer = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.Logger.Info().Str("addr", addr).Msg("Serving metrics")
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error().Err(err).Msg("Metrics server failed")
		}
	}()
}

// WatchConfig pushes edited voice settings into the running resolver.
func (a *App) WatchConfig(loader *config.Loader) {
	loader.Watch(func(cfg *config.Config, err error) {
		if err != nil {
			a.Logger.Warn().Err(err).Msg("Ignoring invalid config change")
			return
		}
		policy := cfg.Voices
		a.Resolver.SetPolicy(&policy)
		a.Logger.Info().Msg("Voice policy reloaded")
	})
}

// resumeOn rechecks the voice engine whenever resumed fires. A terminal
// has no visibility events; returning to the foreground is the closest.
func (a *App) resumeOn(ctx context.Context, resumed <-chan os.Signal) {
	if resumed == nil {
		return
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-resumed:
				a.Logger.Debug().Msg("Resumed, checking voice engine")
				a.Engine.OnVisibilityRestored()
			}
		}
	}()
}

// waitForPlayback blocks until message id has finished playing.
func (a *App) waitForPlayback(ctx context.Context, id string) {
	stopped := make(chan struct{}, 1)
	unsub := a.EventBus.Subscribe(bus.EventTypeSpeakingStopped, func(e bus.Event) {
		if e.Data["id"] == id {
			select {
			case stopped <- struct{}{}:
			default:
			}
		}
	})
	defer unsub()

	// playback may already be over, or may never start
	deadline := time.After(a.Config.Speech.ReadyTimeout + a.Config.Speech.Grace + time.Second)
	for {
		select {
		case <-stopped:
			return
		case <-ctx.Done():
			a.Player.Stop()
			return
		case <-deadline:
			if a.Player.PlayingID() != id {
				return
			}
			deadline = time.After(time.Second)
		}
	}
}

// Close cancels speech and releases external resources.
func (a *App) Close() {
	a.Player.Stop()
	a.Capture.Cancel()
	a.Engine.Teardown()
	if a.stopWatch != nil {
		a.stopWatch()
	}
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		a.metricsServer.Shutdown(ctx)
	}
	if a.redis != nil {
		a.redis.Close()
	}
}

// loadEnvFile loads KEY=value lines from .env in the config directory
// into the process environment. Existing variables win.
func loadEnvFile(dir string) {
	if dir == "" {
		d, err := config.GetConfigDir()
		if err != nil {
			return
		}
		dir = d
	}

	file, err := os.Open(filepath.Join(dir, ".env"))
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if os.Getenv(key) == "" {
			os.Setenv(key, strings.Trim(strings.TrimSpace(value), `"'`))
		}
	}
}
