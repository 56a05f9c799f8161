// VoiceVedic - a multilingual voice assistant for Vedic calendar guidance
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/normanking/voicevedic/internal/config"
	"github.com/normanking/voicevedic/internal/language"
	"github.com/normanking/voicevedic/internal/logging"
	"github.com/normanking/voicevedic/internal/tts"
)

var (
	configDir   string
	langFlag    string
	verbose     bool
	metricsAddr string
	noSpeech    bool
)

var rootCmd = &cobra.Command{
	Use:   "voicevedic",
	Short: "VoiceVedic - ask about tithi, muhurat and rituals in English, Hindi or Kannada",
	Long: `VoiceVedic answers questions about the Hindu calendar and daily practice.
Questions in Hindi or Kannada are translated for the guidance service and
the answer is translated back; answers are read aloud with the best voice
installed for the script.

Configuration:
  $HOME/.voicevedic/config.yaml (created on first run)

Environment Variables:
  VOICEVEDIC_KNOWLEDGE_API_KEY    - guidance service credential
  VOICEVEDIC_TRANSLATION_API_KEY  - translation provider credential
  VOICEVEDIC_LANGUAGE_DEFAULT     - starting language (en-IN, hi-IN, kn-IN)`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return chatCmd.RunE(cmd, args)
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *App) error {
			return runChat(ctx, app, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *App) error {
			msg, err := app.Assistant.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			renderAnswer(cmd.OutOrStdout(), msg.Content, app.Selection.Current(), true)
			if app.Config.Speech.AutoPlay && app.Engine.Mode() != tts.ModeDisabled {
				// let the scheduled playback finish before exiting
				app.waitForPlayback(ctx, msg.ID)
			}
			return nil
		})
	},
}

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List installed voices and the voices chosen per language",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *App) error {
			waitCtx, cancel := context.WithTimeout(ctx, app.Config.Speech.ReadyTimeout+time.Second)
			defer cancel()
			if err := app.Engine.WaitReady(waitCtx); err != nil {
				return fmt.Errorf("voice engine not ready: %w", err)
			}
			printVoices(cmd.OutOrStdout(), app)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default is $HOME/.voicevedic)")
	rootCmd.PersistentFlags().StringVarP(&langFlag, "lang", "l", "", "language: en, hi or kn (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also log to stderr")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.PersistentFlags().BoolVar(&noSpeech, "no-speech", false, "disable voice playback")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(voicesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp loads configuration, builds the application and runs fn until
// it returns or the process is interrupted.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	loader, err := config.NewLoader(configDir)
	if err != nil {
		return fmt.Errorf("failed to locate configuration: %w", err)
	}
	loadEnvFile(configDir)

	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if langFlag != "" {
		cfg.Language.Default = langFlag
	}
	if metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = metricsAddr
	}
	if noSpeech {
		cfg.Speech.Enabled = false
	}
	if verbose {
		cfg.Log.Console = true
	}
	if _, err := language.Parse(cfg.Language.Default); err != nil {
		return err
	}

	logger, err := logging.New(&logging.Config{
		Dir:        cfg.Log.Dir,
		Level:      cfg.Log.Level,
		MaxHistory: cfg.Log.MaxHistory,
		Console:    cfg.Log.Console,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, logger.Zerolog())
	if err != nil {
		return err
	}
	defer app.Close()

	app.WatchConfig(loader)
	resumed, stopResume := notifyResume()
	defer stopResume()
	app.resumeOn(ctx, resumed)
	return fn(ctx, app)
}
