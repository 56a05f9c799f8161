// Package logging provides structured logging with file and console output.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogEntry is one captured log line.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Component string `json:"component"`
	Message   string `json:"message"`
	Data      string `json:"data,omitempty"`
}

// Config holds logger configuration
type Config struct {
	Dir        string        // Directory for log files (default: ~/.voicevedic/logs)
	Level      string        // Minimum level: debug, info, warn, error (default: info)
	MaxHistory int           // Entries kept in memory (default: 1000)
	Console    bool          // Also write human-readable lines to ConsoleOut
	ConsoleOut io.Writer     // Defaults to os.Stderr so the REPL output stays clean
	Now        func() string // file date stamp; tests override it
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Dir:        filepath.Join(home, ".voicevedic", "logs"),
		Level:      "info",
		MaxHistory: 1000,
	}
}

// Logger wraps zerolog with a daily file and an in-memory history.
type Logger struct {
	zlog    zerolog.Logger
	file    *os.File
	logPath string
	history *history
}

// New creates a Logger writing to a dated file under cfg.Dir.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Dir == "" {
		cfg.Dir = DefaultConfig().Dir
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 1000
	}
	stamp := time.Now().Format("2006-01-02")
	if cfg.Now != nil {
		stamp = cfg.Now()
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	logPath := filepath.Join(cfg.Dir, fmt.Sprintf("voicevedic_%s.log", stamp))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	hist := &history{max: cfg.MaxHistory}
	writers := []io.Writer{file, hist}
	if cfg.Console {
		out := cfg.ConsoleOut
		if out == nil {
			out = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"})
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	zlog := zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("app", "voicevedic").
		Logger()

	l := &Logger{zlog: zlog, file: file, logPath: logPath, history: hist}
	lg := l.Component("logging")
	lg.Debug().
		Str("logFile", logPath).
		Str("level", level.String()).
		Msg("Logger initialized")
	return l, nil
}

// Component returns a zerolog.Logger with the component field set.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zlog.With().Str("component", name).Logger()
}

// Zerolog returns the underlying zerolog.Logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// SetOnLog sets a callback for every captured entry.
func (l *Logger) SetOnLog(fn func(LogEntry)) {
	l.history.mu.Lock()
	l.history.onLog = fn
	l.history.mu.Unlock()
}

// History returns up to limit recent entries, oldest first. A limit of 0
// returns everything kept.
func (l *Logger) History(limit int) []LogEntry {
	return l.history.recent(limit)
}

// Path returns the current log file path.
func (l *Logger) Path() string {
	return l.logPath
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// history is an io.Writer that decodes zerolog's JSON lines into
// LogEntry values.
type history struct {
	mu      sync.Mutex
	entries []LogEntry
	max     int
	onLog   func(LogEntry)
}

// reserved fields are not repeated in LogEntry.Data
var reserved = map[string]bool{
	zerolog.TimestampFieldName: true,
	zerolog.LevelFieldName:     true,
	zerolog.MessageFieldName:   true,
	"component":                true,
	"app":                      true,
}

func (h *history) Write(p []byte) (int, error) {
	var fields map[string]any
	if err := json.Unmarshal(p, &fields); err != nil {
		// not ours to fail the log call over
		return len(p), nil
	}

	entry := LogEntry{
		Timestamp: stringField(fields, zerolog.TimestampFieldName),
		Level:     stringField(fields, zerolog.LevelFieldName),
		Component: stringField(fields, "component"),
		Message:   stringField(fields, zerolog.MessageFieldName),
		Data:      formatData(fields),
	}

	h.mu.Lock()
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	onLog := h.onLog
	h.mu.Unlock()

	if onLog != nil {
		go onLog(entry)
	}
	return len(p), nil
}

func (h *history) recent(limit int) []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	if limit <= 0 || limit > len(h.entries) {
		limit = len(h.entries)
	}
	out := make([]LogEntry, limit)
	copy(out, h.entries[len(h.entries)-limit:])
	return out
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// formatData renders the non-reserved fields as sorted key=value pairs.
func formatData(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, ", ")
}
