package conversation

import (
	"context"
	"sync"
	"time"
)

// MemoryConfig configures a MemoryHistory.
type MemoryConfig struct {
	// MaxMessages bounds the retained messages; 0 keeps everything.
	MaxMessages int
}

// MemoryHistory keeps messages in process memory for the session.
type MemoryHistory struct {
	mu           sync.RWMutex
	messages     []Message
	lastActivity time.Time
	config       MemoryConfig
}

// NewMemoryHistory creates an empty in-memory history.
func NewMemoryHistory(config MemoryConfig) *MemoryHistory {
	if config.MaxMessages < 0 {
		config.MaxMessages = 0
	}
	return &MemoryHistory{
		messages:     make([]Message, 0, 16),
		lastActivity: time.Now(),
		config:       config,
	}
}

// Append records msg, trimming the oldest messages past MaxMessages.
func (h *MemoryHistory) Append(_ context.Context, msg Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, msg)
	h.lastActivity = time.Now()

	if h.config.MaxMessages > 0 && len(h.messages) > h.config.MaxMessages {
		h.messages = h.messages[len(h.messages)-h.config.MaxMessages:]
	}
	return nil
}

// Messages returns a copy of the stored messages, oldest first.
func (h *MemoryHistory) Messages(_ context.Context) ([]Message, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]Message, len(h.messages))
	copy(result, h.messages)
	return result, nil
}

// Clear removes all messages.
func (h *MemoryHistory) Clear(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = make([]Message, 0, 16)
	h.lastActivity = time.Now()
	return nil
}

// Len returns the number of stored messages.
func (h *MemoryHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// LastActivity returns the time of the most recent append or clear.
func (h *MemoryHistory) LastActivity() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastActivity
}
