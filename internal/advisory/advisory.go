// Package advisory tracks the single user-visible notice shown next to the
// conversation: transient notices dismiss themselves, sticky ones stay until
// the user dismisses them.
package advisory

import (
	"slices"
	"sync"
	"time"

	"github.com/normanking/voicevedic/internal/bus"
)

// DefaultTTL is how long a transient advisory stays visible.
const DefaultTTL = 4 * time.Second

// Level is the severity of an advisory.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Advisory is a non-blocking notice for the user.
type Advisory struct {
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Level    Level         `json:"level"`
	Sticky   bool          `json:"sticky"`
	TTL      time.Duration `json:"ttl,omitempty"`
	RaisedAt time.Time     `json:"raisedAt"`
}

// Board holds the current advisory.
type Board struct {
	mu         sync.Mutex
	current    *Advisory
	timer      *time.Timer
	gen        uint64
	eventBus   *bus.EventBus
	defaultTTL time.Duration
}

// NewBoard creates a board. eventBus may be nil.
func NewBoard(eventBus *bus.EventBus, defaultTTL time.Duration) *Board {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Board{eventBus: eventBus, defaultTTL: defaultTTL}
}

// Raise shows a. A transient advisory never replaces a sticky one.
func (b *Board) Raise(a Advisory) {
	if a.RaisedAt.IsZero() {
		a.RaisedAt = time.Now()
	}
	if !a.Sticky && a.TTL <= 0 {
		a.TTL = b.defaultTTL
	}

	b.mu.Lock()
	if b.current != nil && b.current.Sticky && !a.Sticky {
		b.mu.Unlock()
		return
	}
	b.stopTimerLocked()
	b.gen++
	gen := b.gen
	b.current = &a
	if !a.Sticky {
		b.timer = time.AfterFunc(a.TTL, func() { b.expire(gen) })
	}
	b.mu.Unlock()

	b.eventBus.Publish(bus.Event{
		Type: bus.EventTypeAdvisoryRaised,
		Data: map[string]any{"advisory": a},
	})
}

// Dismiss removes the current advisory, sticky or not.
func (b *Board) Dismiss() {
	b.mu.Lock()
	dismissed := b.clearLocked()
	b.mu.Unlock()
	b.publishDismissed(dismissed)
}

// ClearIf dismisses the current advisory when its code is one of codes.
func (b *Board) ClearIf(codes ...string) bool {
	b.mu.Lock()
	if b.current == nil || !slices.Contains(codes, b.current.Code) {
		b.mu.Unlock()
		return false
	}
	dismissed := b.clearLocked()
	b.mu.Unlock()
	b.publishDismissed(dismissed)
	return true
}

// Current returns the visible advisory, if any.
func (b *Board) Current() (Advisory, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Advisory{}, false
	}
	return *b.current, true
}

func (b *Board) expire(gen uint64) {
	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	dismissed := b.clearLocked()
	b.mu.Unlock()
	b.publishDismissed(dismissed)
}

func (b *Board) clearLocked() *Advisory {
	b.stopTimerLocked()
	b.gen++
	dismissed := b.current
	b.current = nil
	return dismissed
}

func (b *Board) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Board) publishDismissed(a *Advisory) {
	if a == nil {
		return
	}
	b.eventBus.Publish(bus.Event{
		Type: bus.EventTypeAdvisoryDismissed,
		Data: map[string]any{"code": a.Code},
	})
}
