// Package bus carries state changes (speaking, listening, advisories,
// conversation updates) between components without coupling them.
package bus

import (
	"sync"
)

// EventType names a kind of state change.
type EventType string

const (
	EventTypeMessageAppended     EventType = "conversation.message_appended"
	EventTypeConversationCleared EventType = "conversation.cleared"
	EventTypeAskStarted          EventType = "assistant.ask_started"
	EventTypeAskFinished         EventType = "assistant.ask_finished"

	EventTypeEngineReady     EventType = "engine.ready"
	EventTypeVoicesChanged   EventType = "engine.voices_changed"
	EventTypeSpeakingStarted EventType = "speech.speaking_started"
	EventTypeSpeakingStopped EventType = "speech.speaking_stopped"

	EventTypeListeningStarted EventType = "capture.listening_started"
	EventTypeListeningStopped EventType = "capture.listening_stopped"
	EventTypeTranscript       EventType = "capture.transcript"

	EventTypeAdvisoryRaised    EventType = "advisory.raised"
	EventTypeAdvisoryDismissed EventType = "advisory.dismissed"

	EventTypeLanguageChanged EventType = "language.changed"
)

// Event is one published state change.
type Event struct {
	Type EventType
	Data map[string]any
}

// Handler receives events.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// EventBus fans events out to subscribers. The zero value is not usable;
// a nil *EventBus drops everything, so components may take it optionally.
type EventBus struct {
	mu     sync.RWMutex
	subs   map[EventType][]subscription
	nextID uint64
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[EventType][]subscription)}
}

// Subscribe registers handler for eventType. The returned func removes it.
func (b *EventBus) Subscribe(eventType EventType, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[eventType] = append(b.subs[eventType], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() { b.remove(eventType, id) }
}

// SubscribeMultiple registers handler for each of eventTypes.
func (b *EventBus) SubscribeMultiple(eventTypes []EventType, handler Handler) func() {
	unsubs := make([]func(), 0, len(eventTypes))
	for _, et := range eventTypes {
		unsubs = append(unsubs, b.Subscribe(et, handler))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// Publish delivers event to every subscriber on its own goroutine and
// returns immediately.
func (b *EventBus) Publish(event Event) {
	if b == nil {
		return
	}
	for _, h := range b.handlers(event.Type) {
		go h(event)
	}
}

// PublishSync delivers event and waits for every handler to return.
func (b *EventBus) PublishSync(event Event) {
	if b == nil {
		return
	}
	var wg sync.WaitGroup
	for _, h := range b.handlers(event.Type) {
		wg.Add(1)
		go func(h Handler) {
			defer wg.Done()
			h(event)
		}(h)
	}
	wg.Wait()
}

// Clear drops every subscription.
func (b *EventBus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[EventType][]subscription)
}

func (b *EventBus) handlers(eventType EventType) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	subs := b.subs[eventType]
	out := make([]Handler, len(subs))
	for i, s := range subs {
		out[i] = s.handler
	}
	return out
}

func (b *EventBus) remove(eventType EventType, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[eventType]
	for i, s := range subs {
		if s.id == id {
			b.subs[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}
