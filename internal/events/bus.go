package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventHandler reacts to one reduce/solve lifecycle event, e.g. to push
// ReduceCompleted/SolveCompleted onto a metrics sink or a UI stream.
type EventHandler func(*Event)

// Bus fans a reduce/solve lifecycle event out to every handler subscribed
// to its EventType. No handlers are registered by default; the HTTP
// handlers always publish through it via Manager so a future subscriber
// (metrics, a UI push channel) can attach without touching them.
type Bus struct {
	subscribers map[EventType][]EventHandler
	mu          sync.RWMutex
	log         zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[EventType][]EventHandler),
		log:         log.With().Str("service", "events").Logger(),
	}
}

// Subscribe registers a handler for an event type
func (b *Bus) Subscribe(eventType EventType, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Emit publishes an event to all subscribers
func (b *Bus) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Module:    module,
	}

	b.mu.RLock()
	handlers := b.subscribers[eventType]
	b.mu.RUnlock()

	// Execute handlers asynchronously
	for _, handler := range handlers {
		go handler(event)
	}

	b.log.Debug().
		Str("event_type", string(eventType)).
		Str("module", module).
		Int("subscribers", len(handlers)).
		Msg("event emitted")
}
