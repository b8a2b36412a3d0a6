package emit

import "sync"

// Handler consumes events delivered through a Bus subscription.
type Handler func(event Event)

// Bus is an in-process publish/subscribe event bus.
//
// Subscribers register per event name; handlers for one event are invoked
// synchronously in subscription order, which preserves the per-node event
// ordering the engine guarantees. Wrap a Bus in a BufferedEmitter when
// subscribers are slow.
//
// Bus implements Emitter, so it plugs directly into the engine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	all      []Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe registers a handler for one event name.
func (b *Bus) Subscribe(name string, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// SubscribeAll registers a handler that receives every event, useful for
// log shippers and test recorders.
func (b *Bus) SubscribeAll(h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Publish delivers an event to all matching handlers.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	named := b.handlers[event.Name]
	all := b.all
	b.mu.RUnlock()

	for _, h := range named {
		h(event)
	}
	for _, h := range all {
		h(event)
	}
}

// Emit implements the Emitter interface.
func (b *Bus) Emit(event Event) { b.Publish(event) }
