package emit

import "sync"

// BufferedEmitter implements Emitter by storing events in memory, keyed by
// execution ID.
//
// It backs post-run inspection: UI panels and tests can query the full
// event history of a run after it finished, within the engine's grace
// period or beyond.
//
// All events are kept in memory; clear finished runs with Clear when event
// volume matters.
type BufferedEmitter struct {
	mu     sync.RWMutex
	events map[string][]Event // executionID -> events in emission order
}

// HistoryFilter selects a subset of a run's events. Empty fields match
// everything; set fields are combined with AND.
type HistoryFilter struct {
	// NodeID filters to events for one node.
	NodeID string

	// Name filters to one event name (e.g. NodeCompleted).
	Name string
}

// NewBufferedEmitter creates an empty BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{events: make(map[string][]Event)}
}

// Emit stores the event in the buffer.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[event.ExecutionID] = append(b.events[event.ExecutionID], event)
}

// History returns a copy of all events for an execution, in emission order.
func (b *BufferedEmitter) History(executionID string) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	events := b.events[executionID]
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// HistoryWithFilter returns the events for an execution matching the filter.
func (b *BufferedEmitter) HistoryWithFilter(executionID string, filter HistoryFilter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Event
	for _, ev := range b.events[executionID] {
		if filter.NodeID != "" && ev.NodeID != filter.NodeID {
			continue
		}
		if filter.Name != "" && ev.Name != filter.Name {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Clear drops the stored events for one execution, or for all executions
// when executionID is empty.
func (b *BufferedEmitter) Clear(executionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if executionID == "" {
		b.events = make(map[string][]Event)
		return
	}
	delete(b.events, executionID)
}
