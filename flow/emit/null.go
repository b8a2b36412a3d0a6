package emit

// NullEmitter implements Emitter by discarding all events.
//
// Use it when a run should produce no observability output, or in tests
// that do not inspect events.
type NullEmitter struct{}

// NewNullEmitter creates a NullEmitter.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit discards the event.
func (n *NullEmitter) Emit(event Event) {}
